// Package client is the Go client for the funpoker server: lobby
// management over HTTP and live play over the websocket endpoint.
package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/decred/slog"

	"github.com/funpoker/funpoker/pkg/wire"
)

// Client talks to one funpoker server.
type Client struct {
	base string
	http *http.Client
	log  slog.Logger
}

// NewClient builds a client against the server at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, log slog.Logger) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  log,
	}
}

// post sends msg and decodes the enveloped reply into reply, verifying
// the response type.
func (c *Client) post(path string, msg interface{}, want wire.ResponseType, reply interface{}) error {
	buf, err := wire.Marshal(msg)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.base+path, "application/octet-stream", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.decode(resp, want, reply)
}

func (c *Client) decode(resp *http.Response, want wire.ResponseType, reply interface{}) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var env wire.ResponseMessage
	if err := wire.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("malformed response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		var status wire.StatusResponse
		if err := wire.Unmarshal(env.Payload, &status); err == nil && status.Message != "" {
			return fmt.Errorf("server rejected request: %s", status.Message)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if env.Type != want {
		return fmt.Errorf("unexpected response type %d, want %d", env.Type, want)
	}
	return wire.Unmarshal(env.Payload, reply)
}

// CreateUser registers a user.
func (c *Client) CreateUser(name, email, country string) (*wire.User, error) {
	var u wire.User
	err := c.post("/users", &wire.User{Name: name, Email: email, Country: country},
		wire.TypeUser, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Lobbies lists every lobby on the server.
func (c *Client) Lobbies() ([]wire.Lobby, error) {
	resp, err := c.http.Get(c.base + "/lobbies")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var list wire.LobbyList
	if err := c.decode(resp, wire.TypeLobbyList, &list); err != nil {
		return nil, err
	}
	return list.Lobbies, nil
}

// CreateLobby creates a lobby and returns its listing entry.
func (c *Client) CreateLobby(name string, authorID, blindSize int64) (*wire.Lobby, error) {
	var l wire.Lobby
	err := c.post("/lobbies", &wire.CreateLobbyRequest{
		Name:      name,
		AuthorID:  authorID,
		BlindSize: blindSize,
	}, wire.TypeLobby, &l)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// JoinLobby seats the player at the lobby's table.
func (c *Client) JoinLobby(lobbyID, playerID int64) error {
	var status wire.StatusResponse
	return c.post("/joinLobby", &wire.JoinLobbyRequest{
		LobbyID:  lobbyID,
		PlayerID: playerID,
	}, wire.TypeStatus, &status)
}

// StartGame launches the lobby's game loop.
func (c *Client) StartGame(lobbyID, playerID int64) error {
	var status wire.StatusResponse
	return c.post("/startGame", &wire.StartGameRequest{
		LobbyID:  lobbyID,
		PlayerID: playerID,
	}, wire.TypeStatus, &status)
}

// AddBot seats a server-driven bot at the lobby's table.
func (c *Client) AddBot(lobbyID int64) (*wire.User, error) {
	var u wire.User
	err := c.post("/addBot", &wire.AddBotRequest{LobbyID: lobbyID}, wire.TypeUser, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
