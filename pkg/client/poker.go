package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/funpoker/funpoker/pkg/poker"
	"github.com/funpoker/funpoker/pkg/wire"
)

// GameConn is a live table connection. The server pushes table
// snapshots and other notifications; the client answers with action
// requests while on turn.
type GameConn struct {
	userID int64
	conn   *websocket.Conn
}

// Connect opens the websocket for the user.
func (c *Client) Connect(userID int64) (*GameConn, error) {
	url := "ws" + strings.TrimPrefix(c.base, "http") + fmt.Sprintf("/ws?user_id=%d", userID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %v", err)
	}
	return &GameConn{userID: userID, conn: conn}, nil
}

// Next blocks until the server pushes a message and returns its type
// and raw payload.
func (gc *GameConn) Next(timeout time.Duration) (wire.ResponseType, []byte, error) {
	if timeout > 0 {
		gc.conn.SetReadDeadline(time.Now().Add(timeout))
	}
	_, data, err := gc.conn.ReadMessage()
	if err != nil {
		return 0, nil, err
	}
	var env wire.ResponseMessage
	if err := wire.Unmarshal(data, &env); err != nil {
		return 0, nil, fmt.Errorf("malformed message: %v", err)
	}
	return env.Type, env.Payload, nil
}

// NextState blocks until the next table snapshot, skipping other
// notification types.
func (gc *GameConn) NextState(timeout time.Duration) (*poker.ClientState, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if timeout > 0 && remaining <= 0 {
			return nil, fmt.Errorf("no table snapshot within %s", timeout)
		}
		t, payload, err := gc.Next(remaining)
		if err != nil {
			return nil, err
		}
		if t != wire.TypeClientState {
			continue
		}
		var state poker.ClientState
		if err := wire.Unmarshal(payload, &state); err != nil {
			return nil, fmt.Errorf("malformed table snapshot: %v", err)
		}
		return &state, nil
	}
}

// SendAction submits the player's move for the lobby.
func (gc *GameConn) SendAction(lobbyID int64, action *poker.Action) error {
	buf, err := wire.Marshal(&poker.ActionRequest{
		PlayerID: gc.userID,
		LobbyID:  lobbyID,
		Action:   action,
	})
	if err != nil {
		return err
	}
	return gc.conn.WriteMessage(websocket.BinaryMessage, buf)
}

// Close tears the connection down.
func (gc *GameConn) Close() error {
	return gc.conn.Close()
}
