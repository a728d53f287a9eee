package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funpoker/funpoker/pkg/wire"
)

func newTestServer(t *testing.T) (*httptest.Server, *Orchestrator) {
	t.Helper()
	o, _ := newTestOrchestrator(t)
	h := NewHandlers(o, NewSocketPool(testLogger()), testLogger())
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv, o
}

func post(t *testing.T, url string, msg interface{}) *http.Response {
	t.Helper()
	buf, err := wire.Marshal(msg)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/octet-stream", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response, payload interface{}) wire.ResponseType {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env wire.ResponseMessage
	require.NoError(t, wire.Unmarshal(data, &env))
	require.NoError(t, wire.Unmarshal(env.Payload, payload))
	return env.Type
}

func TestHandlersCreateUserAndLobby(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := post(t, srv.URL+"/users", &wire.User{Name: "alice", Country: "BR"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u wire.User
	assert.Equal(t, wire.TypeUser, decodeEnvelope(t, resp, &u))
	require.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Name)

	resp = post(t, srv.URL+"/lobbies", &wire.CreateLobbyRequest{
		Name:      "main",
		AuthorID:  u.ID,
		BlindSize: 100,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var l wire.Lobby
	assert.Equal(t, wire.TypeLobby, decodeEnvelope(t, resp, &l))
	assert.Equal(t, "main", l.Name)

	resp, err := http.Get(srv.URL + "/lobbies")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list wire.LobbyList
	assert.Equal(t, wire.TypeLobbyList, decodeEnvelope(t, resp, &list))
	require.Len(t, list.Lobbies, 1)
	assert.Equal(t, l.ID, list.Lobbies[0].ID)
}

func TestHandlersCreateUserRequiresName(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := post(t, srv.URL+"/users", &wire.User{Country: "BR"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlersJoinAndStart(t *testing.T) {
	srv, o := newTestServer(t)

	u, err := o.CreateUser("alice", "", "")
	require.NoError(t, err)
	l, err := o.CreateLobby("main", u.ID, 100)
	require.NoError(t, err)

	resp := post(t, srv.URL+"/joinLobby", &wire.JoinLobbyRequest{LobbyID: l.ID, PlayerID: u.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status wire.StatusResponse
	decodeEnvelope(t, resp, &status)
	assert.True(t, status.Ok)

	resp = post(t, srv.URL+"/joinLobby", &wire.JoinLobbyRequest{LobbyID: l.ID + 99, PlayerID: u.ID})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, srv.URL+"/startGame", &wire.StartGameRequest{LobbyID: l.ID, PlayerID: u.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeEnvelope(t, resp, &status)
	assert.True(t, status.Ok)
}

func TestHandlersAddBot(t *testing.T) {
	srv, o := newTestServer(t)

	u, err := o.CreateUser("alice", "", "")
	require.NoError(t, err)
	l, err := o.CreateLobby("main", u.ID, 100)
	require.NoError(t, err)

	resp := post(t, srv.URL+"/addBot", &wire.AddBotRequest{LobbyID: l.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bot wire.User
	assert.Equal(t, wire.TypeUser, decodeEnvelope(t, resp, &bot))
	assert.NotZero(t, bot.ID)
}

func TestHandlersWebsocketRequiresUserID(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
