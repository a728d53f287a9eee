package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funpoker/funpoker/pkg/poker"
	"github.com/funpoker/funpoker/pkg/wire"
)

func TestBotClientRequestMove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/poker_move", r.URL.Path)
		require.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var state poker.ClientState
		require.NoError(t, wire.Unmarshal(data, &state))
		assert.Equal(t, int64(2), state.PlayerID)

		buf, err := wire.Marshal(&poker.Action{Type: poker.ActionCall, Amount: 50})
		require.NoError(t, err)
		w.Write(buf)
	}))
	defer srv.Close()

	bc := NewBotClient(srv.URL, time.Second, testLogger())
	action, err := bc.RequestMove(&poker.ClientState{PlayerID: 2, LobbyID: 1})
	require.NoError(t, err)
	assert.Equal(t, poker.ActionCall, action.Type)
	assert.Equal(t, int64(50), action.Amount)
}

func TestBotClientRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	bc := NewBotClient(srv.URL, time.Second, testLogger())
	_, err := bc.RequestMove(&poker.ClientState{PlayerID: 2})
	assert.Error(t, err)
}
