package e2e

import (
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/decred/slog"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funpoker/funpoker/pkg/bot"
	"github.com/funpoker/funpoker/pkg/client"
	"github.com/funpoker/funpoker/pkg/poker"
	"github.com/funpoker/funpoker/pkg/server"
)

func testLogger() slog.Logger {
	return slog.NewBackend(io.Discard).Logger("TEST")
}

// startStack runs the whole system: move service, store, socket pool,
// orchestrator and HTTP surface, all on real sockets.
func startStack(t *testing.T) *client.Client {
	t.Helper()

	moveSrv := httptest.NewServer(bot.NewServer(testLogger()).Routes())
	t.Cleanup(moveSrv.Close)

	store, err := server.NewStore(filepath.Join(t.TempDir(), "funpoker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	wp := server.NewWorkerPool(8, 32, testLogger())
	t.Cleanup(wp.Stop)
	pool := server.NewSocketPool(testLogger())
	t.Cleanup(pool.Close)

	cfg := server.DefaultConfig()
	cfg.IdleTimeout = 5 * time.Second
	bots := server.NewBotClient(moveSrv.URL, 2*time.Second, testLogger())
	orc, err := server.NewOrchestrator(cfg, store, pool, bots, wp, testLogger())
	require.NoError(t, err)
	pool.StartHealthChecker(time.Second, orc.HandleConnectionClosed)

	srv := httptest.NewServer(server.NewHandlers(orc, pool, testLogger()).Routes())
	t.Cleanup(srv.Close)
	return client.NewClient(srv.URL, testLogger())
}

// TestHumanVersusBotHand plays a full hand: a websocket-connected
// player calling everything down against the move-service bot, until a
// hand resolves one way or the other.
func TestHumanVersusBotHand(t *testing.T) {
	c := startStack(t)

	u, err := c.CreateUser("alice", "", "")
	require.NoError(t, err)
	l, err := c.CreateLobby("main", u.ID, 100)
	require.NoError(t, err)
	require.NoError(t, c.JoinLobby(l.ID, u.ID))
	_, err = c.AddBot(l.ID)
	require.NoError(t, err)

	gc, err := c.Connect(u.ID)
	require.NoError(t, err)
	defer gc.Close()

	require.NoError(t, c.StartGame(l.ID, u.ID))

	var resolved *poker.ShowdownOutcome
	lastActedAt := -1
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		state, err := gc.NextState(10 * time.Second)
		require.NoError(t, err)

		if state.Showdown != nil {
			resolved = state.Showdown
			break
		}
		if state.CurrPlayerID == nil || *state.CurrPlayerID != u.ID {
			continue
		}
		// One action per game event: a repeated snapshot of the same
		// turn must not trigger a duplicate send.
		if len(state.History) == lastActedAt {
			continue
		}
		lastActedAt = len(state.History)

		action := &poker.Action{Type: poker.ActionCheck}
		if state.AmountToCall != nil && *state.AmountToCall > 0 {
			action = &poker.Action{Type: poker.ActionCall, Amount: *state.AmountToCall}
		}
		require.NoError(t, gc.SendAction(l.ID, action))
	}

	require.NotNil(t, resolved, "hand never resolved")
	var won int64
	for _, w := range resolved.Winners {
		won += w.Amount
	}
	assert.Positive(t, won, "the pot went somewhere")
	if !resolved.Uncontested {
		assert.Len(t, resolved.Board, 5)
		assert.NotEmpty(t, resolved.Revealed)
	}
}
