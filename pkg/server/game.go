package server

import (
	"errors"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"

	"github.com/funpoker/funpoker/pkg/poker"
	"github.com/funpoker/funpoker/pkg/wire"
)

// ErrGameRunning reports that a table's run loop is already active.
var ErrGameRunning = errors.New("game already running")

// Conns is the connection surface the table loop needs from the socket
// pool.
type Conns interface {
	ReadRequest(userID int64, timeout time.Duration) (*poker.ActionRequest, error)
	Send(userID int64, t wire.ResponseType, msg interface{}) error
}

// Game binds one lobby's table state to its run loop. All table state
// (dealer, game state, seats, deck) is guarded by mu: while a hand
// sequence runs, Run holds the lock for the whole game and consumes
// events; when no loop is running, Join and Disconnect take the lock
// directly.
type Game struct {
	lobbyID int64
	log     slog.Logger

	dealer *poker.Dealer
	gs     *poker.GameState
	ps     *poker.PlayerState
	ds     *poker.DeckState

	conns   Conns
	bots    MoveRequester
	workers *WorkerPool

	startingStack int64
	idleTimeout   time.Duration

	mu     sync.Mutex
	events chan event

	// pendingSeat is the player id of the single outstanding move
	// request, zero when none. Replies from any other seat are stale
	// reads and get dropped.
	pendingSeat  int64
	pendingJoins []joinEvent
}

// NewGame creates a table for the lobby. Players join through Join;
// the loop starts with Run.
func NewGame(lobbyID, bigBlind, startingStack int64, idleTimeout time.Duration,
	conns Conns, bots MoveRequester, workers *WorkerPool, log slog.Logger) *Game {

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Game{
		lobbyID:       lobbyID,
		log:           log,
		dealer:        poker.NewDealer(lobbyID, log, poker.NewEvaluator(), rng),
		gs:            poker.NewGameState(bigBlind),
		ps:            &poker.PlayerState{},
		ds:            &poker.DeckState{},
		conns:         conns,
		bots:          bots,
		workers:       workers,
		startingStack: startingStack,
		idleTimeout:   idleTimeout,
		events:        make(chan event, 16),
	}
}

// LobbyID returns the lobby this table belongs to.
func (g *Game) LobbyID() int64 {
	return g.lobbyID
}

// Join seats a player. While a game runs the join is queued and applied
// at the next hand boundary, since seating someone mid-hand would shift
// every seat's turn order.
func (g *Game) Join(playerID int64, name string, isBot bool) {
	g.deliver(joinEvent{playerID: playerID, name: name, isBot: isBot}, func() {
		g.dealer.AddPlayer(g.gs, g.ps, playerID, name, isBot, g.startingStack)
	})
}

// Disconnect reports that the player's connection is gone. During a
// game the seat is force-folded by the run loop; otherwise the status
// is recorded so the next hand deals around the seat.
func (g *Game) Disconnect(playerID int64) {
	g.deliver(disconnectEvent{playerID: playerID}, func() {
		if p, _ := g.ps.Find(playerID); p != nil {
			p.Status = poker.StatusDisconnected
		}
	})
}

// deliver routes an out-of-band event. With the table lock free there
// is no loop consuming events, so direct mutates the state in place;
// otherwise the event goes to the run loop. The send never blocks: a
// full buffer retries against the lock, which frees when the loop
// exits.
func (g *Game) deliver(ev event, direct func()) {
	for {
		if g.mu.TryLock() {
			direct()
			g.mu.Unlock()
			return
		}
		select {
		case g.events <- ev:
			return
		default:
			runtime.Gosched()
		}
	}
}

// Run starts the game and drives it hand after hand until fewer than
// two funded seats remain. It owns all table state for its duration;
// a second concurrent Run returns ErrGameRunning.
func (g *Game) Run() error {
	if !g.mu.TryLock() {
		return ErrGameRunning
	}
	defer func() {
		g.drainEvents()
		g.mu.Unlock()
	}()

	auto, err := g.dealer.StartNewGame(g.gs, g.ps, g.ds)
	if err != nil {
		return err
	}
	g.notifyStarted()
	if auto {
		if err := g.finishHand(); err != nil {
			return err
		}
	}
	g.broadcast()
	g.requestMove()

	for g.gs.Status == poker.GameActive {
		switch ev := (<-g.events).(type) {
		case joinEvent:
			g.pendingJoins = append(g.pendingJoins, ev)
			continue

		case disconnectEvent:
			res, err := g.dealer.ForceFold(ev.playerID, poker.StatusDisconnected, g.gs, g.ps, g.ds)
			if err != nil {
				return err
			}
			if res.HandDone {
				if err := g.finishHand(); err != nil {
					return err
				}
			}

		case actionEvent:
			if ev.playerID != g.pendingSeat {
				g.log.Tracef("lobby %d: dropping stale reply from player %d",
					g.lobbyID, ev.playerID)
				continue
			}
			g.pendingSeat = 0
			if err := g.handleAction(ev); err != nil {
				return err
			}
		}

		g.broadcast()
		g.requestMove()
	}

	g.log.Infof("lobby %d: game over", g.lobbyID)
	g.broadcast()
	return nil
}

func (g *Game) handleAction(ev actionEvent) error {
	if ev.err != nil {
		status := poker.StatusDisconnected
		if p, _ := g.ps.Find(ev.playerID); errors.Is(ev.err, ErrIdle) || (p != nil && p.IsBot) {
			status = poker.StatusSitOut
		}
		g.log.Infof("lobby %d: no move from player %d (%v), folding as %s",
			g.lobbyID, ev.playerID, ev.err, status)
		res, err := g.dealer.ForceFold(ev.playerID, status, g.gs, g.ps, g.ds)
		if err != nil {
			return err
		}
		if res.HandDone {
			return g.finishHand()
		}
		return nil
	}

	res, err := g.dealer.UpdateGameState(ev.req, g.gs, g.ps, g.ds)
	if err != nil {
		return err
	}
	if res.Rejected != nil {
		// A human stays on turn and retries off the refreshed state.
		// A bot is folded out instead of re-asked: a fixed strategy
		// would return the same rejected action every time.
		if p, _ := g.ps.Find(ev.playerID); p != nil && p.IsBot {
			res, err := g.dealer.ForceFold(ev.playerID, poker.StatusSitOut, g.gs, g.ps, g.ds)
			if err != nil {
				return err
			}
			if res.HandDone {
				return g.finishHand()
			}
		}
		return nil
	}
	if res.HandDone {
		return g.finishHand()
	}
	return nil
}

// finishHand publishes the resolved hand, seats queued joiners and
// rolls the table into the next hand. Hands that resolve straight from
// the blinds (everyone all-in) are settled in place until a hand needs
// actual decisions or the table reverts to waiting.
func (g *Game) finishHand() error {
	for {
		g.broadcast()
		g.applyPendingJoins()

		started, auto, err := g.dealer.SetupNextHand(g.gs, g.ps, g.ds)
		if err != nil {
			return err
		}
		if !started || !auto {
			return nil
		}
	}
}

// drainEvents applies whatever is still buffered when the loop stops,
// so queued joins and disconnects are not stranded until the next Run.
// Stale action replies are dropped.
func (g *Game) drainEvents() {
	for {
		select {
		case ev := <-g.events:
			switch ev := ev.(type) {
			case joinEvent:
				g.dealer.AddPlayer(g.gs, g.ps, ev.playerID, ev.name, ev.isBot, g.startingStack)
			case disconnectEvent:
				if p, _ := g.ps.Find(ev.playerID); p != nil {
					p.Status = poker.StatusDisconnected
				}
			}
		default:
			return
		}
	}
}

func (g *Game) applyPendingJoins() {
	for _, ev := range g.pendingJoins {
		g.dealer.AddPlayer(g.gs, g.ps, ev.playerID, ev.name, ev.isBot, g.startingStack)
		g.log.Infof("lobby %d: seated queued player %d", g.lobbyID, ev.playerID)
	}
	g.pendingJoins = g.pendingJoins[:0]
}

// requestMove dispatches one read for the acting seat onto the worker
// pool. At most one request is outstanding per acting seat.
func (g *Game) requestMove() {
	p := g.dealer.CurrentPlayer(g.gs, g.ps)
	if p == nil {
		return
	}
	if g.pendingSeat == p.ID {
		return
	}
	g.pendingSeat = p.ID

	id := p.ID
	if p.IsBot {
		state := g.dealer.ClientStateFor(g.gs, g.ps, p)
		g.workers.Execute(func() {
			action, err := g.bots.RequestMove(state)
			if err != nil {
				g.events <- actionEvent{playerID: id, err: err}
				return
			}
			g.events <- actionEvent{playerID: id, req: &poker.ActionRequest{
				PlayerID: id,
				LobbyID:  g.lobbyID,
				Action:   action,
			}}
		})
		return
	}
	g.workers.Execute(func() {
		req, err := g.conns.ReadRequest(id, g.idleTimeout)
		g.events <- actionEvent{playerID: id, req: req, err: err}
	})
}

func (g *Game) broadcast() {
	for _, st := range g.dealer.CreateClientStates(g.gs, g.ps) {
		if err := g.conns.Send(st.PlayerID, wire.TypeClientState, st); err != nil {
			g.log.Debugf("lobby %d: %v", g.lobbyID, err)
		}
	}
	if g.log.Level() <= slog.LevelTrace {
		g.log.Tracef("lobby %d state: %s", g.lobbyID, spew.Sdump(g.gs))
	}
}

func (g *Game) notifyStarted() {
	for _, p := range g.ps.Players {
		if p.IsBot {
			continue
		}
		err := g.conns.Send(p.ID, wire.TypeGameStarted, &wire.StatusResponse{
			Ok:      true,
			Message: "game started",
		})
		if err != nil {
			g.log.Debugf("lobby %d: %v", g.lobbyID, err)
		}
	}
}
