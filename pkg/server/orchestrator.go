package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/decred/slog"

	"github.com/funpoker/funpoker/pkg/wire"
)

// Orchestrator owns the set of tables and routes lobby-level requests:
// user and lobby creation, joins, game starts and connection-loss
// fan-out. One Game per lobby.
type Orchestrator struct {
	log     slog.Logger
	cfg     *Config
	store   Store
	conns   Conns
	bots    MoveRequester
	workers *WorkerPool

	mu    sync.Mutex
	games map[int64]*Game
}

// NewOrchestrator builds the orchestrator and recreates a table for
// every lobby already persisted in the store.
func NewOrchestrator(cfg *Config, store Store, conns Conns, bots MoveRequester,
	workers *WorkerPool, log slog.Logger) (*Orchestrator, error) {

	o := &Orchestrator{
		log:     log,
		cfg:     cfg,
		store:   store,
		conns:   conns,
		bots:    bots,
		workers: workers,
		games:   make(map[int64]*Game),
	}

	lobbies, err := store.Lobbies()
	if err != nil {
		return nil, err
	}
	for _, l := range lobbies {
		o.games[l.ID] = o.newGame(l.ID, l.BlindSize)
	}
	log.Infof("restored %d lobbies", len(lobbies))
	return o, nil
}

func (o *Orchestrator) newGame(lobbyID, blindSize int64) *Game {
	return NewGame(lobbyID, blindSize, o.cfg.StartingStack, o.cfg.IdleTimeout,
		o.conns, o.bots, o.workers, o.log)
}

func (o *Orchestrator) game(lobbyID int64) (*Game, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	g, ok := o.games[lobbyID]
	if !ok {
		return nil, fmt.Errorf("lobby %d not found", lobbyID)
	}
	return g, nil
}

// CreateUser registers a user and returns it with the assigned id.
func (o *Orchestrator) CreateUser(name, email, country string) (*wire.User, error) {
	id, err := o.store.CreateUser(name, email, country)
	if err != nil {
		return nil, err
	}
	o.log.Infof("created user %d (%s)", id, name)
	return &wire.User{ID: id, Name: name, Email: email, Country: country}, nil
}

// CreateLobby persists a lobby and spins up its table.
func (o *Orchestrator) CreateLobby(name string, authorID, blindSize int64) (*wire.Lobby, error) {
	if blindSize <= 0 {
		blindSize = o.cfg.BlindSize
	}
	id, err := o.store.CreateLobby(name, authorID, blindSize)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.games[id] = o.newGame(id, blindSize)
	o.mu.Unlock()

	o.log.Infof("created lobby %d (%s), blind %d", id, name, blindSize)
	return o.store.LobbyByID(id)
}

// Lobbies lists every lobby.
func (o *Orchestrator) Lobbies() ([]wire.Lobby, error) {
	return o.store.Lobbies()
}

// JoinLobby records membership and seats the player at the lobby's
// table. Joins during a running hand take effect at the next hand.
func (o *Orchestrator) JoinLobby(lobbyID, playerID int64) error {
	g, err := o.game(lobbyID)
	if err != nil {
		return err
	}
	u, err := o.store.UserByID(playerID)
	if err != nil {
		return err
	}
	if err := o.store.AddUserToLobby(playerID, lobbyID); err != nil {
		return err
	}
	g.Join(u.ID, u.Name, false)
	o.log.Infof("user %d joined lobby %d", playerID, lobbyID)
	return nil
}

// AddBot registers a bot user, adds it to the lobby and seats it.
func (o *Orchestrator) AddBot(lobbyID int64) (*wire.User, error) {
	g, err := o.game(lobbyID)
	if err != nil {
		return nil, err
	}
	id, err := o.store.CreateUser(fmt.Sprintf("bot-%d", lobbyID), "", "")
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("bot-%d", id)
	if err := o.store.AddUserToLobby(id, lobbyID); err != nil {
		return nil, err
	}
	g.Join(id, name, true)
	o.log.Infof("added bot %d to lobby %d", id, lobbyID)
	return &wire.User{ID: id, Name: name}, nil
}

// StartGame launches the lobby's run loop on the worker pool. Starting
// an already running game is not an error for the caller; the loop
// itself refuses to run twice.
func (o *Orchestrator) StartGame(lobbyID int64) error {
	g, err := o.game(lobbyID)
	if err != nil {
		return err
	}
	o.workers.Execute(func() {
		if err := g.Run(); err != nil && !errors.Is(err, ErrGameRunning) {
			o.log.Errorf("lobby %d: game aborted: %v", lobbyID, err)
		}
	})
	return nil
}

// HandleConnectionClosed fans a dropped connection out to every table
// the user sits at.
func (o *Orchestrator) HandleConnectionClosed(userID int64) {
	lobbyIDs, err := o.store.LobbyIDsForUser(userID)
	if err != nil {
		o.log.Errorf("connection-closed fan-out for user %d: %v", userID, err)
		return
	}
	for _, lobbyID := range lobbyIDs {
		if g, err := o.game(lobbyID); err == nil {
			g.Disconnect(userID)
		}
	}
}
