package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/funpoker/funpoker/pkg/server/internal/db"
	"github.com/funpoker/funpoker/pkg/wire"
)

// Store defines the persistence operations the server needs.
type Store interface {
	// CreateUser registers a user and returns the assigned id.
	CreateUser(name, email, country string) (int64, error)
	// UserByID returns the user with the given id.
	UserByID(id int64) (*wire.User, error)

	// CreateLobby persists a lobby and returns the assigned id.
	CreateLobby(name string, authorID, blindSize int64) (int64, error)
	// LobbyByID returns one lobby listing entry.
	LobbyByID(id int64) (*wire.Lobby, error)
	// Lobbies returns every persisted lobby.
	Lobbies() ([]wire.Lobby, error)

	// AddUserToLobby records lobby membership.
	AddUserToLobby(userID, lobbyID int64) error
	// LobbyIDsForUser returns the lobbies the user has joined.
	LobbyIDsForUser(userID int64) ([]int64, error)
	// UsersInLobby returns the registered members of a lobby.
	UsersInLobby(lobbyID int64) ([]wire.User, error)

	// Close closes the database connection.
	Close() error
}

// NewStore opens the sqlite store at dbPath, creating the directory if
// needed.
func NewStore(dbPath string) (Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}
	return db.NewDB(dbPath)
}
