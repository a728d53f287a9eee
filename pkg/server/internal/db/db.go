// Package db implements the sqlite persistence layer: registered users,
// lobbies and lobby membership.
package db

import (
	"database/sql"
	"fmt"

	"github.com/funpoker/funpoker/pkg/wire"
)

// DB represents the database connection.
type DB struct {
	*sql.DB
}

// NewDB opens (and if needed initializes) the database at dbPath.
func NewDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS lobbies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			author_id INTEGER NOT NULL,
			blind_size INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (author_id) REFERENCES users(id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS players_lobbies (
			user_id INTEGER NOT NULL,
			lobby_id INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, lobby_id),
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (lobby_id) REFERENCES lobbies(id)
		)
	`)
	return err
}

// CreateUser registers a user and returns the assigned id.
func (db *DB) CreateUser(name, email, country string) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO users (name, email, country) VALUES (?, ?, ?)
	`, name, email, country)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %v", err)
	}
	return res.LastInsertId()
}

// UserByID returns the user with the given id.
func (db *DB) UserByID(id int64) (*wire.User, error) {
	var u wire.User
	err := db.QueryRow(`
		SELECT id, name, email, country FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Country)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %v", id, err)
	}
	return &u, nil
}

// CreateLobby persists a lobby and returns the assigned id.
func (db *DB) CreateLobby(name string, authorID, blindSize int64) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO lobbies (name, author_id, blind_size) VALUES (?, ?, ?)
	`, name, authorID, blindSize)
	if err != nil {
		return 0, fmt.Errorf("failed to create lobby: %v", err)
	}
	return res.LastInsertId()
}

const lobbyColumns = `
	l.id, l.name, l.author_id, l.blind_size,
	(SELECT COUNT(*) FROM players_lobbies pl WHERE pl.lobby_id = l.id)
`

// LobbyByID returns one lobby listing entry, including the registered
// player count.
func (db *DB) LobbyByID(id int64) (*wire.Lobby, error) {
	var l wire.Lobby
	err := db.QueryRow(`
		SELECT `+lobbyColumns+` FROM lobbies l WHERE l.id = ?
	`, id).Scan(&l.ID, &l.Name, &l.AuthorID, &l.BlindSize, &l.PlayersRegistered)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lobby %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lobby %d: %v", id, err)
	}
	return &l, nil
}

// Lobbies returns every persisted lobby with its registered player
// count.
func (db *DB) Lobbies() ([]wire.Lobby, error) {
	rows, err := db.Query(`SELECT ` + lobbyColumns + ` FROM lobbies l ORDER BY l.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lobbies: %v", err)
	}
	defer rows.Close()

	var lobbies []wire.Lobby
	for rows.Next() {
		var l wire.Lobby
		if err := rows.Scan(&l.ID, &l.Name, &l.AuthorID, &l.BlindSize, &l.PlayersRegistered); err != nil {
			return nil, err
		}
		lobbies = append(lobbies, l)
	}
	return lobbies, rows.Err()
}

// AddUserToLobby records lobby membership. Joining twice is not an
// error.
func (db *DB) AddUserToLobby(userID, lobbyID int64) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO players_lobbies (user_id, lobby_id) VALUES (?, ?)
	`, userID, lobbyID)
	if err != nil {
		return fmt.Errorf("failed to add user %d to lobby %d: %v", userID, lobbyID, err)
	}
	return nil
}

// LobbyIDsForUser returns the lobbies the user has joined.
func (db *DB) LobbyIDsForUser(userID int64) ([]int64, error) {
	rows, err := db.Query(`
		SELECT lobby_id FROM players_lobbies WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lobbies for user %d: %v", userID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UsersInLobby returns the registered members of a lobby.
func (db *DB) UsersInLobby(lobbyID int64) ([]wire.User, error) {
	rows, err := db.Query(`
		SELECT u.id, u.name, u.email, u.country
		FROM users u
		JOIN players_lobbies pl ON pl.user_id = u.id
		WHERE pl.lobby_id = ?
		ORDER BY pl.created_at
	`, lobbyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users in lobby %d: %v", lobbyID, err)
	}
	defer rows.Close()

	var users []wire.User
	for rows.Next() {
		var u wire.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Country); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
