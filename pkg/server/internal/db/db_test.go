package db

import (
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUsers(t *testing.T) {
	db := newTestDB(t)

	id, err := db.CreateUser("alice", "alice@example.com", "BR")
	require.NoError(t, err)
	require.NotZero(t, id)

	u, err := db.UserByID(id)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "BR", u.Country)

	_, err = db.UserByID(id + 99)
	assert.Error(t, err)
}

func TestLobbies(t *testing.T) {
	db := newTestDB(t)

	author, err := db.CreateUser("alice", "", "")
	require.NoError(t, err)

	id, err := db.CreateLobby("main", author, 100)
	require.NoError(t, err)

	l, err := db.LobbyByID(id)
	require.NoError(t, err)
	assert.Equal(t, "main", l.Name)
	assert.Equal(t, author, l.AuthorID)
	assert.Equal(t, int64(100), l.BlindSize)
	assert.Zero(t, l.PlayersRegistered)

	_, err = db.CreateLobby("side", author, 50)
	require.NoError(t, err)

	lobbies, err := db.Lobbies()
	require.NoError(t, err)
	require.Len(t, lobbies, 2)
	assert.Equal(t, "main", lobbies[0].Name)
	assert.Equal(t, "side", lobbies[1].Name)
}

func TestMembership(t *testing.T) {
	db := newTestDB(t)

	alice, err := db.CreateUser("alice", "", "")
	require.NoError(t, err)
	bob, err := db.CreateUser("bob", "", "")
	require.NoError(t, err)
	lobby, err := db.CreateLobby("main", alice, 100)
	require.NoError(t, err)

	require.NoError(t, db.AddUserToLobby(alice, lobby))
	require.NoError(t, db.AddUserToLobby(bob, lobby))
	require.NoError(t, db.AddUserToLobby(alice, lobby), "rejoining is not an error")

	l, err := db.LobbyByID(lobby)
	require.NoError(t, err)
	assert.Equal(t, int32(2), l.PlayersRegistered)

	users, err := db.UsersInLobby(lobby)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Name)
	assert.Equal(t, "bob", users[1].Name)

	ids, err := db.LobbyIDsForUser(alice)
	require.NoError(t, err)
	assert.Equal(t, []int64{lobby}, ids)

	ids, err = db.LobbyIDsForUser(bob + 99)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
