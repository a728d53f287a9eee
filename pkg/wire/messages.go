// Package wire defines the binary message schema shared by the server,
// the clients and the bot move service. Messages are encoded with
// reflection-based protobuf; field numbers are pinned with struct tags
// and must never be reordered.
package wire

// ResponseType tags the payload carried by a ResponseMessage.
type ResponseType int32

const (
	TypeClientState ResponseType = iota
	TypeLobbyList
	TypeLobby
	TypeUser
	TypeGameStarted
	TypeStatus
)

// ResponseMessage is the envelope for every server-to-client frame: a
// type tag plus the encoded payload message.
type ResponseMessage struct {
	Type    ResponseType `protobuf:"1"`
	Payload []byte       `protobuf:"2"`
}

// User is a registered account, persisted in the store.
type User struct {
	ID      int64  `protobuf:"1"`
	Name    string `protobuf:"2"`
	Email   string `protobuf:"3"`
	Country string `protobuf:"4"`
}

// Lobby is one table's listing entry.
type Lobby struct {
	ID                int64  `protobuf:"1"`
	Name              string `protobuf:"2"`
	AuthorID          int64  `protobuf:"3"`
	BlindSize         int64  `protobuf:"4"`
	PlayersRegistered int32  `protobuf:"5"`
}

// LobbyList is the response to a lobby listing request.
type LobbyList struct {
	Lobbies []Lobby `protobuf:"1"`
}

// CreateLobbyRequest asks for a new table.
type CreateLobbyRequest struct {
	Name      string `protobuf:"1"`
	AuthorID  int64  `protobuf:"2"`
	BlindSize int64  `protobuf:"3"`
}

// JoinLobbyRequest seats a user at a table.
type JoinLobbyRequest struct {
	LobbyID  int64 `protobuf:"1"`
	PlayerID int64 `protobuf:"2"`
}

// StartGameRequest begins play at a table.
type StartGameRequest struct {
	LobbyID  int64 `protobuf:"1"`
	PlayerID int64 `protobuf:"2"`
}

// AddBotRequest seats a machine player at a table.
type AddBotRequest struct {
	LobbyID int64 `protobuf:"1"`
}

// StatusResponse acknowledges a request that carries no other payload.
type StatusResponse struct {
	Ok      bool   `protobuf:"1"`
	Message string `protobuf:"2"`
}
