package poker

// GameStatus tracks the table lifecycle. The numeric values are part of
// the wire schema and must not be reordered.
type GameStatus int32

const (
	GameWaitingForPlayers GameStatus = iota
	GameActive
	GamePaused
	GameStopped
)

func (s GameStatus) String() string {
	switch s {
	case GameWaitingForPlayers:
		return "waiting"
	case GameActive:
		return "active"
	case GamePaused:
		return "paused"
	case GameStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StreetStatus identifies a betting phase. The numeric values are part of
// the wire schema and must not be reordered.
type StreetStatus int32

const (
	Preflop StreetStatus = iota
	Flop
	Turn
	River
)

func (s StreetStatus) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// Street is the current betting phase plus the community cards dealt so
// far (0 preflop, 3 flop, 4 turn, 5 river).
type Street struct {
	Status StreetStatus `protobuf:"1"`
	Cards  []Card       `protobuf:"2"`
}

// noSeat marks an unassigned seat pointer.
const noSeat = -1

// KeyPositions holds the per-hand seat pointers, as roster indices.
type KeyPositions struct {
	Button     int
	SmallBlind int
	BigBlind   int
	Acting     int
}

func unsetPositions() KeyPositions {
	return KeyPositions{
		Button:     noSeat,
		SmallBlind: noSeat,
		BigBlind:   noSeat,
		Acting:     noSeat,
	}
}

// GameState is the betting state of one table. It references players only
// by seat index into the roster.
type GameState struct {
	Status         GameStatus
	Street         Street
	Pot            int64
	BigBlind       int64
	BiggestBet     int64 // biggest street bet standing on the current street
	RaiseIncrement int64 // size of the most recent raise on the street
	Aggressor      int   // seat of the standing bet's owner, noSeat when none
	Positions      KeyPositions
	History        []*Action
	Showdown       *ShowdownOutcome // set only between hand resolution and the next setup
}

// NewGameState creates the waiting-state betting record for a fresh
// table.
func NewGameState(bigBlind int64) *GameState {
	return &GameState{
		Status:    GameWaitingForPlayers,
		BigBlind:  bigBlind,
		Aggressor: noSeat,
		Positions: unsetPositions(),
	}
}

// ActionRequest is a decoded player action message. The lobby id routes
// the message; the dealer refuses requests addressed to another lobby.
type ActionRequest struct {
	PlayerID int64   `protobuf:"1"`
	LobbyID  int64   `protobuf:"2"`
	Action   *Action `protobuf:"3"`
}

// Winner is one settlement line of a showdown outcome.
type Winner struct {
	PlayerID int64 `protobuf:"1"`
	Amount   int64 `protobuf:"2"`
}

// RevealedCards pairs a contesting player with their revealed hole cards.
type RevealedCards struct {
	PlayerID int64     `protobuf:"1"`
	Cards    *CardPair `protobuf:"2"`
}

// ShowdownOutcome records how a hand ended: the revealed hole cards of
// every contesting player, the final board, and who won what.
type ShowdownOutcome struct {
	Revealed      []RevealedCards `protobuf:"1"`
	Winners       []Winner        `protobuf:"2"`
	Board         []Card          `protobuf:"3"`
	Uncontested   bool            `protobuf:"4"`
	AutoCompleted bool            `protobuf:"5"`
}
