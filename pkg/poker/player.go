package poker

// PlayerStatus tracks a seat's lifecycle at the table. The numeric values
// are part of the wire schema and must not be reordered.
type PlayerStatus int32

const (
	StatusWaiting PlayerStatus = iota
	StatusReady
	StatusSitOut
	StatusDisconnected
	StatusEliminated
)

func (s PlayerStatus) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusReady:
		return "ready"
	case StatusSitOut:
		return "sitout"
	case StatusDisconnected:
		return "disconnected"
	case StatusEliminated:
		return "eliminated"
	default:
		return "unknown"
	}
}

// ActionType identifies a betting action. The numeric values are part of
// the wire schema and must not be reordered.
type ActionType int32

const (
	ActionFold ActionType = iota
	ActionCall
	ActionRaise
	ActionCheck
	ActionBlind
)

func (t ActionType) String() string {
	switch t {
	case ActionFold:
		return "fold"
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	case ActionCheck:
		return "check"
	case ActionBlind:
		return "blind"
	default:
		return "unknown"
	}
}

// Action is one betting action, tagged with the street it happened on.
// For Raise the amount is the total street bet the raiser moved to ("raise
// to"); for Call and Blind it is the chips added by the action.
type Action struct {
	Type     ActionType   `protobuf:"1"`
	Amount   int64        `protobuf:"2"`
	PlayerID int64        `protobuf:"3"`
	Street   StreetStatus `protobuf:"4"`
}

// Player is one seat at the table. The exported fields are the seat's
// public wire view; hole cards are stripped before broadcasting to other
// players.
type Player struct {
	ID         int64        `protobuf:"1"`
	Name       string       `protobuf:"2"`
	Stack      int64        `protobuf:"3"`
	StreetBet  int64        `protobuf:"4"`
	Cards      *CardPair    `protobuf:"5"`
	LastAction *Action      `protobuf:"6"`
	Status     PlayerStatus `protobuf:"7"`
	IsBot      bool         `protobuf:"8"`

	// handBet is the seat's total committed chips this hand, used for
	// showdown settlement. Never serialized.
	handBet int64
}

// NewPlayer creates a seat with the given starting stack.
func NewPlayer(id int64, name string, isBot bool, stack int64) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Stack:  stack,
		Status: StatusWaiting,
		IsBot:  isBot,
	}
}

// folded reports whether the seat is out of the current hand.
func (p *Player) folded() bool {
	return p.LastAction != nil && p.LastAction.Type == ActionFold
}

// commit moves amount chips from the stack into the seat's street bet.
// The caller validates amount <= Stack.
func (p *Player) commit(amount int64) {
	p.Stack -= amount
	p.StreetBet += amount
	p.handBet += amount
}

// HandBet returns the seat's total chips committed this hand.
func (p *Player) HandBet() int64 {
	return p.handBet
}

// resetForNewHand clears all per-hand state. The stack carries over.
func (p *Player) resetForNewHand() {
	p.StreetBet = 0
	p.Cards = nil
	p.LastAction = nil
	p.handBet = 0
}

// PublicView returns a copy of the seat safe to show other players: same
// public fields, hole cards hidden.
func (p *Player) PublicView() *Player {
	view := *p
	view.Cards = nil
	return &view
}

// PlayerState is the ordered seat roster of one table. Seat indices are
// stable for the duration of a hand; the roster is pruned only between
// hands.
type PlayerState struct {
	Players []*Player
}

// Find returns the player with the given id and its seat index, or
// (nil, -1) when absent.
func (ps *PlayerState) Find(id int64) (*Player, int) {
	for i, p := range ps.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// Add appends a seat to the roster.
func (ps *PlayerState) Add(p *Player) {
	ps.Players = append(ps.Players, p)
}

// Len returns the number of seats.
func (ps *PlayerState) Len() int {
	return len(ps.Players)
}
