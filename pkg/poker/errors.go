package poker

import (
	"errors"
	"fmt"
)

// Errors for illegal player actions. These are rejections, not failures:
// the dealer refuses the action without mutating any table state and the
// seat stays on turn.
var (
	ErrGameNotActive = errors.New("game is not active")
	ErrNotYourTurn   = errors.New("not this player's turn")
	ErrAlreadyFolded = errors.New("player has already folded")
	ErrInvalidCheck  = errors.New("cannot check while facing a bet")
	ErrInvalidCall   = errors.New("call amount does not match the amount owed")
	ErrCannotRaise   = errors.New("raising is not allowed for this seat")
	ErrRaiseTooSmall = errors.New("raise is below the minimum")
	ErrInvalidAction = errors.New("action type cannot be submitted by a player")
)

// ProtocolError reports an invariant violation that indicates corrupted
// table state or a broken caller, e.g. a message routed to the wrong
// lobby or a turn pointer with no eligible seat. It is unrecoverable for
// the affected table: the run loop aborts instead of tolerating it.
type ProtocolError struct {
	msg string
}

func (e *ProtocolError) Error() string {
	return e.msg
}

func protocolErrorf(format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{msg: fmt.Sprintf(format, args...)}
}

// IsProtocolError reports whether err is fatal for the table that
// produced it.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
