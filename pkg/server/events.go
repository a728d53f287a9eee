package server

import "github.com/funpoker/funpoker/pkg/poker"

// event is one unit of input consumed by a table's run loop. The loop
// is the single writer of its table state: inbound actions, bot
// replies, joins and connection-health signals all arrive as one of
// these and are applied by one switch.
type event interface {
	isEvent()
}

// actionEvent carries the outcome of waiting on the acting seat: either
// a decoded action request (from the player's connection or the bot move
// service) or the read error that ended the wait.
type actionEvent struct {
	playerID int64
	req      *poker.ActionRequest
	err      error
}

// joinEvent asks the loop to seat a player. Mid-hand it is parked until
// the hand boundary.
type joinEvent struct {
	playerID int64
	name     string
	isBot    bool
}

// disconnectEvent reports a failed connection for a seated player,
// raised by the socket pool's health checker.
type disconnectEvent struct {
	playerID int64
}

func (actionEvent) isEvent()     {}
func (joinEvent) isEvent()       {}
func (disconnectEvent) isEvent() {}
