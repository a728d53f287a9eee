// Package bot implements the move service: given a bot's view of the
// table it picks an action, served over HTTP for the game server to
// call.
package bot

import (
	"github.com/funpoker/funpoker/pkg/poker"
)

// Score below which a made hand is played aggressively. The oracle
// scores lower-is-better across 7462 distinct hand classes; this cut
// keeps roughly top-pair-or-better.
const strongScore = 3500

// Strategy picks actions from a table view using simple fixed rules:
// check when free, call affordable bets, raise made hands.
type Strategy struct {
	eval poker.Evaluator
}

// NewStrategy builds the rule-based strategy.
func NewStrategy() *Strategy {
	return &Strategy{eval: poker.NewEvaluator()}
}

// ChooseAction returns the move for the state's recipient. The server
// only asks while the bot is acting, so the derived fields are set.
func (s *Strategy) ChooseAction(state *poker.ClientState) *poker.Action {
	owed := int64(0)
	if state.AmountToCall != nil {
		owed = *state.AmountToCall
	}
	stack, streetBet := int64(0), int64(0)
	if p := s.self(state); p != nil {
		stack, streetBet = p.Stack, p.StreetBet
	}
	strong := s.handIsStrong(state)

	if owed == 0 {
		if strong && state.CanRaise != nil && *state.CanRaise && state.MinRaiseTo != nil {
			raiseTo := *state.MinRaiseTo
			// A stack too short for the minimum raise goes all-in
			// instead; the dealer accepts all-in raises below the
			// minimum as long as they beat the standing bet.
			if allIn := streetBet + stack; raiseTo > allIn {
				raiseTo = allIn
			}
			return &poker.Action{Type: poker.ActionRaise, Amount: raiseTo}
		}
		return &poker.Action{Type: poker.ActionCheck}
	}

	if strong || owed*4 <= stack {
		return &poker.Action{Type: poker.ActionCall, Amount: owed}
	}
	return &poker.Action{Type: poker.ActionFold}
}

func (s *Strategy) self(state *poker.ClientState) *poker.Player {
	for _, p := range state.Players {
		if p.ID == state.PlayerID {
			return p
		}
	}
	return nil
}

// handIsStrong rates the current hand. Preflop a pair or two broadway
// cards counts; postflop the oracle decides.
func (s *Strategy) handIsStrong(state *poker.ClientState) bool {
	if state.Cards == nil {
		return false
	}
	if state.Street == nil || len(state.Street.Cards) < 3 {
		first, second := state.Cards.First, state.Cards.Second
		if first.Rank == second.Rank {
			return true
		}
		return first.Rank >= poker.Ten && second.Rank >= poker.Ten
	}
	return s.eval.Score(*state.Cards, state.Street.Cards) <= strongScore
}
