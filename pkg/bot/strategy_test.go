package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funpoker/funpoker/pkg/poker"
)

func card(r poker.Rank, s poker.Suit) poker.Card {
	return poker.Card{Rank: r, Suit: s}
}

func view(cards poker.CardPair, board []poker.Card, owed int64, canRaise bool, minRaiseTo, stack int64) *poker.ClientState {
	can := canRaise
	return &poker.ClientState{
		PlayerID:     2,
		Cards:        &cards,
		Street:       &poker.Street{Cards: board},
		AmountToCall: &owed,
		CanRaise:     &can,
		MinRaiseTo:   &minRaiseTo,
		Players: []*poker.Player{
			{ID: 1, Stack: 10000},
			{ID: 2, Stack: stack},
		},
	}
}

func TestChecksWhenNothingOwed(t *testing.T) {
	st := view(poker.CardPair{
		First:  card(poker.Seven, poker.Clubs),
		Second: card(poker.Two, poker.Diamonds),
	}, nil, 0, true, 200, 10000)

	action := NewStrategy().ChooseAction(st)
	assert.Equal(t, poker.ActionCheck, action.Type)
}

func TestRaisesPocketPairForFree(t *testing.T) {
	st := view(poker.CardPair{
		First:  card(poker.Queen, poker.Clubs),
		Second: card(poker.Queen, poker.Diamonds),
	}, nil, 0, true, 200, 10000)

	action := NewStrategy().ChooseAction(st)
	assert.Equal(t, poker.ActionRaise, action.Type)
	assert.Equal(t, int64(200), action.Amount)
}

func TestShortStackRaisesAllInNotBelowMinimum(t *testing.T) {
	// Top set on the flop but only 50 behind: the minimum raise of 100
	// is out of reach, so the raise clamps to all-in instead of naming
	// an amount the dealer would refuse.
	st := view(poker.CardPair{
		First:  card(poker.King, poker.Clubs),
		Second: card(poker.King, poker.Diamonds),
	}, []poker.Card{
		card(poker.King, poker.Spades),
		card(poker.Queen, poker.Hearts),
		card(poker.Nine, poker.Clubs),
	}, 0, true, 100, 50)

	action := NewStrategy().ChooseAction(st)
	assert.Equal(t, poker.ActionRaise, action.Type)
	assert.Equal(t, int64(50), action.Amount)
}

func TestCallsCheapBets(t *testing.T) {
	st := view(poker.CardPair{
		First:  card(poker.Seven, poker.Clubs),
		Second: card(poker.Two, poker.Diamonds),
	}, nil, 100, true, 200, 10000)

	action := NewStrategy().ChooseAction(st)
	assert.Equal(t, poker.ActionCall, action.Type)
	assert.Equal(t, int64(100), action.Amount)
}

func TestFoldsWeakHandToBigBet(t *testing.T) {
	st := view(poker.CardPair{
		First:  card(poker.Seven, poker.Clubs),
		Second: card(poker.Two, poker.Diamonds),
	}, []poker.Card{
		card(poker.King, poker.Spades),
		card(poker.Queen, poker.Hearts),
		card(poker.Nine, poker.Clubs),
	}, 5000, true, 10000, 10000)

	action := NewStrategy().ChooseAction(st)
	assert.Equal(t, poker.ActionFold, action.Type)
}

func TestCallsBigBetWithMadeHand(t *testing.T) {
	// Top set on the flop.
	st := view(poker.CardPair{
		First:  card(poker.King, poker.Clubs),
		Second: card(poker.King, poker.Diamonds),
	}, []poker.Card{
		card(poker.King, poker.Spades),
		card(poker.Queen, poker.Hearts),
		card(poker.Nine, poker.Clubs),
	}, 5000, false, 10000, 10000)

	action := NewStrategy().ChooseAction(st)
	assert.Equal(t, poker.ActionCall, action.Type)
	assert.Equal(t, int64(5000), action.Amount)
}
