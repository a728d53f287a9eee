package poker

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEvaluator records how often the oracle was consulted.
type countingEvaluator struct {
	calls int
}

func (e *countingEvaluator) Score(hole CardPair, board []Card) int32 {
	e.calls++
	return 0
}

// scriptedEvaluator assigns fixed scores keyed by the first hole card.
type scriptedEvaluator struct {
	scores map[Card]int32
}

func (e *scriptedEvaluator) Score(hole CardPair, board []Card) int32 {
	score, ok := e.scores[hole.First]
	if !ok {
		return 9999
	}
	return score
}

// newShowdownTable wires players straight into a river-state table with
// the given hand contributions, bypassing the betting rounds.
func newShowdownTable(t *testing.T, contribs map[int64]int64, scores map[Card]int32) (*Dealer, *GameState, *PlayerState) {
	t.Helper()
	d := NewDealer(testLobbyID, testLogger(), &scriptedEvaluator{scores: scores}, rand.New(rand.NewSource(1)))
	gs := NewGameState(100)
	gs.Status = GameActive
	gs.Street = Street{
		Status: River,
		Cards: []Card{
			{Suit: Clubs, Rank: Two},
			{Suit: Diamonds, Rank: Five},
			{Suit: Hearts, Rank: Eight},
			{Suit: Spades, Rank: Jack},
			{Suit: Clubs, Rank: King},
		},
	}
	ps := &PlayerState{}
	firstCards := []Card{
		{Suit: Spades, Rank: Ace},
		{Suit: Hearts, Rank: Ace},
		{Suit: Diamonds, Rank: Ace},
		{Suit: Clubs, Rank: Ace},
	}
	var id int64
	for id = 1; id <= int64(len(contribs)); id++ {
		p := NewPlayer(id, "", false, 1000)
		p.Status = StatusReady
		p.Cards = &CardPair{
			First:  firstCards[id-1],
			Second: Card{Suit: Hearts, Rank: Rank(id - 1)},
		}
		p.handBet = contribs[id]
		gs.Pot += contribs[id]
		ps.Add(p)
	}
	return d, gs, ps
}

func winnerAmounts(outcome *ShowdownOutcome) map[int64]int64 {
	amounts := make(map[int64]int64)
	for _, w := range outcome.Winners {
		amounts[w.PlayerID] += w.Amount
	}
	return amounts
}

func TestThreeWayTieSplitsEvenly(t *testing.T) {
	d, gs, ps := newShowdownTable(t,
		map[int64]int64{1: 100, 2: 100, 3: 100},
		map[Card]int32{
			{Suit: Spades, Rank: Ace}:   10,
			{Suit: Hearts, Rank: Ace}:   10,
			{Suit: Diamonds, Rank: Ace}: 10,
		})

	require.NoError(t, d.settleShowdown(gs, ps, false))
	amounts := winnerAmounts(gs.Showdown)
	assert.Equal(t, int64(100), amounts[1])
	assert.Equal(t, int64(100), amounts[2])
	assert.Equal(t, int64(100), amounts[3])
	assert.Equal(t, int64(0), gs.Pot)
	for _, p := range ps.Players {
		assert.Equal(t, int64(1100), p.Stack)
	}
}

func TestBestTierTakesWholePot(t *testing.T) {
	d, gs, ps := newShowdownTable(t,
		map[int64]int64{1: 100, 2: 100, 3: 100},
		map[Card]int32{
			{Suit: Spades, Rank: Ace}:   5,
			{Suit: Hearts, Rank: Ace}:   20,
			{Suit: Diamonds, Rank: Ace}: 20,
		})

	require.NoError(t, d.settleShowdown(gs, ps, false))
	amounts := winnerAmounts(gs.Showdown)
	require.Len(t, gs.Showdown.Winners, 1)
	assert.Equal(t, int64(300), amounts[1])
	assert.Equal(t, int64(1300), ps.Players[0].Stack)
	assert.Equal(t, int64(1000), ps.Players[1].Stack)
}

func TestTwoWayTieOddChipGoesToFirstWinner(t *testing.T) {
	// A folded seat contributed an odd amount, so the surplus over the
	// tied pair's own bets does not divide evenly.
	d, gs, ps := newShowdownTable(t,
		map[int64]int64{1: 100, 2: 100, 3: 101},
		map[Card]int32{
			{Suit: Spades, Rank: Ace}: 7,
			{Suit: Hearts, Rank: Ace}: 7,
		})
	ps.Players[2].LastAction = &Action{Type: ActionFold, PlayerID: 3, Street: Preflop}

	require.NoError(t, d.settleShowdown(gs, ps, false))
	amounts := winnerAmounts(gs.Showdown)
	assert.Equal(t, int64(151), amounts[1])
	assert.Equal(t, int64(150), amounts[2])
	assert.NotContains(t, amounts, int64(3))

	var total int64
	for _, w := range gs.Showdown.Winners {
		total += w.Amount
	}
	assert.Equal(t, int64(301), total, "payouts must sum to the pot")
}

func TestShowdownSkipsFoldedPlayers(t *testing.T) {
	d, gs, ps := newShowdownTable(t,
		map[int64]int64{1: 200, 2: 200, 3: 200},
		map[Card]int32{
			// The folded seat would hold the best hand.
			{Suit: Diamonds, Rank: Ace}: 1,
			{Suit: Spades, Rank: Ace}:   30,
			{Suit: Hearts, Rank: Ace}:   40,
		})
	ps.Players[2].LastAction = &Action{Type: ActionFold, PlayerID: 3, Street: Flop}

	require.NoError(t, d.settleShowdown(gs, ps, false))
	amounts := winnerAmounts(gs.Showdown)
	assert.Equal(t, int64(600), amounts[1])
	assert.NotContains(t, amounts, int64(3))
	assert.Len(t, gs.Showdown.Revealed, 2, "folded players do not show cards")
}

func TestShowdownMarksBustedPlayersEliminated(t *testing.T) {
	d, gs, ps := newShowdownTable(t,
		map[int64]int64{1: 100, 2: 100},
		map[Card]int32{
			{Suit: Spades, Rank: Ace}: 1,
			{Suit: Hearts, Rank: Ace}: 2,
		})
	// The loser is all-in for its last 100.
	ps.Players[1].Stack = 0

	require.NoError(t, d.settleShowdown(gs, ps, false))
	assert.Equal(t, StatusEliminated, ps.Players[1].Status)
	assert.Equal(t, StatusReady, ps.Players[0].Status)
	assert.Equal(t, noSeat, gs.Positions.Acting)
}

func TestShowdownRecordsBoardAndRevealedCards(t *testing.T) {
	d, gs, ps := newShowdownTable(t,
		map[int64]int64{1: 100, 2: 100},
		map[Card]int32{
			{Suit: Spades, Rank: Ace}: 1,
			{Suit: Hearts, Rank: Ace}: 2,
		})

	require.NoError(t, d.settleShowdown(gs, ps, true))
	require.NotNil(t, gs.Showdown)
	assert.True(t, gs.Showdown.AutoCompleted)
	assert.Len(t, gs.Showdown.Board, 5)
	require.Len(t, gs.Showdown.Revealed, 2)
	assert.Equal(t, ps.Players[0].Cards, gs.Showdown.Revealed[0].Cards)
}
