package poker

import (
	evallib "github.com/chehsunliu/poker"
)

// Evaluator ranks a hole-card pair plus community cards. Lower scores are
// stronger; hands of identical strength score exactly equal.
type Evaluator interface {
	Score(hole CardPair, board []Card) int32
}

// libEvaluator scores hands with the chehsunliu/poker lookup tables,
// whose Evaluate is already lower-is-better.
type libEvaluator struct{}

// NewEvaluator returns the production hand evaluator.
func NewEvaluator() Evaluator {
	return libEvaluator{}
}

func (libEvaluator) Score(hole CardPair, board []Card) int32 {
	cards := make([]evallib.Card, 0, 2+len(board))
	cards = append(cards, evallib.NewCard(hole.First.String()))
	cards = append(cards, evallib.NewCard(hole.Second.String()))
	for _, c := range board {
		cards = append(cards, evallib.NewCard(c.String()))
	}
	return evallib.Evaluate(cards)
}
