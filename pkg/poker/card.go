package poker

// Suit identifies one of the four card suits. The numeric values are part
// of the wire schema and must not be reordered.
type Suit int32

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Rank identifies a card rank, Two low, Ace high. The numeric values are
// part of the wire schema and must not be reordered.
type Rank int32

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Card is a single playing card.
type Card struct {
	Suit Suit `protobuf:"1"`
	Rank Rank `protobuf:"2"`
}

// CardPair holds a player's two hole cards.
type CardPair struct {
	First  Card `protobuf:"1"`
	Second Card `protobuf:"2"`
}

var rankStrings = [13]string{
	"2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K", "A",
}

var suitStrings = [4]string{"c", "d", "h", "s"}

// String returns the card in the compact two-character form used by the
// hand evaluator, e.g. "As" for the ace of spades.
func (c Card) String() string {
	if c.Rank < Two || c.Rank > Ace || c.Suit < Clubs || c.Suit > Spades {
		return "??"
	}
	return rankStrings[c.Rank] + suitStrings[c.Suit]
}
