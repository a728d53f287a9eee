package poker

import "math/rand"

// fullDeck is the fixed 52-card set every hand starts from.
var fullDeck = buildFullDeck()

func buildFullDeck() [52]Card {
	suits := [4]Suit{Clubs, Diamonds, Hearts, Spades}
	ranks := [13]Rank{
		Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten,
		Jack, Queen, King, Ace,
	}

	var deck [52]Card
	i := 0
	for _, suit := range suits {
		for _, rank := range ranks {
			deck[i] = Card{Suit: suit, Rank: rank}
			i++
		}
	}
	return deck
}

// Deck is a shuffled sequence of cards consumed front to back.
type Deck struct {
	cards []Card
}

// NewDeck creates a freshly shuffled 52-card deck using the given random
// number generator. Pass a seeded rng for deterministic tests.
func NewDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, len(fullDeck))
	copy(cards, fullDeck[:])
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// Draw removes and returns the front card. The false return only happens
// when more cards are requested than a hand can ever need, which
// indicates a defect in the caller.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Size returns the number of cards remaining in the deck.
func (d *Deck) Size() int {
	return len(d.cards)
}

// DeckState owns the undealt cards of the current hand. Only the dealing
// and street-advancement paths mutate it.
type DeckState struct {
	Deck *Deck
}

// Reset replaces the deck with a freshly shuffled one for a new hand.
func (ds *DeckState) Reset(rng *rand.Rand) {
	ds.Deck = NewDeck(rng)
}
