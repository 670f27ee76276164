package shared

import (
	"errors"
	"math/rand/v2"
)

// ErrDeckExhausted is returned when a draw is attempted with no cards left.
// With 6 cards dealt per round and at most one two-card draw-off this should
// never fire, but it stays a defined error rather than a panic.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is the 40-card Truco deck with a draw cursor. Cards before the cursor
// have been dealt; a card is never dealt twice per round.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck creates a full 40-card deck in suit/rank order. Call Shuffle before
// dealing.
func NewDeck() *Deck {
	cards := make([]Card, 0, len(Suits)*len(Ranks))
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	return &Deck{cards: cards}
}

// Shuffle randomizes the undealt portion of the deck using the given source.
// A nil source falls back to the global generator.
func (d *Deck) Shuffle(rng *rand.Rand) {
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	rest := d.cards[d.next:]
	shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
}

// Draw deals the next card.
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// DrawHand deals a 3-card hand.
func (d *Deck) DrawHand() ([]Card, error) {
	hand := make([]Card, 0, HandSize)
	for i := 0; i < HandSize; i++ {
		c, err := d.Draw()
		if err != nil {
			return nil, err
		}
		hand = append(hand, c)
	}
	return hand, nil
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
