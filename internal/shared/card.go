package shared

import "fmt"

// Suit represents the suit of a Spanish-deck card.
type Suit string

const (
	Swords Suit = "Swords" // espadas
	Clubs  Suit = "Clubs"  // bastos
	Cups   Suit = "Cups"   // copas
	Coins  Suit = "Coins"  // oros
)

// Suits lists the four suits in a stable order.
var Suits = []Suit{Swords, Clubs, Cups, Coins}

// Ranks lists the ten playable ranks. The Spanish deck used for Truco has no
// 8s or 9s.
var Ranks = []int{1, 2, 3, 4, 5, 6, 7, 10, 11, 12}

// Card represents a single card in the Truco game.
type Card struct {
	Suit Suit `json:"suit"`
	Rank int  `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%d of %s", c.Rank, c.Suit)
}

// Strength returns the card's position in the Truco beating order, higher is
// stronger. The top four cards are fixed individuals; everything below them
// is ranked by rank alone:
//
//	1-Swords > 1-Clubs > 7-Swords > 7-Coins >
//	3s > 2s > remaining 1s > 12s > 11s > 10s > remaining 7s > 6s > 5s > 4s
func (c Card) Strength() int {
	switch {
	case c.Rank == 1 && c.Suit == Swords:
		return 13
	case c.Rank == 1 && c.Suit == Clubs:
		return 12
	case c.Rank == 7 && c.Suit == Swords:
		return 11
	case c.Rank == 7 && c.Suit == Coins:
		return 10
	}
	switch c.Rank {
	case 3:
		return 9
	case 2:
		return 8
	case 1:
		return 7
	case 12:
		return 6
	case 11:
		return 5
	case 10:
		return 4
	case 7:
		return 3
	case 6:
		return 2
	case 5:
		return 1
	default: // 4s
		return 0
	}
}

// EnvidoValue returns the card's contribution to an envido count. Face cards
// (10, 11, 12) count zero, every other card counts its rank.
func (c Card) EnvidoValue() int {
	if c.Rank >= 10 {
		return 0
	}
	return c.Rank
}

// Beats reports whether c wins a trick against other. Equal strengths are a
// parda and beat neither way.
func (c Card) Beats(other Card) bool {
	return c.Strength() > other.Strength()
}
