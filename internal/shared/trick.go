package shared

// TrickTie marks a parda: both cards share a strength tier, the trick counts
// for neither side.
const TrickTie = -1

// PlayedCard stores a card along with the index of the player who played it.
type PlayedCard struct {
	Card        Card `json:"card"`
	PlayerIndex int  `json:"player_index"`
}

// Trick represents a single trick of a Truco round. Each player contributes
// exactly one card; the winner index is TrickTie until resolved and stays
// TrickTie on a parda.
type Trick struct {
	Cards       []PlayedCard `json:"cards"`
	WinnerIndex int          `json:"winner_index"`
	Resolved    bool         `json:"resolved"`
	FromDrawOff bool         `json:"from_draw_off"`
}

// NewTrick creates an unresolved trick.
func NewTrick() *Trick {
	return &Trick{WinnerIndex: TrickTie}
}

// AddCard adds a card and the playing player's index to the trick.
func (t *Trick) AddCard(card Card, playerIndex int) {
	t.Cards = append(t.Cards, PlayedCard{Card: card, PlayerIndex: playerIndex})
}

// Complete reports whether both players have contributed a card.
func (t *Trick) Complete() bool {
	return len(t.Cards) == 2
}

// Resolve determines the trick winner from the two played cards and records
// it. A parda resolves to TrickTie.
func (t *Trick) Resolve() int {
	a, b := t.Cards[0], t.Cards[1]
	switch {
	case a.Card.Beats(b.Card):
		t.WinnerIndex = a.PlayerIndex
	case b.Card.Beats(a.Card):
		t.WinnerIndex = b.PlayerIndex
	default:
		t.WinnerIndex = TrickTie
	}
	t.Resolved = true
	return t.WinnerIndex
}

// TrickWinner compares two cards played by players a and b and returns the
// winning player index, or TrickTie on a parda.
func TrickWinner(cardA Card, a int, cardB Card, b int) int {
	t := NewTrick()
	t.AddCard(cardA, a)
	t.AddCard(cardB, b)
	return t.Resolve()
}
