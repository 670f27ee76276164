package shared

// HandSize is the number of cards dealt to each player per round.
const HandSize = 3

// Score tracks a player's match points split by pool. The match total is the
// sum of the three pools.
type Score struct {
	Truco  int `json:"truco"`
	Envido int `json:"envido"`
	Flor   int `json:"flor"`
}

// Total returns the combined score across all pools.
func (s Score) Total() int {
	return s.Truco + s.Envido + s.Flor
}

// Player represents one of the two players in a Truco match.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Hand  []Card `json:"-"`
	Score Score  `json:"score"`
}

// NewPlayer creates a player with the given ID and name.
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:   id,
		Name: name,
		Hand: []Card{},
	}
}

// SetHand replaces the player's hand at the start of a round.
func (p *Player) SetHand(cards []Card) {
	p.Hand = append(p.Hand[:0:0], cards...)
}

// RemoveCard removes a card from the player's hand. Returns false if the card
// is not held.
func (p *Player) RemoveCard(card Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// HasCard reports whether the player holds the given card.
func (p *Player) HasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// HandSize returns the number of cards left in the player's hand.
func (p *Player) HandSize() int {
	return len(p.Hand)
}
