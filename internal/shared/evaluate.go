package shared

// EnvidoScore computes the envido count of a 3-card hand: the best same-suit
// pair sums its two envido values plus 20; without a same-suit pair the count
// is the single highest envido value. The result is order-independent and
// always within [0, 33].
func EnvidoScore(hand []Card) int {
	best := 0
	highest := 0
	for i, a := range hand {
		if v := a.EnvidoValue(); v > highest {
			highest = v
		}
		for _, b := range hand[i+1:] {
			if a.Suit != b.Suit {
				continue
			}
			if score := a.EnvidoValue() + b.EnvidoValue() + 20; score > best {
				best = score
			}
		}
	}
	if best > 0 {
		return best
	}
	return highest
}

// HasFlor reports whether all three cards share one suit.
func HasFlor(hand []Card) bool {
	if len(hand) != HandSize {
		return false
	}
	return hand[0].Suit == hand[1].Suit && hand[1].Suit == hand[2].Suit
}

// FlorScore computes the flor count: the sum of all three envido values plus
// 20. Only meaningful when HasFlor holds; used to compare two flors.
func FlorScore(hand []Card) int {
	score := 20
	for _, c := range hand {
		score += c.EnvidoValue()
	}
	return score
}
