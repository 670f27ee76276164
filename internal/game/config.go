package game

// MazoMode selects how a round resolves when both players pass before any
// card of the current trick is played.
type MazoMode string

const (
	// MazoDrawOff draws one deck card per player and scores the trick by
	// comparing them. Hand cards are untouched.
	MazoDrawOff MazoMode = "draw_off"

	// MazoRedeal abandons the round without awarding truco points and deals
	// a fresh one. Also the fallback when the deck cannot cover a draw-off.
	MazoRedeal MazoMode = "redeal"
)

// Config holds the rule knobs for a match. The traditional Argentinian game
// is the default.
type Config struct {
	// TargetScore ends the match once a player's combined pools reach it.
	TargetScore int

	// TrucoDeclineEndsRound ends the round immediately when a truco call is
	// declined. When false the decline only settles the truco pool and card
	// play continues for any envido or flor still open.
	TrucoDeclineEndsRound bool

	// MazoMode picks the both-pass resolution, a regional variant.
	MazoMode MazoMode

	// Seed fixes the shuffle for reproducible matches. 0 seeds from the
	// clock.
	Seed uint64
}

// DefaultConfig returns the standard match configuration: first to 30,
// declined truco ends the round, draw-off mazo.
func DefaultConfig() Config {
	return Config{
		TargetScore:           30,
		TrucoDeclineEndsRound: true,
		MazoMode:              MazoDrawOff,
	}
}
