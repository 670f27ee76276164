package protocol

import "truco-game/internal/shared"

// Event types recorded in the match history, in the order they can occur.
const (
	EventMatchStart   = "match_start"
	EventRoundStart   = "round_start"
	EventCardPlayed   = "card_played"
	EventTrickEnd     = "trick_end"
	EventCallProposed = "call_proposed"
	EventCallAccepted = "call_accepted"
	EventCallDeclined = "call_declined"
	EventCallResolved = "call_resolved"
	EventMazoDrawOff  = "mazo_draw_off"
	EventRoundEnd     = "round_end"
	EventMatchEnd     = "match_end"
)

// MatchStartPayload opens the history log.
type MatchStartPayload struct {
	MatchID     string   `json:"match_id"`
	PlayerIDs   []string `json:"player_ids"`
	PlayerNames []string `json:"player_names"`
	TargetScore int      `json:"target_score"`
}

// RoundStartPayload announces a fresh deal.
type RoundStartPayload struct {
	Number int    `json:"number"`
	ManoID string `json:"mano_id"`
}

// CardPlayedPayload records one card hitting the table.
type CardPlayedPayload struct {
	PlayerID string      `json:"player_id"`
	Card     shared.Card `json:"card"`
	Trick    int         `json:"trick"`
}

// TrickEndPayload records a resolved trick. WinnerID is empty on a parda.
type TrickEndPayload struct {
	Trick       int    `json:"trick"`
	WinnerID    string `json:"winner_id,omitempty"`
	Parda       bool   `json:"parda,omitempty"`
	FromDrawOff bool   `json:"from_draw_off,omitempty"`
}

// CallProposedPayload records a ladder rung being called.
type CallProposedPayload struct {
	Kind     string `json:"kind"`
	Rung     string `json:"rung"`
	PlayerID string `json:"player_id"`
}

// CallAnsweredPayload records an accept or decline of an outstanding call.
type CallAnsweredPayload struct {
	Kind     string `json:"kind"`
	Rung     string `json:"rung"`
	PlayerID string `json:"player_id"`
	Accepted bool   `json:"accepted"`
}

// CallResolvedPayload records a ladder paying out. How is "showdown" when
// the counts were compared and "declined" when the call was refused; Voided
// marks an envido cancelled by a flor declaration, which pays no one.
type CallResolvedPayload struct {
	Kind     string `json:"kind"`
	WinnerID string `json:"winner_id,omitempty"`
	Points   int    `json:"points,omitempty"`
	How      string `json:"how,omitempty"`
	Voided   bool   `json:"voided,omitempty"`
}

// MazoDrawOffPayload records the deck cards drawn after a double pass.
type MazoDrawOffPayload struct {
	Cards []shared.PlayedCard `json:"cards"`
}

// RoundEndPayload closes a round. Void rounds have no winner and award no
// truco points; envido and flor payouts already made still stand.
type RoundEndPayload struct {
	Number      int    `json:"number"`
	WinnerID    string `json:"winner_id,omitempty"`
	TrucoPoints int    `json:"truco_points,omitempty"`
	Void        bool   `json:"void,omitempty"`
	Reason      string `json:"reason"`
}

// MatchEndPayload closes the history log.
type MatchEndPayload struct {
	WinnerID string `json:"winner_id"`
	Resigned bool   `json:"resigned,omitempty"`
	Scores   []int  `json:"scores"`
}
