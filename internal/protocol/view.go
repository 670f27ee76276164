package protocol

import "truco-game/internal/shared"

// PlayerView is one player as seen from a given seat. Hand is only populated
// for the viewer's own seat (or in a debug view); opponents expose HandCount.
type PlayerView struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Score     shared.Score  `json:"score"`
	Total     int           `json:"total"`
	HandCount int           `json:"hand_count"`
	Hand      []shared.Card `json:"hand,omitempty"`
	Mano      bool          `json:"mano"`
}

// TrickView is one trick's public state.
type TrickView struct {
	Cards       []shared.PlayedCard `json:"cards"`
	Resolved    bool                `json:"resolved"`
	WinnerID    string              `json:"winner_id,omitempty"`
	Parda       bool                `json:"parda,omitempty"`
	FromDrawOff bool                `json:"from_draw_off,omitempty"`
}

// PendingCallView describes the call awaiting a response, if any.
type PendingCallView struct {
	Kind       string `json:"kind"`
	Rung       string `json:"rung"`
	ProposerID string `json:"proposer_id"`
}

// RoundView is the in-progress round as seen from a seat.
type RoundView struct {
	Number       int               `json:"number"`
	ManoID       string            `json:"mano_id"`
	Tricks       []TrickView       `json:"tricks"`
	TurnID       string            `json:"turn_id"`
	ActingID     string            `json:"acting_id"`
	PendingCall  *PendingCallView  `json:"pending_call,omitempty"`
	Accepted     map[string]string `json:"accepted,omitempty"` // ladder -> highest accepted rung
	EnvidoWindow bool              `json:"envido_window"`
}

// MatchView is the whole match as seen from a seat.
type MatchView struct {
	MatchID     string       `json:"match_id"`
	TargetScore int          `json:"target_score"`
	Players     []PlayerView `json:"players"`
	Round       *RoundView   `json:"round,omitempty"`
	Finished    bool         `json:"finished"`
	WinnerID    string       `json:"winner_id,omitempty"`
}
