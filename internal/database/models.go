package database

import "time"

// MatchResult is one finished match as persisted. Pool columns are kept
// separate so envido and flor economics stay queryable after the fact.
type MatchResult struct {
	ID       string    `json:"id"`
	Player0  string    `json:"player0"`
	Player1  string    `json:"player1"`
	Winner   string    `json:"winner"`
	Truco0   int       `json:"truco0"`
	Envido0  int       `json:"envido0"`
	Flor0    int       `json:"flor0"`
	Truco1   int       `json:"truco1"`
	Envido1  int       `json:"envido1"`
	Flor1    int       `json:"flor1"`
	Rounds   int       `json:"rounds"`
	Resigned bool      `json:"resigned"`
	PlayedAt time.Time `json:"played_at"`
}

// Total0 returns player 0's combined score.
func (r *MatchResult) Total0() int {
	return r.Truco0 + r.Envido0 + r.Flor0
}

// Total1 returns player 1's combined score.
func (r *MatchResult) Total1() int {
	return r.Truco1 + r.Envido1 + r.Flor1
}
