// Package bet implements the escalation ladder shared by the three Truco
// betting mini-games. Truco, Envido and Flor are structurally the same
// machine: propose a rung, the other side accepts, declines or raises. Only
// the rung labels, point values and legality windows differ, and the windows
// are enforced by the round controller, not here.
package bet

import (
	"errors"
	"fmt"
)

// ErrIllegalRaise is returned when a proposal violates the ladder ordering or
// the call token.
var ErrIllegalRaise = errors.New("illegal raise")

// Rung is one escalation level within a ladder. ToTarget marks stakes worth
// "whatever is left to win" (falta_envido, contra_flor_al_resto); their Value
// is computed by the caller at resolution time.
type Rung struct {
	Name     string
	Value    int
	ToTarget bool
}

// Ladder parametrizes one betting mini-game.
type Ladder struct {
	Name  string
	Rungs []Rung

	// DefaultValue is the "won by default" award: what a decline pays when
	// no rung was previously accepted, and what the mini-game is worth when
	// it was never engaged.
	DefaultValue int

	// AllowSkip permits proposing any higher rung, not just the next one.
	AllowSkip bool
}

// The three traditional ladders.
var (
	TrucoLadder = Ladder{
		Name: "truco",
		Rungs: []Rung{
			{Name: "truco", Value: 2},
			{Name: "retruco", Value: 3},
			{Name: "vale_cuatro", Value: 4},
		},
		DefaultValue: 1,
	}

	EnvidoLadder = Ladder{
		Name: "envido",
		Rungs: []Rung{
			{Name: "envido", Value: 2},
			{Name: "real_envido", Value: 3},
			{Name: "falta_envido", ToTarget: true},
		},
		DefaultValue: 1,
		AllowSkip:    true,
	}

	FlorLadder = Ladder{
		Name: "flor",
		Rungs: []Rung{
			{Name: "flor", Value: 3},
			{Name: "contra_flor", Value: 6},
			{Name: "contra_flor_al_resto", ToTarget: true},
		},
		DefaultValue: 3,
		AllowSkip:    true,
	}
)

// RungIndex returns the index of the named rung, or -1.
func (l Ladder) RungIndex(name string) int {
	for i, r := range l.Rungs {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// Resolution is the terminal disposition of a ladder instance.
type Resolution int

const (
	Pending Resolution = iota
	Accepted
	Declined
)

// State is one instance of the escalation machine: Idle → Proposed →
// {Accepted, Declined}, re-openable from Accepted by the non-proposing side.
// Player identity is an opaque index (0 or 1).
type State struct {
	Ladder Ladder

	proposed int // rung index awaiting a response, -1 when none
	accepted int // highest accepted rung index, -1 when none
	proposer int // player holding the outstanding (or last accepted) call
	declined bool
	voided   bool
}

// NewState creates an idle ladder instance.
func NewState(l Ladder) *State {
	return &State{Ladder: l, proposed: -1, accepted: -1, proposer: -1}
}

// Engaged reports whether any rung has been proposed at all.
func (s *State) Engaged() bool {
	return s.proposed >= 0 || s.accepted >= 0 || s.declined
}

// AwaitingResponse reports whether a proposal is waiting for the other side.
func (s *State) AwaitingResponse() bool {
	return s.proposed >= 0 && !s.declined
}

// Proposer returns the player holding the outstanding call, or -1.
func (s *State) Proposer() int {
	if !s.AwaitingResponse() {
		return -1
	}
	return s.proposer
}

// Responder returns the player expected to respond, or -1.
func (s *State) Responder() int {
	if !s.AwaitingResponse() {
		return -1
	}
	return 1 - s.proposer
}

// ProposedRung returns the name of the rung awaiting response, or "".
func (s *State) ProposedRung() string {
	if !s.AwaitingResponse() {
		return ""
	}
	return s.Ladder.Rungs[s.proposed].Name
}

// AcceptedRung returns the name of the highest accepted rung, or "".
func (s *State) AcceptedRung() string {
	if s.accepted < 0 {
		return ""
	}
	return s.Ladder.Rungs[s.accepted].Name
}

// Resolution returns the machine's terminal disposition. Accepted here means
// "accepted and no raise pending"; the external condition (tricks, envido
// count, flor count) still decides who collects.
func (s *State) Resolution() Resolution {
	switch {
	case s.declined:
		return Declined
	case s.accepted >= 0 && s.proposed < 0:
		return Accepted
	default:
		return Pending
	}
}

// NextRungs returns the rung names the given player could legally propose.
func (s *State) NextRungs(player int) []string {
	var names []string
	for _, r := range s.Ladder.Rungs {
		if s.canPropose(player, s.Ladder.RungIndex(r.Name)) == nil {
			names = append(names, r.Name)
		}
	}
	return names
}

func (s *State) canPropose(player, idx int) error {
	if idx < 0 {
		return fmt.Errorf("%w: unknown rung on %s ladder", ErrIllegalRaise, s.Ladder.Name)
	}
	if s.declined {
		return fmt.Errorf("%w: %s already declined", ErrIllegalRaise, s.Ladder.Name)
	}
	if s.proposed >= 0 {
		return fmt.Errorf("%w: %s awaiting response to %s", ErrIllegalRaise, s.Ladder.Name, s.Ladder.Rungs[s.proposed].Name)
	}
	if s.accepted >= 0 && player == s.proposer {
		// The call token sits with the side that accepted last.
		return fmt.Errorf("%w: %s call is not with this player", ErrIllegalRaise, s.Ladder.Name)
	}
	if idx <= s.accepted {
		return fmt.Errorf("%w: %s does not exceed accepted %s", ErrIllegalRaise, s.Ladder.Rungs[idx].Name, s.Ladder.Rungs[s.accepted].Name)
	}
	if !s.Ladder.AllowSkip && idx != s.accepted+1 {
		return fmt.Errorf("%w: %s ladder requires %s next", ErrIllegalRaise, s.Ladder.Name, s.Ladder.Rungs[s.accepted+1].Name)
	}
	return nil
}

// Propose escalates the ladder to the named rung. Legal from idle, or from
// an accepted rung when the proposing player does not hold the call.
func (s *State) Propose(player int, rung string) error {
	idx := s.Ladder.RungIndex(rung)
	if err := s.canPropose(player, idx); err != nil {
		return err
	}
	s.proposed = idx
	s.proposer = player
	return nil
}

// Respond answers the outstanding proposal. Only the non-proposing player may
// respond. Accepting re-opens the ladder for a raise-back by the responder;
// declining is terminal.
func (s *State) Respond(player int, accept bool) error {
	if !s.AwaitingResponse() {
		return fmt.Errorf("%w: no %s call awaiting response", ErrIllegalRaise, s.Ladder.Name)
	}
	if player != s.Responder() {
		return fmt.Errorf("%w: %s call is not addressed to this player", ErrIllegalRaise, s.Ladder.Name)
	}
	if accept {
		s.accepted = s.proposed
		s.proposed = -1
		return nil
	}
	s.proposed = -1
	s.declined = true
	return nil
}

// AcceptedValue returns the stake of the highest accepted rung, or the
// ladder's default when nothing was accepted. ToTarget rungs report toTarget
// true and the caller substitutes the points left to win.
func (s *State) AcceptedValue() (value int, toTarget bool) {
	if s.accepted < 0 {
		return s.Ladder.DefaultValue, false
	}
	r := s.Ladder.Rungs[s.accepted]
	return r.Value, r.ToTarget
}

// DeclineAward returns what the proposer collects on a decline: the value of
// the previously accepted rung, or the ladder's default. Declining never pays
// more than accepting and losing would have.
func (s *State) DeclineAward() int {
	if s.accepted < 0 {
		return s.Ladder.DefaultValue
	}
	return s.Ladder.Rungs[s.accepted].Value
}

// Void abandons the instance without awarding anyone. Used when a flor
// declaration cancels a pending envido.
func (s *State) Void() {
	s.proposed = -1
	s.accepted = -1
	s.declined = true
	s.voided = true
}

// Voided reports whether the instance was cancelled rather than declined.
func (s *State) Voided() bool {
	return s.voided
}
