// Package game implements the Truco engine: the per-round state machine,
// the three betting ladders and the match loop that strings rounds together
// until one player reaches the target score.
package game

import (
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"truco-game/internal/protocol"
	"truco-game/internal/shared"
)

// ErrUnknownPlayer is returned when a submitted player ID belongs to neither
// seat.
var ErrUnknownPlayer = errors.New("unknown player")

// Match is a best-to-target series of rounds between two players. All
// mutation goes through Submit; the zero value is not usable.
type Match struct {
	ID      string
	players [2]*shared.Player

	round        *Round
	roundNum     int
	mano         int
	roundsPlayed int

	history  []protocol.Message
	terminal bool
	winner   int
	resigned bool

	cfg Config
	rng *rand.Rand
	log logrus.FieldLogger
}

// NewMatch creates a match between two named players and deals the first
// round. Player 0 is mano first.
func NewMatch(logger logrus.FieldLogger, cfg Config, name0, name1 string) (*Match, error) {
	if cfg.TargetScore <= 0 {
		return nil, errors.New("target score must be positive")
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	m := &Match{
		ID: uuid.NewString(),
		players: [2]*shared.Player{
			shared.NewPlayer(uuid.NewString(), name0),
			shared.NewPlayer(uuid.NewString(), name1),
		},
		winner: NoPlayer,
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(seed, seed)),
		log:    logger.WithField("component", "match"),
	}

	m.emit(protocol.EventMatchStart, protocol.MatchStartPayload{
		MatchID:     m.ID,
		PlayerIDs:   []string{m.players[0].ID, m.players[1].ID},
		PlayerNames: []string{name0, name1},
		TargetScore: cfg.TargetScore,
	})

	if err := m.startRound(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Match) emit(eventType string, payload any) {
	msg, err := protocol.NewMessage(eventType, payload)
	if err != nil {
		m.log.WithError(err).WithField("event", eventType).Error("could not encode event")
		return
	}
	m.history = append(m.history, msg)
}

func (m *Match) startRound() error {
	m.roundNum++
	r, err := newRound(m.roundNum, m.mano, m.players, m.cfg, m.rng, m.log, m.emit)
	if err != nil {
		return err
	}
	m.round = r
	return nil
}

func (m *Match) playerIndex(playerID string) (int, error) {
	for i, p := range m.players {
		if p.ID == playerID {
			return i, nil
		}
	}
	return NoPlayer, ErrUnknownPlayer
}

// Submit applies one action on behalf of the identified player. Illegal
// actions return an IllegalActionError and leave the match untouched.
func (m *Match) Submit(playerID string, a Action) error {
	if m.terminal {
		return illegalActionf("match is over")
	}
	idx, err := m.playerIndex(playerID)
	if err != nil {
		return err
	}

	switch a.Type {
	case ActionResign:
		m.resignMatch(idx)
		return nil
	case ActionPlayCard:
		if a.Card == nil {
			return illegalActionf("play_card needs a card")
		}
		err = m.round.playCard(idx, *a.Card)
	case ActionProposeCall:
		err = m.round.proposeCall(idx, a.Call, a.Rung)
	case ActionRespondCall:
		err = m.round.respondCall(idx, a.Accept)
	case ActionPass:
		err = m.round.pass(idx)
	default:
		return illegalActionf("unknown action type %q", a.Type)
	}
	if err != nil {
		return err
	}

	m.afterAction()
	return nil
}

// afterAction checks for a match winner and rolls the next round. The target
// can be reached mid-round through an envido or flor payout, which ends the
// match on the spot.
func (m *Match) afterAction() {
	if m.round.Finished() {
		m.roundsPlayed++
	}

	for i, p := range m.players {
		if p.Score.Total() >= m.cfg.TargetScore {
			m.endMatch(i, false)
			return
		}
	}

	if !m.round.Finished() {
		return
	}
	if !m.round.Outcome.Void {
		// Mano alternates between completed rounds. A void round redeals
		// under the same mano.
		m.mano = 1 - m.mano
	}
	if err := m.startRound(); err != nil {
		m.log.WithError(err).Error("could not deal next round")
		m.terminal = true
	}
}

func (m *Match) resignMatch(idx int) {
	m.resigned = true
	m.log.WithField("player", m.players[idx].Name).Info("resigned")
	m.endMatch(1-idx, true)
}

func (m *Match) endMatch(winner int, resigned bool) {
	m.terminal = true
	m.winner = winner
	m.log.WithFields(logrus.Fields{
		"winner": m.players[winner].Name,
		"score":  m.players[winner].Score.Total(),
		"rounds": m.roundsPlayed,
	}).Info("match over")
	m.emit(protocol.EventMatchEnd, protocol.MatchEndPayload{
		WinnerID: m.players[winner].ID,
		Resigned: resigned,
		Scores:   []int{m.players[0].Score.Total(), m.players[1].Score.Total()},
	})
}

// LegalActions enumerates every action the player could submit right now.
// Returns nil once the match is over or for an unknown player.
func (m *Match) LegalActions(playerID string) []Action {
	if m.terminal {
		return nil
	}
	idx, err := m.playerIndex(playerID)
	if err != nil {
		return nil
	}
	return m.round.legalActions(idx)
}

// Finished reports whether the match has a winner.
func (m *Match) Finished() bool {
	return m.terminal
}

// Winner returns the winning player, or nil while the match runs.
func (m *Match) Winner() *shared.Player {
	if !m.terminal || m.winner == NoPlayer {
		return nil
	}
	return m.players[m.winner]
}

// Resigned reports whether the match ended by resignation.
func (m *Match) Resigned() bool {
	return m.resigned
}

// Players returns both seats in order.
func (m *Match) Players() []*shared.Player {
	return m.players[:]
}

// RoundsPlayed returns the number of completed rounds, void rounds included.
func (m *Match) RoundsPlayed() int {
	return m.roundsPlayed
}

// History returns the recorded event log, oldest first.
func (m *Match) History() []protocol.Message {
	out := make([]protocol.Message, len(m.history))
	copy(out, m.history)
	return out
}
