package game

import (
	"truco-game/internal/bet"
	"truco-game/internal/protocol"
	"truco-game/internal/shared"
)

// View projects the match as seen from one seat: the viewer's own hand is
// visible, the opponent's is reduced to a count.
func (m *Match) View(playerID string) (protocol.MatchView, error) {
	idx, err := m.playerIndex(playerID)
	if err != nil {
		return protocol.MatchView{}, err
	}
	return m.buildView(idx), nil
}

// DebugView reveals both hands. Hotseat display and test diagnostics only.
func (m *Match) DebugView() protocol.MatchView {
	return m.buildView(NoPlayer)
}

func (m *Match) buildView(viewer int) protocol.MatchView {
	v := protocol.MatchView{
		MatchID:     m.ID,
		TargetScore: m.cfg.TargetScore,
		Finished:    m.terminal,
	}
	if w := m.Winner(); w != nil {
		v.WinnerID = w.ID
	}

	for i, p := range m.players {
		pv := protocol.PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Score:     p.Score,
			Total:     p.Score.Total(),
			HandCount: p.HandSize(),
			Mano:      m.round != nil && m.round.Mano == i,
		}
		if viewer == NoPlayer || viewer == i {
			pv.Hand = append(pv.Hand, p.Hand...)
		}
		v.Players = append(v.Players, pv)
	}

	if m.round != nil && !m.round.Finished() {
		rv := m.buildRoundView()
		v.Round = &rv
	}
	return v
}

func (m *Match) buildRoundView() protocol.RoundView {
	r := m.round
	rv := protocol.RoundView{
		Number:       r.Number,
		ManoID:       m.players[r.Mano].ID,
		TurnID:       m.players[r.turn].ID,
		ActingID:     m.players[r.ActingPlayer()].ID,
		EnvidoWindow: r.windowOpen,
	}

	for _, t := range r.tricks {
		tv := protocol.TrickView{
			Cards:       append([]shared.PlayedCard(nil), t.Cards...),
			Resolved:    t.Resolved,
			FromDrawOff: t.FromDrawOff,
		}
		if t.Resolved {
			if t.WinnerIndex == shared.TrickTie {
				tv.Parda = true
			} else {
				tv.WinnerID = m.players[t.WinnerIndex].ID
			}
		}
		rv.Tricks = append(rv.Tricks, tv)
	}

	if pending, kind := r.pendingLadder(); pending != nil {
		rv.PendingCall = &protocol.PendingCallView{
			Kind:       string(kind),
			Rung:       pending.ProposedRung(),
			ProposerID: m.players[pending.Proposer()].ID,
		}
	}

	accepted := map[string]string{}
	for kind, s := range map[string]*bet.State{
		string(CallTruco):  r.truco,
		string(CallEnvido): r.envido,
		string(CallFlor):   r.flor,
	} {
		if rung := s.AcceptedRung(); rung != "" {
			accepted[kind] = rung
		}
	}
	if len(accepted) > 0 {
		rv.Accepted = accepted
	}
	return rv
}
