package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"truco-game/internal/bet"
	"truco-game/internal/protocol"
	"truco-game/internal/shared"
)

// NoPlayer marks "no player": a void round winner or a parda.
const NoPlayer = -1

// EventSink receives replay events emitted by the engine. The match
// controller supplies an implementation that appends to its history log.
type EventSink func(eventType string, payload any)

// RoundOutcome is the terminal result of one round. Envido and flor points
// are applied to the player pools the moment their ladders resolve and are
// not repeated here.
type RoundOutcome struct {
	Winner      int    `json:"winner"`
	TrucoPoints int    `json:"truco_points"`
	Void        bool   `json:"void"`
	Reason      string `json:"reason"`
}

// Round drives one hand: three dealt cards per player, up to three tricks,
// and the three betting ladders sharing the turn sequence. All legality
// windows live here; the ladders only police rung ordering.
type Round struct {
	Number int
	Mano   int // leads trick 0, wins precedence ties

	deck    *shared.Deck
	players [2]*shared.Player
	dealt   [2][]shared.Card // hands as dealt, for envido/flor counts
	tricks  []*shared.Trick

	leader int // leads the current trick
	turn   int // player expected to play a card

	truco  *bet.State
	envido *bet.State
	flor   *bet.State

	florEligible  [2]bool
	windowOpen    bool // envido/flor window: no trick resolved, no card played
	trucoSettled  bool // truco pool already paid out (decline path)
	envidoAwarded bool
	florAwarded   bool
	passStreak    int

	Outcome *RoundOutcome

	cfg  Config
	log  logrus.FieldLogger
	emit EventSink
}

// newRound deals a fresh round. Mano leads trick 0.
func newRound(number, mano int, players [2]*shared.Player, cfg Config, rng *rand.Rand, log logrus.FieldLogger, emit EventSink) (*Round, error) {
	deck := shared.NewDeck()
	deck.Shuffle(rng)

	r := &Round{
		Number:     number,
		Mano:       mano,
		deck:       deck,
		players:    players,
		tricks:     []*shared.Trick{shared.NewTrick()},
		leader:     mano,
		turn:       mano,
		truco:      bet.NewState(bet.TrucoLadder),
		envido:     bet.NewState(bet.EnvidoLadder),
		flor:       bet.NewState(bet.FlorLadder),
		windowOpen: true,
		cfg:        cfg,
		log:        log,
		emit:       emit,
	}

	for i, p := range players {
		hand, err := deck.DrawHand()
		if err != nil {
			return nil, err
		}
		p.SetHand(hand)
		r.dealt[i] = append([]shared.Card(nil), hand...)
		r.florEligible[i] = shared.HasFlor(hand)
	}

	r.log.WithFields(logrus.Fields{
		"round": number,
		"mano":  players[mano].Name,
	}).Info("round dealt")
	r.emit(protocol.EventRoundStart, protocol.RoundStartPayload{
		Number: number,
		ManoID: players[mano].ID,
	})
	return r, nil
}

// Finished reports whether the round has an outcome.
func (r *Round) Finished() bool {
	return r.Outcome != nil
}

// pendingLadder returns the ladder awaiting a response, if any. At most one
// call can be outstanding across all three ladders.
func (r *Round) pendingLadder() (*bet.State, CallKind) {
	switch {
	case r.truco.AwaitingResponse():
		return r.truco, CallTruco
	case r.envido.AwaitingResponse():
		return r.envido, CallEnvido
	case r.flor.AwaitingResponse():
		return r.flor, CallFlor
	}
	return nil, ""
}

// ActingPlayer returns the player index expected to act: the responder to an
// outstanding call, otherwise the turn holder.
func (r *Round) ActingPlayer() int {
	if s, _ := r.pendingLadder(); s != nil {
		return s.Responder()
	}
	return r.turn
}

// currentTrick returns the trick being played.
func (r *Round) currentTrick() *shared.Trick {
	return r.tricks[len(r.tricks)-1]
}

// lastTrickStarted reports whether a card of the third trick has been
// played. Truco calls are illegal from that point on.
func (r *Round) lastTrickStarted() bool {
	return len(r.tricks) == 3 && len(r.tricks[2].Cards) > 0
}

func (r *Round) ladderFor(kind CallKind) *bet.State {
	switch kind {
	case CallTruco:
		return r.truco
	case CallEnvido:
		return r.envido
	case CallFlor:
		return r.flor
	}
	return nil
}

// ---- card play ----

func (r *Round) playCard(player int, card shared.Card) error {
	if r.Finished() {
		return illegalActionf("round is over")
	}
	if s, kind := r.pendingLadder(); s != nil {
		return illegalActionf("%s call awaiting response", kind)
	}
	if player != r.turn {
		return illegalActionf("not %s's turn", r.players[player].Name)
	}
	if !r.players[player].HasCard(card) {
		return illegalActionf("%s is not in hand", card)
	}

	// The first card of the round closes the envido/flor window.
	r.closeWindow()
	r.passStreak = 0

	if !r.players[player].RemoveCard(card) {
		r.log.Panicf("hand corrupted removing %s: %s", card, r.dump())
	}
	trick := r.currentTrick()
	trick.AddCard(card, player)

	r.log.WithFields(logrus.Fields{
		"round":  r.Number,
		"trick":  len(r.tricks) - 1,
		"player": r.players[player].Name,
		"card":   card.String(),
	}).Info("card played")
	r.emit(protocol.EventCardPlayed, protocol.CardPlayedPayload{
		PlayerID: r.players[player].ID,
		Card:     card,
		Trick:    len(r.tricks) - 1,
	})

	if trick.Complete() {
		r.resolveTrick()
	} else {
		r.turn = 1 - player
	}
	return nil
}

// resolveTrick scores the current trick, advances the leader, and either
// finishes the round or opens the next trick.
func (r *Round) resolveTrick() {
	trick := r.currentTrick()
	winner := trick.Resolve()

	// A resolved trick 0 closes the window even when no hand card was
	// played (draw-off path).
	r.closeWindow()

	winnerID := ""
	if winner != shared.TrickTie {
		r.leader = winner
		winnerID = r.players[winner].ID
		r.log.WithFields(logrus.Fields{
			"round":  r.Number,
			"trick":  len(r.tricks) - 1,
			"winner": r.players[winner].Name,
		}).Info("trick won")
	} else {
		r.log.WithField("trick", len(r.tricks)-1).Info("trick parda")
	}
	r.emit(protocol.EventTrickEnd, protocol.TrickEndPayload{
		Trick:       len(r.tricks) - 1,
		WinnerID:    winnerID,
		Parda:       winner == shared.TrickTie,
		FromDrawOff: trick.FromDrawOff,
	})

	r.turn = r.leader
	r.evaluateOutcome()
	if !r.Finished() && len(r.tricks) < 3 {
		r.tricks = append(r.tricks, shared.NewTrick())
	}
}

// evaluateOutcome applies the best-of-3 rules with parda handling: pardas
// count for no one, the first non-tied trick breaks an even score, three
// pardas go to mano.
func (r *Round) evaluateOutcome() {
	var wins [2]int
	ties := 0
	firstWinner := NoPlayer
	resolved := 0
	for _, t := range r.tricks {
		if !t.Resolved {
			continue
		}
		resolved++
		if t.WinnerIndex == shared.TrickTie {
			ties++
			continue
		}
		wins[t.WinnerIndex]++
		if firstWinner == NoPlayer {
			firstWinner = t.WinnerIndex
		}
	}

	switch {
	case wins[0] >= 2:
		r.finish(0, "tricks")
	case wins[1] >= 2:
		r.finish(1, "tricks")
	case ties > 0 && wins[0] != wins[1]:
		// A parda hands the round to whoever is ahead.
		if wins[0] > wins[1] {
			r.finish(0, "tricks")
		} else {
			r.finish(1, "tricks")
		}
	case resolved == 3:
		if firstWinner != NoPlayer {
			r.finish(firstWinner, "tricks")
		} else {
			// Three pardas: mano wins by precedence.
			r.finish(r.Mano, "tricks")
		}
	}
}

// finish ends the round via trick play, paying the truco pool at the
// accepted rung (or the 1-point default).
func (r *Round) finish(winner int, reason string) {
	r.settleCountBets()

	points := 0
	if !r.trucoSettled {
		points, _ = r.truco.AcceptedValue()
		r.players[winner].Score.Truco += points
		r.trucoSettled = true
	}
	r.Outcome = &RoundOutcome{Winner: winner, TrucoPoints: points, Reason: reason}

	r.log.WithFields(logrus.Fields{
		"round":  r.Number,
		"winner": r.players[winner].Name,
		"points": points,
		"reason": reason,
	}).Info("round over")
	r.emit(protocol.EventRoundEnd, protocol.RoundEndPayload{
		Number:      r.Number,
		WinnerID:    r.players[winner].ID,
		TrucoPoints: points,
		Reason:      reason,
	})
}

// voidRound abandons the round without a trick winner. Envido and flor
// resolutions already earned still stand.
func (r *Round) voidRound(reason string) {
	r.settleCountBets()
	r.Outcome = &RoundOutcome{Winner: NoPlayer, Void: true, Reason: reason}

	r.log.WithFields(logrus.Fields{"round": r.Number, "reason": reason}).Info("round void, redealing")
	r.emit(protocol.EventRoundEnd, protocol.RoundEndPayload{
		Number: r.Number,
		Void:   true,
		Reason: reason,
	})
}

// ---- betting ----

func (r *Round) proposeCall(player int, kind CallKind, rung string) error {
	if r.Finished() {
		return illegalActionf("round is over")
	}
	ladder := r.ladderFor(kind)
	if ladder == nil {
		return illegalActionf("unknown call kind %q", kind)
	}

	if pending, pendingKind := r.pendingLadder(); pending != nil {
		// Sole exception: declaring flor over a pending envido. Flor takes
		// precedence and cancels the envido without award.
		if kind == CallFlor && pendingKind == CallEnvido && pending.Responder() == player &&
			r.florEligible[player] && !r.flor.Engaged() {
			r.envido.Void()
			r.log.WithField("player", r.players[player].Name).Info("flor cancels pending envido")
			r.emit(protocol.EventCallResolved, protocol.CallResolvedPayload{
				Kind: string(CallEnvido), Voided: true,
			})
		} else {
			return illegalActionf("%s call awaiting response", pendingKind)
		}
	} else if ladder.Resolution() != bet.Accepted && player != r.turn {
		// Opening a ladder requires the turn; raising back an accepted call
		// does not, so the accepting side gets its raise window.
		return illegalActionf("not %s's turn", r.players[player].Name)
	}

	switch kind {
	case CallTruco:
		if r.lastTrickStarted() {
			return illegalActionf("truco window closed: last trick started")
		}
	case CallEnvido:
		if !r.windowOpen {
			return illegalActionf("envido window closed")
		}
		if r.flor.Engaged() {
			return illegalActionf("flor forecloses envido")
		}
		if r.florEligible[player] {
			return illegalActionf("flor must be declared before envido")
		}
	case CallFlor:
		if !r.windowOpen {
			return illegalActionf("flor window closed")
		}
		if !r.florEligible[player] {
			return illegalActionf("hand has no flor")
		}
		if !r.flor.Engaged() && rung != "flor" {
			return illegalActionf("flor must be declared before raising")
		}
	}

	if err := ladder.Propose(player, rung); err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{
		"round":  r.Number,
		"player": r.players[player].Name,
		"call":   rung,
	}).Info("call proposed")
	r.emit(protocol.EventCallProposed, protocol.CallProposedPayload{
		Kind:     string(kind),
		Rung:     rung,
		PlayerID: r.players[player].ID,
	})

	// A flor against a handful of anything else is not contested: the
	// declarer collects immediately and play goes on.
	if kind == CallFlor && !r.florEligible[1-player] {
		if err := r.flor.Respond(1-player, true); err != nil {
			r.log.Panicf("uncontested flor auto-accept: %v: %s", err, r.dump())
		}
		r.resolveFlor()
	}
	return nil
}

func (r *Round) respondCall(player int, accept bool) error {
	if r.Finished() {
		return illegalActionf("round is over")
	}
	ladder, kind := r.pendingLadder()
	if ladder == nil {
		return illegalActionf("no call awaiting response")
	}
	proposer := ladder.Proposer()
	rung := ladder.ProposedRung()
	if err := ladder.Respond(player, accept); err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{
		"round":    r.Number,
		"player":   r.players[player].Name,
		"call":     rung,
		"accepted": accept,
	}).Info("call answered")

	if accept {
		r.emit(protocol.EventCallAccepted, protocol.CallAnsweredPayload{
			Kind: string(kind), Rung: rung, PlayerID: r.players[player].ID, Accepted: true,
		})
		// Truco resolves with the tricks; envido and flor resolve when
		// their window closes, leaving the acceptor a raise-back.
		return nil
	}

	r.emit(protocol.EventCallDeclined, protocol.CallAnsweredPayload{
		Kind: string(kind), Rung: rung, PlayerID: r.players[player].ID, Accepted: false,
	})

	award := ladder.DeclineAward()
	switch kind {
	case CallTruco:
		r.players[proposer].Score.Truco += award
		r.trucoSettled = true
		r.emitResolved(kind, proposer, award, "declined")
		if r.cfg.TrucoDeclineEndsRound {
			r.settleCountBets()
			r.Outcome = &RoundOutcome{Winner: proposer, TrucoPoints: award, Reason: "truco_declined"}
			r.emit(protocol.EventRoundEnd, protocol.RoundEndPayload{
				Number:      r.Number,
				WinnerID:    r.players[proposer].ID,
				TrucoPoints: award,
				Reason:      "truco_declined",
			})
		}
	case CallEnvido:
		r.players[proposer].Score.Envido += award
		r.envidoAwarded = true
		r.emitResolved(kind, proposer, award, "declined")
	case CallFlor:
		r.players[proposer].Score.Flor += award
		r.florAwarded = true
		r.emitResolved(kind, proposer, award, "declined")
	}
	return nil
}

// closeWindow shuts the envido/flor window and settles whatever was accepted
// inside it.
func (r *Round) closeWindow() {
	if !r.windowOpen {
		return
	}
	r.windowOpen = false
	r.settleCountBets()
}

// settleCountBets resolves accepted envido and flor ladders by comparing the
// dealt hands. Ties go to mano. Idempotent.
func (r *Round) settleCountBets() {
	if r.envido.Resolution() == bet.Accepted && !r.envidoAwarded && !r.envido.Voided() {
		counts := [2]int{shared.EnvidoScore(r.dealt[0]), shared.EnvidoScore(r.dealt[1])}
		winner := r.compareCounts(counts)
		value := r.stakeValue(r.envido, winner)
		r.players[winner].Score.Envido += value
		r.envidoAwarded = true
		r.log.WithFields(logrus.Fields{
			"counts": fmt.Sprintf("%d-%d", counts[0], counts[1]),
			"winner": r.players[winner].Name,
			"points": value,
		}).Info("envido resolved")
		r.emitResolved(CallEnvido, winner, value, "showdown")
	}
	if r.flor.Resolution() == bet.Accepted && !r.florAwarded {
		r.resolveFlor()
	}
}

func (r *Round) resolveFlor() {
	if r.florAwarded {
		return
	}
	winner := 0
	switch {
	case r.florEligible[0] && !r.florEligible[1]:
		winner = 0
	case r.florEligible[1] && !r.florEligible[0]:
		winner = 1
	default:
		counts := [2]int{shared.FlorScore(r.dealt[0]), shared.FlorScore(r.dealt[1])}
		winner = r.compareCounts(counts)
	}
	value := r.stakeValue(r.flor, winner)
	r.players[winner].Score.Flor += value
	r.florAwarded = true
	r.log.WithFields(logrus.Fields{
		"winner": r.players[winner].Name,
		"points": value,
	}).Info("flor resolved")
	r.emitResolved(CallFlor, winner, value, "showdown")
}

// compareCounts picks the higher count, mano on a tie.
func (r *Round) compareCounts(counts [2]int) int {
	switch {
	case counts[0] > counts[1]:
		return 0
	case counts[1] > counts[0]:
		return 1
	default:
		return r.Mano
	}
}

// stakeValue turns an accepted rung into points. To-target rungs pay what
// the loser still needed to win the match, never less than one point.
func (r *Round) stakeValue(s *bet.State, winner int) int {
	value, toTarget := s.AcceptedValue()
	if toTarget {
		value = r.cfg.TargetScore - r.players[1-winner].Score.Total()
		if value < 1 {
			value = 1
		}
	}
	return value
}

func (r *Round) emitResolved(kind CallKind, winner, points int, how string) {
	r.emit(protocol.EventCallResolved, protocol.CallResolvedPayload{
		Kind:     string(kind),
		WinnerID: r.players[winner].ID,
		Points:   points,
		How:      how,
	})
}

// ---- mazo ----

func (r *Round) pass(player int) error {
	if r.Finished() {
		return illegalActionf("round is over")
	}
	if _, kind := r.pendingLadder(); kind != "" {
		return illegalActionf("%s call awaiting response", kind)
	}
	if player != r.turn {
		return illegalActionf("not %s's turn", r.players[player].Name)
	}
	if len(r.currentTrick().Cards) > 0 {
		return illegalActionf("cannot pass once the trick has a card")
	}

	r.passStreak++
	r.turn = 1 - player
	r.log.WithField("player", r.players[player].Name).Info("passed")

	if r.passStreak == 2 {
		r.passStreak = 0
		r.resolveMazo()
	}
	return nil
}

// resolveMazo handles the both-pass draw-off: one deck card each, compared
// like a trick, hands untouched. The redeal variant, or a dry deck, voids
// the round instead.
func (r *Round) resolveMazo() {
	if r.cfg.MazoMode == MazoRedeal {
		r.voidRound("mazo_redeal")
		return
	}

	lead, other := r.leader, 1-r.leader
	cardLead, err := r.deck.Draw()
	if err != nil {
		r.log.WithError(err).Warn("mazo draw-off impossible, falling back to redeal")
		r.voidRound("mazo_redeal")
		return
	}
	cardOther, err := r.deck.Draw()
	if err != nil {
		r.log.WithError(err).Warn("mazo draw-off impossible, falling back to redeal")
		r.voidRound("mazo_redeal")
		return
	}

	trick := r.currentTrick()
	trick.FromDrawOff = true
	trick.AddCard(cardLead, lead)
	trick.AddCard(cardOther, other)

	r.log.WithFields(logrus.Fields{
		"round": r.Number,
		"cards": fmt.Sprintf("%s vs %s", cardLead, cardOther),
	}).Info("mazo draw-off")
	r.emit(protocol.EventMazoDrawOff, protocol.MazoDrawOffPayload{
		Cards: []shared.PlayedCard{
			{Card: cardLead, PlayerIndex: lead},
			{Card: cardOther, PlayerIndex: other},
		},
	})

	r.resolveTrick()
}

// ---- legal actions ----

// legalActions enumerates every action the player could submit right now.
func (r *Round) legalActions(player int) []Action {
	if r.Finished() {
		return nil
	}
	actions := []Action{}

	if pending, pendingKind := r.pendingLadder(); pending != nil {
		if pending.Responder() == player {
			actions = append(actions, RespondCall(true), RespondCall(false))
			if pendingKind == CallEnvido && r.florEligible[player] && !r.flor.Engaged() {
				actions = append(actions, ProposeCall(CallFlor, "flor"))
			}
		}
		return append(actions, Resign())
	}

	if player == r.turn {
		for _, c := range r.players[player].Hand {
			actions = append(actions, PlayCard(c))
		}
		if len(r.currentTrick().Cards) == 0 {
			actions = append(actions, Pass())
		}
	}

	actions = append(actions, r.legalCalls(player)...)
	return append(actions, Resign())
}

// legalCalls lists proposals open to the player: ladder openings on their
// turn, raise-backs of an accepted call any time within the window.
func (r *Round) legalCalls(player int) []Action {
	var actions []Action

	trucoOpen := !r.lastTrickStarted() && !r.trucoSettled
	if trucoOpen && (r.truco.Resolution() == bet.Accepted || player == r.turn) {
		for _, rung := range r.truco.NextRungs(player) {
			actions = append(actions, ProposeCall(CallTruco, rung))
		}
	}

	if r.windowOpen {
		if !r.flor.Engaged() && !r.florEligible[player] &&
			(r.envido.Resolution() == bet.Accepted || player == r.turn) {
			for _, rung := range r.envido.NextRungs(player) {
				actions = append(actions, ProposeCall(CallEnvido, rung))
			}
		}
		if r.florEligible[player] {
			if !r.flor.Engaged() && player == r.turn {
				actions = append(actions, ProposeCall(CallFlor, "flor"))
			} else if r.flor.Resolution() == bet.Accepted {
				for _, rung := range r.flor.NextRungs(player) {
					actions = append(actions, ProposeCall(CallFlor, rung))
				}
			}
		}
	}
	return actions
}

// dump renders the full round state for invariant-violation diagnostics.
func (r *Round) dump() string {
	return fmt.Sprintf("round=%d mano=%d turn=%d leader=%d tricks=%+v hands=[%v | %v] outcome=%+v",
		r.Number, r.Mano, r.turn, r.leader, r.tricks,
		r.players[0].Hand, r.players[1].Hand, r.Outcome)
}
