package game

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truco-game/internal/bet"
	"truco-game/internal/shared"
)

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func card(rank int, suit shared.Suit) shared.Card {
	return shared.Card{Suit: suit, Rank: rank}
}

// testRound builds a round with fixed hands. The deck is left in suit/rank
// order, so a mazo draw-off deals 1-Swords then 2-Swords.
func testRound(hand0, hand1 []shared.Card, mano int, cfg Config) (*Round, [2]*shared.Player) {
	players := [2]*shared.Player{
		shared.NewPlayer("p0", "Ana"),
		shared.NewPlayer("p1", "Bruno"),
	}
	players[0].SetHand(hand0)
	players[1].SetHand(hand1)

	r := &Round{
		Number:     1,
		Mano:       mano,
		deck:       shared.NewDeck(),
		players:    players,
		tricks:     []*shared.Trick{shared.NewTrick()},
		leader:     mano,
		turn:       mano,
		truco:      bet.NewState(bet.TrucoLadder),
		envido:     bet.NewState(bet.EnvidoLadder),
		flor:       bet.NewState(bet.FlorLadder),
		windowOpen: true,
		cfg:        cfg,
		log:        discardLogger(),
		emit:       func(string, any) {},
	}
	r.dealt = [2][]shared.Card{
		append([]shared.Card(nil), hand0...),
		append([]shared.Card(nil), hand1...),
	}
	r.florEligible = [2]bool{shared.HasFlor(hand0), shared.HasFlor(hand1)}
	return r, players
}

// Hands without flor, player 0 clearly stronger.
func strongVsWeak() ([]shared.Card, []shared.Card) {
	return []shared.Card{card(1, shared.Swords), card(1, shared.Clubs), card(4, shared.Cups)},
		[]shared.Card{card(5, shared.Cups), card(6, shared.Cups), card(7, shared.Clubs)}
}

// Hands engineered for a 1-1 split with a parda third trick.
func splitHands() ([]shared.Card, []shared.Card) {
	return []shared.Card{card(1, shared.Swords), card(4, shared.Cups), card(3, shared.Cups)},
		[]shared.Card{card(7, shared.Cups), card(1, shared.Clubs), card(3, shared.Coins)}
}

func TestPlayCardValidation(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	err := r.playCard(1, h1[0])
	var illegal *IllegalActionError
	assert.ErrorAs(t, err, &illegal)

	err = r.playCard(0, card(2, shared.Coins))
	assert.ErrorAs(t, err, &illegal)

	require.NoError(t, r.playCard(0, h0[0]))
	// Replaying a spent card fails.
	assert.ErrorAs(t, r.playCard(0, h0[0]), &illegal)
}

func TestTwoTricksWinTheRound(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.playCard(0, card(1, shared.Swords)))
	require.NoError(t, r.playCard(1, card(5, shared.Cups)))
	assert.Equal(t, 0, r.turn, "trick winner leads the next trick")

	require.NoError(t, r.playCard(0, card(1, shared.Clubs)))
	require.NoError(t, r.playCard(1, card(6, shared.Cups)))

	require.True(t, r.Finished())
	assert.Equal(t, 0, r.Outcome.Winner)
	assert.Equal(t, 1, r.Outcome.TrucoPoints, "untouched truco ladder is worth one point")
	assert.Equal(t, 1, players[0].Score.Truco)
	assert.Equal(t, "tricks", r.Outcome.Reason)
}

func TestTrickWinnerLeadsNext(t *testing.T) {
	h0, h1 := strongVsWeak()
	// Mano 0 leads but loses the first trick.
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.playCard(0, card(4, shared.Cups)))
	require.NoError(t, r.playCard(1, card(7, shared.Clubs)))
	assert.Equal(t, 1, r.turn)

	var illegal *IllegalActionError
	assert.ErrorAs(t, r.playCard(0, card(1, shared.Swords)), &illegal)
}

func TestPardaThenWinEndsRoundEarly(t *testing.T) {
	h0 := []shared.Card{card(3, shared.Cups), card(1, shared.Swords), card(4, shared.Cups)}
	h1 := []shared.Card{card(3, shared.Coins), card(5, shared.Cups), card(6, shared.Cups)}
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.playCard(0, card(3, shared.Cups)))
	require.NoError(t, r.playCard(1, card(3, shared.Coins)))
	assert.Equal(t, 0, r.turn, "leader keeps the lead after a parda")

	require.NoError(t, r.playCard(0, card(1, shared.Swords)))
	require.NoError(t, r.playCard(1, card(5, shared.Cups)))

	require.True(t, r.Finished())
	assert.Equal(t, 0, r.Outcome.Winner)
}

func TestAllPardasGoToMano(t *testing.T) {
	h0 := []shared.Card{card(3, shared.Cups), card(2, shared.Cups), card(6, shared.Cups)}
	h1 := []shared.Card{card(3, shared.Coins), card(2, shared.Coins), card(6, shared.Coins)}
	r, players := testRound(h0, h1, 1, DefaultConfig())

	for i := 0; i < 3; i++ {
		require.NoError(t, r.playCard(1, h1[i]))
		require.NoError(t, r.playCard(0, h0[i]))
	}

	require.True(t, r.Finished())
	assert.Equal(t, 1, r.Outcome.Winner, "three pardas fall to mano")
	assert.Equal(t, 1, players[1].Score.Truco)
}

func TestFirstTrickBreaksFullTie(t *testing.T) {
	h0, h1 := splitHands()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.playCard(0, card(1, shared.Swords)))
	require.NoError(t, r.playCard(1, card(7, shared.Cups)))

	require.NoError(t, r.playCard(0, card(4, shared.Cups)))
	require.NoError(t, r.playCard(1, card(1, shared.Clubs)))

	require.NoError(t, r.playCard(1, card(3, shared.Coins)))
	require.NoError(t, r.playCard(0, card(3, shared.Cups)))

	require.True(t, r.Finished())
	assert.Equal(t, 0, r.Outcome.Winner, "1-1 with a parda falls to the first trick's winner")
}

func TestEnvidoShowdown(t *testing.T) {
	h0 := []shared.Card{card(7, shared.Cups), card(6, shared.Cups), card(4, shared.Swords)} // 33
	h1 := []shared.Card{card(5, shared.Coins), card(2, shared.Coins), card(4, shared.Clubs)} // 27
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallEnvido, "envido"))
	assert.Equal(t, 1, r.ActingPlayer())
	require.NoError(t, r.respondCall(1, true))

	// Points land when the first card closes the window.
	assert.Equal(t, 0, players[0].Score.Envido)
	require.NoError(t, r.playCard(0, h0[0]))
	assert.Equal(t, 2, players[0].Score.Envido)
	assert.Equal(t, 0, players[1].Score.Envido)
}

func TestEnvidoTieGoesToMano(t *testing.T) {
	h0 := []shared.Card{card(7, shared.Cups), card(12, shared.Cups), card(4, shared.Swords)} // 27
	h1 := []shared.Card{card(5, shared.Coins), card(2, shared.Coins), card(4, shared.Clubs)} // 27
	r, players := testRound(h0, h1, 1, DefaultConfig())

	require.NoError(t, r.proposeCall(1, CallEnvido, "envido"))
	require.NoError(t, r.respondCall(0, true))
	require.NoError(t, r.playCard(1, h1[0]))

	assert.Equal(t, 2, players[1].Score.Envido)
	assert.Equal(t, 0, players[0].Score.Envido)
}

func TestEnvidoDecline(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallEnvido, "envido"))
	require.NoError(t, r.respondCall(1, false))

	assert.Equal(t, 1, players[0].Score.Envido)
	assert.False(t, r.Finished(), "declined envido does not end the round")

	var illegal *IllegalActionError
	assert.ErrorAs(t, r.proposeCall(0, CallEnvido, "real_envido"), &illegal)
}

func TestFaltaEnvidoPaysWhatIsLeft(t *testing.T) {
	h0 := []shared.Card{card(7, shared.Cups), card(6, shared.Cups), card(4, shared.Swords)}
	h1 := []shared.Card{card(5, shared.Coins), card(2, shared.Coins), card(4, shared.Clubs)}
	r, players := testRound(h0, h1, 0, DefaultConfig())
	players[1].Score.Truco = 12

	require.NoError(t, r.proposeCall(0, CallEnvido, "falta_envido"))
	require.NoError(t, r.respondCall(1, true))
	require.NoError(t, r.playCard(0, h0[0]))

	assert.Equal(t, 18, players[0].Score.Envido, "stake is what the loser still needed")
}

func TestEnvidoRaiseBackByAcceptor(t *testing.T) {
	h0 := []shared.Card{card(7, shared.Cups), card(6, shared.Cups), card(4, shared.Swords)}
	h1 := []shared.Card{card(5, shared.Coins), card(2, shared.Coins), card(4, shared.Clubs)}
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallEnvido, "envido"))
	require.NoError(t, r.respondCall(1, true))

	// The acceptor raises off turn while the window is still open.
	require.NoError(t, r.proposeCall(1, CallEnvido, "real_envido"))
	require.NoError(t, r.respondCall(0, true))
	require.NoError(t, r.playCard(0, h0[0]))

	assert.Equal(t, 3, players[0].Score.Envido)
}

func TestEnvidoWindowClosesOnFirstCard(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.playCard(0, card(4, shared.Cups)))

	var illegal *IllegalActionError
	assert.ErrorAs(t, r.proposeCall(1, CallEnvido, "envido"), &illegal)
}

func TestEnvidoNeedsTheTurn(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	var illegal *IllegalActionError
	assert.ErrorAs(t, r.proposeCall(1, CallEnvido, "envido"), &illegal)
}

func TestFlorForeclosesEnvido(t *testing.T) {
	h0 := []shared.Card{card(7, shared.Cups), card(6, shared.Cups), card(2, shared.Cups)}
	h1 := []shared.Card{card(5, shared.Coins), card(2, shared.Coins), card(4, shared.Clubs)}
	r, players := testRound(h0, h1, 0, DefaultConfig())

	var illegal *IllegalActionError
	assert.ErrorAs(t, r.proposeCall(0, CallEnvido, "envido"), &illegal)

	// An uncontested flor pays out immediately and play goes on.
	require.NoError(t, r.proposeCall(0, CallFlor, "flor"))
	assert.Equal(t, 3, players[0].Score.Flor)
	assert.False(t, r.Finished())

	require.NoError(t, r.playCard(0, h0[0]))
	assert.ErrorAs(t, r.proposeCall(1, CallEnvido, "envido"), &illegal)
}

func TestFlorCancelsPendingEnvido(t *testing.T) {
	h0 := []shared.Card{card(5, shared.Coins), card(2, shared.Coins), card(4, shared.Clubs)}
	h1 := []shared.Card{card(7, shared.Cups), card(6, shared.Cups), card(2, shared.Cups)}
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallEnvido, "envido"))
	require.NoError(t, r.proposeCall(1, CallFlor, "flor"))

	assert.Equal(t, 0, players[0].Score.Envido, "cancelled envido pays no one")
	assert.Equal(t, 0, players[1].Score.Envido)
	assert.Equal(t, 3, players[1].Score.Flor)
}

func TestContestedFlorShowdown(t *testing.T) {
	h0 := []shared.Card{card(7, shared.Cups), card(6, shared.Cups), card(2, shared.Cups)}   // 35
	h1 := []shared.Card{card(4, shared.Coins), card(5, shared.Coins), card(2, shared.Coins)} // 31
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallFlor, "flor"))
	assert.Equal(t, 0, players[0].Score.Flor, "contested flor waits for a response")

	require.NoError(t, r.respondCall(1, true))
	require.NoError(t, r.playCard(0, h0[0]))

	assert.Equal(t, 3, players[0].Score.Flor)
	assert.Equal(t, 0, players[1].Score.Flor)
}

func TestContraFlorRaise(t *testing.T) {
	h0 := []shared.Card{card(7, shared.Cups), card(6, shared.Cups), card(2, shared.Cups)}
	h1 := []shared.Card{card(4, shared.Coins), card(5, shared.Coins), card(2, shared.Coins)}
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallFlor, "flor"))
	require.NoError(t, r.respondCall(1, true))
	require.NoError(t, r.proposeCall(1, CallFlor, "contra_flor"))
	require.NoError(t, r.respondCall(0, true))
	require.NoError(t, r.playCard(0, h0[0]))

	assert.Equal(t, 6, players[0].Score.Flor)
}

func TestFlorRaiseRequiresDeclarationFirst(t *testing.T) {
	h0 := []shared.Card{card(7, shared.Cups), card(6, shared.Cups), card(2, shared.Cups)}
	h1, _ := strongVsWeak()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	var illegal *IllegalActionError
	assert.ErrorAs(t, r.proposeCall(0, CallFlor, "contra_flor"), &illegal)
}

func TestTrucoAcceptedRaisesStake(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallTruco, "truco"))
	require.NoError(t, r.respondCall(1, true))

	require.NoError(t, r.playCard(0, card(1, shared.Swords)))
	require.NoError(t, r.playCard(1, card(5, shared.Cups)))
	require.NoError(t, r.playCard(0, card(1, shared.Clubs)))
	require.NoError(t, r.playCard(1, card(6, shared.Cups)))

	require.True(t, r.Finished())
	assert.Equal(t, 2, players[0].Score.Truco)
}

func TestTrucoDeclineEndsRound(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallTruco, "truco"))
	require.NoError(t, r.respondCall(1, false))

	require.True(t, r.Finished())
	assert.Equal(t, 0, r.Outcome.Winner)
	assert.Equal(t, "truco_declined", r.Outcome.Reason)
	assert.Equal(t, 1, players[0].Score.Truco)
}

func TestTrucoDeclineCanLeavePlayRunning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrucoDeclineEndsRound = false
	h0, h1 := strongVsWeak()
	r, players := testRound(h0, h1, 0, cfg)

	require.NoError(t, r.proposeCall(0, CallTruco, "truco"))
	require.NoError(t, r.respondCall(1, false))
	assert.False(t, r.Finished())
	assert.Equal(t, 1, players[0].Score.Truco)

	require.NoError(t, r.playCard(0, card(1, shared.Swords)))
	require.NoError(t, r.playCard(1, card(5, shared.Cups)))
	require.NoError(t, r.playCard(0, card(1, shared.Clubs)))
	require.NoError(t, r.playCard(1, card(6, shared.Cups)))

	require.True(t, r.Finished())
	assert.Equal(t, 1, players[0].Score.Truco, "settled truco is not paid twice")
	assert.Equal(t, 0, r.Outcome.TrucoPoints)
}

func TestTrucoRetrucoValeCuatro(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallTruco, "truco"))
	require.NoError(t, r.respondCall(1, true))
	require.NoError(t, r.proposeCall(1, CallTruco, "retruco"))
	require.NoError(t, r.respondCall(0, true))
	require.NoError(t, r.proposeCall(0, CallTruco, "vale_cuatro"))
	require.NoError(t, r.respondCall(1, true))

	require.NoError(t, r.playCard(0, card(1, shared.Swords)))
	require.NoError(t, r.playCard(1, card(5, shared.Cups)))
	require.NoError(t, r.playCard(0, card(1, shared.Clubs)))
	require.NoError(t, r.playCard(1, card(6, shared.Cups)))

	assert.Equal(t, 4, players[0].Score.Truco)
}

func TestTrucoWindowClosesWhenLastTrickStarts(t *testing.T) {
	h0, h1 := splitHands()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.playCard(0, card(1, shared.Swords)))
	require.NoError(t, r.playCard(1, card(7, shared.Cups)))
	require.NoError(t, r.playCard(0, card(4, shared.Cups)))
	require.NoError(t, r.playCard(1, card(1, shared.Clubs)))

	// Trick 2 open, no card yet: truco still legal for the turn holder.
	assert.Contains(t, r.truco.NextRungs(1), "truco")
	require.NoError(t, r.playCard(1, card(3, shared.Coins)))

	var illegal *IllegalActionError
	assert.ErrorAs(t, r.proposeCall(0, CallTruco, "truco"), &illegal)
}

func TestPendingCallBlocksPlayAndPass(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallTruco, "truco"))

	var illegal *IllegalActionError
	assert.ErrorAs(t, r.playCard(1, h1[0]), &illegal)
	assert.ErrorAs(t, r.pass(1), &illegal)
	assert.Error(t, r.respondCall(0, true), "proposer cannot answer their own call")
}

func TestMazoDrawOff(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.pass(0))
	require.NoError(t, r.pass(1))

	trick := r.tricks[0]
	require.True(t, trick.Resolved)
	assert.True(t, trick.FromDrawOff)
	// The unshuffled deck deals 1-Swords to the leader.
	assert.Equal(t, 0, trick.WinnerIndex)
	assert.Equal(t, 3, players[0].HandSize(), "hands survive a draw-off")
	assert.Equal(t, 3, players[1].HandSize())
	assert.False(t, r.Finished())
	assert.Equal(t, 0, r.turn, "draw-off winner leads the next trick")
}

func TestMazoDrawOffClosesEnvidoWindow(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.pass(0))
	require.NoError(t, r.pass(1))

	var illegal *IllegalActionError
	assert.ErrorAs(t, r.proposeCall(0, CallEnvido, "envido"), &illegal)
}

func TestMazoRedeal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MazoMode = MazoRedeal
	h0, h1 := strongVsWeak()
	r, players := testRound(h0, h1, 0, cfg)

	require.NoError(t, r.pass(0))
	require.NoError(t, r.pass(1))

	require.True(t, r.Finished())
	assert.True(t, r.Outcome.Void)
	assert.Equal(t, "mazo_redeal", r.Outcome.Reason)
	assert.Equal(t, 0, players[0].Score.Truco)
	assert.Equal(t, 0, players[1].Score.Truco)
}

func TestPassIllegalOnceTrickHasACard(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.playCard(0, h0[0]))

	var illegal *IllegalActionError
	assert.ErrorAs(t, r.pass(1), &illegal)
}

func TestCardPlayResetsPassStreak(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.pass(0))
	require.NoError(t, r.playCard(1, h1[0]))
	require.NoError(t, r.playCard(0, h0[2]))

	// Trick resolved normally, no draw-off happened.
	assert.False(t, r.tricks[0].FromDrawOff)
}

func TestAcceptedEnvidoSettlesWhenDeclinedTrucoEndsRound(t *testing.T) {
	h0 := []shared.Card{card(7, shared.Cups), card(6, shared.Cups), card(4, shared.Swords)}
	h1 := []shared.Card{card(5, shared.Coins), card(2, shared.Coins), card(4, shared.Clubs)}
	r, players := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallEnvido, "envido"))
	require.NoError(t, r.respondCall(1, true))
	require.NoError(t, r.proposeCall(0, CallTruco, "truco"))
	require.NoError(t, r.respondCall(1, false))

	require.True(t, r.Finished())
	assert.Equal(t, 2, players[0].Score.Envido, "accepted envido resolves before the round closes")
	assert.Equal(t, 1, players[0].Score.Truco)
}

func TestLegalActionsResponder(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	require.NoError(t, r.proposeCall(0, CallEnvido, "envido"))

	responder := r.legalActions(1)
	assert.Contains(t, responder, RespondCall(true))
	assert.Contains(t, responder, RespondCall(false))
	assert.Contains(t, responder, Resign())
	for _, a := range responder {
		assert.NotEqual(t, ActionPlayCard, a.Type)
	}

	proposer := r.legalActions(0)
	assert.Equal(t, []Action{Resign()}, proposer)
}

func TestLegalActionsTurnHolder(t *testing.T) {
	h0, h1 := strongVsWeak()
	r, _ := testRound(h0, h1, 0, DefaultConfig())

	actions := r.legalActions(0)
	assert.Contains(t, actions, PlayCard(h0[0]))
	assert.Contains(t, actions, Pass())
	assert.Contains(t, actions, ProposeCall(CallTruco, "truco"))
	assert.Contains(t, actions, ProposeCall(CallEnvido, "envido"))
	assert.Contains(t, actions, ProposeCall(CallEnvido, "falta_envido"))
	assert.Contains(t, actions, Resign())

	// Off turn with nothing pending: no cards, no openings.
	waiting := r.legalActions(1)
	assert.Equal(t, []Action{Resign()}, waiting)
}
