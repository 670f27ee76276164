package bet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdleState(t *testing.T) {
	s := NewState(TrucoLadder)
	assert.False(t, s.Engaged())
	assert.False(t, s.AwaitingResponse())
	assert.Equal(t, Pending, s.Resolution())

	value, toTarget := s.AcceptedValue()
	assert.Equal(t, 1, value)
	assert.False(t, toTarget)
}

func TestProposeAcceptChain(t *testing.T) {
	s := NewState(TrucoLadder)

	require.NoError(t, s.Propose(0, "truco"))
	assert.True(t, s.AwaitingResponse())
	assert.Equal(t, 0, s.Proposer())
	assert.Equal(t, 1, s.Responder())
	assert.Equal(t, "truco", s.ProposedRung())

	require.NoError(t, s.Respond(1, true))
	assert.Equal(t, Accepted, s.Resolution())
	assert.Equal(t, "truco", s.AcceptedRung())

	// The call token moves to the acceptor: only player 1 may raise.
	assert.ErrorIs(t, s.Propose(0, "retruco"), ErrIllegalRaise)
	require.NoError(t, s.Propose(1, "retruco"))
	require.NoError(t, s.Respond(0, true))

	require.NoError(t, s.Propose(0, "vale_cuatro"))
	require.NoError(t, s.Respond(1, true))

	value, toTarget := s.AcceptedValue()
	assert.Equal(t, 4, value)
	assert.False(t, toTarget)
}

func TestRaisesMustStrictlyIncrease(t *testing.T) {
	s := NewState(EnvidoLadder)
	require.NoError(t, s.Propose(0, "real_envido"))
	require.NoError(t, s.Respond(1, true))

	assert.ErrorIs(t, s.Propose(1, "envido"), ErrIllegalRaise)
	assert.ErrorIs(t, s.Propose(1, "real_envido"), ErrIllegalRaise)
	require.NoError(t, s.Propose(1, "falta_envido"))
}

func TestTrucoLadderForbidsSkipping(t *testing.T) {
	s := NewState(TrucoLadder)
	assert.ErrorIs(t, s.Propose(0, "retruco"), ErrIllegalRaise)
	assert.ErrorIs(t, s.Propose(0, "vale_cuatro"), ErrIllegalRaise)
	require.NoError(t, s.Propose(0, "truco"))
	require.NoError(t, s.Respond(1, true))
	assert.ErrorIs(t, s.Propose(1, "vale_cuatro"), ErrIllegalRaise)
}

func TestEnvidoLadderAllowsSkipping(t *testing.T) {
	s := NewState(EnvidoLadder)
	require.NoError(t, s.Propose(0, "falta_envido"))
	require.NoError(t, s.Respond(1, true))

	_, toTarget := s.AcceptedValue()
	assert.True(t, toTarget)
}

func TestDeclineAward(t *testing.T) {
	// Declining an opening call pays the ladder default.
	s := NewState(TrucoLadder)
	require.NoError(t, s.Propose(0, "truco"))
	require.NoError(t, s.Respond(1, false))
	assert.Equal(t, Declined, s.Resolution())
	assert.Equal(t, 1, s.DeclineAward())

	// Declining a raise pays the rung that was already accepted.
	s = NewState(TrucoLadder)
	require.NoError(t, s.Propose(0, "truco"))
	require.NoError(t, s.Respond(1, true))
	require.NoError(t, s.Propose(1, "retruco"))
	require.NoError(t, s.Respond(0, false))
	assert.Equal(t, 2, s.DeclineAward())
}

func TestDeclinedLadderStaysClosed(t *testing.T) {
	s := NewState(EnvidoLadder)
	require.NoError(t, s.Propose(0, "envido"))
	require.NoError(t, s.Respond(1, false))
	assert.ErrorIs(t, s.Propose(1, "real_envido"), ErrIllegalRaise)
	assert.ErrorIs(t, s.Propose(0, "envido"), ErrIllegalRaise)
}

func TestRespondValidation(t *testing.T) {
	s := NewState(TrucoLadder)
	assert.ErrorIs(t, s.Respond(1, true), ErrIllegalRaise)

	require.NoError(t, s.Propose(0, "truco"))
	assert.ErrorIs(t, s.Respond(0, true), ErrIllegalRaise)
}

func TestOutstandingProposalBlocksAnother(t *testing.T) {
	s := NewState(FlorLadder)
	require.NoError(t, s.Propose(0, "flor"))
	assert.ErrorIs(t, s.Propose(1, "contra_flor"), ErrIllegalRaise)
}

func TestNextRungs(t *testing.T) {
	s := NewState(EnvidoLadder)
	assert.Equal(t, []string{"envido", "real_envido", "falta_envido"}, s.NextRungs(0))

	require.NoError(t, s.Propose(0, "envido"))
	assert.Empty(t, s.NextRungs(1))

	require.NoError(t, s.Respond(1, true))
	assert.Equal(t, []string{"real_envido", "falta_envido"}, s.NextRungs(1))
	assert.Empty(t, s.NextRungs(0))
}

func TestVoid(t *testing.T) {
	s := NewState(EnvidoLadder)
	require.NoError(t, s.Propose(0, "envido"))
	s.Void()

	assert.True(t, s.Voided())
	assert.False(t, s.AwaitingResponse())
	assert.NotEqual(t, Accepted, s.Resolution())
	assert.ErrorIs(t, s.Propose(1, "real_envido"), ErrIllegalRaise)
}
