package game

import (
	"fmt"

	"truco-game/internal/shared"
)

// ActionType identifies one of the five submittable moves.
type ActionType string

const (
	ActionPlayCard    ActionType = "play_card"
	ActionProposeCall ActionType = "propose_call"
	ActionRespondCall ActionType = "respond_call"
	ActionPass        ActionType = "pass"
	ActionResign      ActionType = "resign"
)

// CallKind names a betting mini-game.
type CallKind string

const (
	CallTruco  CallKind = "truco"
	CallEnvido CallKind = "envido"
	CallFlor   CallKind = "flor"
)

// Action is one move submitted by a player. Card is set for play_card, Call
// and Rung for propose_call, Accept for respond_call.
type Action struct {
	Type   ActionType   `json:"type"`
	Card   *shared.Card `json:"card,omitempty"`
	Call   CallKind     `json:"call,omitempty"`
	Rung   string       `json:"rung,omitempty"`
	Accept bool         `json:"accept,omitempty"`
}

func (a Action) String() string {
	switch a.Type {
	case ActionPlayCard:
		if a.Card != nil {
			return fmt.Sprintf("play %s", *a.Card)
		}
		return "play ?"
	case ActionProposeCall:
		return fmt.Sprintf("call %s", a.Rung)
	case ActionRespondCall:
		if a.Accept {
			return "accept"
		}
		return "decline"
	default:
		return string(a.Type)
	}
}

// PlayCard builds a play_card action.
func PlayCard(card shared.Card) Action {
	return Action{Type: ActionPlayCard, Card: &card}
}

// ProposeCall builds a propose_call action for the given ladder rung.
func ProposeCall(kind CallKind, rung string) Action {
	return Action{Type: ActionProposeCall, Call: kind, Rung: rung}
}

// RespondCall builds a respond_call action.
func RespondCall(accept bool) Action {
	return Action{Type: ActionRespondCall, Accept: accept}
}

// Pass builds a pass action.
func Pass() Action {
	return Action{Type: ActionPass}
}

// Resign builds a resign action.
func Resign() Action {
	return Action{Type: ActionResign}
}
