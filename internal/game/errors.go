package game

import "fmt"

// IllegalActionError reports an action submitted out of turn or outside its
// legality window. The game state is unchanged; the caller should re-offer
// the current legal action set.
type IllegalActionError struct {
	Reason string
}

func (e *IllegalActionError) Error() string {
	return "illegal action: " + e.Reason
}

func illegalActionf(format string, args ...any) error {
	return &IllegalActionError{Reason: fmt.Sprintf(format, args...)}
}
