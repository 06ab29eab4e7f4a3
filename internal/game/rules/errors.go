// Package rules implements the game's action gateway, mutation routines,
// and resumable state machines. All state changes flow through this package
// so that sorting keys, visibility, the delegate cache, history, and the
// animation buffer stay consistent with every mutation.
package rules

import (
	"errors"
	"fmt"
)

// ErrIllegalAction marks rejections of player-submitted actions: wrong
// phase, wrong side, unpayable cost, card not where expected. Actions
// rejected with this error have not mutated state.
var ErrIllegalAction = errors.New("illegal action")

// ErrInternal marks inconsistencies that indicate an engine bug rather
// than a bad request. The current action is aborted; partial state stands.
var ErrInternal = errors.New("internal error")

func illegalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, args...))
}

func internalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInternal, fmt.Sprintf(format, args...))
}

// IsIllegal reports whether err rejects a player action, as opposed to an
// internal failure.
func IsIllegal(err error) bool {
	return errors.Is(err, ErrIllegalAction)
}
