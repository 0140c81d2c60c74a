package combat

import (
	"errors"
	"fmt"
)

var (
	// ErrDeckExhausted means both the draw sequence and the discard pile are
	// empty, which only happens for a deck that was never loaded.
	ErrDeckExhausted = errors.New("deck exhausted")

	// ErrUnsupportedOption is raised for an enum value without a handling
	// branch. It signals a missing case, not a runtime condition.
	ErrUnsupportedOption = errors.New("unsupported option")

	// ErrCardNotHeld is returned when discarding or exhausting a card that
	// was not drawn from the deck.
	ErrCardNotHeld = errors.New("card not held")
)

// ActionRejectedError is returned by Play when an action fails validation.
// Nothing has been mutated when it is returned.
type ActionRejectedError struct {
	Card   string
	Reason string
}

func (e *ActionRejectedError) Error() string {
	return fmt.Sprintf("action %q rejected: %s", e.Card, e.Reason)
}

// unsupported panics with ErrUnsupportedOption for the named option.
func unsupported(kind string, value any) {
	panic(fmt.Errorf("%w: %s %v", ErrUnsupportedOption, kind, value))
}
