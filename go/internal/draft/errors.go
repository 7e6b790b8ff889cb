package draft

import (
	"errors"
	"fmt"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/pick"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
)

var (
	// ErrNotFound is returned when a referenced draft, team, league or player is absent.
	ErrNotFound = repository.ErrNotFound
	// ErrConflict is returned when a write collides with an existing record.
	ErrConflict = repository.ErrConflict
	// ErrInvalidOrder is returned when the draft order cannot resolve a turn.
	ErrInvalidOrder = pick.ErrInvalidOrder

	ErrEmptyPool            = errors.New("no available players")
	ErrUpstreamIO           = errors.New("upstream storage error")
	ErrPlayerAlreadyDrafted = errors.New("player already drafted")
	ErrNotOnClock           = errors.New("team is not on the clock")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrDraftCompleted       = errors.New("draft is completed")
	ErrValidation           = errors.New("validation failed")
)

// storeErr wraps a repository failure. Not-found and conflict errors keep
// their identity; anything else is reported as ErrUpstreamIO.
func storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", op, ErrUpstreamIO, err)
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
