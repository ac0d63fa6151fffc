package application

import (
	"errors"
	"fmt"

	boarddomain "github.com/taskhive/taskhive-api/internal/domains/boards/domain"
	boardports "github.com/taskhive/taskhive-api/internal/domains/boards/ports"
	"github.com/taskhive/taskhive-api/internal/domains/tasks/domain"
	"github.com/taskhive/taskhive-api/internal/domains/tasks/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid task input")
	// ErrNotFound signals the task or its board does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrConflict signals a concurrent modification; the caller decides
	// whether to retry.
	ErrConflict = errors.New("task conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ports.ErrNotFound), errors.Is(err, boardports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, ports.ErrConflict), errors.Is(err, boardports.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrMissingBoard),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrPastDueDate),
		errors.Is(err, boarddomain.ErrAlreadyArchived):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
