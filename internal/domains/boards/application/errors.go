package application

import (
	"errors"
	"fmt"

	"github.com/taskhive/taskhive-api/internal/domains/boards/domain"
	"github.com/taskhive/taskhive-api/internal/domains/boards/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid board input")
	// ErrNotFound signals the board does not exist.
	ErrNotFound = errors.New("board not found")
	// ErrConflict signals a concurrent modification; the caller decides
	// whether to retry.
	ErrConflict = errors.New("board conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, ports.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrAlreadyArchived),
		errors.Is(err, domain.ErrNotArchived):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
