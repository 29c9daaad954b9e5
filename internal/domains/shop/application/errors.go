package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid shop input")
	// ErrDuplicateMember rejects a join under a name that is already taken.
	ErrDuplicateMember = errors.New("member already exists")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrIncompleteAddress) ||
		errors.Is(err, domain.ErrEmptyMemberName) ||
		errors.Is(err, domain.ErrEmptyItemName) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNoOrderLines) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
