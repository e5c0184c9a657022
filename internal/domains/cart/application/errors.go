package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
)

// ErrInvalidInput marks cart requests rejected before any state change.
var ErrInvalidInput = errors.New("invalid cart input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidItemID) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrZeroDelta) ||
		errors.Is(err, domain.ErrQuantityTooLarge) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
