package services

import (
	"errors"
	"fmt"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	"github.com/SscSPs/erp_finance/internal/utils/accounting"
	"github.com/SscSPs/erp_finance/pkg/money"
)

// ErrPayment is the parent of every payment ledger error.
var ErrPayment = errors.New("payment error")

var (
	ErrNonPositiveAmount = fmt.Errorf("%w: amount must be greater than zero", ErrPayment)
	ErrExceedsBalance    = fmt.Errorf("%w: amount exceeds document balance", ErrPayment)
	ErrAlreadyVoided     = fmt.Errorf("%w: payment is already voided", ErrPayment)
	ErrPaymentNotFound   = fmt.Errorf("%w: payment not found on document", ErrPayment)
	// ErrSubCentAmount also matches apperrors.ErrValidation.
	ErrSubCentAmount = fmt.Errorf("%w: %w: amount has more than %d fractional digits",
		ErrPayment, apperrors.ErrValidation, money.PresentationScale)
)

// isRejection reports whether err is a business rule rejection rather than an
// infrastructure failure, which decides the log level.
func isRejection(err error) bool {
	return errors.Is(err, ErrPayment) ||
		errors.Is(err, lifecycle.ErrInvalidTransition) ||
		errors.Is(err, accounting.ErrNegativeTotal) ||
		errors.Is(err, money.ErrArithmetic) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrModuleDisabled)
}
