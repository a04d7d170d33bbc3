package repositories

import (
	"context"

	"github.com/SscSPs/erp_finance/internal/core/domain"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a payment record.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.PaymentRecord, error)

	// ListPaymentsByDocumentID retrieves every payment of a document, oldest first.
	ListPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.PaymentRecord, error)

	// PaymentNumberExists reports whether a payment number is already taken.
	PaymentNumberExists(ctx context.Context, number string) (bool, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// SavePayment appends a payment record.
	SavePayment(ctx context.Context, payment domain.PaymentRecord) error

	// MarkPaymentVoided flips a completed payment to voided.
	MarkPaymentVoided(ctx context.Context, payment domain.PaymentRecord) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
