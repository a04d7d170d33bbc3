package services

import (
	"context"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance/internal/dto"
)

// PaymentLedgerSvc applies and reverses payments. Each operation updates the
// payment record, the document's amount paid, balance and statuses in one
// unit of work.
type PaymentLedgerSvc interface {
	ApplyPayment(ctx context.Context, documentID string, req dto.ApplyPaymentRequest) (*domain.PaymentRecord, error)
	ApplyPaymentTx(ctx context.Context, tx portsrepo.Tx, documentID string, req dto.ApplyPaymentRequest) (*domain.PaymentRecord, error)
	VoidPayment(ctx context.Context, documentID, paymentID, note string) (*domain.PaymentRecord, error)
	VoidPaymentTx(ctx context.Context, tx portsrepo.Tx, documentID, paymentID, note string) (*domain.PaymentRecord, error)
}

// PaymentReaderSvc defines read operations for payments
type PaymentReaderSvc interface {
	ListPayments(ctx context.Context, documentID string) ([]domain.PaymentRecord, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentLedgerSvc
	PaymentReaderSvc
}
