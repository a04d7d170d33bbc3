package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_finance/internal/core/ports/services"
	"github.com/SscSPs/erp_finance/internal/core/uow"
	"github.com/SscSPs/erp_finance/internal/dto"
	"github.com/SscSPs/erp_finance/internal/utils/accounting"
	"github.com/SscSPs/erp_finance/internal/utils/codegen"
	"github.com/SscSPs/erp_finance/pkg/money"
	"github.com/google/uuid"
)

// PaymentNumberPrefix prefixes every payment number.
const PaymentNumberPrefix = "PAY"

type paymentService struct {
	BaseService
	store            portsrepo.Store
	guard            *uow.Guard
	locker           portsrepo.DocumentLocker
	codes            *codegen.Generator
	allowOverpayment bool
	now              func() time.Time
}

// PaymentServiceOption is a functional option for configuring the payment service
type PaymentServiceOption func(*paymentService)

// WithPaymentModuleGate makes payment operations check module toggles.
func WithPaymentModuleGate(gate portssvc.ModuleGate) PaymentServiceOption {
	return func(s *paymentService) {
		s.ModuleGate = gate
	}
}

// WithDocumentLocker serializes standalone payment operations on a document
// through an external lock in addition to the store's row lock.
func WithDocumentLocker(l portsrepo.DocumentLocker) PaymentServiceOption {
	return func(s *paymentService) {
		s.locker = l
	}
}

// WithOverpayment lets payments exceed the outstanding balance.
func WithOverpayment(allow bool) PaymentServiceOption {
	return func(s *paymentService) {
		s.allowOverpayment = allow
	}
}

// WithPaymentCodeGenerator replaces the payment number generator.
func WithPaymentCodeGenerator(g *codegen.Generator) PaymentServiceOption {
	return func(s *paymentService) {
		s.codes = g
	}
}

// WithPaymentClock replaces time.Now.
func WithPaymentClock(now func() time.Time) PaymentServiceOption {
	return func(s *paymentService) {
		s.now = now
	}
}

// NewPaymentService creates a new payment ledger with the provided options
func NewPaymentService(store portsrepo.Store, options ...PaymentServiceOption) portssvc.PaymentSvcFacade {
	svc := &paymentService{
		store: store,
		guard: uow.NewGuard(store),
		codes: codegen.NewGenerator(codegen.DefaultMaxAttempts),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

func (s *paymentService) ApplyPayment(ctx context.Context, documentID string, req dto.ApplyPaymentRequest) (*domain.PaymentRecord, error) {
	release, err := s.lock(ctx, documentID)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.ApplyPaymentTx(ctx, nil, documentID, req)
}

// ApplyPaymentTx records a completed payment and settles the document: amount
// paid, balance, payment status and the payment-driven document status are
// updated in the same unit of work as the insert.
func (s *paymentService) ApplyPaymentTx(ctx context.Context, tx portsrepo.Tx, documentID string, req dto.ApplyPaymentRequest) (*domain.PaymentRecord, error) {
	var doc *domain.Document
	payment, err := uow.Do(ctx, s.guard, tx, func(tx portsrepo.Tx) (*domain.PaymentRecord, error) {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: got %s", ErrNonPositiveAmount, req.Amount.Exact())
		}
		if req.Amount.Scale() > money.PresentationScale {
			return nil, fmt.Errorf("%w: got %s", ErrSubCentAmount, req.Amount.Exact())
		}

		var table *lifecycle.Table
		var err error
		doc, table, err = s.lockDocument(ctx, tx, documentID, lifecycle.ActionRecordPayment)
		if err != nil {
			return nil, err
		}
		if !s.allowOverpayment && req.Amount.GreaterThan(doc.Balance) {
			return nil, fmt.Errorf("%w: %s exceeds balance %s of %s", ErrExceedsBalance, req.Amount.Exact(), doc.Balance.Exact(), doc.Number)
		}

		number, err := s.codes.Generate(ctx, PaymentNumberPrefix, tx.Payments().PaymentNumberExists)
		if err != nil {
			return nil, fmt.Errorf("generate payment number: %w", err)
		}
		now := s.now()
		paidAt := now
		if req.PaidAt != nil {
			paidAt = req.PaidAt.UTC()
		}
		payment := domain.PaymentRecord{
			PaymentID:   uuid.NewString(),
			DocumentID:  doc.DocumentID,
			Number:      number,
			Amount:      req.Amount,
			Method:      req.Method,
			Reference:   req.Reference,
			Status:      domain.PaymentCompleted,
			PaidAt:      paidAt,
			AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		if err := tx.Payments().SavePayment(ctx, payment); err != nil {
			return nil, err
		}
		if err := s.settle(ctx, tx, doc, table); err != nil {
			return nil, err
		}
		return &payment, nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Payment rejected",
			slog.String("document_id", documentID),
			slog.String("amount", req.Amount.Exact()))
		return nil, err
	}
	s.LogInfo(ctx, "Payment applied",
		slog.String("document_id", documentID),
		slog.String("payment_id", payment.PaymentID),
		slog.String("amount", payment.Amount.String()),
		slog.String("balance", doc.Balance.String()),
		slog.String("payment_status", string(doc.PaymentStatus)))
	return payment, nil
}

func (s *paymentService) VoidPayment(ctx context.Context, documentID, paymentID, note string) (*domain.PaymentRecord, error) {
	release, err := s.lock(ctx, documentID)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.VoidPaymentTx(ctx, nil, documentID, paymentID, note)
}

// VoidPaymentTx reverses a completed payment of the document and settles the
// document again. Voiding twice fails with ErrAlreadyVoided.
func (s *paymentService) VoidPaymentTx(ctx context.Context, tx portsrepo.Tx, documentID, paymentID, note string) (*domain.PaymentRecord, error) {
	var doc *domain.Document
	payment, err := uow.Do(ctx, s.guard, tx, func(tx portsrepo.Tx) (*domain.PaymentRecord, error) {
		var table *lifecycle.Table
		var err error
		doc, table, err = s.lockDocument(ctx, tx, documentID, lifecycle.ActionVoidPayment)
		if err != nil {
			return nil, err
		}

		payment, err := tx.Payments().FindPaymentByID(ctx, paymentID)
		if errors.Is(err, apperrors.ErrNotFound) || (err == nil && payment.DocumentID != documentID) {
			return nil, fmt.Errorf("%w: %s on %s", ErrPaymentNotFound, paymentID, doc.Number)
		}
		if err != nil {
			return nil, err
		}
		if payment.IsVoided() {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyVoided, payment.Number)
		}

		now := s.now()
		payment.Status = domain.PaymentVoided
		payment.VoidedAt = &now
		payment.VoidNote = note
		payment.LastUpdatedAt = now
		if err := tx.Payments().MarkPaymentVoided(ctx, *payment); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return nil, fmt.Errorf("%w: %s", ErrAlreadyVoided, payment.Number)
			}
			return nil, err
		}
		if err := s.settle(ctx, tx, doc, table); err != nil {
			return nil, err
		}
		return payment, nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Void rejected",
			slog.String("document_id", documentID),
			slog.String("payment_id", paymentID))
		return nil, err
	}
	s.LogInfo(ctx, "Payment voided",
		slog.String("document_id", documentID),
		slog.String("payment_id", paymentID),
		slog.String("balance", doc.Balance.String()),
		slog.String("payment_status", string(doc.PaymentStatus)))
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, documentID string) ([]domain.PaymentRecord, error) {
	if _, err := s.store.Documents().FindDocumentByID(ctx, documentID); err != nil {
		return nil, err
	}
	payments, err := s.store.Payments().ListPaymentsByDocumentID(ctx, documentID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list payments", slog.String("document_id", documentID))
		return nil, err
	}
	return payments, nil
}

// lockDocument takes the row lock and checks that the document accepts action.
func (s *paymentService) lockDocument(ctx context.Context, tx portsrepo.Tx, documentID string, action lifecycle.Action) (*domain.Document, *lifecycle.Table, error) {
	doc, err := tx.Documents().FindDocumentByIDForUpdate(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.RequireModule(ctx, domain.ModuleFor(doc.Type)); err != nil {
		return nil, nil, err
	}
	table, err := lifecycle.For(doc.Type)
	if err != nil {
		return nil, nil, err
	}
	if _, err := table.Transition(doc.Status, action); err != nil {
		return nil, nil, err
	}
	return doc, table, nil
}

// settle rebuilds the amount paid from the completed payments, then the
// balance and both statuses, and saves the document.
func (s *paymentService) settle(ctx context.Context, tx portsrepo.Tx, doc *domain.Document, table *lifecycle.Table) error {
	payments, err := tx.Payments().ListPaymentsByDocumentID(ctx, doc.DocumentID)
	if err != nil {
		return err
	}
	doc.AmountPaid = accounting.SumCompletedPayments(payments)
	doc.RecomputeBalance()
	doc.PaymentStatus = accounting.DerivePaymentStatus(doc.Totals.TotalAmount, doc.AmountPaid)
	doc.Status = table.Settle(doc.Status, doc.PaymentStatus)
	doc.LastUpdatedAt = s.now()
	return tx.Documents().UpdateDocument(ctx, doc)
}

// lock takes the external document lock when one is configured.
func (s *paymentService) lock(ctx context.Context, documentID string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, err := s.locker.Acquire(ctx, documentID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to acquire document lock", slog.String("document_id", documentID))
		return nil, err
	}
	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.LogError(ctx, err, "Failed to release document lock", slog.String("document_id", documentID))
		}
	}, nil
}
