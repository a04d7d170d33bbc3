package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
)

type paymentRepo struct {
	store *Store
	tx    *memTx
}

var _ portsrepo.PaymentRepositoryFacade = (*paymentRepo)(nil)

func (r *paymentRepo) lookup(id string) (domain.PaymentRecord, bool) {
	if r.tx != nil {
		if p, ok := r.tx.payments[id]; ok {
			return p, true
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.payments[id]
	return p, ok
}

func (r *paymentRepo) FindPaymentByID(ctx context.Context, paymentID string) (*domain.PaymentRecord, error) {
	p, ok := r.lookup(paymentID)
	if !ok {
		return nil, fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)
	}
	return &p, nil
}

func (r *paymentRepo) ListPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.PaymentRecord, error) {
	byID := make(map[string]domain.PaymentRecord)
	r.store.mu.RLock()
	for id, p := range r.store.payments {
		if p.DocumentID == documentID {
			byID[id] = p
		}
	}
	r.store.mu.RUnlock()
	if r.tx != nil {
		for id, p := range r.tx.payments {
			if p.DocumentID == documentID {
				byID[id] = p
			}
		}
	}

	payments := make([]domain.PaymentRecord, 0, len(byID))
	for _, p := range byID {
		payments = append(payments, p)
	}
	sortPayments(payments)
	return payments, nil
}

func (r *paymentRepo) PaymentNumberExists(ctx context.Context, number string) (bool, error) {
	if r.tx != nil {
		for _, p := range r.tx.payments {
			if p.Number == number {
				return true, nil
			}
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.payments {
		if p.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *paymentRepo) SavePayment(ctx context.Context, payment domain.PaymentRecord) error {
	if _, exists := r.lookup(payment.PaymentID); exists {
		return fmt.Errorf("%w: payment %s", apperrors.ErrDuplicate, payment.PaymentID)
	}
	if r.tx != nil {
		r.tx.payments[payment.PaymentID] = payment
		r.tx.newPayments[payment.PaymentID] = true
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.payments[payment.PaymentID] = payment
	return nil
}

func (r *paymentRepo) MarkPaymentVoided(ctx context.Context, payment domain.PaymentRecord) error {
	current, ok := r.lookup(payment.PaymentID)
	if !ok {
		return fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, payment.PaymentID)
	}
	if current.Status == domain.PaymentVoided {
		return fmt.Errorf("%w: payment %s is already voided", apperrors.ErrConflict, payment.PaymentID)
	}

	current.Status = domain.PaymentVoided
	current.VoidedAt = payment.VoidedAt
	current.VoidNote = payment.VoidNote
	current.LastUpdatedAt = payment.LastUpdatedAt

	if r.tx != nil {
		r.tx.payments[payment.PaymentID] = current
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.payments[payment.PaymentID] = current
	return nil
}
