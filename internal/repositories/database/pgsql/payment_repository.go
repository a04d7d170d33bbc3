package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance/internal/models"
	"github.com/SscSPs/erp_finance/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxPaymentRepository struct {
	BaseRepository
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `
	payment_id, document_id, number, amount, method, reference, status,
	paid_at, voided_at, void_note, created_at, last_updated_at`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID, &m.DocumentID, &m.Number, &m.Amount, &m.Method, &m.Reference, &m.Status,
		&m.PaidAt, &m.VoidedAt, &m.VoidNote, &m.CreatedAt, &m.LastUpdatedAt,
	)
	return m, err
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.PaymentRecord, error) {
	m, err := scanPayment(r.q().QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE payment_id = $1`, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)
		}
		return nil, apperrors.NewAppError(500, "failed to find payment "+paymentID, err)
	}
	p := mapping.ToDomainPayment(m)
	return &p, nil
}

func (r *PgxPaymentRepository) ListPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.PaymentRecord, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE document_id = $1 ORDER BY created_at, payment_id`
	rows, err := r.q().Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payments for document "+documentID, err)
	}
	defer rows.Close()

	var ms []models.Payment
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payments", err)
	}
	return mapping.ToDomainPaymentSlice(ms), nil
}

func (r *PgxPaymentRepository) PaymentNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	if err := r.q().QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE number = $1)`, number).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check payment number", err)
	}
	return exists, nil
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.PaymentRecord) error {
	m := mapping.ToModelPayment(payment)
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.q().Exec(ctx, query,
		m.PaymentID, m.DocumentID, m.Number, m.Amount, m.Method, m.Reference, m.Status,
		m.PaidAt, m.VoidedAt, m.VoidNote, m.CreatedAt, m.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment %s (%s)", apperrors.ErrDuplicate, payment.PaymentID, payment.Number)
		}
		return apperrors.NewAppError(500, "failed to insert payment "+payment.PaymentID, err)
	}
	return nil
}

// MarkPaymentVoided flips a completed payment to voided. It never touches a
// payment that is already voided.
func (r *PgxPaymentRepository) MarkPaymentVoided(ctx context.Context, payment domain.PaymentRecord) error {
	m := mapping.ToModelPayment(payment)
	query := `
		UPDATE payments SET status = $2, voided_at = $3, void_note = $4, last_updated_at = $5
		WHERE payment_id = $1 AND status <> $2;
	`
	tag, err := r.q().Exec(ctx, query, m.PaymentID, string(domain.PaymentVoided), m.VoidedAt, m.VoidNote, m.LastUpdatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to void payment "+payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindPaymentByID(ctx, payment.PaymentID); err != nil {
			return err
		}
		return fmt.Errorf("%w: payment %s is already voided", apperrors.ErrConflict, payment.PaymentID)
	}
	return nil
}
