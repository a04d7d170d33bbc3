package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance/internal/models"
	"github.com/SscSPs/erp_finance/internal/utils/mapping"
	"github.com/SscSPs/erp_finance/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type PgxDocumentRepository struct {
	BaseRepository
}

// Ensure implementation matches interface
var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const documentColumns = `
	document_id, document_type, number, status, payment_status, customer_id,
	source_document_id, external_ref, currency_code,
	adj_shipping_amount, adj_discount_amount, adj_discount_percent, adj_additional_tax,
	subtotal, tax_amount, discount_amount, shipping_amount, total_amount,
	amount_paid, balance, version, cancel_reason, cancelled_at,
	created_at, last_updated_at`

func scanDocument(row pgx.Row) (models.Document, error) {
	var m models.Document
	err := row.Scan(
		&m.DocumentID, &m.DocumentType, &m.Number, &m.Status, &m.PaymentStatus, &m.CustomerID,
		&m.SourceDocumentID, &m.ExternalRef, &m.CurrencyCode,
		&m.AdjShippingAmount, &m.AdjDiscountAmount, &m.AdjDiscountPercent, &m.AdjAdditionalTax,
		&m.Subtotal, &m.TaxAmount, &m.DiscountAmount, &m.ShippingAmount, &m.TotalAmount,
		&m.AmountPaid, &m.Balance, &m.Version, &m.CancelReason, &m.CancelledAt,
		&m.CreatedAt, &m.LastUpdatedAt,
	)
	return m, err
}

func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	return r.findDocument(ctx, documentID, false)
}

// FindDocumentByIDForUpdate takes a row lock held until the surrounding
// transaction ends.
func (r *PgxDocumentRepository) FindDocumentByIDForUpdate(ctx context.Context, documentID string) (*domain.Document, error) {
	return r.findDocument(ctx, documentID, r.tx != nil)
}

func (r *PgxDocumentRepository) findDocument(ctx context.Context, documentID string, forUpdate bool) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	m, err := scanDocument(r.q().QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
		}
		return nil, apperrors.NewAppError(500, "failed to find document "+documentID, err)
	}

	lines, err := r.findLines(ctx, []string{documentID})
	if err != nil {
		return nil, err
	}
	doc := mapping.ToDomainDocument(m, lines[documentID])
	return &doc, nil
}

func (r *PgxDocumentRepository) findLines(ctx context.Context, documentIDs []string) (map[string][]models.DocumentLine, error) {
	query := `
		SELECT line_id, document_id, position, sku, description, quantity, unit_price,
		       discount_amount, tax_rate, line_total, line_tax
		FROM document_lines
		WHERE document_id = ANY($1)
		ORDER BY document_id, position;
	`
	rows, err := r.q().Query(ctx, query, documentIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query document lines", err)
	}
	defer rows.Close()

	byDoc := make(map[string][]models.DocumentLine, len(documentIDs))
	for rows.Next() {
		var l models.DocumentLine
		if err := rows.Scan(
			&l.LineID, &l.DocumentID, &l.Position, &l.SKU, &l.Description, &l.Quantity, &l.UnitPrice,
			&l.DiscountAmount, &l.TaxRate, &l.LineTotal, &l.LineTax,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan document line", err)
		}
		byDoc[l.DocumentID] = append(byDoc[l.DocumentID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating document lines", err)
	}
	return byDoc, nil
}

// ListDocuments returns documents ordered by (created_at, document_id) using
// keyset pagination.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	limit = pagination.NormalizeLimit(limit)

	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if filter.Type != "" {
		add("document_type = ?", string(filter.Type))
	}
	if filter.Status != "" {
		add("status = ?", string(filter.Status))
	}
	if filter.CustomerID != "" {
		add("customer_id = ?", filter.CustomerID)
	}
	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursorAt, cursorID)
		where = append(where, fmt.Sprintf("(created_at, document_id) > ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY created_at, document_id LIMIT $%d`, len(args))

	rows, err := r.q().Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list documents", err)
	}
	var ms []models.Document
	for rows.Next() {
		m, err := scanDocument(rows)
		if err != nil {
			rows.Close()
			return nil, nil, apperrors.NewAppError(500, "failed to scan document", err)
		}
		ms = append(ms, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating documents", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.DocumentID)
		next = &token
	}

	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.DocumentID
	}
	lines, err := r.findLines(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	docs := make([]domain.Document, len(ms))
	for i, m := range ms {
		docs[i] = mapping.ToDomainDocument(m, lines[m.DocumentID])
	}
	return docs, next, nil
}

func (r *PgxDocumentRepository) DocumentNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.q().QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check document number", err)
	}
	return exists, nil
}

func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	m := mapping.ToModelDocument(doc)
	query := `INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);`

	return r.atomically(ctx, func(q querier) error {
		_, err := q.Exec(ctx, query,
			m.DocumentID, m.DocumentType, m.Number, m.Status, m.PaymentStatus, m.CustomerID,
			m.SourceDocumentID, m.ExternalRef, m.CurrencyCode,
			m.AdjShippingAmount, m.AdjDiscountAmount, m.AdjDiscountPercent, m.AdjAdditionalTax,
			m.Subtotal, m.TaxAmount, m.DiscountAmount, m.ShippingAmount, m.TotalAmount,
			m.AmountPaid, m.Balance, m.Version, m.CancelReason, m.CancelledAt,
			m.CreatedAt, m.LastUpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: document %s (%s)", apperrors.ErrDuplicate, doc.DocumentID, doc.Number)
			}
			return apperrors.NewAppError(500, "failed to insert document "+doc.DocumentID, err)
		}
		return insertLines(ctx, q, doc.Items)
	})
}

// UpdateDocument writes doc only if the stored version still equals
// doc.Version, then bumps it. Lines are replaced wholesale.
func (r *PgxDocumentRepository) UpdateDocument(ctx context.Context, doc *domain.Document) error {
	m := mapping.ToModelDocument(*doc)
	query := `
		UPDATE documents SET
			status = $3, payment_status = $4, customer_id = $5, external_ref = $6, currency_code = $7,
			adj_shipping_amount = $8, adj_discount_amount = $9, adj_discount_percent = $10, adj_additional_tax = $11,
			subtotal = $12, tax_amount = $13, discount_amount = $14, shipping_amount = $15, total_amount = $16,
			amount_paid = $17, balance = $18, cancel_reason = $19, cancelled_at = $20, last_updated_at = $21,
			version = version + 1
		WHERE document_id = $1 AND version = $2;
	`
	err := r.atomically(ctx, func(q querier) error {
		tag, err := q.Exec(ctx, query,
			m.DocumentID, m.Version,
			m.Status, m.PaymentStatus, m.CustomerID, m.ExternalRef, m.CurrencyCode,
			m.AdjShippingAmount, m.AdjDiscountAmount, m.AdjDiscountPercent, m.AdjAdditionalTax,
			m.Subtotal, m.TaxAmount, m.DiscountAmount, m.ShippingAmount, m.TotalAmount,
			m.AmountPaid, m.Balance, m.CancelReason, m.CancelledAt, m.LastUpdatedAt,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update document "+doc.DocumentID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: document %s changed since version %d", apperrors.ErrConflict, doc.DocumentID, doc.Version)
		}

		if _, err := q.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, doc.DocumentID); err != nil {
			return apperrors.NewAppError(500, "failed to clear lines of document "+doc.DocumentID, err)
		}
		return insertLines(ctx, q, doc.Items)
	})
	if err != nil {
		return err
	}
	doc.Version++
	return nil
}

func insertLines(ctx context.Context, q querier, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	lineQuery := `
		INSERT INTO document_lines (line_id, document_id, position, sku, description, quantity, unit_price,
			discount_amount, tax_rate, line_total, line_tax)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		l := mapping.ToModelDocumentLine(item)
		batch.Queue(lineQuery,
			l.LineID, l.DocumentID, l.Position, l.SKU, l.Description, l.Quantity, l.UnitPrice,
			l.DiscountAmount, l.TaxRate, l.LineTotal, l.LineTax,
		)
	}
	// Close reports the first failing statement of the batch.
	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert document lines", err)
	}
	return nil
}
