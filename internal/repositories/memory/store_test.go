package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance/internal/repositories/memory"
	"github.com/SscSPs/erp_finance/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(id, number string, createdAt time.Time) domain.Document {
	return domain.Document{
		DocumentID:    id,
		Type:          domain.DocumentTypeInvoice,
		Number:        number,
		Status:        domain.StatusDraft,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Items: []domain.LineItem{{
			LineID: id + "-l1", DocumentID: id, Position: 1,
			Quantity: money.NewFromInt(1), UnitPrice: money.MustParse("10.00"),
		}},
		AuditFields: domain.AuditFields{CreatedAt: createdAt, LastUpdatedAt: createdAt},
	}
}

func TestTx_CommitMakesWritesVisible(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Documents().SaveDocument(ctx, newDoc("d1", "INV-1", time.Now())))

	_, err = store.Documents().FindDocumentByID(ctx, "d1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "uncommitted write must be invisible")

	got, err := tx.Documents().FindDocumentByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "INV-1", got.Number)

	require.NoError(t, tx.Commit(ctx))
	got, err = store.Documents().FindDocumentByID(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestTx_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Documents().SaveDocument(ctx, newDoc("d1", "INV-1", time.Now())))
	require.NoError(t, tx.Payments().SavePayment(ctx, domain.PaymentRecord{PaymentID: "p1", DocumentID: "d1"}))
	require.NoError(t, tx.Rollback(ctx))
	require.NoError(t, tx.Rollback(ctx), "second rollback is a no-op")

	_, err = store.Documents().FindDocumentByID(ctx, "d1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = store.Payments().FindPaymentByID(ctx, "p1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateDocument_VersionCheck(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Documents().SaveDocument(ctx, newDoc("d1", "INV-1", time.Now())))

	first, err := store.Documents().FindDocumentByID(ctx, "d1")
	require.NoError(t, err)
	stale, err := store.Documents().FindDocumentByID(ctx, "d1")
	require.NoError(t, err)

	first.Status = domain.StatusSent
	require.NoError(t, store.Documents().UpdateDocument(ctx, first))
	assert.Equal(t, int64(1), first.Version)

	stale.Status = domain.StatusCancelled
	err = store.Documents().UpdateDocument(ctx, stale)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCommit_DetectsConcurrentUpdate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Documents().SaveDocument(ctx, newDoc("d1", "INV-1", time.Now())))

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	doc, err := tx.Documents().FindDocumentByID(ctx, "d1")
	require.NoError(t, err)
	doc.Status = domain.StatusSent
	require.NoError(t, tx.Documents().UpdateDocument(ctx, doc))

	// Someone else commits first without taking the row lock.
	other, err := store.Documents().FindDocumentByID(ctx, "d1")
	require.NoError(t, err)
	require.NoError(t, store.Documents().UpdateDocument(ctx, other))

	assert.ErrorIs(t, tx.Commit(ctx), apperrors.ErrConflict)
}

func TestFindDocumentByIDForUpdate_SerializesTransactions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Documents().SaveDocument(ctx, newDoc("d1", "INV-1", time.Now())))

	first, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = first.Documents().FindDocumentByIDForUpdate(ctx, "d1")
	require.NoError(t, err)

	second, err := store.Begin(ctx)
	require.NoError(t, err)
	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = second.Documents().FindDocumentByIDForUpdate(waitCtx, "d1")
	assert.ErrorIs(t, err, context.DeadlineExceeded, "lock must be held until the first transaction ends")

	// Other documents are independently lockable.
	require.NoError(t, store.Documents().SaveDocument(ctx, newDoc("d2", "INV-2", time.Now())))
	_, err = second.Documents().FindDocumentByIDForUpdate(ctx, "d2")
	require.NoError(t, err)

	require.NoError(t, first.Commit(ctx))
	_, err = second.Documents().FindDocumentByIDForUpdate(ctx, "d1")
	require.NoError(t, err)
	require.NoError(t, second.Rollback(ctx))
}

func TestSaveDocument_DuplicateNumber(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Documents().SaveDocument(ctx, newDoc("d1", "INV-1", time.Now())))

	err := store.Documents().SaveDocument(ctx, newDoc("d2", "INV-1", time.Now()))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	taken, err := store.Documents().DocumentNumberExists(ctx, "INV-1")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestListDocuments_Pagination(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		doc := newDoc(fmt.Sprintf("d%d", i), fmt.Sprintf("INV-%d", i), base.Add(time.Duration(i)*time.Minute))
		if i%2 == 1 {
			doc.Type = domain.DocumentTypeOrder
		}
		require.NoError(t, store.Documents().SaveDocument(ctx, doc))
	}

	page, next, err := store.Documents().ListDocuments(ctx, portsrepo.DocumentFilter{}, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.Equal(t, "d0", page[0].DocumentID)
	assert.Equal(t, "d1", page[1].DocumentID)

	page, next, err = store.Documents().ListDocuments(ctx, portsrepo.DocumentFilter{}, 2, next)
	require.NoError(t, err)
	assert.Equal(t, "d2", page[0].DocumentID)
	assert.Equal(t, "d3", page[1].DocumentID)

	page, next, err = store.Documents().ListDocuments(ctx, portsrepo.DocumentFilter{}, 2, next)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Nil(t, next)

	orders, _, err := store.Documents().ListDocuments(ctx, portsrepo.DocumentFilter{Type: domain.DocumentTypeOrder}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	bad := "not-a-token"
	_, _, err = store.Documents().ListDocuments(ctx, portsrepo.DocumentFilter{}, 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMarkPaymentVoided(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := domain.PaymentRecord{PaymentID: "p1", DocumentID: "d1", Status: domain.PaymentCompleted, Amount: money.MustParse("5")}
	require.NoError(t, store.Payments().SavePayment(ctx, p))

	now := time.Now()
	p.VoidedAt = &now
	p.VoidNote = "bounced"
	require.NoError(t, store.Payments().MarkPaymentVoided(ctx, p))

	got, err := store.Payments().FindPaymentByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentVoided, got.Status)
	assert.Equal(t, "bounced", got.VoidNote)

	assert.ErrorIs(t, store.Payments().MarkPaymentVoided(ctx, p), apperrors.ErrConflict)
}
