package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	portssvc "github.com/SscSPs/erp_finance/internal/core/ports/services"
	"github.com/SscSPs/erp_finance/internal/core/services"
	"github.com/SscSPs/erp_finance/internal/dto"
	"github.com/SscSPs/erp_finance/internal/platform/locker"
	"github.com/SscSPs/erp_finance/internal/repositories/memory"
	"github.com/SscSPs/erp_finance/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func reload(t *testing.T, svc portssvc.DocumentSvcFacade, documentID string) *domain.Document {
	t.Helper()
	doc, err := svc.GetDocument(context.Background(), documentID)
	require.NoError(t, err)
	assertBalanceIdentity(t, doc)
	return doc
}

func TestApplyPayment_PartialThenFull(t *testing.T) {
	container, _ := newContainer(t)
	ctx := context.Background()
	doc := sentInvoice(t, container.Document, "210.00")

	first, err := container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("100"))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, first.Status)
	assert.Regexp(t, "^"+services.PaymentNumberPrefix+"-", first.Number)

	doc = reload(t, container.Document, doc.DocumentID)
	assert.Equal(t, "100.00", doc.AmountPaid.String())
	assert.Equal(t, "110.00", doc.Balance.String())
	assert.Equal(t, domain.PaymentStatusPartiallyPaid, doc.PaymentStatus)
	assert.Equal(t, domain.StatusPartial, doc.Status)

	_, err = container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("110"))
	require.NoError(t, err)

	doc = reload(t, container.Document, doc.DocumentID)
	assert.Equal(t, "0.00", doc.Balance.String())
	assert.True(t, doc.Balance.IsZero())
	assert.Equal(t, domain.PaymentStatusPaid, doc.PaymentStatus)
	assert.Equal(t, domain.StatusPaid, doc.Status)
}

func TestApplyPayment_ExceedsBalance(t *testing.T) {
	container, _ := newContainer(t)
	ctx := context.Background()
	doc := sentInvoice(t, container.Document, "30.00")

	_, err := container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("50"))
	assert.ErrorIs(t, err, services.ErrExceedsBalance)
	assert.ErrorIs(t, err, services.ErrPayment)

	doc = reload(t, container.Document, doc.DocumentID)
	assert.Equal(t, "30.00", doc.Balance.String())
	assert.Equal(t, domain.PaymentStatusUnpaid, doc.PaymentStatus)

	payments, err := container.Payment.ListPayments(ctx, doc.DocumentID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestApplyPayment_RejectsSubCentAmounts(t *testing.T) {
	container, _ := newContainer(t)
	ctx := context.Background()
	doc := sentInvoice(t, container.Document, "210.00")

	for _, amount := range []string{"209.999", "0.001", "10.005"} {
		_, err := container.Payment.ApplyPayment(ctx, doc.DocumentID, pay(amount))
		assert.ErrorIs(t, err, services.ErrSubCentAmount, amount)
		assert.ErrorIs(t, err, apperrors.ErrValidation, amount)
		assert.ErrorIs(t, err, services.ErrPayment, amount)
	}

	doc = reload(t, container.Document, doc.DocumentID)
	assert.True(t, doc.Balance.Equal(money.MustParse("210.00")), doc.Balance.Exact())
	assert.Equal(t, domain.PaymentStatusUnpaid, doc.PaymentStatus)
	assert.Equal(t, domain.StatusSent, doc.Status)

	payments, err := container.Payment.ListPayments(ctx, doc.DocumentID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	// Trailing zeros do not count as extra precision.
	_, err = container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("209.990"))
	require.NoError(t, err)
	_, err = container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("0.01"))
	require.NoError(t, err)

	doc = reload(t, container.Document, doc.DocumentID)
	assert.True(t, doc.Balance.IsZero(), doc.Balance.Exact())
	assert.True(t, doc.AmountPaid.Equal(money.MustParse("210")), doc.AmountPaid.Exact())
	assert.Equal(t, domain.PaymentStatusPaid, doc.PaymentStatus)
	assert.Equal(t, domain.StatusPaid, doc.Status)
}

func TestApplyPayment_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, c *portssvc.ServiceContainer) string
		amount  string
		wantErr error
	}{
		{
			name:    "zero amount",
			setup:   func(t *testing.T, c *portssvc.ServiceContainer) string { return sentInvoice(t, c.Document, "10").DocumentID },
			amount:  "0",
			wantErr: services.ErrNonPositiveAmount,
		},
		{
			name:    "negative amount",
			setup:   func(t *testing.T, c *portssvc.ServiceContainer) string { return sentInvoice(t, c.Document, "10").DocumentID },
			amount:  "-5",
			wantErr: services.ErrNonPositiveAmount,
		},
		{
			name:    "missing document",
			setup:   func(*testing.T, *portssvc.ServiceContainer) string { return "missing" },
			amount:  "1",
			wantErr: apperrors.ErrNotFound,
		},
		{
			name: "draft invoice",
			setup: func(t *testing.T, c *portssvc.ServiceContainer) string {
				doc, err := c.Document.CreateDocument(context.Background(), dto.CreateDocumentRequest{
					Type:  domain.DocumentTypeInvoice,
					Items: []dto.LineItemInput{line("x", "1", "10", "0", "0")},
				})
				require.NoError(t, err)
				return doc.DocumentID
			},
			amount:  "1",
			wantErr: lifecycle.ErrInvalidTransition,
		},
		{
			name: "quotation",
			setup: func(t *testing.T, c *portssvc.ServiceContainer) string {
				doc, err := c.Document.CreateDocument(context.Background(), dto.CreateDocumentRequest{Type: domain.DocumentTypeQuotation})
				require.NoError(t, err)
				return doc.DocumentID
			},
			amount:  "1",
			wantErr: lifecycle.ErrInvalidTransition,
		},
		{
			name: "cancelled invoice",
			setup: func(t *testing.T, c *portssvc.ServiceContainer) string {
				doc := sentInvoice(t, c.Document, "10")
				_, err := c.Document.TransitionDocument(context.Background(), doc.DocumentID, lifecycle.ActionCancel, "")
				require.NoError(t, err)
				return doc.DocumentID
			},
			amount:  "1",
			wantErr: lifecycle.ErrInvalidTransition,
		},
		{
			name: "invoicing disabled",
			setup: func(t *testing.T, c *portssvc.ServiceContainer) string {
				doc := sentInvoice(t, c.Document, "10")
				_, err := c.Module.DisableModule(context.Background(), domain.ModuleInvoicing)
				require.NoError(t, err)
				return doc.DocumentID
			},
			amount:  "1",
			wantErr: apperrors.ErrModuleDisabled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, _ := newContainer(t)
			documentID := tt.setup(t, container)

			payment, err := container.Payment.ApplyPayment(context.Background(), documentID, pay(tt.amount))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, payment)
		})
	}
}

func TestApplyPayment_KeepsPaidAt(t *testing.T) {
	container, _ := newContainer(t)
	doc := sentInvoice(t, container.Document, "10.00")

	paidAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	req := pay("4.00")
	req.PaidAt = &paidAt
	req.Reference = "UTR-1"

	payment, err := container.Payment.ApplyPayment(context.Background(), doc.DocumentID, req)
	require.NoError(t, err)
	assert.True(t, payment.PaidAt.Equal(paidAt))
	assert.Equal(t, time.UTC, payment.PaidAt.Location())
	assert.Equal(t, "UTR-1", payment.Reference)
}

func TestVoidPayment_RestoresBalance(t *testing.T) {
	container, _ := newContainer(t)
	ctx := context.Background()
	doc := sentInvoice(t, container.Document, "210.00")

	first, err := container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("100"))
	require.NoError(t, err)
	_, err = container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("110"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, reload(t, container.Document, doc.DocumentID).Status)

	voided, err := container.Payment.VoidPayment(ctx, doc.DocumentID, first.PaymentID, "bounced cheque")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentVoided, voided.Status)
	assert.Equal(t, "bounced cheque", voided.VoidNote)
	assert.NotNil(t, voided.VoidedAt)

	doc = reload(t, container.Document, doc.DocumentID)
	assert.Equal(t, "110.00", doc.AmountPaid.String())
	assert.Equal(t, "100.00", doc.Balance.String())
	assert.Equal(t, domain.PaymentStatusPartiallyPaid, doc.PaymentStatus)
	assert.Equal(t, domain.StatusPartial, doc.Status)

	payments, err := container.Payment.ListPayments(ctx, doc.DocumentID)
	require.NoError(t, err)
	require.Len(t, payments, 2, "voided payments stay in the ledger")
	assert.Equal(t, domain.PaymentVoided, payments[0].Status)
	assert.Equal(t, domain.PaymentCompleted, payments[1].Status)
}

func TestVoidPayment_Guards(t *testing.T) {
	container, _ := newContainer(t)
	ctx := context.Background()
	doc := sentInvoice(t, container.Document, "50.00")
	other := sentInvoice(t, container.Document, "50.00")

	payment, err := container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("20"))
	require.NoError(t, err)

	_, err = container.Payment.VoidPayment(ctx, other.DocumentID, payment.PaymentID, "")
	assert.ErrorIs(t, err, services.ErrPaymentNotFound, "payment belongs to another document")

	_, err = container.Payment.VoidPayment(ctx, doc.DocumentID, "no-such-payment", "")
	assert.ErrorIs(t, err, services.ErrPaymentNotFound)

	_, err = container.Payment.VoidPayment(ctx, doc.DocumentID, payment.PaymentID, "")
	require.NoError(t, err)

	_, err = container.Payment.VoidPayment(ctx, doc.DocumentID, payment.PaymentID, "")
	assert.ErrorIs(t, err, services.ErrAlreadyVoided)

	doc = reload(t, container.Document, doc.DocumentID)
	assert.True(t, doc.AmountPaid.IsZero())
	assert.Equal(t, domain.StatusSent, doc.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, doc.PaymentStatus)
}

func TestVoidPayment_OnCancelledInvoice(t *testing.T) {
	container, _ := newContainer(t)
	ctx := context.Background()
	doc := sentInvoice(t, container.Document, "50.00")

	payment, err := container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("20"))
	require.NoError(t, err)
	_, err = container.Document.TransitionDocument(ctx, doc.DocumentID, lifecycle.ActionCancel, "duplicate invoice")
	require.NoError(t, err)

	_, err = container.Payment.VoidPayment(ctx, doc.DocumentID, payment.PaymentID, "refunded")
	require.NoError(t, err)

	doc = reload(t, container.Document, doc.DocumentID)
	assert.Equal(t, domain.StatusCancelled, doc.Status, "settling never leaves cancelled")
	assert.Equal(t, "50.00", doc.Balance.String())
}

func TestApplyPayment_Overpayment(t *testing.T) {
	cfg := testConfig()
	cfg.AllowOverpayment = true
	container, err := services.NewServiceContainer(cfg, memory.NewStore(), nil)
	require.NoError(t, err)
	ctx := context.Background()
	doc := sentInvoice(t, container.Document, "50.00")

	_, err = container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("60"))
	require.NoError(t, err)

	doc = reload(t, container.Document, doc.DocumentID)
	assert.Equal(t, "-10.00", doc.Balance.String())
	assert.Equal(t, domain.PaymentStatusOverpaid, doc.PaymentStatus)
	assert.Equal(t, domain.StatusOverpaid, doc.Status)

	_, err = container.Document.TransitionDocument(ctx, doc.DocumentID, lifecycle.ActionCancel, "")
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	doc, err = container.Document.TransitionDocument(ctx, doc.DocumentID, lifecycle.ActionClose, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, doc.Status)
}

func TestApplyPayment_POSTransaction(t *testing.T) {
	container, _ := newContainer(t)
	ctx := context.Background()

	doc, err := container.Document.CreateDocument(ctx, dto.CreateDocumentRequest{
		Type:  domain.DocumentTypePOSTransaction,
		Items: []dto.LineItemInput{line("Coffee", "2", "6.00", "0", "0")},
	})
	require.NoError(t, err)
	_, err = container.Document.TransitionDocument(ctx, doc.DocumentID, lifecycle.ActionSubmit, "")
	require.NoError(t, err)

	_, err = container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("5"))
	require.NoError(t, err)
	doc = reload(t, container.Document, doc.DocumentID)
	assert.Equal(t, domain.StatusPending, doc.Status)
	assert.Equal(t, domain.PaymentStatusPartiallyPaid, doc.PaymentStatus)

	last, err := container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("7"))
	require.NoError(t, err)
	doc = reload(t, container.Document, doc.DocumentID)
	assert.Equal(t, domain.StatusCompleted, doc.Status)

	_, err = container.Payment.VoidPayment(ctx, doc.DocumentID, last.PaymentID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, reload(t, container.Document, doc.DocumentID).Status)
}

func TestApplyPayment_CommissionAndOrder(t *testing.T) {
	container, _ := newContainer(t)
	ctx := context.Background()

	commission, err := container.Document.CreateDocument(ctx, dto.CreateDocumentRequest{
		Type:  domain.DocumentTypeCommission,
		Items: []dto.LineItemInput{line("Q3 commission", "1", "80.00", "0", "0")},
	})
	require.NoError(t, err)
	_, err = container.Document.TransitionDocument(ctx, commission.DocumentID, lifecycle.ActionApprove, "")
	require.NoError(t, err)

	_, err = container.Payment.ApplyPayment(ctx, commission.DocumentID, pay("30"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartial, reload(t, container.Document, commission.DocumentID).Status)
	_, err = container.Payment.ApplyPayment(ctx, commission.DocumentID, pay("50"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, reload(t, container.Document, commission.DocumentID).Status)

	order, err := container.Document.CreateDocument(ctx, dto.CreateDocumentRequest{
		Type:  domain.DocumentTypeOrder,
		Items: []dto.LineItemInput{line("Sofa", "1", "900.00", "0", "0")},
	})
	require.NoError(t, err)
	_, err = container.Document.TransitionDocument(ctx, order.DocumentID, lifecycle.ActionConfirm, "")
	require.NoError(t, err)

	_, err = container.Payment.ApplyPayment(ctx, order.DocumentID, pay("300"))
	require.NoError(t, err)
	order = reload(t, container.Document, order.DocumentID)
	assert.Equal(t, domain.StatusConfirmed, order.Status, "deposits do not move the order")
	assert.Equal(t, domain.PaymentStatusPartiallyPaid, order.PaymentStatus)
	assert.Equal(t, "600.00", order.Balance.String())
}

func TestApplyPaymentTx_JoinsCallerTransaction(t *testing.T) {
	container, store := newContainer(t)
	ctx := context.Background()
	doc := sentInvoice(t, container.Document, "100.00")

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = container.Payment.ApplyPaymentTx(ctx, tx, doc.DocumentID, pay("40"))
	require.NoError(t, err)
	_, err = container.Payment.ApplyPaymentTx(ctx, tx, doc.DocumentID, pay("60"))
	require.NoError(t, err)

	inTx, err := tx.Documents().FindDocumentByID(ctx, doc.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, inTx.Status)
	assert.Equal(t, domain.StatusSent, reload(t, container.Document, doc.DocumentID).Status,
		"uncommitted payments are invisible outside the transaction")

	require.NoError(t, tx.Rollback(ctx))

	doc = reload(t, container.Document, doc.DocumentID)
	assert.Equal(t, domain.StatusSent, doc.Status)
	assert.True(t, doc.AmountPaid.IsZero())
	payments, err := container.Payment.ListPayments(ctx, doc.DocumentID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestApplyPaymentTx_FailureInsideCallerTransaction(t *testing.T) {
	container, store := newContainer(t)
	ctx := context.Background()
	doc := sentInvoice(t, container.Document, "100.00")

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = container.Payment.ApplyPaymentTx(ctx, tx, doc.DocumentID, pay("70"))
	require.NoError(t, err)
	_, err = container.Payment.ApplyPaymentTx(ctx, tx, doc.DocumentID, pay("70"))
	assert.ErrorIs(t, err, services.ErrExceedsBalance, "the balance check sees the first payment")

	require.NoError(t, tx.Commit(ctx))
	doc = reload(t, container.Document, doc.DocumentID)
	assert.Equal(t, "30.00", doc.Balance.String())
}

func TestListPayments_MissingDocument(t *testing.T) {
	container, _ := newContainer(t)
	_, err := container.Payment.ListPayments(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestApplyPayment_ConcurrentPaymentsNeverOverdraw(t *testing.T) {
	tests := []struct {
		name   string
		locker bool
	}{
		{name: "row locks only"},
		{name: "with document locker", locker: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			documents := services.NewDocumentService(store)
			var opts []services.PaymentServiceOption
			if tt.locker {
				opts = append(opts, services.WithDocumentLocker(locker.NewLocal()))
			}
			payments := services.NewPaymentService(store, opts...)
			ctx := context.Background()
			doc := sentInvoice(t, documents, "100.00")

			var succeeded, exceeded atomic.Int32
			var g errgroup.Group
			for i := 0; i < 10; i++ {
				g.Go(func() error {
					_, err := payments.ApplyPayment(ctx, doc.DocumentID, pay("20"))
					switch {
					case err == nil:
						succeeded.Add(1)
					case assert.ErrorIs(t, err, services.ErrExceedsBalance):
						exceeded.Add(1)
					}
					return nil
				})
			}
			require.NoError(t, g.Wait())

			assert.Equal(t, int32(5), succeeded.Load())
			assert.Equal(t, int32(5), exceeded.Load())

			doc = reload(t, documents, doc.DocumentID)
			assert.True(t, doc.Balance.Equal(money.Zero))
			assert.Equal(t, domain.StatusPaid, doc.Status)
			ledger, err := payments.ListPayments(ctx, doc.DocumentID)
			require.NoError(t, err)
			assert.Len(t, ledger, 5)
		})
	}
}

func TestApplyPayment_DepositOnInvoicedOrder(t *testing.T) {
	container, _ := newContainer(t)
	ctx := context.Background()

	order, err := container.Document.CreateDocument(ctx, dto.CreateDocumentRequest{
		Type:  domain.DocumentTypeOrder,
		Items: []dto.LineItemInput{line("Sofa", "1", "900.00", "0", "0")},
	})
	require.NoError(t, err)
	_, err = container.Document.TransitionDocument(ctx, order.DocumentID, lifecycle.ActionConfirm, "")
	require.NoError(t, err)
	_, err = container.Document.ConvertDocument(ctx, order.DocumentID, domain.DocumentTypeInvoice)
	require.NoError(t, err)

	_, err = container.Payment.ApplyPayment(ctx, order.DocumentID, pay("100"))
	require.NoError(t, err)
	order, err = container.Document.GetDocument(ctx, order.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInvoiced, order.Status)
	assert.Equal(t, domain.PaymentStatusPartiallyPaid, order.PaymentStatus)
}
