package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	portssvc "github.com/SscSPs/erp_finance/internal/core/ports/services"
	"github.com/SscSPs/erp_finance/internal/core/services"
	"github.com/SscSPs/erp_finance/internal/dto"
	"github.com/SscSPs/erp_finance/internal/platform/config"
	"github.com/SscSPs/erp_finance/internal/repositories/memory"
	"github.com/SscSPs/erp_finance/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	modules := make([]string, len(domain.Modules))
	for i, m := range domain.Modules {
		modules[i] = string(m)
	}
	return &config.Config{
		NegativeTotalPolicy: "allow",
		EnabledModules:      modules,
		CodegenMaxAttempts:  10,
	}
}

func newContainer(t *testing.T) (*portssvc.ServiceContainer, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	container, err := services.NewServiceContainer(testConfig(), store, nil)
	require.NoError(t, err)
	return container, store
}

func line(description, qty, price, discount, rate string) dto.LineItemInput {
	return dto.LineItemInput{
		Description:    description,
		Quantity:       dec(qty),
		UnitPrice:      dec(price),
		DiscountAmount: dec(discount),
		TaxRate:        dec(rate),
	}
}

func dec(s string) *money.Decimal {
	d := money.MustParse(s)
	return &d
}

func ptr[T any](v T) *T {
	return &v
}

// sentInvoice creates an invoice of the given untaxed total and sends it.
func sentInvoice(t *testing.T, svc portssvc.DocumentSvcFacade, total string) *domain.Document {
	t.Helper()
	ctx := context.Background()
	doc, err := svc.CreateDocument(ctx, dto.CreateDocumentRequest{
		Type:  domain.DocumentTypeInvoice,
		Items: []dto.LineItemInput{line("Service", "1", total, "0", "0")},
	})
	require.NoError(t, err)
	doc, err = svc.TransitionDocument(ctx, doc.DocumentID, lifecycle.ActionSend, "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusSent, doc.Status)
	return doc
}

func assertBalanceIdentity(t *testing.T, doc *domain.Document) {
	t.Helper()
	assert.True(t, doc.Balance.Equal(doc.Totals.TotalAmount.Sub(doc.AmountPaid)),
		"balance %s != total %s - paid %s", doc.Balance.Exact(), doc.Totals.TotalAmount.Exact(), doc.AmountPaid.Exact())
}

func pay(amount string) dto.ApplyPaymentRequest {
	return dto.ApplyPaymentRequest{Amount: money.MustParse(amount), Method: "cash"}
}
