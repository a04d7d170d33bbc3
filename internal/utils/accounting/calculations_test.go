package accounting_test

import (
	"math/rand"
	"testing"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/utils/accounting"
	"github.com/SscSPs/erp_finance/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) money.Decimal { return money.MustParse(s) }

func dp(s string) *money.Decimal {
	v := money.MustParse(s)
	return &v
}

func line(qty, price, discount, rate string) domain.LineItem {
	return domain.LineItem{
		Quantity:       d(qty),
		UnitPrice:      d(price),
		DiscountAmount: d(discount),
		TaxRate:        d(rate),
	}
}

func TestComputeLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		item      domain.LineItem
		wantTotal string
		wantTax   string
	}{
		{name: "simple taxed line", item: line("2", "15.00", "0", "10"), wantTotal: "30.00", wantTax: "3.00"},
		{name: "discount before tax", item: line("1", "100", "20", "10"), wantTotal: "80.00", wantTax: "8.00"},
		{name: "fractional quantity", item: line("1.5", "3.3333", "0", "0"), wantTotal: "5.00", wantTax: "0.00"},
		{name: "zero quantity", item: line("0", "99.99", "0", "19"), wantTotal: "0.00", wantTax: "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.ComputeLineTotal(tt.item)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, got.Total.String())
			assert.Equal(t, tt.wantTax, got.Tax.String())
		})
	}
}

func TestComputeLineTotal_KeepsWorkingPrecision(t *testing.T) {
	got, err := accounting.ComputeLineTotal(line("3", "0.3333", "0", "7.5"))
	require.NoError(t, err)
	assert.Equal(t, "0.9999", got.Total.Exact())
	assert.Equal(t, "0.0749925", got.Tax.Exact())
}

func TestComputeLineTotal_RejectsInvalidLines(t *testing.T) {
	tests := []struct {
		name string
		item domain.LineItem
	}{
		{name: "negative quantity", item: line("-1", "10", "0", "0")},
		{name: "negative price", item: line("1", "-10", "0", "0")},
		{name: "negative discount", item: line("1", "10", "-1", "0")},
		{name: "negative tax rate", item: line("1", "10", "0", "-5")},
		{name: "discount above gross", item: line("1", "10", "10.01", "0")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounting.ComputeLineTotal(tt.item)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestComputeDocumentLineTotals_OrderIndependent(t *testing.T) {
	items := []domain.LineItem{
		line("2", "15.00", "0", "10"),
		line("3", "0.3333", "0", "7.5"),
		line("1", "1999.99", "99.99", "19"),
		line("0.25", "4.10", "0.01", "5"),
		line("7", "0.07", "0", "21"),
	}

	wantSubtotal, wantTax, err := accounting.ComputeDocumentLineTotals(items)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := make([]domain.LineItem, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		subtotal, tax, err := accounting.ComputeDocumentLineTotals(shuffled)
		require.NoError(t, err)
		assert.Equal(t, wantSubtotal.Exact(), subtotal.Exact())
		assert.Equal(t, wantTax.Exact(), tax.Exact())
	}
}

func TestComputeDocumentLineTotals_Empty(t *testing.T) {
	subtotal, tax, err := accounting.ComputeDocumentLineTotals(nil)
	require.NoError(t, err)
	assert.True(t, subtotal.IsZero())
	assert.True(t, tax.IsZero())
}

func TestPriceLines(t *testing.T) {
	items := []domain.LineItem{line("2", "15.00", "0", "10"), line("1", "5", "1", "0")}
	require.NoError(t, accounting.PriceLines(items))

	assert.Equal(t, "30.00", items[0].LineTotal.String())
	assert.Equal(t, "3.00", items[0].LineTax.String())
	assert.Equal(t, "4.00", items[1].LineTotal.String())
	assert.Equal(t, "0.00", items[1].LineTax.String())
}
