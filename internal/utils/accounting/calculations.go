package accounting

import (
	"fmt"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/pkg/money"
)

// LineAmounts holds the derived amounts of a single line item.
type LineAmounts struct {
	Total money.Decimal
	Tax   money.Decimal
}

// ComputeLineTotal returns the line total (quantity * unit price - discount)
// and the tax levied on that post-discount amount. Amounts keep full precision.
func ComputeLineTotal(item domain.LineItem) (LineAmounts, error) {
	if err := validateLineItem(item); err != nil {
		return LineAmounts{}, err
	}

	gross := item.Quantity.Mul(item.UnitPrice)
	if item.DiscountAmount.GreaterThan(gross) {
		return LineAmounts{}, fmt.Errorf("%w: line %d discount %s exceeds gross amount %s",
			apperrors.ErrValidation, item.Position, item.DiscountAmount, gross)
	}

	total := gross.Sub(item.DiscountAmount)
	return LineAmounts{
		Total: total,
		Tax:   money.Percentage(total, item.TaxRate),
	}, nil
}

func validateLineItem(item domain.LineItem) error {
	fields := []struct {
		name  string
		value money.Decimal
	}{
		{"quantity", item.Quantity},
		{"unit price", item.UnitPrice},
		{"discount", item.DiscountAmount},
		{"tax rate", item.TaxRate},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return fmt.Errorf("%w: line %d %s must not be negative, got %s",
				apperrors.ErrValidation, item.Position, f.name, f.value.Exact())
		}
	}
	return nil
}

// ComputeDocumentLineTotals folds the line totals and line taxes of items into
// a subtotal and a tax amount. The result does not depend on item order.
func ComputeDocumentLineTotals(items []domain.LineItem) (subtotal, tax money.Decimal, err error) {
	subtotal, tax = money.Zero, money.Zero
	for _, item := range items {
		amounts, err := ComputeLineTotal(item)
		if err != nil {
			return money.Zero, money.Zero, err
		}
		subtotal = subtotal.Add(amounts.Total)
		tax = tax.Add(amounts.Tax)
	}
	return subtotal, tax, nil
}

// PriceLines fills LineTotal and LineTax on every item in place.
func PriceLines(items []domain.LineItem) error {
	for i := range items {
		amounts, err := ComputeLineTotal(items[i])
		if err != nil {
			return err
		}
		items[i].LineTotal = amounts.Total
		items[i].LineTax = amounts.Tax
	}
	return nil
}
