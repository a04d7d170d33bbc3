package accounting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/pkg/money"
)

// ErrNegativeTotal is returned under RejectNegative when adjustments push the
// document total below zero.
var ErrNegativeTotal = errors.New("document total is negative")

// NegativeTotalPolicy decides what happens when discounts exceed the amount
// they are applied to.
type NegativeTotalPolicy string

const (
	// AllowNegative keeps the negative total as computed.
	AllowNegative NegativeTotalPolicy = "allow"
	// ClampToZero reduces the discount so the total is exactly zero.
	ClampToZero NegativeTotalPolicy = "clamp"
	// RejectNegative fails with ErrNegativeTotal.
	RejectNegative NegativeTotalPolicy = "reject"
)

// ParseNegativeTotalPolicy maps a configuration value to a policy. An empty
// value selects AllowNegative.
func ParseNegativeTotalPolicy(s string) (NegativeTotalPolicy, error) {
	switch p := NegativeTotalPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return AllowNegative, nil
	case AllowNegative, ClampToZero, RejectNegative:
		return p, nil
	default:
		return "", fmt.Errorf("unknown negative total policy %q", s)
	}
}

// ResolveDiscount returns the document-level discount for the given subtotal.
// Precedence is "discount amount wins": when both an explicit amount and a
// percent are present, the amount is used and the percent is ignored.
func ResolveDiscount(subtotal money.Decimal, adj domain.Adjustments) money.Decimal {
	if adj.DiscountAmount != nil {
		return *adj.DiscountAmount
	}
	if adj.DiscountPercent != nil && adj.DiscountPercent.IsPositive() {
		return money.Percentage(subtotal, *adj.DiscountPercent)
	}
	return money.Zero
}

// ApplyAdjustments layers shipping, discount and additional tax on top of the
// aggregated line subtotal and tax:
//
//	discount  = explicit amount, else percent of subtotal, else 0
//	subtotal' = subtotal + shipping
//	tax'      = tax + additional tax
//	total     = subtotal' - discount + tax'
//
// Components are rounded to the presentation scale once, at the end, and the
// total is derived from the rounded components so the identity
// Total = Subtotal + Tax + Shipping - Discount holds exactly.
func ApplyAdjustments(subtotal, tax money.Decimal, adj domain.Adjustments, policy NegativeTotalPolicy) (domain.DocumentTotals, error) {
	discount := ResolveDiscount(subtotal, adj)
	shipping := valueOrZero(adj.ShippingAmount)
	additionalTax := valueOrZero(adj.AdditionalTax)

	for _, f := range []struct {
		name  string
		value money.Decimal
	}{{"shipping", shipping}, {"discount", discount}, {"additional tax", additionalTax}} {
		if f.value.IsNegative() {
			return domain.DocumentTotals{}, fmt.Errorf("%w: %s must not be negative, got %s", apperrors.ErrValidation, f.name, f.value.Exact())
		}
	}

	totals := domain.DocumentTotals{
		Subtotal:       subtotal.Round(money.PresentationScale),
		TaxAmount:      tax.Add(additionalTax).Round(money.PresentationScale),
		DiscountAmount: discount.Round(money.PresentationScale),
		ShippingAmount: shipping.Round(money.PresentationScale),
	}
	totals.TotalAmount = totalOf(totals)

	if totals.TotalAmount.IsNegative() {
		switch policy {
		case RejectNegative:
			return domain.DocumentTotals{}, fmt.Errorf("%w: %s", ErrNegativeTotal, totals.TotalAmount)
		case ClampToZero:
			// Shrink the discount by the overshoot so the identity still holds.
			totals.DiscountAmount = totals.DiscountAmount.Add(totals.TotalAmount)
			totals.TotalAmount = totalOf(totals)
		}
	}
	return totals, nil
}

// ComputeTotals prices the items and resolves the document totals in one step.
func ComputeTotals(items []domain.LineItem, adj domain.Adjustments, policy NegativeTotalPolicy) (domain.DocumentTotals, error) {
	subtotal, tax, err := ComputeDocumentLineTotals(items)
	if err != nil {
		return domain.DocumentTotals{}, err
	}
	return ApplyAdjustments(subtotal, tax, adj, policy)
}

// VerifyTotals reports whether totals satisfy the total identity.
func VerifyTotals(t domain.DocumentTotals) bool {
	return totalOf(t).Equal(t.TotalAmount)
}

func totalOf(t domain.DocumentTotals) money.Decimal {
	return t.Subtotal.Add(t.TaxAmount).Add(t.ShippingAmount).Sub(t.DiscountAmount)
}

func valueOrZero(v *money.Decimal) money.Decimal {
	if v == nil {
		return money.Zero
	}
	return *v
}
