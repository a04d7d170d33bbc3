package accounting

import (
	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/pkg/money"
)

// DerivePaymentStatus classifies a document by comparing what was paid against
// its total. Comparisons are exact.
func DerivePaymentStatus(total, paid money.Decimal) domain.PaymentStatus {
	switch {
	case paid.Cmp(money.Zero) <= 0:
		return domain.PaymentStatusUnpaid
	case paid.Cmp(total) < 0:
		return domain.PaymentStatusPartiallyPaid
	case paid.Cmp(total) == 0:
		return domain.PaymentStatusPaid
	default:
		return domain.PaymentStatusOverpaid
	}
}

// SumCompletedPayments returns the total of all non-voided payments.
func SumCompletedPayments(payments []domain.PaymentRecord) money.Decimal {
	sum := money.Zero
	for _, p := range payments {
		if p.Status == domain.PaymentCompleted {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}
