package domain

import (
	"time"

	"github.com/SscSPs/erp_finance/pkg/money"
)

// PaymentRecordStatus indicates whether a payment still counts towards the
// document's amount paid.
type PaymentRecordStatus string

const (
	PaymentCompleted PaymentRecordStatus = "completed"
	PaymentVoided    PaymentRecordStatus = "voided"
)

// PaymentRecord is an applied payment. Records are appended and only ever
// change by flipping Status to voided.
type PaymentRecord struct {
	PaymentID  string              `json:"paymentID"`
	DocumentID string              `json:"documentID"` // Non-owning reference
	Number     string              `json:"number"`
	Amount     money.Decimal       `json:"amount"` // > 0
	Method     string              `json:"method,omitempty"`
	Reference  string              `json:"reference,omitempty"`
	Status     PaymentRecordStatus `json:"status"`
	PaidAt     time.Time           `json:"paidAt"`
	VoidedAt   *time.Time          `json:"voidedAt,omitempty"`
	VoidNote   string              `json:"voidNote,omitempty"`
	AuditFields
}

// IsVoided reports whether the payment has been reversed.
func (p PaymentRecord) IsVoided() bool {
	return p.Status == PaymentVoided
}
