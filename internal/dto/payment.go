package dto

import (
	"time"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/pkg/money"
)

// ApplyPaymentRequest records a payment against a document.
type ApplyPaymentRequest struct {
	Amount    money.Decimal `json:"amount"`
	Method    string        `json:"method"`
	Reference string        `json:"reference"`
	PaidAt    *time.Time    `json:"paidAt"` // Defaults to now
}

// VoidPaymentRequest reverses a payment.
type VoidPaymentRequest struct {
	Note string `json:"note"`
}

// PaymentResponse is the API view of a payment record.
type PaymentResponse struct {
	PaymentID  string                     `json:"paymentID"`
	DocumentID string                     `json:"documentID"`
	Number     string                     `json:"number"`
	Amount     money.Decimal              `json:"amount"`
	Method     string                     `json:"method,omitempty"`
	Reference  string                     `json:"reference,omitempty"`
	Status     domain.PaymentRecordStatus `json:"status"`
	PaidAt     time.Time                  `json:"paidAt"`
	VoidedAt   *time.Time                 `json:"voidedAt,omitempty"`
	VoidNote   string                     `json:"voidNote,omitempty"`
}

// ListPaymentsResponse lists the payments of one document.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

func ToPaymentResponse(p *domain.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		PaymentID:  p.PaymentID,
		DocumentID: p.DocumentID,
		Number:     p.Number,
		Amount:     p.Amount,
		Method:     p.Method,
		Reference:  p.Reference,
		Status:     p.Status,
		PaidAt:     p.PaidAt,
		VoidedAt:   p.VoidedAt,
		VoidNote:   p.VoidNote,
	}
}

func ToListPaymentsResponse(payments []domain.PaymentRecord) ListPaymentsResponse {
	resp := ListPaymentsResponse{Payments: make([]PaymentResponse, len(payments))}
	for i := range payments {
		resp.Payments[i] = ToPaymentResponse(&payments[i])
	}
	return resp
}
