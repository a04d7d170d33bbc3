package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	"github.com/SscSPs/erp_finance/pkg/money"
)

// LineItemInput is a line as supplied by a caller. Every amount must be
// present; "0" is the explicit way to say no discount or no tax. Derived
// amounts are always recomputed.
type LineItemInput struct {
	SKU            string         `json:"sku"`
	Description    string         `json:"description" binding:"required"`
	Quantity       *money.Decimal `json:"quantity" binding:"required"`
	UnitPrice      *money.Decimal `json:"unitPrice" binding:"required"`
	DiscountAmount *money.Decimal `json:"discountAmount" binding:"required"`
	TaxRate        *money.Decimal `json:"taxRate" binding:"required"`
}

// ToLineItem converts the input into an unpriced domain line. It fails with
// apperrors.ErrValidation when an amount is missing.
func (in LineItemInput) ToLineItem(position int) (domain.LineItem, error) {
	fields := []struct {
		name  string
		value *money.Decimal
	}{
		{"quantity", in.Quantity},
		{"unitPrice", in.UnitPrice},
		{"discountAmount", in.DiscountAmount},
		{"taxRate", in.TaxRate},
	}
	for _, f := range fields {
		if f.value == nil {
			return domain.LineItem{}, fmt.Errorf("%w: line %d is missing %s", apperrors.ErrValidation, position, f.name)
		}
	}
	return domain.LineItem{
		Position:       position,
		SKU:            in.SKU,
		Description:    in.Description,
		Quantity:       *in.Quantity,
		UnitPrice:      *in.UnitPrice,
		DiscountAmount: *in.DiscountAmount,
		TaxRate:        *in.TaxRate,
	}, nil
}

// LineItemInputFrom copies the caller-supplied fields of an existing line.
func LineItemInputFrom(item domain.LineItem) LineItemInput {
	quantity, unitPrice, discount, rate := item.Quantity, item.UnitPrice, item.DiscountAmount, item.TaxRate
	return LineItemInput{
		SKU:            item.SKU,
		Description:    item.Description,
		Quantity:       &quantity,
		UnitPrice:      &unitPrice,
		DiscountAmount: &discount,
		TaxRate:        &rate,
	}
}

// CreateDocumentRequest creates a document in its initial status.
type CreateDocumentRequest struct {
	Type         domain.DocumentType `json:"type" binding:"required,oneof=invoice order quotation pos_transaction commission"`
	CustomerID   string              `json:"customerID"`
	CurrencyCode string              `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	ExternalRef  string              `json:"externalRef"`
	Items        []LineItemInput     `json:"items" binding:"dive"`
	Adjustments  domain.Adjustments  `json:"adjustments"`
}

// JobCardInvoiceRequest raises an invoice for a completed job card.
type JobCardInvoiceRequest struct {
	JobCardRef   string          `json:"jobCardRef" binding:"required"`
	CustomerID   string          `json:"customerID" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	Items        []LineItemInput `json:"items" binding:"required,min=1,dive"`
}

// AddItemsRequest appends lines to a draft document.
type AddItemsRequest struct {
	Items []LineItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateAdjustmentsRequest replaces the document-level adjustments.
type UpdateAdjustmentsRequest struct {
	Adjustments domain.Adjustments `json:"adjustments"`
}

// TransitionRequest asks for a lifecycle action such as send or cancel.
type TransitionRequest struct {
	Action lifecycle.Action `json:"action" binding:"required"`
	Reason string           `json:"reason"`
}

// ConvertDocumentRequest turns a quotation or order into a new document.
type ConvertDocumentRequest struct {
	TargetType domain.DocumentType `json:"targetType" binding:"required,oneof=invoice order"`
}

// ListDocumentsParams filters and paginates documents.
type ListDocumentsParams struct {
	Type       domain.DocumentType   `form:"type"`
	Status     domain.DocumentStatus `form:"status"`
	CustomerID string                `form:"customerID"`
	Limit      int                   `form:"limit"`
	NextToken  *string               `form:"nextToken"`
}

// DocumentResponse is the API view of a document.
type DocumentResponse struct {
	DocumentID       string                `json:"documentID"`
	Type             domain.DocumentType   `json:"type"`
	Number           string                `json:"number"`
	Status           domain.DocumentStatus `json:"status"`
	PaymentStatus    domain.PaymentStatus  `json:"paymentStatus"`
	CustomerID       string                `json:"customerID,omitempty"`
	SourceDocumentID *string               `json:"sourceDocumentID,omitempty"`
	ExternalRef      string                `json:"externalRef,omitempty"`
	CurrencyCode     string                `json:"currencyCode,omitempty"`
	Items            []domain.LineItem     `json:"items"`
	Adjustments      domain.Adjustments    `json:"adjustments"`
	Totals           domain.DocumentTotals `json:"totals"`
	AmountPaid       money.Decimal         `json:"amountPaid"`
	Balance          money.Decimal         `json:"balance"`
	Version          int64                 `json:"version"`
	AllowedActions   []lifecycle.Action    `json:"allowedActions"`
	CancelReason     string                `json:"cancelReason,omitempty"`
	CancelledAt      *time.Time            `json:"cancelledAt,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	LastUpdatedAt    time.Time             `json:"lastUpdatedAt"`
}

// ListDocumentsResponse is a page of documents.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToDocumentResponse converts a domain.Document to DocumentResponse DTO.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	items := d.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	resp := DocumentResponse{
		DocumentID:       d.DocumentID,
		Type:             d.Type,
		Number:           d.Number,
		Status:           d.Status,
		PaymentStatus:    d.PaymentStatus,
		CustomerID:       d.CustomerID,
		SourceDocumentID: d.SourceDocumentID,
		ExternalRef:      d.ExternalRef,
		CurrencyCode:     d.CurrencyCode,
		Items:            items,
		Adjustments:      d.Adjustments,
		Totals:           d.Totals,
		AmountPaid:       d.AmountPaid,
		Balance:          d.Balance,
		Version:          d.Version,
		AllowedActions:   []lifecycle.Action{},
		CancelReason:     d.CancelReason,
		CancelledAt:      d.CancelledAt,
		CreatedAt:        d.CreatedAt,
		LastUpdatedAt:    d.LastUpdatedAt,
	}
	if table, err := lifecycle.For(d.Type); err == nil {
		resp.AllowedActions = table.AllowedActions(d.Status)
	}
	return resp
}

// ToListDocumentsResponse converts a page of documents.
func ToListDocumentsResponse(docs []domain.Document, nextToken *string) ListDocumentsResponse {
	resp := ListDocumentsResponse{Documents: make([]DocumentResponse, len(docs)), NextToken: nextToken}
	for i := range docs {
		resp.Documents[i] = ToDocumentResponse(&docs[i])
	}
	return resp
}
