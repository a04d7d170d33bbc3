package domain

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/erp_finance/pkg/money"
)

// DocumentType identifies the commercial document family. Each family has its
// own status lifecycle.
type DocumentType string

const (
	DocumentTypeInvoice        DocumentType = "invoice"
	DocumentTypeOrder          DocumentType = "order"
	DocumentTypeQuotation      DocumentType = "quotation"
	DocumentTypePOSTransaction DocumentType = "pos_transaction"
	DocumentTypeCommission     DocumentType = "commission"
)

// DocumentTypes lists every supported document family.
var DocumentTypes = []DocumentType{
	DocumentTypeInvoice,
	DocumentTypeOrder,
	DocumentTypeQuotation,
	DocumentTypePOSTransaction,
	DocumentTypeCommission,
}

// Valid reports whether t is a known document family.
func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// NumberPrefix is the prefix used for generated document numbers.
func (t DocumentType) NumberPrefix() string {
	switch t {
	case DocumentTypeInvoice:
		return "INV"
	case DocumentTypeOrder:
		return "SO"
	case DocumentTypeQuotation:
		return "QT"
	case DocumentTypePOSTransaction:
		return "POS"
	case DocumentTypeCommission:
		return "COM"
	default:
		return "DOC"
	}
}

// DocumentStatus is a lifecycle state. The set of reachable states depends on
// the DocumentType.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusSent      DocumentStatus = "sent"
	StatusPartial   DocumentStatus = "partial"
	StatusPaid      DocumentStatus = "paid"
	StatusOverpaid  DocumentStatus = "overpaid"
	StatusClosed    DocumentStatus = "closed"
	StatusCancelled DocumentStatus = "cancelled"
	StatusAccepted  DocumentStatus = "accepted"
	StatusRejected  DocumentStatus = "rejected"
	StatusConverted DocumentStatus = "converted"
	StatusConfirmed DocumentStatus = "confirmed"
	StatusCompleted DocumentStatus = "completed"
	StatusInvoiced  DocumentStatus = "invoiced"
	StatusPending   DocumentStatus = "pending"
	StatusApproved  DocumentStatus = "approved"
)

// PaymentStatus is derived from a document's total and amount paid. It is never
// set directly.
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusOverpaid      PaymentStatus = "overpaid"
)

// LineItem is a single priced line on a document.
type LineItem struct {
	LineID         string        `json:"lineID"`
	DocumentID     string        `json:"documentID"`
	Position       int           `json:"position"`       // 1-based order on the document
	SKU            string        `json:"sku"`            // Optional
	Description    string        `json:"description"`
	Quantity       money.Decimal `json:"quantity"`       // >= 0
	UnitPrice      money.Decimal `json:"unitPrice"`      // >= 0
	DiscountAmount money.Decimal `json:"discountAmount"` // >= 0, subtracted before tax
	TaxRate        money.Decimal `json:"taxRate"`        // Percent, >= 0
	LineTotal      money.Decimal `json:"lineTotal"`      // Derived: qty * price - discount
	LineTax        money.Decimal `json:"lineTax"`        // Derived: lineTotal * taxRate / 100
}

// Adjustments are the document-level amounts applied on top of the line totals.
// A nil field means the adjustment is absent.
type Adjustments struct {
	ShippingAmount  *money.Decimal `json:"shippingAmount,omitempty"`
	DiscountAmount  *money.Decimal `json:"discountAmount,omitempty"`
	DiscountPercent *money.Decimal `json:"discountPercent,omitempty"`
	AdditionalTax   *money.Decimal `json:"additionalTax,omitempty"`
}

// MarshalJSON keeps the caller-supplied amounts exactly as entered, with at
// least the presentation scale for money. Derived amounts use the fixed
// presentation form.
func (li LineItem) MarshalJSON() ([]byte, error) {
	type plain LineItem
	return json.Marshal(struct {
		plain
		Quantity       string `json:"quantity"`
		UnitPrice      string `json:"unitPrice"`
		DiscountAmount string `json:"discountAmount"`
		TaxRate        string `json:"taxRate"`
	}{
		plain:          plain(li),
		Quantity:       li.Quantity.Precise(0),
		UnitPrice:      li.UnitPrice.Precise(money.PresentationScale),
		DiscountAmount: li.DiscountAmount.Precise(money.PresentationScale),
		TaxRate:        li.TaxRate.Precise(0),
	})
}

func (a Adjustments) MarshalJSON() ([]byte, error) {
	precise := func(v *money.Decimal, minScale int32) *string {
		if v == nil {
			return nil
		}
		s := v.Precise(minScale)
		return &s
	}
	return json.Marshal(struct {
		ShippingAmount  *string `json:"shippingAmount,omitempty"`
		DiscountAmount  *string `json:"discountAmount,omitempty"`
		DiscountPercent *string `json:"discountPercent,omitempty"`
		AdditionalTax   *string `json:"additionalTax,omitempty"`
	}{
		ShippingAmount:  precise(a.ShippingAmount, money.PresentationScale),
		DiscountAmount:  precise(a.DiscountAmount, money.PresentationScale),
		DiscountPercent: precise(a.DiscountPercent, 0),
		AdditionalTax:   precise(a.AdditionalTax, money.PresentationScale),
	})
}

// DocumentTotals always satisfies
// TotalAmount = Subtotal + TaxAmount + ShippingAmount - DiscountAmount.
type DocumentTotals struct {
	Subtotal       money.Decimal `json:"subtotal"`
	TaxAmount      money.Decimal `json:"taxAmount"`
	DiscountAmount money.Decimal `json:"discountAmount"`
	ShippingAmount money.Decimal `json:"shippingAmount"`
	TotalAmount    money.Decimal `json:"totalAmount"`
}

// Document is an invoice, order, quotation, POS transaction or commission.
// A document owns its line items and payment records.
type Document struct {
	DocumentID       string         `json:"documentID"`
	Type             DocumentType   `json:"type"`
	Number           string         `json:"number"` // Unique, generated
	Status           DocumentStatus `json:"status"`
	PaymentStatus    PaymentStatus  `json:"paymentStatus"`
	CustomerID       string         `json:"customerID"`
	SourceDocumentID *string        `json:"sourceDocumentID,omitempty"` // Set on converted documents
	ExternalRef      string         `json:"externalRef,omitempty"`      // e.g. job card number
	CurrencyCode     string         `json:"currencyCode"`
	Items            []LineItem     `json:"items"`
	Adjustments      Adjustments    `json:"adjustments"`
	Totals           DocumentTotals `json:"totals"`
	AmountPaid       money.Decimal  `json:"amountPaid"`
	Balance          money.Decimal  `json:"balance"` // TotalAmount - AmountPaid
	Version          int64          `json:"version"` // Bumped on every update
	CancelReason     string         `json:"cancelReason,omitempty"`
	CancelledAt      *time.Time     `json:"cancelledAt,omitempty"`
	AuditFields
}

// RecomputeBalance restores Balance = TotalAmount - AmountPaid.
func (d *Document) RecomputeBalance() {
	d.Balance = d.Totals.TotalAmount.Sub(d.AmountPaid)
}

// NextPosition returns the position for a line appended to the document.
func (d *Document) NextPosition() int {
	next := 1
	for _, item := range d.Items {
		if item.Position >= next {
			next = item.Position + 1
		}
	}
	return next
}

// Clone returns a deep copy so callers can mutate it without aliasing the
// original item slice or pointers.
func (d Document) Clone() Document {
	c := d
	if d.Items != nil {
		c.Items = make([]LineItem, len(d.Items))
		copy(c.Items, d.Items)
	}
	c.Adjustments = d.Adjustments.clone()
	if d.SourceDocumentID != nil {
		id := *d.SourceDocumentID
		c.SourceDocumentID = &id
	}
	if d.CancelledAt != nil {
		at := *d.CancelledAt
		c.CancelledAt = &at
	}
	return c
}

func (a Adjustments) clone() Adjustments {
	cp := func(v *money.Decimal) *money.Decimal {
		if v == nil {
			return nil
		}
		x := *v
		return &x
	}
	return Adjustments{
		ShippingAmount:  cp(a.ShippingAmount),
		DiscountAmount:  cp(a.DiscountAmount),
		DiscountPercent: cp(a.DiscountPercent),
		AdditionalTax:   cp(a.AdditionalTax),
	}
}
