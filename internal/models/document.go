package models

import (
	"database/sql"
	"time"

	"github.com/SscSPs/erp_finance/pkg/money"
)

// Document is the row shape of the documents table. The adjustment inputs are
// nullable; the totals are always present.
type Document struct {
	DocumentID       string         `db:"document_id"`
	DocumentType     string         `db:"document_type"`
	Number           string         `db:"number"`
	Status           string         `db:"status"`
	PaymentStatus    string         `db:"payment_status"`
	CustomerID       string         `db:"customer_id"`
	SourceDocumentID sql.NullString `db:"source_document_id"`
	ExternalRef      string         `db:"external_ref"`
	CurrencyCode     string         `db:"currency_code"`

	AdjShippingAmount  *money.Decimal `db:"adj_shipping_amount"`
	AdjDiscountAmount  *money.Decimal `db:"adj_discount_amount"`
	AdjDiscountPercent *money.Decimal `db:"adj_discount_percent"`
	AdjAdditionalTax   *money.Decimal `db:"adj_additional_tax"`

	Subtotal       money.Decimal `db:"subtotal"`
	TaxAmount      money.Decimal `db:"tax_amount"`
	DiscountAmount money.Decimal `db:"discount_amount"`
	ShippingAmount money.Decimal `db:"shipping_amount"`
	TotalAmount    money.Decimal `db:"total_amount"`
	AmountPaid     money.Decimal `db:"amount_paid"`
	Balance        money.Decimal `db:"balance"`

	Version      int64        `db:"version"`
	CancelReason string       `db:"cancel_reason"`
	CancelledAt  sql.NullTime `db:"cancelled_at"`
	AuditFields
}

// DocumentLine is the row shape of the document_lines table.
type DocumentLine struct {
	LineID         string        `db:"line_id"`
	DocumentID     string        `db:"document_id"`
	Position       int           `db:"position"`
	SKU            string        `db:"sku"`
	Description    string        `db:"description"`
	Quantity       money.Decimal `db:"quantity"`
	UnitPrice      money.Decimal `db:"unit_price"`
	DiscountAmount money.Decimal `db:"discount_amount"`
	TaxRate        money.Decimal `db:"tax_rate"`
	LineTotal      money.Decimal `db:"line_total"`
	LineTax        money.Decimal `db:"line_tax"`
}

// Payment is the row shape of the payments table.
type Payment struct {
	PaymentID  string        `db:"payment_id"`
	DocumentID string        `db:"document_id"`
	Number     string        `db:"number"`
	Amount     money.Decimal `db:"amount"`
	Method     string        `db:"method"`
	Reference  string        `db:"reference"`
	Status     string        `db:"status"`
	PaidAt     time.Time     `db:"paid_at"`
	VoidedAt   sql.NullTime  `db:"voided_at"`
	VoidNote   string        `db:"void_note"`
	AuditFields
}

// ModuleSetting is the row shape of the module_settings table.
type ModuleSetting struct {
	Module    string       `db:"module"`
	Enabled   bool         `db:"enabled"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}
