package mapping

import (
	"database/sql"
	"time"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/models"
)

// ToModelDocument converts a domain Document to its row, without lines.
func ToModelDocument(d domain.Document) models.Document {
	m := models.Document{
		DocumentID:         d.DocumentID,
		DocumentType:       string(d.Type),
		Number:             d.Number,
		Status:             string(d.Status),
		PaymentStatus:      string(d.PaymentStatus),
		CustomerID:         d.CustomerID,
		ExternalRef:        d.ExternalRef,
		CurrencyCode:       d.CurrencyCode,
		AdjShippingAmount:  d.Adjustments.ShippingAmount,
		AdjDiscountAmount:  d.Adjustments.DiscountAmount,
		AdjDiscountPercent: d.Adjustments.DiscountPercent,
		AdjAdditionalTax:   d.Adjustments.AdditionalTax,
		Subtotal:           d.Totals.Subtotal,
		TaxAmount:          d.Totals.TaxAmount,
		DiscountAmount:     d.Totals.DiscountAmount,
		ShippingAmount:     d.Totals.ShippingAmount,
		TotalAmount:        d.Totals.TotalAmount,
		AmountPaid:         d.AmountPaid,
		Balance:            d.Balance,
		Version:            d.Version,
		CancelReason:       d.CancelReason,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
	if d.SourceDocumentID != nil {
		m.SourceDocumentID = sql.NullString{String: *d.SourceDocumentID, Valid: true}
	}
	m.CancelledAt = nullTime(d.CancelledAt)
	return m
}

// ToDomainDocument converts a row and its lines to a domain Document.
func ToDomainDocument(m models.Document, lines []models.DocumentLine) domain.Document {
	d := domain.Document{
		DocumentID:    m.DocumentID,
		Type:          domain.DocumentType(m.DocumentType),
		Number:        m.Number,
		Status:        domain.DocumentStatus(m.Status),
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		CustomerID:    m.CustomerID,
		ExternalRef:   m.ExternalRef,
		CurrencyCode:  m.CurrencyCode,
		Adjustments: domain.Adjustments{
			ShippingAmount:  m.AdjShippingAmount,
			DiscountAmount:  m.AdjDiscountAmount,
			DiscountPercent: m.AdjDiscountPercent,
			AdditionalTax:   m.AdjAdditionalTax,
		},
		Totals: domain.DocumentTotals{
			Subtotal:       m.Subtotal,
			TaxAmount:      m.TaxAmount,
			DiscountAmount: m.DiscountAmount,
			ShippingAmount: m.ShippingAmount,
			TotalAmount:    m.TotalAmount,
		},
		AmountPaid:   m.AmountPaid,
		Balance:      m.Balance,
		Version:      m.Version,
		CancelReason: m.CancelReason,
		Items:        ToDomainLineItemSlice(lines),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.SourceDocumentID.Valid {
		id := m.SourceDocumentID.String
		d.SourceDocumentID = &id
	}
	if m.CancelledAt.Valid {
		at := m.CancelledAt.Time
		d.CancelledAt = &at
	}
	return d
}

// ToModelDocumentLine converts a domain LineItem to its row.
func ToModelDocumentLine(d domain.LineItem) models.DocumentLine {
	return models.DocumentLine{
		LineID:         d.LineID,
		DocumentID:     d.DocumentID,
		Position:       d.Position,
		SKU:            d.SKU,
		Description:    d.Description,
		Quantity:       d.Quantity,
		UnitPrice:      d.UnitPrice,
		DiscountAmount: d.DiscountAmount,
		TaxRate:        d.TaxRate,
		LineTotal:      d.LineTotal,
		LineTax:        d.LineTax,
	}
}

// ToDomainLineItem converts a row to a domain LineItem.
func ToDomainLineItem(m models.DocumentLine) domain.LineItem {
	return domain.LineItem{
		LineID:         m.LineID,
		DocumentID:     m.DocumentID,
		Position:       m.Position,
		SKU:            m.SKU,
		Description:    m.Description,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		DiscountAmount: m.DiscountAmount,
		TaxRate:        m.TaxRate,
		LineTotal:      m.LineTotal,
		LineTax:        m.LineTax,
	}
}

func ToDomainLineItemSlice(ms []models.DocumentLine) []domain.LineItem {
	ds := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLineItem(m)
	}
	return ds
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
