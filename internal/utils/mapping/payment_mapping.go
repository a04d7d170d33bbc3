package mapping

import (
	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/models"
)

// ToModelPayment converts a domain PaymentRecord to its row.
func ToModelPayment(d domain.PaymentRecord) models.Payment {
	return models.Payment{
		PaymentID:   d.PaymentID,
		DocumentID:  d.DocumentID,
		Number:      d.Number,
		Amount:      d.Amount,
		Method:      d.Method,
		Reference:   d.Reference,
		Status:      string(d.Status),
		PaidAt:      d.PaidAt,
		VoidedAt:    nullTime(d.VoidedAt),
		VoidNote:    d.VoidNote,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a row to a domain PaymentRecord.
func ToDomainPayment(m models.Payment) domain.PaymentRecord {
	p := domain.PaymentRecord{
		PaymentID:   m.PaymentID,
		DocumentID:  m.DocumentID,
		Number:      m.Number,
		Amount:      m.Amount,
		Method:      m.Method,
		Reference:   m.Reference,
		Status:      domain.PaymentRecordStatus(m.Status),
		PaidAt:      m.PaidAt,
		VoidNote:    m.VoidNote,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.VoidedAt.Valid {
		at := m.VoidedAt.Time
		p.VoidedAt = &at
	}
	return p
}

func ToDomainPaymentSlice(ms []models.Payment) []domain.PaymentRecord {
	ds := make([]domain.PaymentRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}

func ToDomainModuleSetting(m models.ModuleSetting) domain.ModuleSetting {
	s := domain.ModuleSetting{Module: domain.Module(m.Module), Enabled: m.Enabled}
	if m.UpdatedAt.Valid {
		s.UpdatedAt = m.UpdatedAt.Time
	}
	return s
}
