package lifecycle

import "github.com/SscSPs/erp_finance/internal/core/domain"

func allow(to domain.DocumentStatus) Rule  { return Rule{Kind: Allowed, To: to} }
func deny(reason string) Rule              { return Rule{Kind: Denied, Reason: reason} }
func derive(to domain.DocumentStatus) Rule { return Rule{Kind: Derived, To: to} }

type cellMap = map[Action]Rule

// payable adds the payment self-loops for status s.
func payable(s domain.DocumentStatus, cells cellMap) cellMap {
	cells[ActionRecordPayment] = allow(s)
	cells[ActionVoidPayment] = allow(s)
	return cells
}

var tables = map[domain.DocumentType]*Table{
	domain.DocumentTypeInvoice:        invoiceTable(),
	domain.DocumentTypeQuotation:      quotationTable(),
	domain.DocumentTypeOrder:          orderTable(),
	domain.DocumentTypePOSTransaction: posTable(),
	domain.DocumentTypeCommission:     commissionTable(),
}

// draft -> sent -> {partial, paid, overpaid} -> closed, cancellable until paid.
func invoiceTable() *Table {
	return &Table{
		docType: domain.DocumentTypeInvoice,
		initial: domain.StatusDraft,
		cells: map[domain.DocumentStatus]map[Action]Rule{
			domain.StatusDraft: {
				ActionEditLines:     allow(domain.StatusDraft),
				ActionSend:          allow(domain.StatusSent),
				ActionCancel:        allow(domain.StatusCancelled),
				ActionRecordPayment: deny("invoice must be sent before payments are recorded"),
			},
			domain.StatusSent: payable(domain.StatusSent, cellMap{
				ActionSend:         allow(domain.StatusSent),
				ActionCancel:       allow(domain.StatusCancelled),
				ActionMarkPartial:  derive(domain.StatusPartial),
				ActionMarkPaid:     derive(domain.StatusPaid),
				ActionMarkOverpaid: derive(domain.StatusOverpaid),
			}),
			domain.StatusPartial: payable(domain.StatusPartial, cellMap{
				ActionCancel:       allow(domain.StatusCancelled),
				ActionMarkUnpaid:   derive(domain.StatusSent),
				ActionMarkPaid:     derive(domain.StatusPaid),
				ActionMarkOverpaid: derive(domain.StatusOverpaid),
			}),
			domain.StatusPaid: payable(domain.StatusPaid, cellMap{
				ActionClose:        allow(domain.StatusClosed),
				ActionCancel:       deny("paid invoices cannot be cancelled; void the payments first"),
				ActionMarkUnpaid:   derive(domain.StatusSent),
				ActionMarkPartial:  derive(domain.StatusPartial),
				ActionMarkOverpaid: derive(domain.StatusOverpaid),
			}),
			domain.StatusOverpaid: payable(domain.StatusOverpaid, cellMap{
				ActionClose:       allow(domain.StatusClosed),
				ActionCancel:      deny("overpaid invoices cannot be cancelled; void the payments first"),
				ActionMarkUnpaid:  derive(domain.StatusSent),
				ActionMarkPartial: derive(domain.StatusPartial),
				ActionMarkPaid:    derive(domain.StatusPaid),
			}),
			domain.StatusClosed: {
				ActionCancel: deny("closed invoices are final"),
			},
			domain.StatusCancelled: {
				ActionVoidPayment: allow(domain.StatusCancelled),
			},
		},
	}
}

// draft -> sent -> {accepted -> converted, rejected}.
func quotationTable() *Table {
	return &Table{
		docType: domain.DocumentTypeQuotation,
		initial: domain.StatusDraft,
		cells: map[domain.DocumentStatus]map[Action]Rule{
			domain.StatusDraft: {
				ActionEditLines: allow(domain.StatusDraft),
				ActionSend:      allow(domain.StatusSent),
				ActionCancel:    allow(domain.StatusCancelled),
			},
			domain.StatusSent: {
				ActionSend:   allow(domain.StatusSent),
				ActionAccept: allow(domain.StatusAccepted),
				ActionReject: allow(domain.StatusRejected),
				ActionCancel: allow(domain.StatusCancelled),
			},
			domain.StatusAccepted: {
				ActionConvert: allow(domain.StatusConverted),
				ActionCancel:  deny("accepted quotations must be converted"),
			},
			domain.StatusRejected:  {},
			domain.StatusConverted: {},
			domain.StatusCancelled: {},
		},
	}
}

// draft -> confirmed -> completed, and either of the last two -> invoiced.
// An order is invoiced at most once. Deposits are accepted once confirmed and
// the order status never follows payments.
func orderTable() *Table {
	return &Table{
		docType: domain.DocumentTypeOrder,
		initial: domain.StatusDraft,
		cells: map[domain.DocumentStatus]map[Action]Rule{
			domain.StatusDraft: {
				ActionEditLines: allow(domain.StatusDraft),
				ActionConfirm:   allow(domain.StatusConfirmed),
				ActionCancel:    allow(domain.StatusCancelled),
			},
			domain.StatusConfirmed: payable(domain.StatusConfirmed, cellMap{
				ActionComplete: allow(domain.StatusCompleted),
				ActionConvert:  allow(domain.StatusInvoiced),
				ActionCancel:   allow(domain.StatusCancelled),
			}),
			domain.StatusCompleted: payable(domain.StatusCompleted, cellMap{
				ActionConvert: allow(domain.StatusInvoiced),
				ActionCancel:  deny("completed orders cannot be cancelled"),
			}),
			domain.StatusInvoiced: payable(domain.StatusInvoiced, cellMap{
				ActionConvert: deny("order has already been invoiced"),
				ActionCancel:  deny("invoiced orders cannot be cancelled; cancel the invoice instead"),
			}),
			domain.StatusCancelled: {
				ActionVoidPayment: allow(domain.StatusCancelled),
			},
		},
	}
}

// draft -> pending <-> completed, driven by tendered payments.
func posTable() *Table {
	return &Table{
		docType: domain.DocumentTypePOSTransaction,
		initial: domain.StatusDraft,
		cells: map[domain.DocumentStatus]map[Action]Rule{
			domain.StatusDraft: {
				ActionEditLines: allow(domain.StatusDraft),
				ActionSubmit:    allow(domain.StatusPending),
				ActionCancel:    allow(domain.StatusCancelled),
			},
			domain.StatusPending: payable(domain.StatusPending, cellMap{
				ActionCancel:       allow(domain.StatusCancelled),
				ActionMarkPaid:     derive(domain.StatusCompleted),
				ActionMarkOverpaid: derive(domain.StatusCompleted),
			}),
			domain.StatusCompleted: payable(domain.StatusCompleted, cellMap{
				ActionCancel:      deny("completed transactions cannot be cancelled; refund instead"),
				ActionMarkUnpaid:  derive(domain.StatusPending),
				ActionMarkPartial: derive(domain.StatusPending),
			}),
			domain.StatusCancelled: {
				ActionVoidPayment: allow(domain.StatusCancelled),
			},
		},
	}
}

// draft -> approved -> partial -> paid.
func commissionTable() *Table {
	return &Table{
		docType: domain.DocumentTypeCommission,
		initial: domain.StatusDraft,
		cells: map[domain.DocumentStatus]map[Action]Rule{
			domain.StatusDraft: {
				ActionEditLines: allow(domain.StatusDraft),
				ActionApprove:   allow(domain.StatusApproved),
				ActionCancel:    allow(domain.StatusCancelled),
			},
			domain.StatusApproved: payable(domain.StatusApproved, cellMap{
				ActionCancel:       allow(domain.StatusCancelled),
				ActionMarkPartial:  derive(domain.StatusPartial),
				ActionMarkPaid:     derive(domain.StatusPaid),
				ActionMarkOverpaid: derive(domain.StatusPaid),
			}),
			domain.StatusPartial: payable(domain.StatusPartial, cellMap{
				ActionCancel:       allow(domain.StatusCancelled),
				ActionMarkUnpaid:   derive(domain.StatusApproved),
				ActionMarkPaid:     derive(domain.StatusPaid),
				ActionMarkOverpaid: derive(domain.StatusPaid),
			}),
			domain.StatusPaid: payable(domain.StatusPaid, cellMap{
				ActionCancel:      deny("paid commissions cannot be cancelled"),
				ActionMarkUnpaid:  derive(domain.StatusApproved),
				ActionMarkPartial: derive(domain.StatusPartial),
			}),
			domain.StatusCancelled: {
				ActionVoidPayment: allow(domain.StatusCancelled),
			},
		},
	}
}
