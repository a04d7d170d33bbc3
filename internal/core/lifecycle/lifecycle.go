// Package lifecycle holds the status transition tables of every document type.
//
// Each table maps a current status and an action to a Rule. A rule is Allowed
// (the action may be requested by a caller), Denied (the action is known but
// forbidden in this status, with a reason) or Derived (the move is computed from
// the payment ledger and can never be requested directly). Any cell absent from
// a table is an invalid transition.
package lifecycle

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/erp_finance/internal/core/domain"
)

// Action is something that can happen to a document.
type Action string

const (
	ActionSend     Action = "send"
	ActionConfirm  Action = "confirm"
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionConvert  Action = "convert"
	ActionComplete Action = "complete"
	ActionClose    Action = "close"
	ActionCancel   Action = "cancel"

	// ActionEditLines is a self-loop that marks the statuses in which line
	// items and adjustments may change.
	ActionEditLines Action = "edit_lines"
	// ActionRecordPayment and ActionVoidPayment are self-loops that mark the
	// statuses in which the payment ledger may be touched.
	ActionRecordPayment Action = "record_payment"
	ActionVoidPayment   Action = "void_payment"

	// Payment-driven moves. Only Settle applies them.
	ActionMarkUnpaid   Action = "mark_unpaid"
	ActionMarkPartial  Action = "mark_partial"
	ActionMarkPaid     Action = "mark_paid"
	ActionMarkOverpaid Action = "mark_overpaid"
)

// IsStatusAction reports whether a is a user-facing status change, as opposed
// to a gate (edit lines, payments) or a payment-driven move.
func (a Action) IsStatusAction() bool {
	switch a {
	case ActionSend, ActionConfirm, ActionSubmit, ActionApprove, ActionAccept,
		ActionReject, ActionComplete, ActionClose, ActionCancel:
		return true
	}
	return false
}

// RuleKind classifies a transition table cell.
type RuleKind int

const (
	Allowed RuleKind = iota + 1
	Denied
	Derived
)

func (k RuleKind) String() string {
	switch k {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	case Derived:
		return "derived"
	default:
		return "unknown"
	}
}

// Rule is a single transition table cell.
type Rule struct {
	Kind   RuleKind
	To     domain.DocumentStatus
	Reason string
}

// ErrInvalidTransition is matched by every *TransitionError.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnknownDocumentType is returned by For for an unsupported type.
var ErrUnknownDocumentType = errors.New("unknown document type")

// TransitionError describes a rejected transition together with the actions
// that are allowed from the current status.
type TransitionError struct {
	DocumentType domain.DocumentType
	From         domain.DocumentStatus
	Action       Action
	Allowed      []Action
	Reason       string
}

func (e *TransitionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot %s %s in status %q", e.Action, e.DocumentType, e.From)
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if len(e.Allowed) > 0 {
		names := make([]string, len(e.Allowed))
		for i, a := range e.Allowed {
			names[i] = string(a)
		}
		fmt.Fprintf(&b, " (allowed: %s)", strings.Join(names, ", "))
	}
	return b.String()
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Table is the transition table of one document type.
type Table struct {
	docType domain.DocumentType
	initial domain.DocumentStatus
	cells   map[domain.DocumentStatus]map[Action]Rule
}

// For returns the transition table for t.
func For(t domain.DocumentType) (*Table, error) {
	table, ok := tables[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocumentType, t)
	}
	return table, nil
}

// MustFor is For for types known to be valid.
func MustFor(t domain.DocumentType) *Table {
	table, err := For(t)
	if err != nil {
		panic(err)
	}
	return table
}

// DocumentType returns the document type the table governs.
func (t *Table) DocumentType() domain.DocumentType { return t.docType }

// Initial returns the status new documents start in.
func (t *Table) Initial() domain.DocumentStatus { return t.initial }

// Rule returns the cell for (from, action) and whether it exists.
func (t *Table) Rule(from domain.DocumentStatus, action Action) (Rule, bool) {
	rule, ok := t.cells[from][action]
	return rule, ok
}

// Transition validates a caller-requested action and returns the target status.
// Denied, Derived and absent cells fail with a *TransitionError.
func (t *Table) Transition(from domain.DocumentStatus, action Action) (domain.DocumentStatus, error) {
	rule, ok := t.Rule(from, action)
	if !ok {
		return from, t.reject(from, action, "")
	}
	switch rule.Kind {
	case Allowed:
		return rule.To, nil
	case Derived:
		return from, t.reject(from, action, "status is derived from payments and cannot be set directly")
	default:
		return from, t.reject(from, action, rule.Reason)
	}
}

// Can reports whether a caller may perform action from the given status.
func (t *Table) Can(from domain.DocumentStatus, action Action) bool {
	rule, ok := t.Rule(from, action)
	return ok && rule.Kind == Allowed
}

// IsEditable reports whether line items and adjustments may change in status s.
func (t *Table) IsEditable(s domain.DocumentStatus) bool {
	return t.Can(s, ActionEditLines)
}

// AllowedActions returns the sorted actions a caller may request from status s.
func (t *Table) AllowedActions(s domain.DocumentStatus) []Action {
	actions := make([]Action, 0, len(t.cells[s]))
	for action, rule := range t.cells[s] {
		if rule.Kind == Allowed {
			actions = append(actions, action)
		}
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

// Settle returns the status implied by a new payment status. When the table
// has no Derived cell for the move, the status is unchanged.
func (t *Table) Settle(from domain.DocumentStatus, ps domain.PaymentStatus) domain.DocumentStatus {
	rule, ok := t.Rule(from, markActionFor(ps))
	if !ok || rule.Kind != Derived {
		return from
	}
	return rule.To
}

// Statuses returns every status that has at least one cell, sorted.
func (t *Table) Statuses() []domain.DocumentStatus {
	statuses := make([]domain.DocumentStatus, 0, len(t.cells))
	for s := range t.cells {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	return statuses
}

// Cells returns the rules of status s sorted by action.
func (t *Table) Cells(s domain.DocumentStatus) []Cell {
	cells := make([]Cell, 0, len(t.cells[s]))
	for action, rule := range t.cells[s] {
		cells = append(cells, Cell{Action: action, Rule: rule})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Action < cells[j].Action })
	return cells
}

// Cell pairs an action with its rule.
type Cell struct {
	Action Action
	Rule   Rule
}

func (t *Table) reject(from domain.DocumentStatus, action Action, reason string) error {
	return &TransitionError{
		DocumentType: t.docType,
		From:         from,
		Action:       action,
		Allowed:      t.AllowedActions(from),
		Reason:       reason,
	}
}

func markActionFor(ps domain.PaymentStatus) Action {
	switch ps {
	case domain.PaymentStatusPartiallyPaid:
		return ActionMarkPartial
	case domain.PaymentStatusPaid:
		return ActionMarkPaid
	case domain.PaymentStatusOverpaid:
		return ActionMarkOverpaid
	default:
		return ActionMarkUnpaid
	}
}
