package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_finance/internal/core/ports/services"
	"github.com/SscSPs/erp_finance/internal/core/uow"
	"github.com/SscSPs/erp_finance/internal/dto"
	"github.com/SscSPs/erp_finance/internal/utils/accounting"
	"github.com/SscSPs/erp_finance/internal/utils/codegen"
	"github.com/SscSPs/erp_finance/pkg/money"
	"github.com/google/uuid"
)

// conversions lists the document types each source type may be converted to.
var conversions = map[domain.DocumentType][]domain.DocumentType{
	domain.DocumentTypeQuotation: {domain.DocumentTypeOrder, domain.DocumentTypeInvoice},
	domain.DocumentTypeOrder:     {domain.DocumentTypeInvoice},
}

type documentService struct {
	BaseService
	store  portsrepo.Store
	guard  *uow.Guard
	codes  *codegen.Generator
	policy accounting.NegativeTotalPolicy
	now    func() time.Time
}

// DocumentServiceOption is a functional option for configuring the document service
type DocumentServiceOption func(*documentService)

// WithDocumentModuleGate makes document operations check module toggles.
func WithDocumentModuleGate(gate portssvc.ModuleGate) DocumentServiceOption {
	return func(s *documentService) {
		s.ModuleGate = gate
	}
}

// WithNegativeTotalPolicy sets how negative document totals are handled.
func WithNegativeTotalPolicy(p accounting.NegativeTotalPolicy) DocumentServiceOption {
	return func(s *documentService) {
		s.policy = p
	}
}

// WithDocumentCodeGenerator replaces the document number generator.
func WithDocumentCodeGenerator(g *codegen.Generator) DocumentServiceOption {
	return func(s *documentService) {
		s.codes = g
	}
}

// WithDocumentClock replaces time.Now.
func WithDocumentClock(now func() time.Time) DocumentServiceOption {
	return func(s *documentService) {
		s.now = now
	}
}

// NewDocumentService creates a new document service with the provided options
func NewDocumentService(store portsrepo.Store, options ...DocumentServiceOption) portssvc.DocumentSvcFacade {
	svc := &documentService{
		store:  store,
		guard:  uow.NewGuard(store),
		codes:  codegen.NewGenerator(codegen.DefaultMaxAttempts),
		policy: accounting.AllowNegative,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func (s *documentService) GetDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.store.Documents().FindDocumentByID(ctx, documentID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to get document", slog.String("document_id", documentID))
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ListDocuments(ctx context.Context, params dto.ListDocumentsParams) ([]domain.Document, *string, error) {
	if params.Type != "" && !params.Type.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, params.Type)
	}
	filter := portsrepo.DocumentFilter{Type: params.Type, Status: params.Status, CustomerID: params.CustomerID}
	docs, next, err := s.store.Documents().ListDocuments(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list documents")
		return nil, nil, err
	}
	return docs, next, nil
}

func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (*domain.Document, error) {
	return s.CreateDocumentTx(ctx, nil, req)
}

// CreateDocumentTx creates a document in the initial status of its type with
// a freshly generated number and computed totals.
func (s *documentService) CreateDocumentTx(ctx context.Context, tx portsrepo.Tx, req dto.CreateDocumentRequest) (*domain.Document, error) {
	doc, err := uow.Do(ctx, s.guard, tx, func(tx portsrepo.Tx) (*domain.Document, error) {
		return s.create(ctx, tx, req, nil)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create document", slog.String("type", string(req.Type)))
		return nil, err
	}
	s.LogInfo(ctx, "Document created",
		slog.String("document_id", doc.DocumentID),
		slog.String("number", doc.Number),
		slog.String("total", doc.Totals.TotalAmount.String()))
	return doc, nil
}

func (s *documentService) create(ctx context.Context, tx portsrepo.Tx, req dto.CreateDocumentRequest, sourceID *string) (*domain.Document, error) {
	table, err := lifecycle.For(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := s.RequireModule(ctx, domain.ModuleFor(req.Type)); err != nil {
		return nil, err
	}

	number, err := s.codes.Generate(ctx, req.Type.NumberPrefix(), tx.Documents().DocumentNumberExists)
	if err != nil {
		return nil, fmt.Errorf("generate document number: %w", err)
	}

	now := s.now()
	doc := domain.Document{
		DocumentID:       uuid.NewString(),
		Type:             req.Type,
		Number:           number,
		Status:           table.Initial(),
		PaymentStatus:    domain.PaymentStatusUnpaid,
		CustomerID:       req.CustomerID,
		SourceDocumentID: sourceID,
		ExternalRef:      req.ExternalRef,
		CurrencyCode:     req.CurrencyCode,
		Adjustments:      req.Adjustments,
		AmountPaid:       money.Zero,
		AuditFields:      domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if doc.Items, err = newLines(&doc, req.Items); err != nil {
		return nil, err
	}
	if err := s.recalculate(&doc); err != nil {
		return nil, err
	}
	if err := tx.Documents().SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateInvoiceFromJobCard raises an invoice referencing the job card.
func (s *documentService) CreateInvoiceFromJobCard(ctx context.Context, req dto.JobCardInvoiceRequest) (*domain.Document, error) {
	return s.CreateDocument(ctx, dto.CreateDocumentRequest{
		Type:         domain.DocumentTypeInvoice,
		CustomerID:   req.CustomerID,
		CurrencyCode: req.CurrencyCode,
		ExternalRef:  req.JobCardRef,
		Items:        req.Items,
	})
}

func (s *documentService) AddItems(ctx context.Context, documentID string, items []dto.LineItemInput) (*domain.Document, error) {
	return s.AddItemsTx(ctx, nil, documentID, items)
}

func (s *documentService) AddItemsTx(ctx context.Context, tx portsrepo.Tx, documentID string, items []dto.LineItemInput) (*domain.Document, error) {
	return s.editLines(ctx, tx, documentID, "Items added", func(doc *domain.Document) error {
		if len(items) == 0 {
			return fmt.Errorf("%w: no items to add", apperrors.ErrValidation)
		}
		lines, err := newLines(doc, items)
		if err != nil {
			return err
		}
		doc.Items = append(doc.Items, lines...)
		return nil
	})
}

func (s *documentService) RemoveItem(ctx context.Context, documentID, lineID string) (*domain.Document, error) {
	return s.editLines(ctx, nil, documentID, "Item removed", func(doc *domain.Document) error {
		for i, item := range doc.Items {
			if item.LineID == lineID {
				doc.Items = append(doc.Items[:i], doc.Items[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: line %s on document %s", apperrors.ErrNotFound, lineID, documentID)
	})
}

func (s *documentService) UpdateAdjustments(ctx context.Context, documentID string, adj domain.Adjustments) (*domain.Document, error) {
	return s.editLines(ctx, nil, documentID, "Adjustments updated", func(doc *domain.Document) error {
		doc.Adjustments = adj
		return nil
	})
}

func (s *documentService) RecalculateTotals(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.RecalculateTotalsTx(ctx, nil, documentID)
}

func (s *documentService) RecalculateTotalsTx(ctx context.Context, tx portsrepo.Tx, documentID string) (*domain.Document, error) {
	return s.editLines(ctx, tx, documentID, "Totals recalculated", func(*domain.Document) error { return nil })
}

// editLines applies change to a locked draft document and recomputes its
// totals before saving.
func (s *documentService) editLines(ctx context.Context, tx portsrepo.Tx, documentID, logMsg string, change func(doc *domain.Document) error) (*domain.Document, error) {
	doc, err := uow.Do(ctx, s.guard, tx, func(tx portsrepo.Tx) (*domain.Document, error) {
		return s.mutate(ctx, tx, documentID, func(doc *domain.Document, table *lifecycle.Table) error {
			if _, err := table.Transition(doc.Status, lifecycle.ActionEditLines); err != nil {
				return err
			}
			if err := change(doc); err != nil {
				return err
			}
			return s.recalculate(doc)
		})
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to edit document", slog.String("document_id", documentID))
		return nil, err
	}
	s.LogInfo(ctx, logMsg,
		slog.String("document_id", doc.DocumentID),
		slog.String("total", doc.Totals.TotalAmount.String()))
	return doc, nil
}

// TransitionDocument applies a caller-requested status action. Payment-driven
// statuses and actions with a dedicated operation are rejected.
func (s *documentService) TransitionDocument(ctx context.Context, documentID string, action lifecycle.Action, reason string) (*domain.Document, error) {
	switch action {
	case lifecycle.ActionEditLines, lifecycle.ActionRecordPayment, lifecycle.ActionVoidPayment, lifecycle.ActionConvert:
		return nil, fmt.Errorf("%w: action %q has its own operation", apperrors.ErrValidation, action)
	}

	var from domain.DocumentStatus
	doc, err := uow.Do(ctx, s.guard, nil, func(tx portsrepo.Tx) (*domain.Document, error) {
		return s.mutate(ctx, tx, documentID, func(doc *domain.Document, table *lifecycle.Table) error {
			from = doc.Status
			to, err := table.Transition(doc.Status, action)
			if err != nil {
				return err
			}
			doc.Status = to
			if action == lifecycle.ActionCancel {
				at := s.now()
				doc.CancelReason = reason
				doc.CancelledAt = &at
			}
			return nil
		})
	})
	if err != nil {
		s.LogFailure(ctx, err, "Document transition rejected",
			slog.String("document_id", documentID),
			slog.String("action", string(action)))
		return nil, err
	}
	s.LogInfo(ctx, "Document transitioned",
		slog.String("document_id", documentID),
		slog.String("action", string(action)),
		slog.String("from", string(from)),
		slog.String("to", string(doc.Status)))
	return doc, nil
}

// ConvertDocument creates a target document from a quotation or order in one
// unit of work: the source moves through its convert transition, the target
// is created, receives copies of the source lines and is totalled.
func (s *documentService) ConvertDocument(ctx context.Context, sourceID string, target domain.DocumentType) (*domain.Document, error) {
	converted, err := uow.Do(ctx, s.guard, nil, func(tx portsrepo.Tx) (*domain.Document, error) {
		var source domain.Document
		_, err := s.mutate(ctx, tx, sourceID, func(doc *domain.Document, table *lifecycle.Table) error {
			if !canConvert(doc.Type, target) {
				return fmt.Errorf("%w: cannot convert %s to %s", apperrors.ErrValidation, doc.Type, target)
			}
			to, err := table.Transition(doc.Status, lifecycle.ActionConvert)
			if err != nil {
				return err
			}
			doc.Status = to
			source = doc.Clone()
			return nil
		})
		if err != nil {
			return nil, err
		}

		created, err := s.create(ctx, tx, dto.CreateDocumentRequest{
			Type:         target,
			CustomerID:   source.CustomerID,
			CurrencyCode: source.CurrencyCode,
			ExternalRef:  source.ExternalRef,
			Adjustments:  source.Adjustments,
		}, &source.DocumentID)
		if err != nil {
			return nil, err
		}
		if len(source.Items) > 0 {
			if _, err := s.AddItemsTx(ctx, tx, created.DocumentID, lineInputs(source.Items)); err != nil {
				return nil, err
			}
		}
		return s.RecalculateTotalsTx(ctx, tx, created.DocumentID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to convert document",
			slog.String("source_id", sourceID),
			slog.String("target_type", string(target)))
		return nil, err
	}
	s.LogInfo(ctx, "Document converted",
		slog.String("source_id", sourceID),
		slog.String("document_id", converted.DocumentID),
		slog.String("number", converted.Number))
	return converted, nil
}

// mutate locks a document, applies change and saves it with a version bump.
func (s *documentService) mutate(ctx context.Context, tx portsrepo.Tx, documentID string, change func(doc *domain.Document, table *lifecycle.Table) error) (*domain.Document, error) {
	doc, err := tx.Documents().FindDocumentByIDForUpdate(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireModule(ctx, domain.ModuleFor(doc.Type)); err != nil {
		return nil, err
	}
	table, err := lifecycle.For(doc.Type)
	if err != nil {
		return nil, err
	}
	if err := change(doc, table); err != nil {
		return nil, err
	}
	doc.LastUpdatedAt = s.now()
	if err := tx.Documents().UpdateDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// recalculate reprices every line and rebuilds totals, balance and payment
// status from the current lines and adjustments.
func (s *documentService) recalculate(doc *domain.Document) error {
	if err := accounting.PriceLines(doc.Items); err != nil {
		return err
	}
	totals, err := accounting.ComputeTotals(doc.Items, doc.Adjustments, s.policy)
	if err != nil {
		return err
	}
	doc.Totals = totals
	doc.RecomputeBalance()
	doc.PaymentStatus = accounting.DerivePaymentStatus(doc.Totals.TotalAmount, doc.AmountPaid)
	return nil
}

func newLines(doc *domain.Document, inputs []dto.LineItemInput) ([]domain.LineItem, error) {
	next := doc.NextPosition()
	lines := make([]domain.LineItem, len(inputs))
	for i, in := range inputs {
		line, err := in.ToLineItem(next + i)
		if err != nil {
			return nil, err
		}
		line.LineID = uuid.NewString()
		line.DocumentID = doc.DocumentID
		lines[i] = line
	}
	return lines, nil
}

func lineInputs(items []domain.LineItem) []dto.LineItemInput {
	inputs := make([]dto.LineItemInput, len(items))
	for i, item := range items {
		inputs[i] = dto.LineItemInputFrom(item)
	}
	return inputs
}

func canConvert(from, to domain.DocumentType) bool {
	for _, t := range conversions[from] {
		if t == to {
			return true
		}
	}
	return false
}
