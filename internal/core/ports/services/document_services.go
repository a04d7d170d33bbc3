package services

import (
	"context"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance/internal/dto"
)

// DocumentReaderSvc defines read operations for documents
type DocumentReaderSvc interface {
	GetDocument(ctx context.Context, documentID string) (*domain.Document, error)
	// ListDocuments returns one page and the token of the next, if any.
	ListDocuments(ctx context.Context, params dto.ListDocumentsParams) ([]domain.Document, *string, error)
}

// DocumentWriterSvc defines write operations for documents. Every Tx variant
// runs inside the caller's unit of work; the plain variant opens its own.
type DocumentWriterSvc interface {
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (*domain.Document, error)
	CreateDocumentTx(ctx context.Context, tx portsrepo.Tx, req dto.CreateDocumentRequest) (*domain.Document, error)
	CreateInvoiceFromJobCard(ctx context.Context, req dto.JobCardInvoiceRequest) (*domain.Document, error)

	AddItems(ctx context.Context, documentID string, items []dto.LineItemInput) (*domain.Document, error)
	AddItemsTx(ctx context.Context, tx portsrepo.Tx, documentID string, items []dto.LineItemInput) (*domain.Document, error)
	RemoveItem(ctx context.Context, documentID, lineID string) (*domain.Document, error)
	UpdateAdjustments(ctx context.Context, documentID string, adj domain.Adjustments) (*domain.Document, error)
	RecalculateTotals(ctx context.Context, documentID string) (*domain.Document, error)
	RecalculateTotalsTx(ctx context.Context, tx portsrepo.Tx, documentID string) (*domain.Document, error)

	TransitionDocument(ctx context.Context, documentID string, action lifecycle.Action, reason string) (*domain.Document, error)
	ConvertDocument(ctx context.Context, sourceID string, target domain.DocumentType) (*domain.Document, error)
}

// DocumentSvcFacade combines all document-related service interfaces
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
}
