package repositories

import (
	"context"

	"github.com/SscSPs/erp_finance/internal/core/domain"
)

// DocumentFilter narrows ListDocuments. Zero fields match everything.
type DocumentFilter struct {
	Type       domain.DocumentType
	Status     domain.DocumentStatus
	CustomerID string
}

// DocumentReader defines read operations for document data
type DocumentReader interface {
	// FindDocumentByID retrieves a document with its line items.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListDocuments retrieves a page of documents ordered by creation time using token-based pagination.
	// It returns the documents, a token for the next page, and an error.
	ListDocuments(ctx context.Context, filter DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error)

	// DocumentNumberExists reports whether a document number is already taken.
	DocumentNumberExists(ctx context.Context, number string) (bool, error)
}

// DocumentRowLocker locks a single document for the rest of the transaction.
type DocumentRowLocker interface {
	// FindDocumentByIDForUpdate retrieves a document and holds an exclusive lock
	// on it until the owning transaction ends. Only meaningful inside a Tx.
	FindDocumentByIDForUpdate(ctx context.Context, documentID string) (*domain.Document, error)
}

// DocumentWriter defines write operations for document data
type DocumentWriter interface {
	// SaveDocument inserts a new document with its line items.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// UpdateDocument replaces the stored document and its line items when the
	// stored version equals doc.Version, then increments doc.Version. A version
	// mismatch fails with apperrors.ErrConflict.
	UpdateDocument(ctx context.Context, doc *domain.Document) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentRowLocker
	DocumentWriter
}
