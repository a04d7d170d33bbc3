package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance/internal/utils/pagination"
)

// documentRepo reads committed state, overlaid with the writes of tx when set.
type documentRepo struct {
	store *Store
	tx    *memTx
}

var _ portsrepo.DocumentRepositoryFacade = (*documentRepo)(nil)

func (r *documentRepo) lookup(id string) (domain.Document, bool) {
	if r.tx != nil {
		if doc, ok := r.tx.docs[id]; ok {
			return doc, true
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	doc, ok := r.store.documents[id]
	return doc, ok
}

func (r *documentRepo) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, ok := r.lookup(documentID)
	if !ok {
		return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, documentID)
	}
	c := doc.Clone()
	return &c, nil
}

// FindDocumentByIDForUpdate locks the document until the transaction ends.
// Outside a transaction it is a plain read.
func (r *documentRepo) FindDocumentByIDForUpdate(ctx context.Context, documentID string) (*domain.Document, error) {
	if r.tx != nil {
		if err := r.tx.lock(ctx, documentID); err != nil {
			return nil, err
		}
	}
	return r.FindDocumentByID(ctx, documentID)
}

func (r *documentRepo) ListDocuments(ctx context.Context, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	limit = pagination.NormalizeLimit(limit)

	all := make(map[string]domain.Document)
	r.store.mu.RLock()
	for id, doc := range r.store.documents {
		all[id] = doc
	}
	r.store.mu.RUnlock()
	if r.tx != nil {
		for id, doc := range r.tx.docs {
			all[id] = doc
		}
	}

	docs := make([]domain.Document, 0, len(all))
	for _, doc := range all {
		if matches(doc, filter) {
			docs = append(docs, doc)
		}
	}
	sortDocuments(docs)

	if nextToken != nil && *nextToken != "" {
		cursorAt, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		start := len(docs)
		for i, doc := range docs {
			if pagination.After(doc.CreatedAt, doc.DocumentID, cursorAt, cursorID) {
				start = i
				break
			}
		}
		docs = docs[start:]
	}

	var next *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.DocumentID)
		next = &token
	}

	page := make([]domain.Document, len(docs))
	for i, doc := range docs {
		page[i] = doc.Clone()
	}
	return page, next, nil
}

func matches(doc domain.Document, f portsrepo.DocumentFilter) bool {
	if f.Type != "" && doc.Type != f.Type {
		return false
	}
	if f.Status != "" && doc.Status != f.Status {
		return false
	}
	if f.CustomerID != "" && doc.CustomerID != f.CustomerID {
		return false
	}
	return true
}

func (r *documentRepo) DocumentNumberExists(ctx context.Context, number string) (bool, error) {
	if r.tx != nil {
		for _, doc := range r.tx.docs {
			if doc.Number == number {
				return true, nil
			}
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.numberTakenLocked(number, ""), nil
}

func (r *documentRepo) SaveDocument(ctx context.Context, doc domain.Document) error {
	if _, exists := r.lookup(doc.DocumentID); exists {
		return fmt.Errorf("%w: document %s", apperrors.ErrDuplicate, doc.DocumentID)
	}
	if taken, _ := r.DocumentNumberExists(ctx, doc.Number); taken {
		return fmt.Errorf("%w: document number %s", apperrors.ErrDuplicate, doc.Number)
	}

	if r.tx != nil {
		r.tx.docs[doc.DocumentID] = doc.Clone()
		r.tx.newDocs[doc.DocumentID] = true
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.documents[doc.DocumentID]; exists {
		return fmt.Errorf("%w: document %s", apperrors.ErrDuplicate, doc.DocumentID)
	}
	r.store.documents[doc.DocumentID] = doc.Clone()
	return nil
}

func (r *documentRepo) UpdateDocument(ctx context.Context, doc *domain.Document) error {
	if r.tx == nil {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
		current, ok := r.store.documents[doc.DocumentID]
		if !ok {
			return fmt.Errorf("%w: document %s", apperrors.ErrNotFound, doc.DocumentID)
		}
		if current.Version != doc.Version {
			return fmt.Errorf("%w: document %s is at version %d, not %d", apperrors.ErrConflict, doc.DocumentID, current.Version, doc.Version)
		}
		doc.Version++
		r.store.documents[doc.DocumentID] = doc.Clone()
		return nil
	}

	current, ok := r.lookup(doc.DocumentID)
	if !ok {
		return fmt.Errorf("%w: document %s", apperrors.ErrNotFound, doc.DocumentID)
	}
	if current.Version != doc.Version {
		return fmt.Errorf("%w: document %s is at version %d, not %d", apperrors.ErrConflict, doc.DocumentID, current.Version, doc.Version)
	}
	if _, staged := r.tx.docs[doc.DocumentID]; !staged {
		r.tx.baseVersions[doc.DocumentID] = current.Version
	}
	doc.Version++
	r.tx.docs[doc.DocumentID] = doc.Clone()
	return nil
}
