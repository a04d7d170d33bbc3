// Package memory is an in-process Store for development and tests.
//
// Transactions buffer their writes and apply them atomically on Commit.
// FindDocumentByIDForUpdate takes a per-document lock that is held until the
// transaction ends, which gives the same serialization as SELECT ... FOR UPDATE.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
)

type Store struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	payments  map[string]domain.PaymentRecord
	modules   map[domain.Module]domain.ModuleSetting
	rowLocks  map[string]chan struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		documents: make(map[string]domain.Document),
		payments:  make(map[string]domain.PaymentRecord),
		modules:   make(map[domain.Module]domain.ModuleSetting),
		rowLocks:  make(map[string]chan struct{}),
	}
}

var _ portsrepo.Store = (*Store)(nil)

// Begin starts a new transaction. A transaction must not be shared between
// goroutines.
func (s *Store) Begin(ctx context.Context) (portsrepo.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memTx{
		store:        s,
		docs:         make(map[string]domain.Document),
		newDocs:      make(map[string]bool),
		baseVersions: make(map[string]int64),
		payments:     make(map[string]domain.PaymentRecord),
		newPayments:  make(map[string]bool),
		held:         make(map[string]chan struct{}),
	}, nil
}

func (s *Store) Documents() portsrepo.DocumentRepositoryFacade {
	return &documentRepo{store: s}
}

func (s *Store) Payments() portsrepo.PaymentRepositoryFacade {
	return &paymentRepo{store: s}
}

func (s *Store) Modules() portsrepo.ModuleSettingsRepository {
	return &moduleRepo{store: s}
}

// Close is a no-op.
func (s *Store) Close() {}

func (s *Store) rowLock(id string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.rowLocks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[id] = ch
	}
	return ch
}

// memTx buffers writes until Commit.
type memTx struct {
	store        *Store
	docs         map[string]domain.Document
	newDocs      map[string]bool
	baseVersions map[string]int64
	payments     map[string]domain.PaymentRecord
	newPayments  map[string]bool
	held         map[string]chan struct{}
	done         bool
}

func (t *memTx) Documents() portsrepo.DocumentRepositoryFacade {
	return &documentRepo{store: t.store, tx: t}
}

func (t *memTx) Payments() portsrepo.PaymentRepositoryFacade {
	return &paymentRepo{store: t.store, tx: t}
}

func (t *memTx) lock(ctx context.Context, id string) error {
	if _, ok := t.held[id]; ok {
		return nil
	}
	ch := t.store.rowLock(id)
	select {
	case ch <- struct{}{}:
		t.held[id] = ch
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for lock on document %s: %w", id, ctx.Err())
	}
}

func (t *memTx) release() {
	for id, ch := range t.held {
		<-ch
		delete(t.held, id)
	}
	t.done = true
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return apperrors.NewAppError(500, "transaction already finished", nil)
	}
	defer t.release()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, doc := range t.docs {
		current, exists := s.documents[id]
		if t.newDocs[id] {
			if exists {
				return fmt.Errorf("%w: document %s", apperrors.ErrDuplicate, id)
			}
			if s.numberTakenLocked(doc.Number, id) {
				return fmt.Errorf("%w: document number %s", apperrors.ErrDuplicate, doc.Number)
			}
			continue
		}
		if !exists || current.Version != t.baseVersions[id] {
			return fmt.Errorf("%w: document %s", apperrors.ErrConflict, id)
		}
	}
	for id := range t.newPayments {
		if _, exists := s.payments[id]; exists {
			return fmt.Errorf("%w: payment %s", apperrors.ErrDuplicate, id)
		}
	}

	for id, doc := range t.docs {
		s.documents[id] = doc
	}
	for id, p := range t.payments {
		s.payments[id] = p
	}
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func (s *Store) numberTakenLocked(number, exceptID string) bool {
	for id, d := range s.documents {
		if id != exceptID && d.Number == number {
			return true
		}
	}
	return false
}

func sortDocuments(docs []domain.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].DocumentID < docs[j].DocumentID
	})
}

func sortPayments(payments []domain.PaymentRecord) {
	sort.Slice(payments, func(i, j int) bool {
		if !payments[i].CreatedAt.Equal(payments[j].CreatedAt) {
			return payments[i].CreatedAt.Before(payments[j].CreatedAt)
		}
		return payments[i].PaymentID < payments[j].PaymentID
	})
}
