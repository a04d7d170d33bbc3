package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL implementation of portsrepo.Store.
type Store struct {
	BaseRepository
}

// NewStore wraps an open connection pool.
func NewStore(dbPool *pgxpool.Pool) *Store {
	return &Store{BaseRepository: BaseRepository{Pool: dbPool}}
}

var _ portsrepo.Store = (*Store)(nil)

func (s *Store) Begin(ctx context.Context) (portsrepo.Tx, error) {
	tx, err := s.BaseRepository.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgTx{base: BaseRepository{Pool: s.Pool, tx: tx}}, nil
}

func (s *Store) Documents() portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: s.Pool}}
}

func (s *Store) Payments() portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: s.Pool}}
}

func (s *Store) Modules() portsrepo.ModuleSettingsRepository {
	return &PgxModuleRepository{BaseRepository: BaseRepository{Pool: s.Pool}}
}

func (s *Store) Close() {
	s.Pool.Close()
}

type pgTx struct {
	base BaseRepository
}

func (t *pgTx) Documents() portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{BaseRepository: t.base}
}

func (t *pgTx) Payments() portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: t.base}
}

func (t *pgTx) Commit(ctx context.Context) error {
	return t.base.Commit(ctx, t.base.tx)
}

func (t *pgTx) Rollback(ctx context.Context) error {
	return t.base.Rollback(ctx, t.base.tx)
}
