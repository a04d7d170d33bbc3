// Package uow composes operations inside a single unit of work.
//
// Operations that must be atomic take an optional outer repositories.Tx. When
// the caller already owns a transaction it is passed through and the operation
// joins it; only the outermost caller begins, commits or rolls back.
package uow

import (
	"context"
	"errors"
	"fmt"

	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
)

// Guard owns transaction boundaries.
type Guard struct {
	uow portsrepo.UnitOfWork
}

// NewGuard returns a Guard that begins transactions on u.
func NewGuard(u portsrepo.UnitOfWork) *Guard {
	return &Guard{uow: u}
}

// Run executes body inside a transaction.
//
// When outer is non-nil body runs with it and no begin, commit or rollback is
// issued. Otherwise Run begins a transaction, commits it when body succeeds,
// and rolls it back when body fails or panics. The body error is returned
// unchanged; a panic is re-raised after rollback.
func (g *Guard) Run(ctx context.Context, outer portsrepo.Tx, body func(tx portsrepo.Tx) error) (err error) {
	if outer != nil {
		return body(outer)
	}

	tx, err := g.uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}

	// Rollback must still run when the request context is already cancelled.
	cleanupCtx := context.WithoutCancel(ctx)
	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback(cleanupCtx)
			panic(p)
		}
		if rbErr := tx.Rollback(cleanupCtx); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback unit of work: %w", rbErr))
		}
	}()

	if err = body(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	committed = true
	return nil
}

// Do is Run for bodies that produce a value.
func Do[T any](ctx context.Context, g *Guard, outer portsrepo.Tx, body func(tx portsrepo.Tx) (T, error)) (T, error) {
	var result T
	err := g.Run(ctx, outer, func(tx portsrepo.Tx) error {
		var bodyErr error
		result, bodyErr = body(tx)
		return bodyErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
