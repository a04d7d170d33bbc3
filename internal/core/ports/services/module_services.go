package services

import (
	"context"

	"github.com/SscSPs/erp_finance/internal/core/domain"
)

// ModuleGate is consulted before an operation that belongs to a module.
type ModuleGate interface {
	// RequireEnabled returns apperrors.ErrModuleDisabled when m is off.
	RequireEnabled(ctx context.Context, m domain.Module) error
}

// ModuleSvcFacade manages which business modules are switched on.
type ModuleSvcFacade interface {
	ModuleGate
	IsEnabled(ctx context.Context, m domain.Module) (bool, error)
	ListModules(ctx context.Context) ([]domain.ModuleSetting, error)
	EnableModule(ctx context.Context, m domain.Module) (*domain.ModuleSetting, error)
	DisableModule(ctx context.Context, m domain.Module) (*domain.ModuleSetting, error)
}
