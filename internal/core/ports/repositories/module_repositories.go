package repositories

import (
	"context"

	"github.com/SscSPs/erp_finance/internal/core/domain"
)

// ModuleSettingsRepository persists module enablement flags.
type ModuleSettingsRepository interface {
	ListModuleSettings(ctx context.Context) ([]domain.ModuleSetting, error)

	// SaveModuleSetting inserts or replaces the flag of setting.Module.
	SaveModuleSetting(ctx context.Context, setting domain.ModuleSetting) error
}
