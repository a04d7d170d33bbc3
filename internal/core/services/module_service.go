package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_finance/internal/core/ports/services"
)

// moduleService resolves module toggles: a stored setting wins, otherwise the
// module is enabled when it was listed at startup.
type moduleService struct {
	BaseService
	repo     portsrepo.ModuleSettingsRepository
	defaults map[domain.Module]bool
	now      func() time.Time
}

// NewModuleService creates the module registry. enabled lists the modules
// that are on unless a stored setting says otherwise.
func NewModuleService(repo portsrepo.ModuleSettingsRepository, enabled []domain.Module) portssvc.ModuleSvcFacade {
	defaults := make(map[domain.Module]bool, len(enabled))
	for _, m := range enabled {
		defaults[m] = true
	}
	return &moduleService{
		repo:     repo,
		defaults: defaults,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.ModuleSvcFacade = (*moduleService)(nil)

func (s *moduleService) IsEnabled(ctx context.Context, m domain.Module) (bool, error) {
	settings, err := s.ListModules(ctx)
	if err != nil {
		return false, err
	}
	for _, setting := range settings {
		if setting.Module == m {
			return setting.Enabled, nil
		}
	}
	return false, fmt.Errorf("%w: unknown module %q", apperrors.ErrValidation, m)
}

func (s *moduleService) RequireEnabled(ctx context.Context, m domain.Module) error {
	enabled, err := s.IsEnabled(ctx, m)
	if err != nil {
		return err
	}
	if !enabled {
		return fmt.Errorf("%w: %s", apperrors.ErrModuleDisabled, m)
	}
	return nil
}

// ListModules returns every known module in declaration order.
func (s *moduleService) ListModules(ctx context.Context) ([]domain.ModuleSetting, error) {
	stored, err := s.repo.ListModuleSettings(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load module settings")
		return nil, err
	}
	byModule := make(map[domain.Module]domain.ModuleSetting, len(stored))
	for _, setting := range stored {
		byModule[setting.Module] = setting
	}

	settings := make([]domain.ModuleSetting, len(domain.Modules))
	for i, m := range domain.Modules {
		if setting, ok := byModule[m]; ok {
			settings[i] = setting
			continue
		}
		settings[i] = domain.ModuleSetting{Module: m, Enabled: s.defaults[m]}
	}
	return settings, nil
}

func (s *moduleService) EnableModule(ctx context.Context, m domain.Module) (*domain.ModuleSetting, error) {
	return s.set(ctx, m, true)
}

func (s *moduleService) DisableModule(ctx context.Context, m domain.Module) (*domain.ModuleSetting, error) {
	return s.set(ctx, m, false)
}

func (s *moduleService) set(ctx context.Context, m domain.Module, enabled bool) (*domain.ModuleSetting, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: unknown module %q", apperrors.ErrValidation, m)
	}
	setting := domain.ModuleSetting{Module: m, Enabled: enabled, UpdatedAt: s.now()}
	if err := s.repo.SaveModuleSetting(ctx, setting); err != nil {
		s.LogError(ctx, err, "Failed to save module setting", slog.String("module", string(m)))
		return nil, err
	}
	s.LogInfo(ctx, "Module setting changed", slog.String("module", string(m)), slog.Bool("enabled", enabled))
	return &setting, nil
}
