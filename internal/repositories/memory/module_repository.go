package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
)

type moduleRepo struct {
	store *Store
}

var _ portsrepo.ModuleSettingsRepository = (*moduleRepo)(nil)

func (r *moduleRepo) ListModuleSettings(ctx context.Context) ([]domain.ModuleSetting, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	settings := make([]domain.ModuleSetting, 0, len(r.store.modules))
	for _, s := range r.store.modules {
		settings = append(settings, s)
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Module < settings[j].Module })
	return settings, nil
}

func (r *moduleRepo) SaveModuleSetting(ctx context.Context, setting domain.ModuleSetting) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.modules[setting.Module] = setting
	return nil
}
