package pgsql

import (
	"context"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance/internal/models"
	"github.com/SscSPs/erp_finance/internal/utils/mapping"
)

type PgxModuleRepository struct {
	BaseRepository
}

var _ portsrepo.ModuleSettingsRepository = (*PgxModuleRepository)(nil)

func (r *PgxModuleRepository) ListModuleSettings(ctx context.Context) ([]domain.ModuleSetting, error) {
	rows, err := r.q().Query(ctx, `SELECT module, enabled, updated_at FROM module_settings ORDER BY module`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list module settings", err)
	}
	defer rows.Close()

	var settings []domain.ModuleSetting
	for rows.Next() {
		var m models.ModuleSetting
		if err := rows.Scan(&m.Module, &m.Enabled, &m.UpdatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan module setting", err)
		}
		settings = append(settings, mapping.ToDomainModuleSetting(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating module settings", err)
	}
	return settings, nil
}

func (r *PgxModuleRepository) SaveModuleSetting(ctx context.Context, setting domain.ModuleSetting) error {
	query := `
		INSERT INTO module_settings (module, enabled, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (module) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.q().Exec(ctx, query, string(setting.Module), setting.Enabled, setting.UpdatedAt); err != nil {
		return apperrors.NewAppError(500, "failed to save module setting "+string(setting.Module), err)
	}
	return nil
}
