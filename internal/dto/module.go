package dto

import "github.com/SscSPs/erp_finance/internal/core/domain"

// ModuleSettingsResponse lists every known module and whether it is enabled.
type ModuleSettingsResponse struct {
	Modules []domain.ModuleSetting `json:"modules"`
}
