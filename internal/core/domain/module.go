package domain

import "time"

// Module is an ERP functional area that can be switched on or off.
type Module string

const (
	ModulePOS        Module = "pos"
	ModuleInvoicing  Module = "invoicing"
	ModulePricing    Module = "pricing"
	ModuleSales      Module = "sales"
	ModuleInventory  Module = "inventory"
	ModulePurchasing Module = "purchasing"
	ModuleTenancy    Module = "tenancy"
	ModuleHelpdesk   Module = "helpdesk"
	ModuleBudget     Module = "budget"
	ModuleLogistics  Module = "logistics"
)

// Modules lists every known module.
var Modules = []Module{
	ModulePOS, ModuleInvoicing, ModulePricing, ModuleSales, ModuleInventory,
	ModulePurchasing, ModuleTenancy, ModuleHelpdesk, ModuleBudget, ModuleLogistics,
}

// Valid reports whether m is a known module.
func (m Module) Valid() bool {
	for _, known := range Modules {
		if m == known {
			return true
		}
	}
	return false
}

// ModuleFor returns the module that owns documents of type t.
func ModuleFor(t DocumentType) Module {
	switch t {
	case DocumentTypeInvoice:
		return ModuleInvoicing
	case DocumentTypePOSTransaction:
		return ModulePOS
	default:
		return ModuleSales
	}
}

// ModuleSetting is the persisted enablement flag of a module.
type ModuleSetting struct {
	Module    Module    `json:"module"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updatedAt"`
}
