package services

import (
	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_finance/internal/core/ports/services"
	"github.com/SscSPs/erp_finance/internal/platform/config"
	"github.com/SscSPs/erp_finance/internal/utils/accounting"
	"github.com/SscSPs/erp_finance/internal/utils/codegen"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, store portsrepo.Store, locker portsrepo.DocumentLocker) (*portssvc.ServiceContainer, error) {
	policy, err := accounting.ParseNegativeTotalPolicy(cfg.NegativeTotalPolicy)
	if err != nil {
		return nil, err
	}
	enabled := make([]domain.Module, len(cfg.EnabledModules))
	for i, m := range cfg.EnabledModules {
		enabled[i] = domain.Module(m)
	}

	container := &portssvc.ServiceContainer{}

	// Module registry first since the other services consult it
	container.Module = NewModuleService(store.Modules(), enabled)

	codes := codegen.NewGenerator(cfg.CodegenMaxAttempts)
	container.Document = NewDocumentService(store,
		WithDocumentModuleGate(container.Module),
		WithNegativeTotalPolicy(policy),
		WithDocumentCodeGenerator(codes),
	)

	paymentOpts := []PaymentServiceOption{
		WithPaymentModuleGate(container.Module),
		WithOverpayment(cfg.AllowOverpayment),
		WithPaymentCodeGenerator(codes),
	}
	if locker != nil {
		paymentOpts = append(paymentOpts, WithDocumentLocker(locker))
	}
	container.Payment = NewPaymentService(store, paymentOpts...)

	return container, nil
}
