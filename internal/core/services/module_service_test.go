package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	"github.com/SscSPs/erp_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance/internal/core/services"
	"github.com/SscSPs/erp_finance/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockModuleSettingsRepository struct {
	mock.Mock
}

func (m *MockModuleSettingsRepository) ListModuleSettings(ctx context.Context) ([]domain.ModuleSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ModuleSetting), args.Error(1)
}

func (m *MockModuleSettingsRepository) SaveModuleSetting(ctx context.Context, setting domain.ModuleSetting) error {
	return m.Called(ctx, setting).Error(0)
}

var _ portsrepo.ModuleSettingsRepository = (*MockModuleSettingsRepository)(nil)

type ModuleServiceTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ModuleServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestModuleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ModuleServiceTestSuite))
}

func (s *ModuleServiceTestSuite) TestStartupDefaults() {
	svc := services.NewModuleService(memory.NewStore().Modules(), []domain.Module{domain.ModuleSales, domain.ModulePOS})

	settings, err := svc.ListModules(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(settings, len(domain.Modules))
	for i, setting := range settings {
		s.Equal(domain.Modules[i], setting.Module)
		want := setting.Module == domain.ModuleSales || setting.Module == domain.ModulePOS
		s.Equal(want, setting.Enabled, setting.Module)
	}

	s.NoError(svc.RequireEnabled(s.ctx, domain.ModuleSales))
	s.ErrorIs(svc.RequireEnabled(s.ctx, domain.ModuleInvoicing), apperrors.ErrModuleDisabled)
}

func (s *ModuleServiceTestSuite) TestStoredSettingWins() {
	store := memory.NewStore()
	svc := services.NewModuleService(store.Modules(), []domain.Module{domain.ModuleInvoicing})

	setting, err := svc.DisableModule(s.ctx, domain.ModuleInvoicing)
	s.Require().NoError(err)
	s.False(setting.Enabled)
	s.False(setting.UpdatedAt.IsZero())

	enabled, err := svc.IsEnabled(s.ctx, domain.ModuleInvoicing)
	s.Require().NoError(err)
	s.False(enabled)

	// A fresh registry over the same store keeps the stored flag.
	restarted := services.NewModuleService(store.Modules(), []domain.Module{domain.ModuleInvoicing})
	enabled, err = restarted.IsEnabled(s.ctx, domain.ModuleInvoicing)
	s.Require().NoError(err)
	s.False(enabled)

	_, err = restarted.EnableModule(s.ctx, domain.ModuleBudget)
	s.Require().NoError(err)
	s.NoError(restarted.RequireEnabled(s.ctx, domain.ModuleBudget))
}

func (s *ModuleServiceTestSuite) TestUnknownModule() {
	svc := services.NewModuleService(memory.NewStore().Modules(), nil)

	_, err := svc.EnableModule(s.ctx, "payroll")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = svc.IsEnabled(s.ctx, "payroll")
	s.ErrorIs(err, apperrors.ErrValidation)

	s.ErrorIs(svc.RequireEnabled(s.ctx, "payroll"), apperrors.ErrValidation)
}

func (s *ModuleServiceTestSuite) TestRepositoryErrors() {
	repoErr := errors.New("connection reset")

	repo := new(MockModuleSettingsRepository)
	repo.On("ListModuleSettings", mock.Anything).Return(nil, repoErr).Once()
	repo.On("SaveModuleSetting", mock.Anything, mock.MatchedBy(func(setting domain.ModuleSetting) bool {
		return setting.Module == domain.ModulePOS && setting.Enabled
	})).Return(repoErr).Once()

	svc := services.NewModuleService(repo, nil)

	_, err := svc.ListModules(s.ctx)
	s.ErrorIs(err, repoErr)

	_, err = svc.EnableModule(s.ctx, domain.ModulePOS)
	s.ErrorIs(err, repoErr)

	repo.AssertExpectations(s.T())
}

func TestModuleFor(t *testing.T) {
	tests := []struct {
		docType domain.DocumentType
		want    domain.Module
	}{
		{domain.DocumentTypeInvoice, domain.ModuleInvoicing},
		{domain.DocumentTypePOSTransaction, domain.ModulePOS},
		{domain.DocumentTypeQuotation, domain.ModuleSales},
		{domain.DocumentTypeOrder, domain.ModuleSales},
		{domain.DocumentTypeCommission, domain.ModuleSales},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.ModuleFor(tt.docType), tt.docType)
	}
}

func TestPaymentModuleGate_VoidBlockedWhenDisabled(t *testing.T) {
	container, _ := newContainer(t)
	ctx := context.Background()
	doc := sentInvoice(t, container.Document, "10.00")
	payment, err := container.Payment.ApplyPayment(ctx, doc.DocumentID, pay("5"))
	require.NoError(t, err)

	_, err = container.Module.DisableModule(ctx, domain.ModuleInvoicing)
	require.NoError(t, err)
	_, err = container.Payment.VoidPayment(ctx, doc.DocumentID, payment.PaymentID, "")
	assert.ErrorIs(t, err, apperrors.ErrModuleDisabled)

	_, err = container.Module.EnableModule(ctx, domain.ModuleInvoicing)
	require.NoError(t, err)
	_, err = container.Payment.VoidPayment(ctx, doc.DocumentID, payment.PaymentID, "")
	assert.NoError(t, err)
}
