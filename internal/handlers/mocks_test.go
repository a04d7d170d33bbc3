package handlers_test

import (
	"context"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	"github.com/SscSPs/erp_finance/internal/core/lifecycle"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_finance/internal/core/ports/services"
	"github.com/SscSPs/erp_finance/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock DocumentService ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) doc(args mock.Arguments) (*domain.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) GetDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	return m.doc(m.Called(ctx, documentID))
}
func (m *MockDocumentService) ListDocuments(ctx context.Context, params dto.ListDocumentsParams) ([]domain.Document, *string, error) {
	args := m.Called(ctx, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Document), next, args.Error(2)
}
func (m *MockDocumentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest) (*domain.Document, error) {
	return m.doc(m.Called(ctx, req))
}
func (m *MockDocumentService) CreateDocumentTx(ctx context.Context, tx portsrepo.Tx, req dto.CreateDocumentRequest) (*domain.Document, error) {
	return m.doc(m.Called(ctx, tx, req))
}
func (m *MockDocumentService) CreateInvoiceFromJobCard(ctx context.Context, req dto.JobCardInvoiceRequest) (*domain.Document, error) {
	return m.doc(m.Called(ctx, req))
}
func (m *MockDocumentService) AddItems(ctx context.Context, documentID string, items []dto.LineItemInput) (*domain.Document, error) {
	return m.doc(m.Called(ctx, documentID, items))
}
func (m *MockDocumentService) AddItemsTx(ctx context.Context, tx portsrepo.Tx, documentID string, items []dto.LineItemInput) (*domain.Document, error) {
	return m.doc(m.Called(ctx, tx, documentID, items))
}
func (m *MockDocumentService) RemoveItem(ctx context.Context, documentID, lineID string) (*domain.Document, error) {
	return m.doc(m.Called(ctx, documentID, lineID))
}
func (m *MockDocumentService) UpdateAdjustments(ctx context.Context, documentID string, adj domain.Adjustments) (*domain.Document, error) {
	return m.doc(m.Called(ctx, documentID, adj))
}
func (m *MockDocumentService) RecalculateTotals(ctx context.Context, documentID string) (*domain.Document, error) {
	return m.doc(m.Called(ctx, documentID))
}
func (m *MockDocumentService) RecalculateTotalsTx(ctx context.Context, tx portsrepo.Tx, documentID string) (*domain.Document, error) {
	return m.doc(m.Called(ctx, tx, documentID))
}
func (m *MockDocumentService) TransitionDocument(ctx context.Context, documentID string, action lifecycle.Action, reason string) (*domain.Document, error) {
	return m.doc(m.Called(ctx, documentID, action, reason))
}
func (m *MockDocumentService) ConvertDocument(ctx context.Context, sourceID string, target domain.DocumentType) (*domain.Document, error) {
	return m.doc(m.Called(ctx, sourceID, target))
}

// Ensure mock implements the interface
var _ portssvc.DocumentSvcFacade = (*MockDocumentService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) payment(args mock.Arguments) (*domain.PaymentRecord, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRecord), args.Error(1)
}

func (m *MockPaymentService) ApplyPayment(ctx context.Context, documentID string, req dto.ApplyPaymentRequest) (*domain.PaymentRecord, error) {
	return m.payment(m.Called(ctx, documentID, req))
}
func (m *MockPaymentService) ApplyPaymentTx(ctx context.Context, tx portsrepo.Tx, documentID string, req dto.ApplyPaymentRequest) (*domain.PaymentRecord, error) {
	return m.payment(m.Called(ctx, tx, documentID, req))
}
func (m *MockPaymentService) VoidPayment(ctx context.Context, documentID, paymentID, note string) (*domain.PaymentRecord, error) {
	return m.payment(m.Called(ctx, documentID, paymentID, note))
}
func (m *MockPaymentService) VoidPaymentTx(ctx context.Context, tx portsrepo.Tx, documentID, paymentID, note string) (*domain.PaymentRecord, error) {
	return m.payment(m.Called(ctx, tx, documentID, paymentID, note))
}
func (m *MockPaymentService) ListPayments(ctx context.Context, documentID string) ([]domain.PaymentRecord, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentRecord), args.Error(1)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Mock ModuleService ---
type MockModuleService struct {
	mock.Mock
}

func (m *MockModuleService) RequireEnabled(ctx context.Context, module domain.Module) error {
	return m.Called(ctx, module).Error(0)
}
func (m *MockModuleService) IsEnabled(ctx context.Context, module domain.Module) (bool, error) {
	args := m.Called(ctx, module)
	return args.Bool(0), args.Error(1)
}
func (m *MockModuleService) ListModules(ctx context.Context) ([]domain.ModuleSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ModuleSetting), args.Error(1)
}
func (m *MockModuleService) EnableModule(ctx context.Context, module domain.Module) (*domain.ModuleSetting, error) {
	args := m.Called(ctx, module)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModuleSetting), args.Error(1)
}
func (m *MockModuleService) DisableModule(ctx context.Context, module domain.Module) (*domain.ModuleSetting, error) {
	args := m.Called(ctx, module)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModuleSetting), args.Error(1)
}

var _ portssvc.ModuleSvcFacade = (*MockModuleService)(nil)
