package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/erp_finance/internal/core/domain"
	portssvc "github.com/SscSPs/erp_finance/internal/core/ports/services"
	"github.com/SscSPs/erp_finance/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	ModuleGate portssvc.ModuleGate
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a rejected business operation.
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("reason", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// RequireModule checks that module m is enabled. Without a gate every module
// is treated as enabled.
func (s *BaseService) RequireModule(ctx context.Context, m domain.Module) error {
	if s.ModuleGate == nil {
		s.LogDebug(ctx, "No module gate configured, module allowed by default", slog.String("module", string(m)))
		return nil
	}
	return s.ModuleGate.RequireEnabled(ctx, m)
}

// LogFailure logs rejected operations at Warn and everything else at Error.
func (s *BaseService) LogFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if isRejection(err) {
		s.LogWarn(ctx, err, msg, keyvals...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}
