package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/SscSPs/donation_ledger/internal/platform/metrics"
	"golang.org/x/text/currency"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Metrics *metrics.Recorder
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// observe records the outcome of a ledger operation. Business rule rejections are
// logged at warn level, anything else at error level.
func (s *BaseService) observe(ctx context.Context, operation string, started time.Time, err error, keyvals ...any) {
	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case isRejection(err):
		outcome = metrics.OutcomeRejected
		args := append([]any{slog.String("operation", operation), slog.String("reason", err.Error())}, keyvals...)
		s.GetLogger(ctx).Warn("Ledger operation rejected", args...)
	default:
		outcome = metrics.OutcomeError
		s.LogError(ctx, err, "Ledger operation failed", append([]any{slog.String("operation", operation)}, keyvals...)...)
	}
	s.Metrics.ObserveOperation(operation, outcome, started)
}

func isRejection(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrDuplicate) ||
		errors.Is(err, apperrors.ErrInactive) ||
		errors.Is(err, apperrors.ErrInsufficientFunds) ||
		errors.Is(err, apperrors.ErrInvalidTransition)
}

// normalizeCurrencyCode upper-cases a code and checks it against ISO 4217.
func normalizeCurrencyCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 3 {
		return "", errValidationf("currency code %q must be 3 letters", code)
	}
	if _, err := currency.ParseISO(normalized); err != nil {
		return "", errValidationf("unsupported currency %q", code)
	}
	return normalized, nil
}

func errValidationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{apperrors.ErrValidation}, args...)...)
}
