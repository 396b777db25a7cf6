package service

import (
	"errors"

	"github.com/minisocial/socialnet/internal/core/domain"
	"github.com/minisocial/socialnet/internal/pkg/metrics"
)

// resultLabel maps an operation outcome to a metrics result label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrValidation):
		return metrics.ResultInvalid
	case domain.IsRejected(err),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUserNotFound):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

// isDomainError reports whether err is an expected outcome rather than a storage failure.
func isDomainError(err error) bool {
	return resultLabel(err) != metrics.ResultError
}
