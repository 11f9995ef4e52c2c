package domain

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("invalid input")
	ErrStorage              = errors.New("storage unavailable")
	ErrDelivery             = errors.New("sms delivery failed")
	ErrDeliveryUnavailable  = errors.New("sms delivery not configured")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrTooManyRequests      = errors.New("too many requests")
	ErrProfileUpdate        = errors.New("verified but profile update failed")
)

// ValidationError carries field-level detail, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(kv ...string) *ValidationError {
	fields := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
