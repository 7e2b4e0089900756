package errors

import (
	goerrors "errors"
	"fmt"
	"strings"
)

var ErrNotConfigured = goerrors.New("pms integration is not configured")

type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported pms provider %q", e.Provider)
}

// ConnectionTestError is returned by connect when the candidate credentials
// failed their connection test. Err is nil when the provider rejected them.
type ConnectionTestError struct {
	Provider string
	Err      error
}

func (e *ConnectionTestError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("connection test failed for %s: credentials were rejected", e.Provider)
	}
	return fmt.Sprintf("connection test failed for %s: %s", e.Provider, e.Err.Error())
}

func (e *ConnectionTestError) Unwrap() error {
	return e.Err
}

// CredentialsRejectedError is returned by data calls when the provider
// refuses the stored credentials. The integration needs to be reconnected.
type CredentialsRejectedError struct {
	Provider  string
	Operation string
}

func (e *CredentialsRejectedError) Error() string {
	return fmt.Sprintf("%s %s: provider rejected the stored credentials", e.Provider, e.Operation)
}

// UpstreamError is a provider call that failed in transport or returned a
// response that could not be used. Credential refusals are
// CredentialsRejectedError instead.
type UpstreamError struct {
	Provider    string
	Operation   string
	StatusCode  int
	Timeout     bool
	CircuitOpen bool
	Message     string
	Err         error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Provider, e.Operation)
	switch {
	case e.Timeout:
		b.WriteString(": upstream timed out")
	case e.CircuitOpen:
		b.WriteString(": upstream circuit is open")
	case e.StatusCode != 0:
		fmt.Fprintf(&b, ": upstream returned %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var target *ValidationError
	return goerrors.As(err, &target)
}

func IsCredentialsRejected(err error) bool {
	var target *CredentialsRejectedError
	return goerrors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target *UpstreamError
	return goerrors.As(err, &target)
}
