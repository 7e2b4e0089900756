package integrations

import (
	"errors"
	"net/http"

	"github.com/kaytu-io/kaytu-pms/pkg/httpserver"
	"github.com/kaytu-io/kaytu-pms/pkg/vault"
	pmserrors "github.com/kaytu-io/kaytu-pms/services/pms/errors"
)

const (
	codeValidation          = "validation_error"
	codeUnsupportedProvider = "unsupported_provider"
	codeNotConfigured       = "not_configured"
	codeConnectionTest      = "connection_test_failed"
	codeUpstream            = "upstream_error"
	codeCredentialsRejected = "credentials_rejected"
	codeCredentialDecode    = "credential_decode_error"
)

// toHTTPError maps service errors onto status codes. Errors it does not know
// are returned unchanged and end up as a logged 500.
func toHTTPError(err error) error {
	var (
		validationErr  *pmserrors.ValidationError
		unsupportedErr *pmserrors.UnsupportedProviderError
		testErr        *pmserrors.ConnectionTestError
		upstreamErr    *pmserrors.UpstreamError
		rejectedErr    *pmserrors.CredentialsRejectedError
		decodeErr      *vault.DecodeError
	)

	switch {
	case errors.As(err, &validationErr):
		return httpserver.NewError(http.StatusBadRequest, codeValidation, validationErr.Error())
	case errors.As(err, &unsupportedErr):
		return httpserver.NewError(http.StatusBadRequest, codeUnsupportedProvider, unsupportedErr.Error())
	case errors.Is(err, pmserrors.ErrNotConfigured):
		return httpserver.NewError(http.StatusNotFound, codeNotConfigured, pmserrors.ErrNotConfigured.Error())
	case errors.As(err, &testErr):
		return httpserver.NewError(http.StatusUnprocessableEntity, codeConnectionTest, testErr.Error())
	case errors.As(err, &rejectedErr):
		return httpserver.NewError(http.StatusFailedDependency, codeCredentialsRejected, err.Error())
	case errors.As(err, &upstreamErr):
		status := http.StatusBadGateway
		switch {
		case upstreamErr.Timeout:
			status = http.StatusGatewayTimeout
		case upstreamErr.CircuitOpen:
			status = http.StatusServiceUnavailable
		}
		return httpserver.NewError(status, codeUpstream, err.Error())
	case errors.As(err, &decodeErr):
		return httpserver.NewError(http.StatusInternalServerError, codeCredentialDecode, "stored credentials could not be decrypted")
	}
	return err
}
