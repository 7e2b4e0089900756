package interfaces

import (
	"net/http"
	"strings"

	pmserrors "github.com/kaytu-io/kaytu-pms/services/pms/errors"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type CredentialField struct {
	Name     string
	Required bool
	Secret   bool
}

type CredentialSchema struct {
	Fields []CredentialField
	// RequireOneOf lists groups of fields of which at least one must be set.
	RequireOneOf [][]string
}

func (s CredentialSchema) Field(name string) (CredentialField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return CredentialField{}, false
}

// Validate checks required fields and returns only the fields the schema
// declares. Blank values count as missing and are dropped.
func (s CredentialSchema) Validate(creds model.Credentials) (model.Credentials, error) {
	out := make(model.Credentials, len(s.Fields))
	for _, f := range s.Fields {
		value := strings.TrimSpace(creds[f.Name])
		if value == "" {
			if f.Required {
				return nil, pmserrors.NewValidationError(f.Name, "%s is required", f.Name)
			}
			continue
		}
		out[f.Name] = value
	}

	for _, group := range s.RequireOneOf {
		found := false
		for _, name := range group {
			if out[name] != "" {
				found = true
				break
			}
		}
		if !found {
			return nil, pmserrors.NewValidationError(strings.Join(group, ","),
				"one of %s is required", strings.Join(group, ", "))
		}
	}

	return out, nil
}

type ClientOptions struct {
	HTTPClient *http.Client
	Breaker    *gobreaker.CircuitBreaker
	Logger     *zap.Logger
	// BaseURL overrides the provider's default API endpoint.
	BaseURL string
	// Tokens is where the client keeps exchanged access tokens. Nil gives
	// the client a cache of its own.
	Tokens TokenCache
}

type IntegrationType interface {
	CredentialSchema() CredentialSchema
	// RequiresConnectionTest reports whether connect must prove the
	// credentials before the integration becomes active.
	RequiresConnectionTest() bool
	NewClient(creds model.Credentials, opts ClientOptions) (Client, error)
}

type IntegrationCreator func() IntegrationType
