package integration_type

import (
	"sort"
	"strings"

	pmserrors "github.com/kaytu-io/kaytu-pms/services/pms/errors"
	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/demo"
	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/hostaway"
	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
)

const (
	IntegrationTypeDemo     = demo.IntegrationTypeDemo
	IntegrationTypeHostaway = hostaway.IntegrationTypeHostaway
)

var AllIntegrationTypes = []model.ProviderType{
	IntegrationTypeDemo,
	IntegrationTypeHostaway,
}

var IntegrationTypes = map[model.ProviderType]interfaces.IntegrationCreator{
	IntegrationTypeDemo:     demo.CreateDemoIntegration,
	IntegrationTypeHostaway: hostaway.CreateHostawayIntegration,
}

func ParseType(str string) model.ProviderType {
	str = strings.ToLower(strings.TrimSpace(str))
	for _, t := range AllIntegrationTypes {
		if str == t.String() {
			return t
		}
	}
	return ""
}

// Registry resolves provider tags to integration types. The set of providers
// is fixed when the registry is built.
type Registry struct {
	types map[model.ProviderType]interfaces.IntegrationType
}

func NewRegistry() Registry {
	return NewRegistryFrom(IntegrationTypes)
}

func NewRegistryFrom(creators map[model.ProviderType]interfaces.IntegrationCreator) Registry {
	types := make(map[model.ProviderType]interfaces.IntegrationType, len(creators))
	for name, create := range creators {
		types[name] = create()
	}
	return Registry{types: types}
}

func (r Registry) Providers() []model.ProviderType {
	out := make([]model.ProviderType, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r Registry) Get(provider model.ProviderType) (interfaces.IntegrationType, error) {
	it, ok := r.types[provider]
	if !ok {
		return nil, &pmserrors.UnsupportedProviderError{Provider: provider.String()}
	}
	return it, nil
}

// IsSecret reports whether a credential field must be encrypted at rest.
// The provider schema decides; fields it does not declare fall back to the
// field name.
func (r Registry) IsSecret(provider model.ProviderType, field string) bool {
	if it, ok := r.types[provider]; ok {
		if f, ok := it.CredentialSchema().Field(field); ok {
			return f.Secret
		}
	}
	return looksSecret(field)
}

func looksSecret(field string) bool {
	name := strings.ToLower(field)
	for _, marker := range []string{"key", "token", "secret", "password"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
