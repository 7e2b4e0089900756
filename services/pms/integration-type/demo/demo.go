package demo

import (
	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
)

const IntegrationTypeDemo = model.ProviderDemo

// DemoIntegration serves a fixed synthetic catalogue. It accepts any
// credentials and is active as soon as it is connected.
type DemoIntegration struct{}

func CreateDemoIntegration() interfaces.IntegrationType {
	return &DemoIntegration{}
}

func (i *DemoIntegration) CredentialSchema() interfaces.CredentialSchema {
	return interfaces.CredentialSchema{}
}

func (i *DemoIntegration) RequiresConnectionTest() bool {
	return false
}

func (i *DemoIntegration) NewClient(_ model.Credentials, _ interfaces.ClientOptions) (interfaces.Client, error) {
	return &Client{}, nil
}
