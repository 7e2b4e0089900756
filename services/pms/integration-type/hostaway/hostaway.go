package hostaway

import (
	"net/http"
	"strings"
	"time"

	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
	"go.uber.org/zap"
)

const (
	IntegrationTypeHostaway = model.ProviderHostaway

	DefaultBaseURL = "https://api.hostaway.com/v1"
	DefaultTimeout = 15 * time.Second

	FieldAccountID   = "accountId"
	FieldAPIKey      = "apiKey"
	FieldAccessToken = "accessToken"
)

type HostawayIntegration struct{}

func CreateHostawayIntegration() interfaces.IntegrationType {
	return &HostawayIntegration{}
}

func (i *HostawayIntegration) CredentialSchema() interfaces.CredentialSchema {
	return interfaces.CredentialSchema{
		Fields: []interfaces.CredentialField{
			{Name: FieldAccountID, Required: true},
			{Name: FieldAPIKey, Secret: true},
			{Name: FieldAccessToken, Secret: true},
		},
		RequireOneOf: [][]string{{FieldAPIKey, FieldAccessToken}},
	}
}

func (i *HostawayIntegration) RequiresConnectionTest() bool {
	return true
}

func (i *HostawayIntegration) NewClient(creds model.Credentials, opts interfaces.ClientOptions) (interfaces.Client, error) {
	creds, err := i.CredentialSchema().Validate(creds)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = &interfaces.MemoryToken{}
	}

	return &Client{
		baseURL:     baseURL,
		accountID:   creds[FieldAccountID],
		apiKey:      creds[FieldAPIKey],
		accessToken: creds[FieldAccessToken],
		httpClient:  httpClient,
		breaker:     opts.Breaker,
		logger:      logger.Named("hostaway"),
		tokens:      tokens,
	}, nil
}
