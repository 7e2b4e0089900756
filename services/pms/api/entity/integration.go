package entity

import (
	"time"

	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
)

type ConnectRequest struct {
	Provider    string `json:"provider" validate:"required"`
	AuthType    string `json:"authType" validate:"required"`
	APIKey      string `json:"apiKey,omitempty"`
	AccountID   string `json:"accountId,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

func (r ConnectRequest) Credentials() model.Credentials {
	creds := model.Credentials{}
	if r.APIKey != "" {
		creds["apiKey"] = r.APIKey
	}
	if r.AccountID != "" {
		creds["accountId"] = r.AccountID
	}
	if r.AccessToken != "" {
		creds["accessToken"] = r.AccessToken
	}
	return creds
}

// IntegrationStatus never carries credentials.
type IntegrationStatus struct {
	Connected   bool       `json:"connected"`
	Provider    string     `json:"provider,omitempty"`
	AuthType    string     `json:"authType,omitempty"`
	IsActive    bool       `json:"isActive"`
	ConnectedAt *time.Time `json:"connectedAt,omitempty"`
	LastSyncAt  *time.Time `json:"lastSyncAt,omitempty"`
}

func NewIntegrationStatus(integration *model.Integration) IntegrationStatus {
	if integration == nil {
		return IntegrationStatus{}
	}
	connectedAt := integration.ConnectedAt
	return IntegrationStatus{
		Connected:   true,
		Provider:    integration.Provider.String(),
		AuthType:    string(integration.AuthType),
		IsActive:    integration.IsActive,
		ConnectedAt: &connectedAt,
		LastSyncAt:  integration.LastSyncAt,
	}
}

type ConnectResponse struct {
	Success     bool              `json:"success"`
	Integration IntegrationStatus `json:"integration"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type TestResponse struct {
	Success  bool   `json:"success"`
	Provider string `json:"provider"`
	Message  string `json:"message"`
}

type ListingsResponse struct {
	Success  bool                 `json:"success"`
	Provider string               `json:"provider"`
	Listings []interfaces.Listing `json:"listings"`
}

type AvailabilityResponse struct {
	Success      bool                         `json:"success"`
	Provider     string                       `json:"provider"`
	Availability []interfaces.AvailabilityDay `json:"availability"`
}
