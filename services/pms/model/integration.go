package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProviderType string

const (
	ProviderDemo     ProviderType = "demo"
	ProviderHostaway ProviderType = "hostaway"
)

func (p ProviderType) String() string {
	return string(p)
}

type AuthType string

const (
	AuthTypeAPIKey AuthType = "api_key"
	AuthTypeOAuth  AuthType = "oauth"
)

func (a AuthType) IsValid() bool {
	return a == AuthTypeAPIKey || a == AuthTypeOAuth
}

// Credentials maps credential field names to their plaintext values.
type Credentials map[string]string

// SealedField is the persisted form of a single credential field.
type SealedField struct {
	Value  string `json:"value"`
	Secret bool   `json:"secret"`
}

// Integration is the single upstream provider connection of an organization.
type Integration struct {
	OrganizationID string       `gorm:"primaryKey"`
	ID             uuid.UUID    `gorm:"type:uuid;not null"`
	Provider       ProviderType `gorm:"not null"`
	AuthType       AuthType     `gorm:"not null"`

	// SealedCredentials holds {field: SealedField}, with secret values
	// encrypted. Only the repository reads or writes it.
	SealedCredentials datatypes.JSON `gorm:"column:credentials;not null" json:"-"`
	Credentials       Credentials    `gorm:"-" json:"-"`

	IsActive    bool      `gorm:"not null;default:false"`
	ConnectedAt time.Time `gorm:"not null"`
	LastSyncAt  *time.Time
	UpdatedAt   time.Time
}

func (Integration) TableName() string {
	return "pms_integrations"
}
