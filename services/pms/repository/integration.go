package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kaytu-io/kaytu-pms/pkg/vault"
	"github.com/kaytu-io/kaytu-pms/services/pms/db"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecretClassifier decides which credential fields are encrypted at rest.
type SecretClassifier interface {
	IsSecret(provider model.ProviderType, field string) bool
}

type Integration interface {
	// Get returns nil, nil when the organization has no integration.
	Get(ctx context.Context, orgID string) (*model.Integration, error)
	// Save replaces any existing integration of the organization.
	Save(ctx context.Context, orgID string, integration *model.Integration) error
	Delete(ctx context.Context, orgID string) error
	TouchLastSync(ctx context.Context, orgID string) error
	SetActive(ctx context.Context, orgID string, active bool) error
}

type IntegrationSQL struct {
	db         db.Database
	cipher     vault.Cipher
	classifier SecretClassifier
}

func NewIntegrationSQL(db db.Database, cipher vault.Cipher, classifier SecretClassifier) Integration {
	return IntegrationSQL{
		db:         db,
		cipher:     cipher,
		classifier: classifier,
	}
}

func (r IntegrationSQL) Get(ctx context.Context, orgID string) (*model.Integration, error) {
	var integration model.Integration
	tx := r.db.Orm.WithContext(ctx).
		Where("organization_id = ?", orgID).
		First(&integration)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}

	creds, err := r.open(ctx, integration.SealedCredentials)
	if err != nil {
		return nil, err
	}
	integration.Credentials = creds

	return &integration, nil
}

func (r IntegrationSQL) Save(ctx context.Context, orgID string, integration *model.Integration) error {
	sealed, err := r.seal(ctx, integration.Provider, integration.Credentials)
	if err != nil {
		return err
	}

	if integration.ID == uuid.Nil {
		integration.ID = uuid.New()
	}
	if integration.ConnectedAt.IsZero() {
		integration.ConnectedAt = time.Now().UTC()
	}
	integration.OrganizationID = orgID

	row := *integration
	row.SealedCredentials = sealed

	return r.db.Orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", orgID).Delete(&model.Integration{}).Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
}

func (r IntegrationSQL) Delete(ctx context.Context, orgID string) error {
	tx := r.db.Orm.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Delete(&model.Integration{})
	return tx.Error
}

func (r IntegrationSQL) TouchLastSync(ctx context.Context, orgID string) error {
	tx := r.db.Orm.WithContext(ctx).
		Model(&model.Integration{}).
		Where("organization_id = ?", orgID).
		Update("last_sync_at", time.Now().UTC())
	return tx.Error
}

func (r IntegrationSQL) SetActive(ctx context.Context, orgID string, active bool) error {
	tx := r.db.Orm.WithContext(ctx).
		Model(&model.Integration{}).
		Where("organization_id = ?", orgID).
		Update("is_active", active)
	return tx.Error
}

func (r IntegrationSQL) seal(ctx context.Context, provider model.ProviderType, creds model.Credentials) (datatypes.JSON, error) {
	fields := make(map[string]model.SealedField, len(creds))
	for name, value := range creds {
		field := model.SealedField{Value: value}
		if r.classifier.IsSecret(provider, name) {
			encrypted, err := r.cipher.Encrypt(ctx, value)
			if err != nil {
				return nil, fmt.Errorf("encrypt credential %s: %w", name, err)
			}
			field.Value = encrypted
			field.Secret = true
		}
		fields[name] = field
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(out), nil
}

func (r IntegrationSQL) open(ctx context.Context, sealed datatypes.JSON) (model.Credentials, error) {
	fields := map[string]model.SealedField{}
	if len(sealed) > 0 {
		if err := json.Unmarshal(sealed, &fields); err != nil {
			return nil, &vault.DecodeError{Reason: "stored credentials are not valid JSON", Err: err}
		}
	}

	creds := make(model.Credentials, len(fields))
	for name, field := range fields {
		if !field.Secret {
			creds[name] = field.Value
			continue
		}
		value, err := r.cipher.Decrypt(ctx, field.Value)
		if err != nil {
			return nil, fmt.Errorf("decrypt credential %s: %w", name, err)
		}
		creds[name] = value
	}
	return creds, nil
}
