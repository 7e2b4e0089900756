package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kaytu-io/kaytu-pms/pkg/config"
	"github.com/kaytu-io/kaytu-pms/pkg/vault"
	"github.com/kaytu-io/kaytu-pms/services/pms/db"
	integration_type "github.com/kaytu-io/kaytu-pms/services/pms/integration-type"
	"github.com/kaytu-io/kaytu-pms/services/pms/internal/testutil"
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type IntegrationRepoSuite struct {
	suite.Suite

	db   db.Database
	repo Integration
}

func (s *IntegrationRepoSuite) SetupTest() {
	require := s.Require()

	cipher, err := vault.NewLocalCipher(testutil.TestVaultKey, config.EnvironmentProduction, zap.NewNop())
	require.NoError(err)

	s.db = testutil.NewDatabase(s.T())
	s.repo = NewIntegrationSQL(s.db, cipher, integration_type.NewRegistry())
}

func TestIntegrationRepoSuite(t *testing.T) {
	suite.Run(t, &IntegrationRepoSuite{})
}

func (s *IntegrationRepoSuite) hostaway() *model.Integration {
	return &model.Integration{
		Provider: model.ProviderHostaway,
		AuthType: model.AuthTypeAPIKey,
		Credentials: model.Credentials{
			"accountId": "1234",
			"apiKey":    "super-secret",
		},
	}
}

func (s *IntegrationRepoSuite) rawCredentials(orgID string) map[string]model.SealedField {
	require := s.Require()

	var row model.Integration
	require.NoError(s.db.Orm.Where("organization_id = ?", orgID).First(&row).Error)

	var fields map[string]model.SealedField
	require.NoError(json.Unmarshal(row.SealedCredentials, &fields))
	return fields
}

func (s *IntegrationRepoSuite) TestGetMissing() {
	require := s.Require()

	got, err := s.repo.Get(context.Background(), "org-none")
	require.NoError(err)
	require.Nil(got)
}

func (s *IntegrationRepoSuite) TestSaveEncryptsSecretsOnly() {
	require := s.Require()
	ctx := context.Background()

	require.NoError(s.repo.Save(ctx, "org-1", s.hostaway()))

	raw := s.rawCredentials("org-1")
	require.Equal(model.SealedField{Value: "1234", Secret: false}, raw["accountId"])
	require.True(raw["apiKey"].Secret)
	require.NotEqual("super-secret", raw["apiKey"].Value)
	require.Contains(raw["apiKey"].Value, ":")

	got, err := s.repo.Get(ctx, "org-1")
	require.NoError(err)
	require.NotNil(got)
	require.Equal("org-1", got.OrganizationID)
	require.Equal(model.ProviderHostaway, got.Provider)
	require.Equal(model.AuthTypeAPIKey, got.AuthType)
	require.Equal(model.Credentials{"accountId": "1234", "apiKey": "super-secret"}, got.Credentials)
	require.False(got.IsActive)
	require.False(got.ConnectedAt.IsZero())
	require.Nil(got.LastSyncAt)
}

func (s *IntegrationRepoSuite) TestSaveReplacesWithoutMerging() {
	require := s.Require()
	ctx := context.Background()

	require.NoError(s.repo.Save(ctx, "org-1", &model.Integration{
		Provider:    model.ProviderDemo,
		AuthType:    model.AuthTypeAPIKey,
		Credentials: model.Credentials{"apiKey": "demo", "region": "eu"},
		IsActive:    true,
	}))
	require.NoError(s.repo.Save(ctx, "org-1", s.hostaway()))

	var count int64
	require.NoError(s.db.Orm.Model(&model.Integration{}).Where("organization_id = ?", "org-1").Count(&count).Error)
	require.EqualValues(1, count)

	got, err := s.repo.Get(ctx, "org-1")
	require.NoError(err)
	require.Equal(model.ProviderHostaway, got.Provider)
	require.NotContains(got.Credentials, "region")
	require.False(got.IsActive)
}

func (s *IntegrationRepoSuite) TestOrganizationsAreIsolated() {
	require := s.Require()
	ctx := context.Background()

	require.NoError(s.repo.Save(ctx, "org-1", s.hostaway()))
	require.NoError(s.repo.Save(ctx, "org-2", &model.Integration{Provider: model.ProviderDemo, AuthType: model.AuthTypeAPIKey, IsActive: true}))
	require.NoError(s.repo.Delete(ctx, "org-2"))

	got, err := s.repo.Get(ctx, "org-1")
	require.NoError(err)
	require.NotNil(got)
}

func (s *IntegrationRepoSuite) TestDeleteIsIdempotent() {
	require := s.Require()
	ctx := context.Background()

	require.NoError(s.repo.Save(ctx, "org-1", s.hostaway()))
	require.NoError(s.repo.Delete(ctx, "org-1"))
	require.NoError(s.repo.Delete(ctx, "org-1"))

	got, err := s.repo.Get(ctx, "org-1")
	require.NoError(err)
	require.Nil(got)
}

func (s *IntegrationRepoSuite) TestTouchLastSyncAndSetActive() {
	require := s.Require()
	ctx := context.Background()

	require.NoError(s.repo.TouchLastSync(ctx, "org-missing"))
	require.NoError(s.repo.SetActive(ctx, "org-missing", true))
	got, err := s.repo.Get(ctx, "org-missing")
	require.NoError(err)
	require.Nil(got)

	require.NoError(s.repo.Save(ctx, "org-1", s.hostaway()))
	require.NoError(s.repo.TouchLastSync(ctx, "org-1"))
	require.NoError(s.repo.SetActive(ctx, "org-1", true))

	got, err = s.repo.Get(ctx, "org-1")
	require.NoError(err)
	require.NotNil(got.LastSyncAt)
	require.True(got.IsActive)
}

func (s *IntegrationRepoSuite) TestCorruptCiphertextIsDecodeError() {
	require := s.Require()
	ctx := context.Background()

	require.NoError(s.repo.Save(ctx, "org-1", s.hostaway()))
	tx := s.db.Orm.Model(&model.Integration{}).
		Where("organization_id = ?", "org-1").
		Update("credentials", datatypes.JSON(`{"apiKey":{"value":"not-hex","secret":true}}`))
	require.NoError(tx.Error)

	_, err := s.repo.Get(ctx, "org-1")
	var decodeErr *vault.DecodeError
	require.ErrorAs(err, &decodeErr)
}
