package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/kaytu-io/kaytu-pms/services/pms/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestVaultKey = "0123456789abcdef0123456789abcdef"

// NewDatabase returns a migrated in-memory SQLite database private to t.
func NewDatabase(t *testing.T) db.Database {
	t.Helper()

	orm, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := orm.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	database := db.NewDatabase(orm)
	require.NoError(t, database.Initialize(), "initialize db")
	return database
}
