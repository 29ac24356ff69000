// Package dbtest provides in-memory databases and statement hooks for tests.
package dbtest

import (
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greensocial/green/internal/db/models"
)

// Open creates an in-memory SQLite database with the schema migrated.
// The pool is limited to one connection, every new connection to
// ":memory:" would otherwise see an empty database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// Seed inserts settings directly, bypassing any unit of work.
func Seed(t *testing.T, db *gorm.DB, settings ...models.Setting) {
	t.Helper()

	for _, s := range settings {
		err := db.Create(&s).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

// Count returns the number of rows in the settings table.
func Count(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.Setting{}).Count(&n).Error)

	return n
}

// CountWrites registers callbacks counting every INSERT, UPDATE and DELETE
// statement issued through db.
func CountWrites(t *testing.T, db *gorm.DB) *atomic.Int64 {
	t.Helper()

	var n atomic.Int64

	inc := func(*gorm.DB) { n.Add(1) }

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("dbtest:count_create", inc))
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("dbtest:count_update", inc))
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("dbtest:count_delete", inc))

	return &n
}

// FailInsertsAfter makes every INSERT after the first n ones fail with err.
func FailInsertsAfter(t *testing.T, db *gorm.DB, n int64, err error) {
	t.Helper()

	var seen atomic.Int64

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("dbtest:fail_create", func(tx *gorm.DB) {
		if seen.Add(1) > n {
			_ = tx.AddError(err)
		}
	}))
}
