// Package testkit holds helpers shared by package tests: an in-memory SQL
// database and a JSON request runner for http.Handlers.
package testkit

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inkwell/pkg/database"
)

var dbSeq atomic.Int64

// SQLite opens a private shared-cache in-memory SQLite database that lives
// until the test ends.
func SQLite(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.OpenSQL("sqlite", dsn)
	require.NoError(t, err, "testkit: open sqlite")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
