package services

import (
	"fmt"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/database"
	lib_store "github.com/eko/gocache/lib/v4/store"
	gocache_store "github.com/eko/gocache/store/go_cache/v4"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(db))

	return db
}

// testStore returns a synchronous in-memory store so expiry behavior is
// deterministic in tests.
func testStore() lib_store.StoreInterface {
	return gocache_store.NewGoCache(gocache.New(time.Minute, time.Minute))
}

type testMailer struct {
	fail     bool
	to       string
	subject  string
	body     string
	attempts int
}

func (m *testMailer) Send(to, subject, body string) error {
	m.attempts++
	m.to = to
	m.subject = subject
	m.body = body
	if m.fail {
		return fmt.Errorf("smtp unavailable")
	}
	return nil
}
