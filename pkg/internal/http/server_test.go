package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/database"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/services"
	gocache_store "github.com/eko/gocache/store/go_cache/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noopMailer struct{}

func (noopMailer) Send(to, subject, body string) error { return nil }

func testServer(t *testing.T) *App {
	t.Helper()
	viper.Set("security.cookie_name", "sociality_session")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(db))

	shared := gocache_store.NewGoCache(gocache.New(time.Minute, time.Minute))
	local := gocache_store.NewGoCache(gocache.New(time.Minute, time.Minute))

	return NewServer(services.NewService(db, shared, local, noopMailer{}))
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == "sociality_session" {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestGateRejectsAnonymousRequests(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGateRejectsUnknownSession(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: "sociality_session", Value: uuid.NewString()})
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRegistrationOpensTheGate(t *testing.T) {
	srv := testServer(t)

	body := `{"name": "alice", "nick": "Alice", "password": "secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(cookie)
	resp, err = srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLogoutClosesTheGate(t *testing.T) {
	srv := testServer(t)

	body := `{"name": "bob", "password": "secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(cookie)
	resp, err = srv.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(cookie)
	resp, err = srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
