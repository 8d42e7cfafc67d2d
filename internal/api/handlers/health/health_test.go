package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-chatbot/internal/api/handlers/health"
	"order-chatbot/internal/core/chat"
	"order-chatbot/internal/infrastructure/config"
	"order-chatbot/internal/infrastructure/store"
)

// stubSessionStore 可指定 Ping 結果的測試替身
type stubSessionStore struct {
	pingErr error
}

func (s *stubSessionStore) Get(context.Context, string) (*chat.Session, error) { return nil, nil }
func (s *stubSessionStore) Save(context.Context, *chat.Session) error          { return nil }
func (s *stubSessionStore) Delete(context.Context, string) error               { return nil }
func (s *stubSessionStore) Ping(context.Context) error                         { return s.pingErr }

func performReadiness(t *testing.T, sessions store.SessionStore) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/ready", health.ReadinessCheck(nil, sessions))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestReadinessCheckReady(t *testing.T) {
	sessions, err := store.NewSessionStore(&config.SessionConfig{
		Backend:         "memory",
		TTL:             time.Hour,
		CleanupInterval: time.Minute,
	})
	require.NoError(t, err)

	w := performReadiness(t, sessions)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")
}

func TestReadinessCheckSessionStoreDown(t *testing.T) {
	w := performReadiness(t, &stubSessionStore{pingErr: errors.New("connection refused")})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "session store unreachable")
}
