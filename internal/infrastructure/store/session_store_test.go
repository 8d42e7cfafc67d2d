package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-chatbot/internal/core/chat"
	"order-chatbot/internal/core/order"
	"order-chatbot/internal/infrastructure/config"
	"order-chatbot/internal/infrastructure/store"
	"order-chatbot/internal/pkg/common"
)

func newMemoryStore(t *testing.T, ttl time.Duration) store.SessionStore {
	t.Helper()
	s, err := store.NewSessionStore(&config.SessionConfig{
		Backend:         "memory",
		TTL:             ttl,
		CleanupInterval: time.Minute,
	})
	require.NoError(t, err)
	return s
}

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t, time.Hour)

	id := gofakeit.UUID()
	session := chat.NewSession(id)
	session.Cart = []order.CartLine{{Name: "Burger", Quantity: 2}}
	session.AppendTurn("hi", "Hello!")
	session.AwaitingConfirmation = true

	require.NoError(t, s.Save(ctx, session))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.Cart, got.Cart)
	assert.Equal(t, session.History, got.History)
	assert.True(t, got.AwaitingConfirmation)
}

func TestMemorySessionStoreGetMissing(t *testing.T) {
	s := newMemoryStore(t, time.Hour)

	_, err := s.Get(context.Background(), gofakeit.UUID())
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
}

func TestMemorySessionStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t, time.Hour)

	id := gofakeit.UUID()
	require.NoError(t, s.Save(ctx, chat.NewSession(id)))
	require.NoError(t, s.Delete(ctx, id))

	_, err := s.Get(ctx, id)
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
}

func TestMemorySessionStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t, 10*time.Millisecond)

	id := gofakeit.UUID()
	require.NoError(t, s.Save(ctx, chat.NewSession(id)))

	time.Sleep(30 * time.Millisecond)

	_, err := s.Get(ctx, id)
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
}

func TestMemorySessionStorePing(t *testing.T) {
	s := newMemoryStore(t, time.Hour)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestMemorySessionStoreReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t, time.Hour)

	id := gofakeit.UUID()
	require.NoError(t, s.Save(ctx, chat.NewSession(id)))

	first, err := s.Get(ctx, id)
	require.NoError(t, err)
	first.AwaitingConfirmation = true

	// 未 Save 的修改不得影響儲存中的狀態
	second, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, second.AwaitingConfirmation)
}
