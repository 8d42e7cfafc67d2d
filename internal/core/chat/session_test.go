package chat_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-chatbot/internal/core/chat"
	"order-chatbot/internal/core/order"
)

func TestSessionAppendTurn(t *testing.T) {
	s := chat.NewSession("s1")
	s.AppendTurn("hello", "hi there")

	require.Len(t, s.History, 2)
	assert.Equal(t, chat.Message{Role: chat.RoleUser, Content: "hello"}, s.History[0])
	assert.Equal(t, chat.Message{Role: chat.RoleAssistant, Content: "hi there"}, s.History[1])
	assert.Equal(t, "hi there", s.LastBotMessage)
}

func TestSessionHistoryBounded(t *testing.T) {
	s := chat.NewSession("s1")
	for i := 0; i < 20; i++ {
		s.AppendTurn(fmt.Sprintf("user %d", i), fmt.Sprintf("bot %d", i))
	}

	require.Len(t, s.History, chat.HistoryLimit)
	// 保留的是最近的訊息
	assert.Equal(t, "user 15", s.History[0].Content)
	assert.Equal(t, "bot 19", s.History[len(s.History)-1].Content)
	assert.Equal(t, "bot 19", s.LastBotMessage)
}

func TestSessionReset(t *testing.T) {
	s := chat.NewSession("s1")
	s.Cart = []order.CartLine{{Name: "Burger", Quantity: 2}}
	s.AppendTurn("hi", "hello")
	s.AwaitingConfirmation = true
	s.AwaitingClientName = true

	s.Reset()

	assert.Empty(t, s.Cart)
	assert.Empty(t, s.History)
	assert.Empty(t, s.LastBotMessage)
	assert.False(t, s.AwaitingConfirmation)
	assert.False(t, s.AwaitingClientName)
	assert.Equal(t, "s1", s.ID)
}
