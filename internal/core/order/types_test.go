package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"order-chatbot/internal/core/order"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []order.Status{
		order.StatusPending,
		order.StatusInPreparation,
		order.StatusReady,
		order.StatusDelivered,
		order.StatusCancelled,
	} {
		assert.True(t, s.Valid(), string(s))
	}

	assert.False(t, order.Status("Unknown").Valid())
	assert.False(t, order.Status("").Valid())
}

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		from    order.Status
		to      order.Status
		allowed bool
	}{
		{order.StatusPending, order.StatusInPreparation, true},
		{order.StatusPending, order.StatusCancelled, true},
		{order.StatusPending, order.StatusReady, false},
		{order.StatusPending, order.StatusDelivered, false},
		{order.StatusInPreparation, order.StatusReady, true},
		{order.StatusInPreparation, order.StatusCancelled, true},
		{order.StatusInPreparation, order.StatusPending, false},
		{order.StatusReady, order.StatusDelivered, true},
		{order.StatusReady, order.StatusCancelled, true},
		{order.StatusReady, order.StatusInPreparation, false},
		{order.StatusDelivered, order.StatusCancelled, false},
		{order.StatusCancelled, order.StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}
