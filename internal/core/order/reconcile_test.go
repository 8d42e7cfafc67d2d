package order_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"order-chatbot/internal/core/order"
)

func line(name string, qty int, price string) order.CartLine {
	return order.CartLine{
		Name:      name,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
		Priced:    true,
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		cart      []order.CartLine
		validated []order.CartLine
		want      []order.CartLine
	}{
		{
			name:      "append to empty cart",
			cart:      nil,
			validated: []order.CartLine{line("Burger", 2, "10.00")},
			want:      []order.CartLine{line("Burger", 2, "10.00")},
		},
		{
			name:      "existing line quantity replaced not added",
			cart:      []order.CartLine{line("Burger", 2, "10.00")},
			validated: []order.CartLine{line("Burger", 3, "10.00")},
			want:      []order.CartLine{line("Burger", 3, "10.00")},
		},
		{
			name:      "case insensitive match replaces",
			cart:      []order.CartLine{line("Burger", 2, "10.00")},
			validated: []order.CartLine{line("BURGER", 1, "10.00")},
			want: []order.CartLine{{
				Name:      "Burger",
				Quantity:  1,
				UnitPrice: decimal.RequireFromString("10.00"),
				Priced:    true,
			}},
		},
		{
			name: "zero quantity removes existing line",
			cart: []order.CartLine{
				line("Burger", 2, "10.00"),
				line("Soda", 1, "5.00"),
			},
			validated: []order.CartLine{line("Burger", 0, "10.00")},
			want:      []order.CartLine{line("Soda", 1, "5.00")},
		},
		{
			name:      "zero quantity for absent line is a no-op",
			cart:      []order.CartLine{line("Soda", 1, "5.00")},
			validated: []order.CartLine{line("Burger", 0, "10.00")},
			want:      []order.CartLine{line("Soda", 1, "5.00")},
		},
		{
			name: "mixed replace and append keeps cart order",
			cart: []order.CartLine{
				line("Burger", 1, "10.00"),
				line("Soda", 2, "5.00"),
			},
			validated: []order.CartLine{
				line("Soda", 3, "5.00"),
				line("Fries", 1, "4.50"),
			},
			want: []order.CartLine{
				line("Burger", 1, "10.00"),
				line("Soda", 3, "5.00"),
				line("Fries", 1, "4.50"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := order.Reconcile(tt.cart, tt.validated)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcileIdempotent(t *testing.T) {
	cart := []order.CartLine{line("Burger", 1, "10.00")}
	validated := []order.CartLine{
		line("Burger", 2, "10.00"),
		line("Soda", 1, "5.00"),
	}

	once := order.Reconcile(cart, validated)
	twice := order.Reconcile(once, validated)
	assert.Equal(t, once, twice)
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	cart := []order.CartLine{line("Burger", 1, "10.00")}
	order.Reconcile(cart, []order.CartLine{line("Burger", 5, "10.00")})
	assert.Equal(t, 1, cart[0].Quantity)
}
