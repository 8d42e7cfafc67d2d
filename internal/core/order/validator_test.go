package order_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-chatbot/internal/core/menu"
	"order-chatbot/internal/core/order"
)

func testCatalog() *menu.Catalog {
	return menu.NewCatalog([]menu.Item{
		{DisplayName: "Burger", UnitPrice: decimal.RequireFromString("10.00")},
		{DisplayName: "Soda", UnitPrice: decimal.RequireFromString("5.00")},
		{DisplayName: "Fries", UnitPrice: decimal.RequireFromString("4.50")},
	})
}

func TestValidate(t *testing.T) {
	catalog := testCatalog()

	t.Run("all items resolve with catalog casing", func(t *testing.T) {
		lines, err := order.Validate([]order.Candidate{
			{Quantity: 2, RawName: "burger", Raw: "2x burger"},
			{Quantity: 1, RawName: "SODA", Raw: "1x SODA"},
		}, catalog)
		require.NoError(t, err)
		require.Len(t, lines, 2)

		assert.Equal(t, "Burger", lines[0].Name)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
		assert.True(t, lines[0].Priced)
		assert.Equal(t, "Soda", lines[1].Name)
	})

	t.Run("free item keeps a price snapshot", func(t *testing.T) {
		free := menu.NewCatalog([]menu.Item{{DisplayName: "Tap Water", UnitPrice: decimal.Zero}})
		lines, err := order.Validate([]order.Candidate{
			{Quantity: 1, RawName: "Tap Water", Raw: "1x Tap Water"},
		}, free)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.True(t, lines[0].UnitPrice.IsZero())
		assert.True(t, lines[0].Priced)
	})

	t.Run("trailing parenthetical retried without it", func(t *testing.T) {
		lines, err := order.Validate([]order.Candidate{
			{Quantity: 1, RawName: "Fries (medium)", Raw: "1x Fries (medium)"},
		}, catalog)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "Fries", lines[0].Name)
	})

	t.Run("one unknown item fails the whole batch", func(t *testing.T) {
		lines, err := order.Validate([]order.Candidate{
			{Quantity: 2, RawName: "Burger", Raw: "2x Burger"},
			{Quantity: 1, RawName: "Pizza", Raw: "1x Pizza"},
		}, catalog)
		require.Error(t, err)
		assert.Nil(t, lines)

		var verr *order.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"1x Pizza"}, verr.Failed)
	})

	t.Run("unparseable candidate fails the batch", func(t *testing.T) {
		_, err := order.Validate([]order.Candidate{
			{Quantity: 5, RawName: "", Raw: "5x"},
			{Quantity: 1, RawName: "Soda", Raw: "1x Soda"},
		}, catalog)

		var verr *order.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"5x"}, verr.Failed)
	})

	t.Run("empty catalog resolves nothing", func(t *testing.T) {
		_, err := order.Validate([]order.Candidate{
			{Quantity: 1, RawName: "Burger", Raw: "1x Burger"},
		}, menu.NewCatalog(nil))
		require.Error(t, err)
	})

	t.Run("empty candidate list is valid", func(t *testing.T) {
		lines, err := order.Validate(nil, catalog)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}
