package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-chatbot/internal/core/order"
)

func TestParseConfirmation(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
		want []order.Candidate
	}{
		{
			name: "simple two line proposal",
			text: "Understood. You ordered:\n- 2x Burger\n- 1x Soda\nCorrect?",
			ok:   true,
			want: []order.Candidate{
				{Quantity: 2, RawName: "Burger", Raw: "2x Burger"},
				{Quantity: 1, RawName: "Soda", Raw: "1x Soda"},
			},
		},
		{
			name: "missing quantity defaults to one",
			text: "Understood. You ordered:\n- Burger\nCorrect?",
			ok:   true,
			want: []order.Candidate{
				{Quantity: 1, RawName: "Burger", Raw: "Burger"},
			},
		},
		{
			name: "uppercase X and spaced quantity",
			text: "Understood. You ordered:\n- 3 X Fries\nCorrect?",
			ok:   true,
			want: []order.Candidate{
				{Quantity: 3, RawName: "Fries", Raw: "3 X Fries"},
			},
		},
		{
			name: "parenthetical kept in raw name",
			text: "Understood. You ordered:\n- 1x Fries (medium)\nCorrect?",
			ok:   true,
			want: []order.Candidate{
				{Quantity: 1, RawName: "Fries (medium)", Raw: "1x Fries (medium)"},
			},
		},
		{
			name: "zero quantity line is parsed",
			text: "Understood. You ordered:\n- 0x Burger\nCorrect?",
			ok:   true,
			want: []order.Candidate{
				{Quantity: 0, RawName: "Burger", Raw: "0x Burger"},
			},
		},
		{
			name: "conversational text around framing",
			text: "Sure thing! Understood. You ordered:\n* 2x Soda\n\n* 1x Burger\nCorrect?",
			ok:   true,
			want: []order.Candidate{
				{Quantity: 2, RawName: "Soda", Raw: "2x Soda"},
				{Quantity: 1, RawName: "Burger", Raw: "1x Burger"},
			},
		},
		{
			name: "no lead in phrase",
			text: "You ordered:\n- 2x Burger\nCorrect?",
			ok:   false,
		},
		{
			name: "missing trailing question",
			text: "Understood. You ordered:\n- 2x Burger\nAnything else?",
			ok:   false,
		},
		{
			name: "plain chat response",
			text: "Hello! What would you like today?",
			ok:   false,
		},
		{
			name: "empty item block",
			text: "Understood. You ordered:\nCorrect?",
			ok:   true,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proposal, ok := order.ParseConfirmation(tt.text)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.want, proposal.Candidates)
		})
	}
}

func TestParseConfirmationUnparseableLine(t *testing.T) {
	// 光有數量沒有品名的行不能悄悄丟掉，要以候選行帶出讓驗證整批失敗
	proposal, ok := order.ParseConfirmation("Understood. You ordered:\n- 5x\n- 1x Soda\nCorrect?")
	require.True(t, ok)
	require.Len(t, proposal.Candidates, 2)

	// "5x" 整段被當成品名，留給菜單驗證去拒絕
	assert.Equal(t, "5x", proposal.Candidates[0].RawName)
	assert.Equal(t, "Soda", proposal.Candidates[1].RawName)
}
