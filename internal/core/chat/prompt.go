package chat

import (
	"fmt"
	"strings"

	"order-chatbot/internal/core/menu"
	"order-chatbot/internal/core/order"
)

// 菜單不可用時給模型的提示詞：只允許致歉，不得接單
const menuUnavailablePrompt = `You are a virtual assistant for the restaurant.
ATTENTION: The menu could not be loaded or is empty.
Your task is to politely inform the customer that the menu is currently unavailable and you cannot take orders.
Example: "Sorry, the menu is unavailable at the moment and I cannot take orders. Please try again later."
DO NOT ask what the customer wants. DO NOT mention error details.
Assistant:`

// FormatMenu 將菜單輸出為提示詞用的清單
func FormatMenu(catalog *menu.Catalog) string {
	var sb strings.Builder
	for _, item := range catalog.Items() {
		sb.WriteString(fmt.Sprintf("- %s ($%s)\n", item.DisplayName, item.UnitPrice.StringFixed(2)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// BuildGeneratePrompt 組出單回合生成的完整提示詞
// 包含系統指示、菜單、有界歷史與本回合輸入；確認格式與結單句
// 的字面約定必須和 order 套件的框架常數一致
func BuildGeneratePrompt(catalog *menu.Catalog, history []Message, userMsg string) string {
	if catalog.Empty() {
		return menuUnavailablePrompt
	}

	menuText := FormatMenu(catalog)

	base := fmt.Sprintf(`You are a friendly and efficient virtual assistant for the restaurant. Your goal is to take customer orders based on the available menu. Be clear, direct, and polite. Generate only the response for 'Assistant:'. DO NOT reproduce the examples below.

**Current Menu:**
%s

**Additional Instructions:**
- **Confirmation Format:** When the customer adds or changes items, confirm ONLY using the following exact format: start with "%s", followed by the bulleted list (format "Nx Item Name"), and end with "%s". Do NOT add any other conversational text before or after this structure. Always restate the ENTIRE intended order, not just the change.
- If the customer asks for something not on the menu, politely inform them that the item is not available today.
- Do not chat about other topics. Focus only on taking the order or providing information about the menu.
- Keep your answers concise.
- **Finalizing:** When the customer confirms the order is complete AFTER you asked "%s", respond EXACTLY with: "Great! Your order has been noted and sent to the kitchen!". The backend handles totals. Do NOT list items here.
- **Clearing:** If the customer asks to start over or empty the cart, respond EXACTLY with: "Your cart has been cleared.".

--- EXAMPLES BELOW - DO NOT REPRODUCE ---

Customer: hi, what do you have today?
Assistant: Hello! Welcome! Here is our menu today:
%s
What would you like to order?

Customer: I'll take a burger and two sodas
Assistant: %s
- 1x Burger
- 2x Soda
%s

Customer: yes
Assistant: Great! Your order has been noted and sent to the kitchen!

--- END OF EXAMPLES ---`,
		menuText,
		order.ConfirmLeadIn, order.ConfirmQuestion, order.ConfirmQuestion,
		menuText,
		order.ConfirmLeadIn, order.ConfirmQuestion)

	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("\n\n")
	for _, msg := range history {
		role := "Customer"
		if msg.Role == RoleAssistant {
			role = "Assistant"
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", role, msg.Content))
	}
	sb.WriteString(fmt.Sprintf("Customer: %s\nAssistant:", userMsg))

	return sb.String()
}
