package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"order-chatbot/internal/core/menu"
)

// EmptyCartText 空購物車的固定回覆
const EmptyCartText = "Your cart is empty."

// FormatOptions 購物車輸出選項
type FormatOptions struct {
	// IncludeTotal 是否附加總計行
	IncludeTotal bool
	// ForConfirmation true 時輸出精簡格式（僅數量與品名），
	// false 時輸出含單價與小計的明細格式
	ForConfirmation bool
}

// Format 將購物車輸出為人類可讀文字並回傳總計
// 單價優先取行上的快照，缺少時退回菜單查價；兩者皆無時
// 該行標示價格不明並排除於總計之外，屬降級行為而非錯誤
func Format(cart []CartLine, catalog *menu.Catalog, opts FormatOptions) (string, decimal.Decimal) {
	if len(cart) == 0 {
		return EmptyCartText, decimal.Zero
	}

	var (
		sb    strings.Builder
		total = decimal.Zero
	)

	for i, line := range cart {
		if i > 0 {
			sb.WriteString("\n")
		}

		price, priced := resolvePrice(line, catalog)
		if priced {
			total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		switch {
		case opts.ForConfirmation:
			sb.WriteString(fmt.Sprintf("- %dx %s", line.Quantity, line.Name))
		case !priced:
			sb.WriteString(fmt.Sprintf("- %dx %s (price unavailable)", line.Quantity, line.Name))
		default:
			lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			sb.WriteString(fmt.Sprintf("- %dx %s ($%s each) = $%s",
				line.Quantity, line.Name, price.StringFixed(2), lineTotal.StringFixed(2)))
		}
	}

	if opts.IncludeTotal {
		sb.WriteString(fmt.Sprintf("\nTotal: $%s", total.StringFixed(2)))
	}

	return sb.String(), total
}

// resolvePrice 解析行的單價：行上快照優先，其次為菜單
// 沒有快照標記的舊資料以非零單價視同快照
func resolvePrice(line CartLine, catalog *menu.Catalog) (decimal.Decimal, bool) {
	if line.Priced || !line.UnitPrice.IsZero() {
		return line.UnitPrice, true
	}
	if item, ok := catalog.Lookup(line.Name); ok {
		return item.UnitPrice, true
	}
	return decimal.Zero, false
}
