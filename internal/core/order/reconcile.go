package order

import "strings"

// Reconcile 將已驗證品項併入現有購物車，回傳新的購物車
// 採覆蓋語意而非累加：語言模型每次確認都重述完整訂單，
// 因此同名行以最新數量與單價取代既有值
//   - 已存在且數量 > 0：覆蓋數量與單價
//   - 已存在且數量 <= 0：移除該行
//   - 不存在且數量 > 0：附加新行
//   - 不存在且數量 <= 0：不處理
func Reconcile(cart []CartLine, validated []CartLine) []CartLine {
	result := make([]CartLine, len(cart))
	copy(result, cart)

	for _, item := range validated {
		idx := -1
		for i, line := range result {
			if strings.EqualFold(line.Name, item.Name) {
				idx = i
				break
			}
		}

		switch {
		case idx >= 0 && item.Quantity > 0:
			result[idx].Quantity = item.Quantity
			result[idx].UnitPrice = item.UnitPrice
			result[idx].Priced = item.Priced
		case idx >= 0:
			result = append(result[:idx], result[idx+1:]...)
		case item.Quantity > 0:
			result = append(result, item)
		}
	}

	return result
}
