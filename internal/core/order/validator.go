package order

import (
	"fmt"
	"regexp"
	"strings"

	"order-chatbot/internal/core/menu"
)

// 去除結尾括號註記，例如 "Fries (medium)" → "Fries"
var trailingParenRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// ValidationError 整批驗證失敗
// 任一候選行無法對應菜單時整批拒絕，購物車不得部分套用
type ValidationError struct {
	Failed []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d item(s) not resolvable against the menu: %s",
		len(e.Failed), strings.Join(e.Failed, "; "))
}

// Validate 將候選行逐一對應菜單，全部成功才回傳已驗證清單
// 先以原始品名做不分大小寫查詢，失敗時去除結尾括號再查一次
// 重複品名不在此合併，調和是 Reconcile 的職責
func Validate(candidates []Candidate, catalog *menu.Catalog) ([]CartLine, error) {
	var (
		resolved []CartLine
		failed   []string
	)

	for _, cand := range candidates {
		if cand.RawName == "" {
			failed = append(failed, cand.Raw)
			continue
		}

		item, ok := catalog.Lookup(cand.RawName)
		if !ok {
			stripped := strings.TrimSpace(trailingParenRe.ReplaceAllString(cand.RawName, ""))
			if stripped != "" && stripped != cand.RawName {
				item, ok = catalog.Lookup(stripped)
			}
		}
		if !ok {
			failed = append(failed, cand.Raw)
			continue
		}

		resolved = append(resolved, CartLine{
			Name:      item.DisplayName,
			Quantity:  cand.Quantity,
			UnitPrice: item.UnitPrice,
			Priced:    true,
		})
	}

	if len(failed) > 0 {
		return nil, &ValidationError{Failed: failed}
	}
	return resolved, nil
}
