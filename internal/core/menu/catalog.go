package menu

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Item 菜單品項
type Item struct {
	Key         string          `json:"key"`
	DisplayName string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"price"`
}

// Catalog 菜單目錄，載入後唯讀
// 以小寫品名為鍵，查詢不分大小寫
type Catalog struct {
	items map[string]Item
}

// NewCatalog 建立菜單目錄
func NewCatalog(items []Item) *Catalog {
	c := &Catalog{items: make(map[string]Item, len(items))}
	for _, item := range items {
		key := item.Key
		if key == "" {
			key = strings.ToLower(strings.TrimSpace(item.DisplayName))
		}
		if key == "" {
			continue
		}
		item.Key = key
		c.items[key] = item
	}
	return c
}

// Lookup 依品名查詢品項（不分大小寫）
func (c *Catalog) Lookup(name string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	item, ok := c.items[strings.ToLower(strings.TrimSpace(name))]
	return item, ok
}

// Empty 菜單是否為空
func (c *Catalog) Empty() bool {
	return c == nil || len(c.items) == 0
}

// Len 品項數量
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items 回傳所有品項，依品名排序（供提示詞與菜單列表使用）
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	items := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].DisplayName < items[j].DisplayName
	})
	return items
}
