package menu

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	coremenu "order-chatbot/internal/core/menu"
	"order-chatbot/internal/infrastructure/store"
	"order-chatbot/internal/pkg/common"
)

// ItemPayload 菜單品項的 API 形式
type ItemPayload struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

// Handler 菜單管理處理器
type Handler struct {
	store *store.MenuStore
}

// NewHandler 建立菜單處理器
func NewHandler(menuStore *store.MenuStore) *Handler {
	return &Handler{store: menuStore}
}

// HandleList 列出全部菜單品項
func (h *Handler) HandleList(c *gin.Context) {
	items, err := h.store.LoadAll(c.Request.Context())
	if err != nil {
		common.LogError("菜單讀取失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load menu"})
		return
	}

	payload := make([]ItemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, ItemPayload{Name: item.DisplayName, Price: item.UnitPrice})
	}
	c.JSON(http.StatusOK, gin.H{"items": payload})
}

// HandleReplace 以請求內容整份取代菜單
func (h *Handler) HandleReplace(c *gin.Context) {
	var payload []ItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected a list of menu items"})
		return
	}

	items := make([]coremenu.Item, 0, len(payload))
	for _, p := range payload {
		item, ok := toItem(p)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item: " + p.Name})
			return
		}
		items = append(items, item)
	}

	if err := h.store.ReplaceAll(c.Request.Context(), items); err != nil {
		common.LogError("菜單整份更新失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update menu"})
		return
	}

	common.LogInfo("菜單已更新", zap.Int("items", len(items)))
	c.JSON(http.StatusOK, gin.H{"message": "menu updated", "items": len(items)})
}

// HandleUpsert 新增或更新單一品項
func (h *Handler) HandleUpsert(c *gin.Context) {
	var p ItemPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	item, ok := toItem(p)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item"})
		return
	}

	if err := h.store.Upsert(c.Request.Context(), item); err != nil {
		common.LogError("菜單品項更新失敗", zap.String("name", p.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upsert menu item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "menu item saved", "name": item.DisplayName})
}

// HandleDelete 刪除品項
func (h *Handler) HandleDelete(c *gin.Context) {
	name := c.Param("name")
	deleted, err := h.store.Delete(c.Request.Context(), name)
	if err != nil {
		common.LogError("菜單品項刪除失敗", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete menu item"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "menu item deleted", "name": name})
}

// toItem 轉成核心品項；名稱不得為空、價格不得為負
func toItem(p ItemPayload) (coremenu.Item, bool) {
	name := strings.TrimSpace(p.Name)
	if name == "" || p.Price.IsNegative() {
		return coremenu.Item{}, false
	}
	return coremenu.Item{DisplayName: name, UnitPrice: p.Price}, true
}
