package kitchen

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-chatbot/internal/core/order"
	"order-chatbot/internal/infrastructure/store"
	"order-chatbot/internal/pkg/common"
)

// Handler 廚房顯示系統處理器
type Handler struct {
	store *store.OrderStore
}

// NewHandler 建立廚房處理器
func NewHandler(orderStore *store.OrderStore) *Handler {
	return &Handler{store: orderStore}
}

// OrderPayload 訂單的 API 形式
type OrderPayload struct {
	ID         string       `json:"id"`
	ClientName string       `json:"client_name"`
	Items      []order.Item `json:"items"`
	Total      string       `json:"total"`
	Details    string       `json:"details"`
	Status     order.Status `json:"status"`
	CreatedAt  string       `json:"created_at"`
}

// StatusRequest 狀態更新請求
type StatusRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

// HandleList 列出訂單，可用 ?status= 過濾
func (h *Handler) HandleList(c *gin.Context) {
	status := order.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + string(status)})
		return
	}

	orders, err := h.store.List(c.Request.Context(), status)
	if err != nil {
		common.LogError("訂單列表讀取失敗", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}

	payload := make([]OrderPayload, 0, len(orders))
	for _, o := range orders {
		payload = append(payload, toPayload(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": payload})
}

// HandleGet 取得單筆訂單
func (h *Handler) HandleGet(c *gin.Context) {
	o, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, common.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		common.LogError("訂單讀取失敗", zap.String("order_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get order"})
		return
	}
	c.JSON(http.StatusOK, toPayload(o))
}

// HandleUpdateStatus 推進訂單狀態
// 流程：Pending → InPreparation → Ready → Delivered，非終態可取消
func (h *Handler) HandleUpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid status is required"})
		return
	}

	id := c.Param("id")
	err := h.store.UpdateStatus(c.Request.Context(), id, req.Status)
	switch {
	case errors.Is(err, common.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, common.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "order was updated concurrently, retry"})
	case err != nil:
		common.LogError("訂單狀態更新失敗", zap.String("order_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
	default:
		common.LogInfo("訂單狀態已更新",
			zap.String("order_id", id),
			zap.String("status", string(req.Status)),
		)
		c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
	}
}

func toPayload(o order.FinalOrder) OrderPayload {
	return OrderPayload{
		ID:         o.ID,
		ClientName: o.ClientName,
		Items:      o.Items,
		Total:      o.Total.StringFixed(2),
		Details:    o.Details,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
