package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	core "order-chatbot/internal/core/chat"
	"order-chatbot/internal/infrastructure/store"
	"order-chatbot/internal/pkg/common"
)

// ChatRequest 對話請求
type ChatRequest struct {
	SessionID string `json:"session_id"`                // 省略時建立新對話
	Message   string `json:"message" binding:"required"` // 使用者輸入
}

// ChatResponse 對話回應
type ChatResponse struct {
	SessionID      string `json:"session_id"`
	Response       string `json:"response"`
	OrderFinalized bool   `json:"order_finalized"`
	OrderID        string `json:"order_id,omitempty"`
}

// ResetRequest 重設對話請求
type ResetRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Handler 對話處理器
type Handler struct {
	orchestrator *core.Orchestrator
	sessions     store.SessionStore
	locks        *turnLocks
}

// NewHandler 建立對話處理器
func NewHandler(orchestrator *core.Orchestrator, sessions store.SessionStore) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		sessions:     sessions,
		locks:        newTurnLocks(),
	}
}

// HandleChat 處理一則使用者訊息
// 同一 session 同時只允許一個回合進行，後到的請求在鎖上排隊
func (h *Handler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = common.GenerateUUID()
	}

	unlock := h.locks.acquire(sessionID)
	defer unlock()

	session, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		if !errors.Is(err, common.ErrSessionNotFound) {
			common.LogError("讀取 session 失敗，以新對話繼續",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
		session = core.NewSession(sessionID)
	}

	turn := h.orchestrator.HandleMessage(c.Request.Context(), session, req.Message)

	if err := h.sessions.Save(c.Request.Context(), session); err != nil {
		// 狀態存不進去只記錄，這回合的回覆照常送出
		common.LogError("儲存 session 失敗",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, ChatResponse{
		SessionID:      sessionID,
		Response:       turn.Response,
		OrderFinalized: turn.OrderFinalized,
		OrderID:        turn.OrderID,
	})
}

// HandleReset 清空指定對話的購物車與歷史
func (h *Handler) HandleReset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	unlock := h.locks.acquire(req.SessionID)
	defer unlock()

	if err := h.sessions.Delete(c.Request.Context(), req.SessionID); err != nil {
		common.LogError("刪除 session 失敗",
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": req.SessionID, "status": "reset"})
}
