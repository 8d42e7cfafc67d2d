package chat

import (
	"strings"
	"time"

	"order-chatbot/internal/core/order"
)

// 對話角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryLimit 對話歷史保留的訊息數上限（5 組問答）
const HistoryLimit = 10

// Message 單則對話訊息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session 單一客戶的對話狀態
// 同一個 session 不可被兩個回合並行修改，序列化由宿主層負責，
// 核心假設呼叫期間自己是唯一的寫入者
type Session struct {
	ID                   string           `json:"id"`
	Cart                 []order.CartLine `json:"cart"`
	History              []Message        `json:"history"`
	LastBotMessage       string           `json:"last_bot_message"`
	AwaitingConfirmation bool             `json:"awaiting_confirmation"`
	AwaitingClientName   bool             `json:"awaiting_client_name"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// NewSession 建立新的對話狀態
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		UpdatedAt: time.Now().UTC(),
	}
}

// AppendTurn 記錄一組問答並裁切到最近 HistoryLimit 則
func (s *Session) AppendTurn(userMsg, botMsg string) {
	s.History = append(s.History,
		Message{Role: RoleUser, Content: userMsg},
		Message{Role: RoleAssistant, Content: botMsg},
	)
	if len(s.History) > HistoryLimit {
		s.History = s.History[len(s.History)-HistoryLimit:]
	}
	s.LastBotMessage = botMsg
	s.UpdatedAt = time.Now().UTC()
}

// Reset 清空購物車、歷史與所有狀態旗標（結單或明確重設時）
func (s *Session) Reset() {
	s.Cart = nil
	s.History = nil
	s.LastBotMessage = ""
	s.AwaitingConfirmation = false
	s.AwaitingClientName = false
	s.UpdatedAt = time.Now().UTC()
}

// isLexicalYes / isLexicalNo 判斷是否為字面上的 yes/no 回覆
// 僅做去空白後的不分大小寫比對，模糊語句交給意圖分類器
func isLexicalYes(msg string) bool {
	return strings.EqualFold(strings.TrimSpace(msg), "yes")
}

func isLexicalNo(msg string) bool {
	return strings.EqualFold(strings.TrimSpace(msg), "no")
}
