package chat

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"order-chatbot/internal/core/menu"
	"order-chatbot/internal/core/order"
	"order-chatbot/internal/pkg/common"
)

// Oracle 語言模型神諭介面
// Generate 的提示詞由呼叫端組好（含菜單與有界歷史）
// ClassifyYesNo 失敗時實作必須退回 false，不得因模糊訊號結單
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ClassifyYesNo(ctx context.Context, question, reply string) (bool, error)
}

// MenuSource 菜單來源
type MenuSource interface {
	LoadAll(ctx context.Context) ([]menu.Item, error)
}

// OrderSink 結單後的訂單去處（廚房顯示系統）
type OrderSink interface {
	Persist(ctx context.Context, o order.FinalOrder) (string, error)
}

// 固定回覆文字
const (
	apologyText      = "Sorry, something went wrong on our side. Please try again."
	emptyCartApology = "You haven't added anything to your order yet. What would you like?"
	askNameText      = "Great! Can I have your name to finalize the order?"
	askChangeText    = "No problem. What would you like to change?"
)

// Turn 單一對話回合的結果
type Turn struct {
	Response       string `json:"response"`
	OrderFinalized bool   `json:"order_finalized"`
	OrderID        string `json:"order_id,omitempty"`
}

// Orchestrator 對話協調器
// 自身不持有跨呼叫狀態，所有可變狀態都在傳入的 Session 上
type Orchestrator struct {
	oracle     Oracle
	classifier ResponseClassifier
	menuSource MenuSource
	orderSink  OrderSink
}

// NewOrchestrator 建立對話協調器
func NewOrchestrator(oracle Oracle, classifier ResponseClassifier, menuSource MenuSource, orderSink OrderSink) *Orchestrator {
	if classifier == nil {
		classifier = PhraseClassifier{}
	}
	return &Orchestrator{
		oracle:     oracle,
		classifier: classifier,
		menuSource: menuSource,
		orderSink:  orderSink,
	}
}

// HandleMessage 處理一則使用者訊息，驅動狀態機並回傳本回合結果
// 任何失敗都在此邊界轉成固定致歉回覆，不會往傳輸層拋出；
// 失敗時 Session 保持原狀，使用者可直接重試
func (o *Orchestrator) HandleMessage(ctx context.Context, s *Session, msg string) Turn {
	msg = strings.TrimSpace(msg)
	catalog := o.loadCatalog(ctx)

	// 等待姓名：輸入整句視為客戶姓名
	if s.AwaitingClientName {
		return o.finalizeWithName(ctx, s, msg, catalog)
	}

	// 等待確認：字面 yes/no 直接處理，不經過模型
	if s.AwaitingConfirmation {
		switch {
		case isLexicalYes(msg):
			return o.confirmYes(s, msg)
		case isLexicalNo(msg):
			s.AwaitingConfirmation = false
			s.AppendTurn(msg, askChangeText)
			return Turn{Response: askChangeText}
		default:
			// 模糊回覆先問意圖分類器；分類失敗一律視為否（fail-closed），
			// 交回生成路徑處理
			yes, err := o.oracle.ClassifyYesNo(ctx, s.LastBotMessage, msg)
			if err != nil {
				common.LogWarn("意圖分類失敗，視為否",
					zap.String("session_id", s.ID),
					zap.Error(err),
				)
			} else if yes {
				return o.confirmYes(s, msg)
			}
		}
	}

	return o.generateTurn(ctx, s, msg, catalog)
}

// confirmYes 使用者確認提案後的轉移
func (o *Orchestrator) confirmYes(s *Session, msg string) Turn {
	s.AwaitingConfirmation = false
	if len(s.Cart) == 0 {
		s.AppendTurn(msg, emptyCartApology)
		return Turn{Response: emptyCartApology}
	}
	// 購物車保留，尚未持久化任何東西
	s.AwaitingClientName = true
	s.AppendTurn(msg, askNameText)
	return Turn{Response: askNameText}
}

// finalizeWithName 取得姓名後建立最終訂單並重設對話
// 持久化失敗只記錄不阻擋：對使用者的承諾以樂觀方式兌現
func (o *Orchestrator) finalizeWithName(ctx context.Context, s *Session, name string, catalog *menu.Catalog) Turn {
	if len(s.Cart) == 0 {
		s.Reset()
		return Turn{Response: emptyCartApology}
	}

	receipt, total := order.Format(s.Cart, catalog, order.FormatOptions{IncludeTotal: true})

	finalOrder := order.FinalOrder{
		ID:         common.GenerateUUID(),
		ClientName: name,
		Items:      make([]order.Item, 0, len(s.Cart)),
		Total:      total,
		Details:    receipt,
		Status:     order.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	for _, line := range s.Cart {
		finalOrder.Items = append(finalOrder.Items, order.Item{Name: line.Name, Quantity: line.Quantity})
	}

	if _, err := o.orderSink.Persist(ctx, finalOrder); err != nil {
		common.LogError("訂單持久化失敗，仍回覆結單確認",
			zap.String("session_id", s.ID),
			zap.String("order_id", finalOrder.ID),
			zap.Error(err),
		)
	} else {
		common.LogInfo("訂單已送廚房",
			zap.String("order_id", finalOrder.ID),
			zap.String("total", total.StringFixed(2)),
			zap.Int("items", len(finalOrder.Items)),
		)
	}

	response := "Thank you, " + name + "! Your order is confirmed:\n" + receipt + "\nSee you soon!"
	s.Reset()

	return Turn{Response: response, OrderFinalized: true, OrderID: finalOrder.ID}
}

// generateTurn 走模型生成路徑並分類回覆意圖
func (o *Orchestrator) generateTurn(ctx context.Context, s *Session, msg string, catalog *menu.Catalog) Turn {
	prompt := BuildGeneratePrompt(catalog, s.History, msg)

	response, err := o.oracle.Generate(ctx, prompt)
	if err != nil {
		// Session 不動，讓使用者重試
		common.LogError("模型生成失敗",
			zap.String("session_id", s.ID),
			zap.Error(err),
		)
		return Turn{Response: apologyText}
	}
	response = strings.TrimSpace(response)

	// 確認提案：全部品項驗證通過才調和購物車；
	// 任一行失敗整批作廢，回覆照常給使用者但後端不採信
	if proposal, ok := order.ParseConfirmation(response); ok {
		validated, err := order.Validate(proposal.Candidates, catalog)
		if err == nil && len(validated) > 0 {
			s.Cart = order.Reconcile(s.Cart, validated)
			s.AwaitingConfirmation = true
			common.LogInfo("購物車已調和",
				zap.String("session_id", s.ID),
				zap.Int("cart_lines", len(s.Cart)),
			)
		} else {
			s.AwaitingConfirmation = false
			common.LogWarn("確認提案驗證失敗，購物車未更動",
				zap.String("session_id", s.ID),
				zap.Int("candidates", len(proposal.Candidates)),
				zap.Error(err),
			)
		}
		s.AppendTurn(msg, response)
		return Turn{Response: response}
	}

	switch o.classifier.Intent(response) {
	case IntentFinalize:
		// 模型自行宣告結單時一律先收姓名，絕不在沒有姓名的情況下結單
		s.AwaitingConfirmation = false
		if len(s.Cart) == 0 {
			s.AppendTurn(msg, emptyCartApology)
			return Turn{Response: emptyCartApology}
		}
		s.AwaitingClientName = true
		s.AppendTurn(msg, askNameText)
		return Turn{Response: askNameText}

	case IntentClearCart:
		s.Cart = nil
		s.AwaitingConfirmation = false
		s.AppendTurn(msg, response)
		return Turn{Response: response}
	}

	s.AwaitingConfirmation = false
	s.AppendTurn(msg, response)
	return Turn{Response: response}
}

// loadCatalog 載入菜單快照，失敗時回傳空目錄（驗證器自然全數拒絕）
func (o *Orchestrator) loadCatalog(ctx context.Context) *menu.Catalog {
	items, err := o.menuSource.LoadAll(ctx)
	if err != nil {
		common.LogWarn("菜單載入失敗，本回合視為菜單不可用", zap.Error(err))
		return menu.NewCatalog(nil)
	}
	return menu.NewCatalog(items)
}
