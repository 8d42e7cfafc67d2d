package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine 購物車行項目
// Quantity 永遠 >= 1，數量歸零的行在調和時移除，不會被儲存
// Priced 標記 UnitPrice 是驗證時留下的快照；免費品項單價為零，
// 不能拿零值判斷有沒有快照
type CartLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Priced    bool            `json:"priced"`
}

// Item 最終訂單的品項
type Item struct {
	Name     string `json:"name" bson:"name"`
	Quantity int    `json:"quantity" bson:"quantity"`
}

// Status 廚房顯示系統的訂單狀態
type Status string

const (
	StatusPending       Status = "Pending"
	StatusInPreparation Status = "InPreparation"
	StatusReady         Status = "Ready"
	StatusDelivered     Status = "Delivered"
	StatusCancelled     Status = "Cancelled"
)

// Valid 是否為已知狀態
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInPreparation, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition 狀態是否允許轉移
// 流程：Pending → InPreparation → Ready → Delivered，任何非終態皆可取消
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusInPreparation || to == StatusCancelled
	case StatusInPreparation:
		return to == StatusReady || to == StatusCancelled
	case StatusReady:
		return to == StatusDelivered || to == StatusCancelled
	}
	return false
}

// FinalOrder 確認完成、交付廚房的訂單
// 建立後核心不再修改，狀態欄位由廚房端更新
type FinalOrder struct {
	ID         string          `json:"id"`
	ClientName string          `json:"client_name"`
	Items      []Item          `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Details    string          `json:"order_details"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}
