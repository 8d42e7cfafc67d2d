package chat

import "strings"

// Intent 模型回覆被辨識出的意圖
type Intent int

const (
	IntentNone Intent = iota
	IntentFinalize
	IntentClearCart
)

// ResponseClassifier 判斷模型回覆帶有的控制意圖
// 抽象出來是因為以字面片語比對模型輸出是已知的脆弱點：
// 模型措辭一變，比對就會失效，呼叫端必須能替換判斷策略
type ResponseClassifier interface {
	Intent(response string) Intent
}

// 提示詞約定模型用這些字面片語宣告意圖
const (
	finalizePhrase  = "your order has been noted and sent to the kitchen"
	clearCartPhrase = "your cart has been cleared"
)

// PhraseClassifier 以字面片語包含比對實作 ResponseClassifier
// 與 BuildGeneratePrompt 中的指示成對；比對不分大小寫
type PhraseClassifier struct{}

// Intent 實作 ResponseClassifier
func (PhraseClassifier) Intent(response string) Intent {
	lowered := strings.ToLower(response)
	switch {
	case strings.Contains(lowered, finalizePhrase):
		return IntentFinalize
	case strings.Contains(lowered, clearCartPhrase):
		return IntentClearCart
	}
	return IntentNone
}
