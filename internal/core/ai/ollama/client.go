package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"order-chatbot/internal/infrastructure/config"
	"order-chatbot/internal/pkg/common"
)

// Client Ollama API 客戶端
type Client struct {
	config *config.OllamaConfig
	client *resty.Client
}

// generateRequest /api/generate 請求
type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// generateResponse /api/generate 回應
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// 生成時的停止 token，避免模型自問自答
var stopTokens = []string{"Customer:", "\nCustomer:"}

// NewClient 建立 Ollama 客戶端
func NewClient(cfg *config.OllamaConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Generate 生成回應，逾時與連線失敗都以錯誤回報，由呼叫端降級
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	text, err := c.complete(ctx, prompt, map[string]interface{}{
		"temperature": c.config.Temperature,
		"stop":        stopTokens,
	})
	common.LogOracleCall(prompt, time.Since(start), err)
	if err != nil {
		return "", err
	}

	// 去掉殘留在結尾的停止 token
	for _, stop := range stopTokens {
		text = strings.TrimSuffix(text, stop)
	}

	return strings.TrimSpace(text), nil
}

// ClassifyYesNo 分類使用者是否肯定了前一個確認問題
// 任何失敗或不明確的回答都回傳 false：寧可多問一次，
// 也不能因模糊訊號替客戶結單
func (c *Client) ClassifyYesNo(ctx context.Context, question, reply string) (bool, error) {
	timeout := c.config.ClassifyTimeout
	if timeout <= 0 {
		timeout = c.config.Timeout / 2
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := buildYesNoPrompt(question, reply)

	// 低溫度讓分類輸出穩定
	text, err := c.complete(ctx, prompt, map[string]interface{}{
		"temperature": 0.1,
	})
	if err != nil {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(answer, "yes"):
		return true, nil
	case strings.HasPrefix(answer, "no"):
		return false, nil
	}

	common.LogWarn("意圖分類回答不明確，視為否",
		zap.String("answer", common.TruncateForLog(answer, 80)),
	)
	return false, nil
}

// complete 呼叫 /api/generate 並取出完整回應文字
func (c *Client) complete(ctx context.Context, prompt string, options map[string]interface{}) (string, error) {
	req := generateRequest{
		Model:   c.config.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: options,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("failed to send request to Ollama: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Ollama API returned status %d: %s",
			resp.StatusCode(), common.TruncateForLog(resp.String(), 200))
	}

	var result generateResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Ollama response: %w", err)
	}

	if result.Response == "" {
		return "", fmt.Errorf("empty response from Ollama")
	}

	return result.Response, nil
}

// buildYesNoPrompt 組出確認意圖分類的提示詞，要求模型只回答 yes 或 no
func buildYesNoPrompt(question, reply string) string {
	return fmt.Sprintf(`Analyze the customer's response in the context of the assistant's question.
The assistant asked the customer: %q
Customer's response: %q

Does the customer's response indicate a positive confirmation (agreement, yes, correct, proceed, finalize)?
Answer ONLY 'yes' or 'no'.

Examples:
Customer's response: "yes" -> yes
Customer's response: "that's right" -> yes
Customer's response: "correct" -> yes
Customer's response: "go ahead" -> yes
Customer's response: "no, I want to change something" -> no
Customer's response: "wait, add one more thing" -> no
Customer's response: "how much is it?" -> no

Based on the customer's response %q, is the intent a positive confirmation? Answer 'yes' or 'no':`,
		question, reply, reply)
}
