package order

import (
	"regexp"
	"strconv"
	"strings"
)

// 確認提案的框架字串
// 這些是對語言模型提示詞的約定，不是演算法的一部分，
// 調整時必須和 prompt 模板同步修改
const (
	ConfirmLeadIn   = "Understood. You ordered:"
	ConfirmQuestion = "Correct?"
)

// Candidate 從確認提案解析出的候選行
// RawName 為空代表該行不符合行文法，驗證時整批視為失敗
type Candidate struct {
	Quantity int
	RawName  string
	Raw      string
}

// Proposal 解析出的確認提案
type Proposal struct {
	Candidates []Candidate
}

// 行文法：可選的「整數 x 」數量前綴（x 不分大小寫），其後為品名
var lineRe = regexp.MustCompile(`^(?i)(?:(\d+)\s*x\s+)?(\S.*)$`)

// 常見的項目符號前綴
var bulletRe = regexp.MustCompile(`^[-*•]\s*`)

// ParseConfirmation 判斷文字是否為訂單確認提案並解析品項清單
// 框架缺失時回傳 ok=false，不是錯誤
func ParseConfirmation(text string) (Proposal, bool) {
	var p Proposal

	trimmed := strings.TrimSpace(text)
	if !strings.HasSuffix(trimmed, ConfirmQuestion) {
		return p, false
	}

	start := strings.Index(trimmed, ConfirmLeadIn)
	if start < 0 {
		return p, false
	}

	block := trimmed[start+len(ConfirmLeadIn) : len(trimmed)-len(ConfirmQuestion)]

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		p.Candidates = append(p.Candidates, parseLine(line))
	}

	return p, true
}

// parseLine 解析單一候選行，數量省略時預設為 1
func parseLine(line string) Candidate {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Candidate{Raw: line}
	}

	quantity := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Candidate{Raw: line}
		}
		quantity = n
	}

	name := strings.TrimSpace(m[2])
	if name == "" {
		return Candidate{Raw: line}
	}

	return Candidate{Quantity: quantity, RawName: name, Raw: line}
}
