// pkg/news/analyzer.go
package news

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"ResultRadar/pkg/model"
)

// 看多信号词
var bullishWords = []string{
	"rebounds", "rebounded", "surges", "soars", "jumps", "rallies",
	"gains", "rises", "climbs", "secured", "wins", "bags", "signs",
	"approval", "approved", "upgrade", "upbeat", "positive",
	"breakthrough", "record", "highest", "strong", "beats",
	"expansion", "growth", "profitable", "dividend increase",
}

// 看空信号词
var bearishWords = []string{
	"plunges", "tumbles", "drops", "falls", "crashes", "slumps",
	"declines", "losses", "downgrade", "downgrades", "miss", "missed",
	"disappointing", "weak", "worst", "lowest", "concern", "warning",
	"loss", "debt", "lawsuit", "investigation", "scandal",
	"regulatory action", "penalty", "fine",
}

// 强看多词，命中任意一个直接判Bullish
var strongBullishWords = []string{
	"secured", "securing", "wins", "winning", "bags", "bagging",
	"acquisition", "approval", "breakthrough",
}

// 高优先级事件，值得立即关注
var highPriorityActions = []string{
	"acquisition", "merger", "takeover", "buyback", "demerger",
	"ipo", "qip", "rights issue", "bonus issue", "stock split",
	"management change", "ceo", "promoter stake", "insider buying",
	"major contract", "government order", "regulatory approval",
	"breakthrough", "patent", "license",
}

// 中优先级事件
var mediumPriorityActions = []string{
	"earnings", "profit", "revenue", "results", "quarterly",
	"order", "contract", "deal", "partnership", "collaboration",
	"expansion", "plant", "capacity", "investment",
}

var (
	pctRe            = regexp.MustCompile(`(\d+\.?\d*)\s*%`)
	priceLevelRe     = regexp.MustCompile(`to\s*₹?(\d+\.?\d*)`)
	contractValueRe  = regexp.MustCompile(`₹\s*(\d+\.?\d*)\s*(crore|cr|lakh)`)
	upDirectionWords = []string{"rise", "gain", "surge", "rebound", "jump"}
	contractVerbs    = []string{"secured", "securing", "wins", "winning", "bags", "bagging", "signs", "signing", "wins contract"}
	highVolumeWords  = []string{"acquisition", "merger", "ipo", "results beat", "major contract"}
)

// Analyze 从新闻标题和正文提取可操作的信号
// 正文只看前500字符，标题权重天然最高
func Analyze(title, content string) model.NewsInsight {
	text := strings.ToLower(title + " " + head(content, 500))

	priceMove := extractPriceMove(text)
	sentiment, emoji := analyzeSentiment(text)
	action, priority := extractKeyAction(text, title)

	return model.NewsInsight{
		Sentiment:      sentiment,
		SentimentEmoji: emoji,
		PriceMove:      priceMove,
		KeyAction:      action,
		ActionPriority: priority,
		Actionability:  actionability(text, priority, priceMove),
		Summary:        summarize(title, action, priceMove, sentiment),
	}
}

// extractPriceMove 提取涨跌幅或价位，提不到返回空串
func extractPriceMove(text string) string {
	if m := pctRe.FindStringSubmatch(text); m != nil {
		direction := "↘️"
		for _, word := range upDirectionWords {
			if strings.Contains(text, word) {
				direction = "↗️"
				break
			}
		}
		return fmt.Sprintf("%s %s%%", direction, m[1])
	}

	if m := priceLevelRe.FindStringSubmatch(text); m != nil {
		return "→ ₹" + m[1]
	}
	return ""
}

func analyzeSentiment(text string) (string, string) {
	bullish := countMatches(text, bullishWords)
	bearish := countMatches(text, bearishWords)

	for _, word := range strongBullishWords {
		if strings.Contains(text, word) {
			return "Bullish", "🟢"
		}
	}

	switch {
	case bullish > bearish && bullish >= 2:
		return "Bullish", "🟢"
	case bearish > bullish && bearish >= 2:
		return "Bearish", "🔴"
	case bullish > bearish:
		return "Slightly Bullish", "🟢"
	case bearish > bullish:
		return "Slightly Bearish", "🔴"
	default:
		return "Neutral", "⚪"
	}
}

// extractKeyAction 提取新闻里的核心事件及优先级
func extractKeyAction(text, title string) (string, string) {
	for _, verb := range contractVerbs {
		if !strings.Contains(text, verb) {
			continue
		}
		if m := contractValueRe.FindStringSubmatch(text); m != nil {
			return fmt.Sprintf("Secured ₹%s %s contract", m[1], m[2]), "HIGH"
		}
		break
	}

	for _, action := range highPriorityActions {
		if strings.Contains(text, action) {
			return titleCase(action), "HIGH"
		}
	}
	for _, action := range mediumPriorityActions {
		if strings.Contains(text, action) {
			return titleCase(action), "MEDIUM"
		}
	}

	// 兜底: 取标题前几个词
	words := strings.Fields(title)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ") + "...", "LOW"
}

// actionability 事件优先级 + 涨跌幅度 + 放量关键词的简单打分
func actionability(text, priority, priceMove string) string {
	score := 1
	switch priority {
	case "HIGH":
		score = 3
	case "MEDIUM":
		score = 2
	}

	if strings.Contains(priceMove, "%") {
		if m := pctRe.FindStringSubmatch(priceMove); m != nil {
			pct, err := strconv.ParseFloat(m[1], 64)
			switch {
			case err == nil && pct >= 5:
				score += 2
			case err == nil && pct >= 3:
				score++
			}
		}
	}

	for _, word := range highVolumeWords {
		if strings.Contains(text, word) {
			score++
			break
		}
	}

	switch {
	case score >= 5:
		return "🔥 High - Worth immediate review"
	case score >= 3:
		return "⚠️ Medium - Quick look recommended"
	default:
		return "ℹ️ Low - FYI only"
	}
}

// summarize 拼一行摘要
func summarize(title, action, priceMove, sentiment string) string {
	var parts []string
	if action != "" {
		parts = append(parts, action)
	}
	if priceMove != "" {
		parts = append(parts, "Stock moved "+priceMove)
	}
	if sentiment != "" && sentiment != "Neutral" {
		parts = append(parts, "("+sentiment+" signal)")
	}

	if len(parts) > 0 {
		return strings.Join(parts, " • ")
	}
	if len(title) > 80 {
		return head(title, 80) + "..."
	}
	return title
}

func countMatches(text string, words []string) int {
	n := 0
	for _, word := range words {
		if strings.Contains(text, word) {
			n++
		}
	}
	return n
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// head 按不超过n字节截断，不切断多字节字符
func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
