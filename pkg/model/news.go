// pkg/model/news.go
package model

// NewsInsight 新闻快讯的启发式分析结论
// 纯文本信号提取，不依赖行情数据，缺什么渲染时就少一行
type NewsInsight struct {
	Sentiment      string `json:"sentiment"`       // Bullish / Slightly Bullish / Neutral / Slightly Bearish / Bearish
	SentimentEmoji string `json:"sentiment_emoji"` // 🟢 / ⚪ / 🔴
	PriceMove      string `json:"price_move,omitempty"`
	KeyAction      string `json:"key_action,omitempty"`
	ActionPriority string `json:"action_priority"` // HIGH / MEDIUM / LOW
	Actionability  string `json:"actionability"`
	Summary        string `json:"summary"`
}
