// pkg/model/analysis.go
package model

// Sentiment 业绩情绪分类（5级）
type Sentiment string

const (
	SentimentStrongBeat Sentiment = "STRONG_BEAT"
	SentimentBeat       Sentiment = "BEAT"
	SentimentInline     Sentiment = "INLINE"
	SentimentMiss       Sentiment = "MISS"
	SentimentMajorMiss  Sentiment = "MAJOR_MISS"
)

// Emoji 情绪对应的图标
func (s Sentiment) Emoji() string {
	switch s {
	case SentimentStrongBeat:
		return "🚀"
	case SentimentBeat:
		return "✅"
	case SentimentMiss:
		return "⚠️"
	case SentimentMajorMiss:
		return "🔴"
	default:
		return "➡️"
	}
}

// AnalysisResult 基于ExtractedMetrics（及可选预期）推导出的分析结论
type AnalysisResult struct {
	Symbol     string `json:"symbol"`
	Quarter    int    `json:"quarter"`
	FiscalYear int    `json:"fiscal_year"`

	// 超预期/不及预期百分比，无预期时为nil
	RevenueBeatPct *float64 `json:"revenue_beat_pct,omitempty"`
	ProfitBeatPct  *float64 `json:"profit_beat_pct,omitempty"`
	EPSBeatPct     *float64 `json:"eps_beat_pct,omitempty"`

	// 同比/环比增长率，缺少对照值时为nil
	YoYRevenueGrowth *float64 `json:"yoy_revenue_growth,omitempty"`
	YoYProfitGrowth  *float64 `json:"yoy_profit_growth,omitempty"`
	QoQRevenueGrowth *float64 `json:"qoq_revenue_growth,omitempty"`
	QoQProfitGrowth  *float64 `json:"qoq_profit_growth,omitempty"`

	Sentiment      Sentiment `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`

	ActionText  string `json:"action_text"`
	ActionEmoji string `json:"action_emoji"`
}
