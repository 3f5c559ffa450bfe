// pkg/analysis/engine.go
package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ResultRadar/pkg/config"
	"ResultRadar/pkg/model"
)

// Engine 业绩分析引擎，纯计算，无IO
type Engine struct {
	strongBeat  float64
	beat        float64
	inlineLower float64
	miss        float64

	profitWeight  float64
	revenueWeight float64
	epsWeight     float64
}

// NewEngine 创建分析引擎
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		strongBeat:    cfg.Analysis.StrongBeat,
		beat:          cfg.Analysis.Beat,
		inlineLower:   cfg.Analysis.InlineLower,
		miss:          cfg.Analysis.Miss,
		profitWeight:  cfg.Analysis.ProfitWeight,
		revenueWeight: cfg.Analysis.RevenueWeight,
		epsWeight:     cfg.Analysis.EPSWeight,
	}
}

// Analyze 对一条公告的指标做分析
// estimates可为nil，此时beat指标全为nil，情绪退化为同比净利增长
func (e *Engine) Analyze(m *model.ExtractedMetrics, est *model.AnalystEstimates) *model.AnalysisResult {
	r := &model.AnalysisResult{
		Symbol:     m.Symbol,
		Quarter:    m.Quarter,
		FiscalYear: m.FiscalYear,
	}

	if est != nil {
		r.RevenueBeatPct = beatPct(m.Revenue, est.RevenueEst)
		r.ProfitBeatPct = beatPct(m.ProfitAfterTax, est.ProfitEst)
		r.EPSBeatPct = beatPct(m.EPS, est.EPSEst)
	}

	r.YoYRevenueGrowth = growthPct(m.Revenue, m.RevenuePrevYear)
	r.YoYProfitGrowth = growthPct(m.ProfitAfterTax, m.ProfitPrevYear)
	r.QoQRevenueGrowth = growthPct(m.Revenue, m.RevenuePrevQuarter)
	r.QoQProfitGrowth = growthPct(m.ProfitAfterTax, m.ProfitPrevQuarter)

	r.SentimentScore = e.sentimentScore(r)
	r.Sentiment = e.categorize(r.SentimentScore)
	r.ActionEmoji = r.Sentiment.Emoji()
	r.ActionText = e.actionText(r)

	return r
}

// beatPct (实际-预期)/预期*100，预期缺失或为零时为nil
func beatPct(actual, estimate *decimal.Decimal) *float64 {
	if actual == nil || estimate == nil || estimate.IsZero() {
		return nil
	}
	v, _ := actual.Sub(*estimate).Div(*estimate).Mul(decimal.NewFromInt(100)).Float64()
	return &v
}

// growthPct (本期-上期)/|上期|*100
// 上期取绝对值，否则上期亏损时增长符号会反
func growthPct(current, previous *decimal.Decimal) *float64 {
	if current == nil || previous == nil || previous.IsZero() {
		return nil
	}
	v, _ := current.Sub(*previous).Div(previous.Abs()).Mul(decimal.NewFromInt(100)).Float64()
	return &v
}

// sentimentScore 按可用的beat指标加权，权重对缺失项重新归一化
// 无任何beat指标时退化为同比净利增长，再无则为0
func (e *Engine) sentimentScore(r *model.AnalysisResult) float64 {
	score := 0.0
	total := 0.0

	if r.ProfitBeatPct != nil {
		score += *r.ProfitBeatPct * e.profitWeight
		total += e.profitWeight
	}
	if r.RevenueBeatPct != nil {
		score += *r.RevenueBeatPct * e.revenueWeight
		total += e.revenueWeight
	}
	if r.EPSBeatPct != nil {
		score += *r.EPSBeatPct * e.epsWeight
		total += e.epsWeight
	}

	if total > 0 {
		return score / total
	}
	if r.YoYProfitGrowth != nil {
		return *r.YoYProfitGrowth
	}
	return 0
}

// categorize 阈值比较全部用严格大于，落在阈值上的取下一档
func (e *Engine) categorize(score float64) model.Sentiment {
	switch {
	case score > e.strongBeat:
		return model.SentimentStrongBeat
	case score > e.beat:
		return model.SentimentBeat
	case score > e.inlineLower:
		return model.SentimentInline
	case score > e.miss:
		return model.SentimentMiss
	default:
		return model.SentimentMajorMiss
	}
}

// actionText 生成一句话结论，附带显著的同比增长说明
func (e *Engine) actionText(r *model.AnalysisResult) string {
	var base string
	switch r.Sentiment {
	case model.SentimentStrongBeat:
		base = "Results significantly beat expectations"
	case model.SentimentBeat:
		base = "Results beat expectations"
	case model.SentimentInline:
		base = "Results in line with expectations"
	case model.SentimentMiss:
		base = "Results missed expectations"
	default:
		base = "Results significantly missed expectations"
	}

	if r.YoYProfitGrowth != nil {
		if *r.YoYProfitGrowth > 20 {
			base += fmt.Sprintf(", strong profit growth of %.1f%% YoY", *r.YoYProfitGrowth)
		} else if *r.YoYProfitGrowth < -10 {
			base += fmt.Sprintf(", profit declined %.1f%% YoY", -*r.YoYProfitGrowth)
		}
	}
	return base
}
