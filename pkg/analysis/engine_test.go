package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ResultRadar/pkg/config"
	"ResultRadar/pkg/model"
)

func testEngine() *Engine {
	cfg := &config.Config{}
	cfg.Analysis.StrongBeat = 10.0
	cfg.Analysis.Beat = 5.0
	cfg.Analysis.InlineLower = -5.0
	cfg.Analysis.Miss = -10.0
	cfg.Analysis.ProfitWeight = 0.5
	cfg.Analysis.RevenueWeight = 0.3
	cfg.Analysis.EPSWeight = 0.2
	return NewEngine(cfg)
}

func dec(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestAnalyzeWeightedScore(t *testing.T) {
	e := testEngine()

	m := &model.ExtractedMetrics{
		Symbol:         "TCS",
		Quarter:        3,
		FiscalYear:     2024,
		Revenue:        dec("110"),
		ProfitAfterTax: dec("115"),
		EPS:            dec("105"),
	}
	est := &model.AnalystEstimates{
		RevenueEst: dec("100"),
		ProfitEst:  dec("100"),
		EPSEst:     dec("100"),
	}

	r := e.Analyze(m, est)

	require.NotNil(t, r.ProfitBeatPct)
	assert.InDelta(t, 15.0, *r.ProfitBeatPct, 1e-9)
	require.NotNil(t, r.RevenueBeatPct)
	assert.InDelta(t, 10.0, *r.RevenueBeatPct, 1e-9)
	require.NotNil(t, r.EPSBeatPct)
	assert.InDelta(t, 5.0, *r.EPSBeatPct, 1e-9)

	// 15*0.5 + 10*0.3 + 5*0.2 = 11.5
	assert.InDelta(t, 11.5, r.SentimentScore, 1e-9)
	assert.Equal(t, model.SentimentStrongBeat, r.Sentiment)
	assert.Equal(t, "🚀", r.ActionEmoji)
}

func TestAnalyzeThresholdBoundaries(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name   string
		profit string
		want   model.Sentiment
	}{
		{name: "above strong beat", profit: "111", want: model.SentimentStrongBeat},
		{name: "exactly strong beat falls to beat", profit: "110", want: model.SentimentBeat},
		{name: "exactly beat falls to inline", profit: "105", want: model.SentimentInline},
		{name: "exactly inline lower falls to miss", profit: "95", want: model.SentimentMiss},
		{name: "exactly miss falls to major miss", profit: "90", want: model.SentimentMajorMiss},
		{name: "minus twelve is major miss", profit: "88", want: model.SentimentMajorMiss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &model.ExtractedMetrics{ProfitAfterTax: dec(tt.profit)}
			est := &model.AnalystEstimates{ProfitEst: dec("100")}

			r := e.Analyze(m, est)
			assert.Equal(t, tt.want, r.Sentiment)
		})
	}
}

func TestAnalyzeWeightRenormalization(t *testing.T) {
	e := testEngine()

	// 只有净利有预期时，权重归一化后得分就是净利beat本身
	m := &model.ExtractedMetrics{ProfitAfterTax: dec("107")}
	est := &model.AnalystEstimates{ProfitEst: dec("100")}

	r := e.Analyze(m, est)
	assert.InDelta(t, 7.0, r.SentimentScore, 1e-9)
	assert.Equal(t, model.SentimentBeat, r.Sentiment)
}

func TestAnalyzeGrowthFallback(t *testing.T) {
	e := testEngine()

	// 无预期时退化为同比净利增长
	m := &model.ExtractedMetrics{
		ProfitAfterTax: dec("130"),
		ProfitPrevYear: dec("100"),
	}

	r := e.Analyze(m, nil)

	require.NotNil(t, r.YoYProfitGrowth)
	assert.InDelta(t, 30.0, *r.YoYProfitGrowth, 1e-9)
	assert.InDelta(t, 30.0, r.SentimentScore, 1e-9)
	assert.Equal(t, model.SentimentStrongBeat, r.Sentiment)
	assert.Contains(t, r.ActionText, "strong profit growth")
}

func TestAnalyzeZeroPriorGivesNilGrowth(t *testing.T) {
	e := testEngine()

	m := &model.ExtractedMetrics{
		Revenue:         dec("50"),
		RevenuePrevYear: dec("0"),
		ProfitAfterTax:  dec("10"),
	}

	r := e.Analyze(m, nil)
	assert.Nil(t, r.YoYRevenueGrowth)
	assert.Nil(t, r.YoYProfitGrowth)
}

func TestAnalyzeNegativePriorUsesAbsolute(t *testing.T) {
	e := testEngine()

	// 上期亏损转盈利必须是正增长
	m := &model.ExtractedMetrics{
		ProfitAfterTax: dec("50"),
		ProfitPrevYear: dec("-100"),
	}

	r := e.Analyze(m, nil)
	require.NotNil(t, r.YoYProfitGrowth)
	assert.InDelta(t, 150.0, *r.YoYProfitGrowth, 1e-9)
}

func TestAnalyzeNoDataIsInline(t *testing.T) {
	e := testEngine()

	r := e.Analyze(&model.ExtractedMetrics{}, nil)

	assert.InDelta(t, 0.0, r.SentimentScore, 1e-9)
	assert.Equal(t, model.SentimentInline, r.Sentiment)
	assert.Equal(t, "Results in line with expectations", r.ActionText)
	assert.Equal(t, "➡️", r.ActionEmoji)
}

func TestAnalyzeZeroEstimateIgnored(t *testing.T) {
	e := testEngine()

	m := &model.ExtractedMetrics{ProfitAfterTax: dec("100")}
	est := &model.AnalystEstimates{ProfitEst: dec("0")}

	r := e.Analyze(m, est)
	assert.Nil(t, r.ProfitBeatPct)
	assert.Equal(t, model.SentimentInline, r.Sentiment)
}
