package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultText = `The Board of Directors approved the Unaudited Financial Results
for the quarter ended December 31, 2023 (Q3 FY24).
Total Income of Rs 1,234.56 crore for the quarter.
Net Profit of Rs 567.89 crore.
EPS of Rs 12.34 for the quarter.
As against the previous year revenue of Rs 1,000.00 crore and net profit of Rs 500.00 crore.`

func TestParseFullResult(t *testing.T) {
	p := NewParser()

	m := p.Parse(resultText, "text_layer")

	require.NotNil(t, m.Revenue)
	assert.Equal(t, "1234.56", m.Revenue.StringFixed(2))
	require.NotNil(t, m.TotalIncome)
	assert.Equal(t, "1234.56", m.TotalIncome.StringFixed(2))
	require.NotNil(t, m.ProfitAfterTax)
	assert.Equal(t, "567.89", m.ProfitAfterTax.StringFixed(2))
	require.NotNil(t, m.EPS)
	assert.Equal(t, "12.34", m.EPS.StringFixed(2))

	assert.Equal(t, 3, m.Quarter)
	assert.False(t, m.QuarterAssumed)
	assert.Equal(t, 2024, m.FiscalYear)
	assert.False(t, m.FiscalYearAssumed)

	require.NotNil(t, m.RevenuePrevYear)
	assert.Equal(t, "1000.00", m.RevenuePrevYear.StringFixed(2))
	require.NotNil(t, m.ProfitPrevYear)
	assert.Equal(t, "500.00", m.ProfitPrevYear.StringFixed(2))

	// 营收0.4 + 净利0.4 + EPS0.2
	assert.InDelta(t, 1.0, m.ConfidenceScore, 1e-9)
	assert.Equal(t, "text_layer", m.ExtractionMethod)
}

func TestParseConfidenceFormula(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "revenue only",
			text: "Revenue from operations of Rs 100 crore",
			want: 0.4,
		},
		{
			name: "profit only",
			text: "Net profit of Rs 50 crore",
			want: 0.4,
		},
		{
			name: "eps only",
			text: "EPS of 5.10 for the quarter",
			want: 0.2,
		},
		{
			name: "revenue and profit",
			text: "Revenue of Rs 100 crore and net profit of Rs 50 crore",
			want: 0.8,
		},
		{
			name: "nothing",
			text: "The board meeting concluded at 5 pm",
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := p.Parse(tt.text, "text_layer")
			assert.InDelta(t, tt.want, m.ConfidenceScore, 1e-9)
		})
	}
}

func TestParseLakhConversion(t *testing.T) {
	p := NewParser()

	m := p.Parse("Net profit of Rs 5,000.00 lakh for the quarter", "text_layer")

	require.NotNil(t, m.ProfitAfterTax)
	assert.Equal(t, "50.00", m.ProfitAfterTax.StringFixed(2))
}

func TestParseIndianNumberFormat(t *testing.T) {
	p := NewParser()

	m := p.Parse("Revenue of Rs 1,23,456.78 crore", "text_layer")

	require.NotNil(t, m.Revenue)
	assert.Equal(t, "123456.78", m.Revenue.StringFixed(2))
}

func TestParsePeriodDefaults(t *testing.T) {
	p := NewParser()
	// 1月属于印度财年的上一年度
	p.Now = func() time.Time {
		return time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	}

	m := p.Parse("Net profit of Rs 50 crore", "text_layer")

	assert.Equal(t, 3, m.Quarter)
	assert.True(t, m.QuarterAssumed)
	assert.Equal(t, 2023, m.FiscalYear)
	assert.True(t, m.FiscalYearAssumed)

	// 4月起进入新财年
	p.Now = func() time.Time {
		return time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	}
	m = p.Parse("Net profit of Rs 50 crore", "text_layer")
	assert.Equal(t, 2024, m.FiscalYear)
}

func TestParseQuarterVariants(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "q prefix", text: "Results for Q2 FY24", want: 2},
		{name: "quarter word", text: "Results for quarter 4 of the year", want: 4},
		{name: "ordinal", text: "Results for the 1st quarter", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := p.Parse(tt.text, "text_layer")
			assert.Equal(t, tt.want, m.Quarter)
			assert.False(t, m.QuarterAssumed)
		})
	}
}

func TestParseYoYWindowIsBounded(t *testing.T) {
	p := NewParser()

	// 锚点之后500字符以外的数字不能被当成上期值
	padding := make([]byte, 600)
	for i := range padding {
		padding[i] = 'x'
	}
	text := "Net profit of Rs 100 crore as against the previous year " + string(padding) +
		" net profit of Rs 80 crore"

	m := p.Parse(text, "text_layer")
	assert.Nil(t, m.ProfitPrevYear)
}

func TestParseNeverPanicsOnGarbage(t *testing.T) {
	p := NewParser()

	for _, text := range []string{"", "   ", "crore crore crore", "Q9 FY999 nonsense -,-"} {
		m := p.Parse(text, "row_scan")
		assert.GreaterOrEqual(t, m.ConfidenceScore, 0.0)
	}
}
