// pkg/model/metrics.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtractedMetrics 从公告文本中解析出的财务指标（金额单位：卢比crore）
// 每条公告只创建一次，创建后不可变
type ExtractedMetrics struct {
	Symbol     string `json:"symbol"`
	Quarter    int    `json:"quarter"`     // 1-4
	FiscalYear int    `json:"fiscal_year"` // 4位年份

	// 文本中未找到季度/财年标记时使用默认值，并在此标记
	QuarterAssumed    bool `json:"quarter_assumed"`
	FiscalYearAssumed bool `json:"fiscal_year_assumed"`

	// 核心指标
	Revenue        *decimal.Decimal `json:"revenue,omitempty"`
	ProfitAfterTax *decimal.Decimal `json:"profit_after_tax,omitempty"`
	EPS            *decimal.Decimal `json:"eps,omitempty"`

	// 同比/环比对照值
	RevenuePrevQuarter *decimal.Decimal `json:"revenue_prev_quarter,omitempty"`
	ProfitPrevQuarter  *decimal.Decimal `json:"profit_prev_quarter,omitempty"`
	RevenuePrevYear    *decimal.Decimal `json:"revenue_prev_year,omitempty"`
	ProfitPrevYear     *decimal.Decimal `json:"profit_prev_year,omitempty"`

	// 附加指标
	EBITDA          *decimal.Decimal `json:"ebitda,omitempty"`
	OperatingProfit *decimal.Decimal `json:"operating_profit,omitempty"`
	TotalIncome     *decimal.Decimal `json:"total_income,omitempty"`

	// 元数据
	ExtractionMethod string        `json:"extraction_method"`
	ConfidenceScore  float64       `json:"confidence_score"` // 0.0-1.0，只由解析器的固定公式计算
	ExtractionTime   time.Duration `json:"extraction_time"`
}

// AnalystEstimates 分析师一致预期（可选，MVP阶段无预期来源，缺失为常态）
type AnalystEstimates struct {
	Symbol     string `gorm:"type:varchar(20);not null;index:idx_estimate_key" json:"symbol"`
	Quarter    int    `gorm:"not null;index:idx_estimate_key" json:"quarter"`
	FiscalYear int    `gorm:"not null;index:idx_estimate_key" json:"fiscal_year"`

	RevenueEst *decimal.Decimal `gorm:"type:decimal(18,2)" json:"revenue_est,omitempty"`
	ProfitEst  *decimal.Decimal `gorm:"type:decimal(18,2)" json:"profit_est,omitempty"`
	EPSEst     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"eps_est,omitempty"`

	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 自定义表名
func (AnalystEstimates) TableName() string {
	return "analyst_estimates"
}
