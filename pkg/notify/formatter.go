// pkg/notify/formatter.go
package notify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"ResultRadar/pkg/model"
)

// Formatter 把分析结果渲染为Telegram消息文本
// 渲染永不失败，取不到的字段显示N/A而不是丢弃整条消息
type Formatter struct{}

// NewFormatter 创建格式化器
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format 按分类选择模板
func (f *Formatter) Format(msg *model.AlertMessage) string {
	if msg.ExtractionFailed {
		return f.formatDegraded(msg)
	}

	switch msg.Category {
	case model.CategoryEarningsCall:
		return f.formatEarningsCall(msg)
	case model.CategoryCorporateAction:
		return f.formatCorporateAction(msg)
	case model.CategoryNewsArticle:
		return f.formatNews(msg)
	default:
		return f.formatQuarterlyResult(msg)
	}
}

// formatQuarterlyResult 财报结果主模板
func (f *Formatter) formatQuarterlyResult(msg *model.AlertMessage) string {
	m := &msg.Metrics
	a := &msg.Analysis

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s *%s Q%d FY%d Results*\n\n", a.ActionEmoji, displayName(msg), m.Quarter, m.FiscalYear)
	fmt.Fprintf(&sb, "*%s*\n\n", a.ActionText)

	fmt.Fprintf(&sb, "📊 *Key Metrics:*\n")
	fmt.Fprintf(&sb, "• Revenue: %s\n", amountOrNA(m.Revenue, " Cr"))
	fmt.Fprintf(&sb, "• Net Profit: %s\n", amountOrNA(m.ProfitAfterTax, " Cr"))
	fmt.Fprintf(&sb, "• EPS: %s\n", amountOrNA(m.EPS, ""))
	if m.EBITDA != nil {
		fmt.Fprintf(&sb, "• EBITDA: %s\n", amountOrNA(m.EBITDA, " Cr"))
	}

	growth := growthLines(a)
	if growth != "" {
		fmt.Fprintf(&sb, "\n📈 *Growth:*\n%s", growth)
	}

	beats := beatLines(a)
	if beats != "" {
		fmt.Fprintf(&sb, "\n🎯 *vs Estimates:*\n%s", beats)
	}

	fmt.Fprintf(&sb, "\n🔍 Confidence: %.0f%%", m.ConfidenceScore*100)
	if m.QuarterAssumed || m.FiscalYearAssumed {
		sb.WriteString(" (period inferred)")
	}
	fmt.Fprintf(&sb, "\n⏱ Detected in %.1fs\n", msg.Detection.Seconds())

	if msg.DocumentURL != "" {
		fmt.Fprintf(&sb, "\n[View Filing](%s)", msg.DocumentURL)
	}
	return sb.String()
}

// formatEarningsCall 业绩会通知模板
func (f *Formatter) formatEarningsCall(msg *model.AlertMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📞 *%s Earnings Call*\n\n", displayName(msg))
	if msg.Description != "" {
		fmt.Fprintf(&sb, "%s\n", truncate(msg.Description, 300))
	}
	if msg.DocumentURL != "" {
		fmt.Fprintf(&sb, "\n[Details](%s)", msg.DocumentURL)
	}
	return sb.String()
}

// formatCorporateAction 分红/拆股/回购模板
func (f *Formatter) formatCorporateAction(msg *model.AlertMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏛 *%s Corporate Action*\n\n", displayName(msg))
	if msg.Description != "" {
		fmt.Fprintf(&sb, "%s\n", truncate(msg.Description, 300))
	}
	if msg.DocumentURL != "" {
		fmt.Fprintf(&sb, "\n[View Filing](%s)", msg.DocumentURL)
	}
	return sb.String()
}

// formatNews 新闻快讯模板，带信号摘要和媒体出处
func (f *Formatter) formatNews(msg *model.AlertMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📰 *%s News*\n\n", displayName(msg))
	if msg.Description != "" {
		fmt.Fprintf(&sb, "%s\n", truncate(msg.Description, 400))
	}
	if n := msg.News; n != nil {
		fmt.Fprintf(&sb, "\n%s %s\n", n.SentimentEmoji, n.Summary)
		fmt.Fprintf(&sb, "%s\n", n.Actionability)
	}
	if msg.Source != "" {
		fmt.Fprintf(&sb, "\nvia %s\n", sourceLabel(msg.Source))
	}
	if msg.DocumentURL != "" {
		fmt.Fprintf(&sb, "\n[Read More](%s)", msg.DocumentURL)
	}
	return sb.String()
}

// formatDegraded 提取失败降级模板，有公告总比没有强
func (f *Formatter) formatDegraded(msg *model.AlertMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚡️ *%s Results Announced*\n\n", displayName(msg))
	sb.WriteString("Filing detected but metrics could not be extracted automatically.\n")
	if msg.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", truncate(msg.Description, 300))
	}
	if msg.DocumentURL != "" {
		fmt.Fprintf(&sb, "\n[View Filing](%s)", msg.DocumentURL)
	}
	return sb.String()
}

func displayName(msg *model.AlertMessage) string {
	if msg.CompanyName != "" {
		return msg.CompanyName
	}
	return msg.Symbol
}

func amountOrNA(v *decimal.Decimal, suffix string) string {
	if v == nil {
		return "N/A"
	}
	return "₹" + v.StringFixed(2) + suffix
}

func pctOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+.1f%%", *v)
}

func growthLines(a *model.AnalysisResult) string {
	var sb strings.Builder
	if a.YoYRevenueGrowth != nil {
		fmt.Fprintf(&sb, "• Revenue YoY: %s\n", pctOrNA(a.YoYRevenueGrowth))
	}
	if a.YoYProfitGrowth != nil {
		fmt.Fprintf(&sb, "• Profit YoY: %s\n", pctOrNA(a.YoYProfitGrowth))
	}
	if a.QoQRevenueGrowth != nil {
		fmt.Fprintf(&sb, "• Revenue QoQ: %s\n", pctOrNA(a.QoQRevenueGrowth))
	}
	if a.QoQProfitGrowth != nil {
		fmt.Fprintf(&sb, "• Profit QoQ: %s\n", pctOrNA(a.QoQProfitGrowth))
	}
	return sb.String()
}

func beatLines(a *model.AnalysisResult) string {
	var sb strings.Builder
	if a.RevenueBeatPct != nil {
		fmt.Fprintf(&sb, "• Revenue: %s\n", pctOrNA(a.RevenueBeatPct))
	}
	if a.ProfitBeatPct != nil {
		fmt.Fprintf(&sb, "• Profit: %s\n", pctOrNA(a.ProfitBeatPct))
	}
	if a.EPSBeatPct != nil {
		fmt.Fprintf(&sb, "• EPS: %s\n", pctOrNA(a.EPSBeatPct))
	}
	return sb.String()
}

// sourceLabel 来源标签转读者可见的媒体名
func sourceLabel(s model.Source) string {
	switch s {
	case model.SourceMoneycontrolRSS:
		return "Moneycontrol"
	case model.SourceEconomicTimesRSS:
		return "Economic Times"
	case model.SourceLivemintRSS:
		return "Livemint"
	case model.SourceNSE:
		return "NSE"
	case model.SourceBSE, model.SourceBSEPage:
		return "BSE"
	default:
		return string(s)
	}
}

// truncate 按字节上限截断，回退到字符边界避免切出非法UTF-8
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
