// pkg/extract/parser.go
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ResultRadar/pkg/model"
)

// 印度格式数字: 1,23,456.78 或 1,234.56 或普通数字
const numberPattern = `([-]?\d{1,3}(?:,\d{2,3})*(?:\.\d{1,2})?|[-]?\d+(?:\.\d{1,2})?)`

// 金额单位，lakh在提取后折算为crore
const unitPattern = `\s*(crore|cr|lakh)`

// Parser 从财报文本中解析关键指标
// 金额正则要求单位后缀，避免把页码、表格序号当成营收
type Parser struct {
	// Now 可注入，测试里固定时间以锁定财年默认值
	Now func() time.Time

	yoyWindow int

	revenueRe   *regexp.Regexp
	totalIncRe  *regexp.Regexp
	patRe       *regexp.Regexp
	epsRe       *regexp.Regexp
	ebitdaRe    *regexp.Regexp
	opProfitRe  *regexp.Regexp
	quarterRe   *regexp.Regexp
	fiscalRe    *regexp.Regexp
	yoyAnchorRe []*regexp.Regexp
}

// NewParser 创建解析器
func NewParser() *Parser {
	return &Parser{
		Now:         time.Now,
		yoyWindow:   500,
		revenueRe:   regexp.MustCompile(`(?is)(?:total\s+)?(?:income|revenue)(?:\s+from\s+operations)?.*?` + numberPattern + unitPattern),
		totalIncRe:  regexp.MustCompile(`(?is)total\s+income.*?` + numberPattern + unitPattern),
		patRe:       regexp.MustCompile(`(?is)(?:net\s+profit|profit\s+after\s+tax|pat).*?` + numberPattern + unitPattern),
		epsRe:       regexp.MustCompile(`(?is)(?:eps|earnings?\s+per\s+share).*?` + numberPattern),
		ebitdaRe:    regexp.MustCompile(`(?is)ebitda.*?` + numberPattern + unitPattern),
		opProfitRe:  regexp.MustCompile(`(?is)operating\s+profit.*?` + numberPattern + unitPattern),
		quarterRe:   regexp.MustCompile(`(?i)(?:q\s*([1-4])|quarter\s+([1-4])|([1-4])(?:st|nd|rd|th)\s+quarter)`),
		fiscalRe:    regexp.MustCompile(`(?i)(?:fy|f\.?\s?y\.?|fiscal\s+year|financial\s+year)[\s\-]*(\d{2,4})`),
		yoyAnchorRe: []*regexp.Regexp{
			regexp.MustCompile(`(?is)(?:previous\s+year|corresponding\s+(?:quarter|period)|same\s+(?:quarter|period)\s+last\s+year|year\s+ago)(.*)`),
			regexp.MustCompile(`(?is)(?:py|p\.y\.)\s*[:\s](.*)`),
		},
	}
}

// Parse 解析指标，永不返回错误；解析不出的字段保持nil，由置信度体现
func (p *Parser) Parse(text, method string) model.ExtractedMetrics {
	start := time.Now()

	m := model.ExtractedMetrics{ExtractionMethod: method}

	m.Revenue = p.extractAmount(p.revenueRe, text)
	m.TotalIncome = p.extractAmount(p.totalIncRe, text)
	m.ProfitAfterTax = p.extractAmount(p.patRe, text)
	m.EPS = p.extractAmount(p.epsRe, text)
	m.EBITDA = p.extractAmount(p.ebitdaRe, text)
	m.OperatingProfit = p.extractAmount(p.opProfitRe, text)

	m.Quarter, m.QuarterAssumed = p.extractQuarter(text)
	m.FiscalYear, m.FiscalYearAssumed = p.extractFiscalYear(text)

	p.extractPreviousPeriod(text, &m)

	m.ConfidenceScore = confidence(&m)
	m.ExtractionTime = time.Since(start)
	return m
}

// extractAmount 提取金额，lakh换算为crore
func (p *Parser) extractAmount(re *regexp.Regexp, text string) *decimal.Decimal {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	raw := strings.ReplaceAll(match[1], ",", "")
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}

	if len(match) > 2 && strings.EqualFold(match[2], "lakh") {
		v = v.Div(decimal.NewFromInt(100))
	}
	return &v
}

// extractQuarter 提取季度，缺失时默认Q3并打上推断标记
func (p *Parser) extractQuarter(text string) (int, bool) {
	match := p.quarterRe.FindStringSubmatch(text)
	if match != nil {
		for _, g := range match[1:] {
			if g != "" {
				return int(g[0] - '0'), false
			}
		}
	}
	return 3, true
}

// extractFiscalYear 提取财年，两位年份按2000/1900补全
// 缺失时按印度财年(4月起)推断当前财年
func (p *Parser) extractFiscalYear(text string) (int, bool) {
	match := p.fiscalRe.FindStringSubmatch(text)
	if match != nil {
		year := 0
		for _, c := range match[1] {
			year = year*10 + int(c-'0')
		}
		if year < 100 {
			if year < 50 {
				year += 2000
			} else {
				year += 1900
			}
		}
		return year, false
	}

	now := p.Now()
	fy := now.Year()
	if now.Month() < time.April {
		fy--
	}
	return fy, true
}

// extractPreviousPeriod 在同比锚点后的窗口内找上期数字
// 窗口限长，防止把下一季度前瞻段落里的数字当成上期值
func (p *Parser) extractPreviousPeriod(text string, m *model.ExtractedMetrics) {
	for _, re := range p.yoyAnchorRe {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		window := match[1]
		if len(window) > p.yoyWindow {
			window = window[:p.yoyWindow]
		}

		if m.RevenuePrevYear == nil {
			m.RevenuePrevYear = p.extractAmount(p.revenueRe, window)
		}
		if m.ProfitPrevYear == nil {
			m.ProfitPrevYear = p.extractAmount(p.patRe, window)
		}
		if m.RevenuePrevYear != nil || m.ProfitPrevYear != nil {
			return
		}
	}
}

// confidence 营收0.4 + 净利0.4 + EPS0.2
func confidence(m *model.ExtractedMetrics) float64 {
	score := 0.0
	if m.Revenue != nil {
		score += 0.4
	}
	if m.ProfitAfterTax != nil {
		score += 0.4
	}
	if m.EPS != nil {
		score += 0.2
	}
	return score
}
