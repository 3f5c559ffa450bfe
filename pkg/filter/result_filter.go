// pkg/filter/result_filter.go
package filter

import (
	"strings"
)

// excludeKeywords 行政性公告排除词表，命中任一即拒绝，优先级高于所有包含词表
var excludeKeywords = []string{
	"newspaper publication",
	"newspaper advertisement",
	"published in newspaper",
	"publication of financial results", // 关于刊登结果的通知，不是结果本身
	"newspaper notice",
	"press release publication",
	"advertisement in newspaper",
	"notice published in",
	"copy of newspaper",
	"intimation of newspaper publication",
	"submission of newspaper",
	"compliance certificate",
	"record date",
	"book closure",
	"agm notice",
	"egm notice",
	"intimation of loss of share certificate",
	"duplicate share certificate",
	"postal ballot",
	"e-voting",
}

// resultKeywords 业绩公告包含词表
var resultKeywords = []string{
	// 财务结果
	"financial result",
	"financial results",
	"quarterly result",
	"quarterly results",
	"quarterly and", // "quarterly and half year"
	"unaudited financial",
	"unaudited results",
	"audited results",
	"standalone results",
	"consolidated results",
	"quarterly and year to date",

	// 季度标识
	"q1", "q2", "q3", "q4",
	"quarter ended",
	"half year ended",
	"year ended",

	// 财年标识
	"fy20", "fy21", "fy22", "fy23", "fy24", "fy25", "fy26",

	// 结果公告措辞
	"outcome of board meeting",
	"submission of financial results",
	"intimation of financial results",
	"approved financial results",

	// 具体指标词（强信号）
	"revenue", "profit", "loss", "ebitda", "eps",
	"net profit", "gross profit", "pat", "pbt",
}

// newsKeywords RSS新闻用的宽松包含词表，新闻标题很少用正式业绩措辞
var newsKeywords = []string{
	// 股价变动动词
	"surges", "surge", "plunges", "plunge", "rebounds", "rebound",
	"soars", "tumbles", "jumps", "drops", "rallies", "slumps",
	"rises", "falls", "gains", "climbs",

	// 交易/合同动词
	"secures", "wins contract", "bags order", "signs", "acquires",
	"order book", "new order", "deal", "partnership",

	// 业绩相关
	"results", "earnings", "profit", "revenue", "quarterly",
	"guidance", "outlook", "upgrade", "downgrade", "target price",
}

// corporateActionKeywords 重大公司行动词表
var corporateActionKeywords = []string{
	"acquisition", "merger", "takeover", "demerger",
	"buyback", "rights issue", "bonus issue", "stock split",
	"open offer", "preferential allotment", "qip",
	"major contract", "government order", "regulatory approval",
	"capacity expansion", "new plant",
}

// currencyTokens 金额单位token，与业务动作词组合识别高价值公告
var currencyTokens = []string{"crore", "lakh"}

// businessActionTokens 业务动作词
var businessActionTokens = []string{"order", "contract", "tender"}

// IsSubstantiveResult 判断文本是否为实质性业绩披露
// 先查排除词表，行政性公告直接拒绝；再查业绩包含词表
func IsSubstantiveResult(text string) bool {
	lower := strings.ToLower(text)

	if containsAny(lower, excludeKeywords) {
		return false
	}

	return containsAny(lower, resultKeywords)
}

// IsRelevantNews RSS新闻的宽松判定，排除词表相同，包含词表更宽
func IsRelevantNews(text string) bool {
	lower := strings.ToLower(text)

	if containsAny(lower, excludeKeywords) {
		return false
	}

	return containsAny(lower, newsKeywords)
}

// IsMajorCorporateAction 判断是否为值得提醒的重大公司行动
// 命中行动词表，或者金额单位词与业务动作词同时出现
func IsMajorCorporateAction(text string) bool {
	lower := strings.ToLower(text)

	if containsAny(lower, excludeKeywords) {
		return false
	}

	if containsAny(lower, corporateActionKeywords) {
		return true
	}

	return containsAny(lower, currencyTokens) && containsAny(lower, businessActionTokens)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
