// pkg/classify/classifier.go
package classify

import (
	"strings"

	"ResultRadar/pkg/model"
)

// 各类别关键词命中权重与启发式加分
// 数值为经验调参结果，可覆盖，不要当作物理定律
const (
	DefaultQuarterlyWeight  = 1.0
	DefaultEarningsWeight   = 2.0
	DefaultCorporateWeight  = 1.5
	DefaultNewsWeight       = 2.0
	DefaultFeedBonus        = 3.0 // RSS来源先验
	DefaultDensityBonus     = 2.0 // 3个以上新闻词命中
	DefaultPublicationBonus = 2.0
	DefaultPhraseBonus      = 1.5
	DefaultRegulationBonus  = 1.0
	DefaultLongTextBonus    = 1.0
	DefaultQuestionBonus    = 1.0
	DefaultDisambiguation   = 2.0 // 季度词+涨跌词+RSS来源

	// 置信度归一化上限，调参值而非概率
	DefaultConfidenceCeiling = 8.0

	// 参与打分的附件文本长度上限
	attachmentScoreWindow = 1000
	// 超过该长度的附件文本佐证电话会议记录假设
	longTextThreshold = 5000
)

var quarterlyKeywords = []string{
	"financial results",
	"unaudited results",
	"audited results",
	"quarterly results",
	"half year results",
	"annual results",
	"outcome of board meeting",
	"q1 results", "q2 results", "q3 results", "q4 results",
	"fy20", "fy21", "fy22", "fy23", "fy24", "fy25", "fy26",
}

var earningsCallKeywords = []string{
	"transcript",
	"earnings call",
	"conference call",
	"investor call",
	"concall",
	"earnings group call",
	"analyst meet",
}

var corporateActionKeywords = []string{
	"acquisition",
	"merger",
	"takeover",
	"buyback",
	"rights issue",
	"bonus issue",
	"dividend",
	"disclosure under regulation",
	"substantial acquisition",
	"shareholding",
	"allotment",
	"debenture",
	"preferential",
	"open offer",
}

var newsKeywords = []string{
	"rebounds", "rebounded", "surges", "plunges",
	"stock price", "shares rise", "shares fall",
	"market movement", "trading", "analysts",
	"upgrade", "downgrade", "target price",
	"why", "here's why", "tumbles", "soars", "pares",
	"intraday", "today's", "after", "following",
	"on the back of", "jumps", "drops", "falls",
	"rises", "gains", "losses",
	"stock rebounds", "stock surges", "stock plunges",
	"order book", "secures", "wins contract", "bags order",
}

// publicationNames 媒体名称，出现即偏向新闻
var publicationNames = []string{"livemint", "economic times", "et markets", "moneycontrol"}

// newsPhrases 新闻体固定搭配
var newsPhrases = []string{
	"stock rebounds", "stock surges", "stock plunges",
	"pares loss", "pares gain", "intraday",
	"after securing", "after announcing", "following",
	"here's why", "this is why",
}

var quarterTokens = []string{"q1", "q2", "q3", "q4", "quarter"}

var movementTokens = []string{"rebounds", "surges", "plunges", "pares", "rises", "falls"}

// scoredCategory 打分类别，切片顺序即平局优先级
type scoredCategory struct {
	category model.Category
	score    float64
}

// Classifier 公告分类器
// 确定性关键词加权打分，不依赖任何模型，便于解释和复现
type Classifier struct {
	QuarterlyWeight   float64
	EarningsWeight    float64
	CorporateWeight   float64
	NewsWeight        float64
	ConfidenceCeiling float64
}

// NewClassifier 创建默认权重的分类器
func NewClassifier() *Classifier {
	return &Classifier{
		QuarterlyWeight:   DefaultQuarterlyWeight,
		EarningsWeight:    DefaultEarningsWeight,
		CorporateWeight:   DefaultCorporateWeight,
		NewsWeight:        DefaultNewsWeight,
		ConfidenceCeiling: DefaultConfidenceCeiling,
	}
}

// Classify 对公告打分分类，返回最优类别和置信度
func (c *Classifier) Classify(description, attachmentText string, source model.Source) (model.Category, float64) {
	window := attachmentText
	if len(window) > attachmentScoreWindow {
		window = window[:attachmentScoreWindow]
	}
	text := strings.ToLower(description + " " + window)

	// 打分顺序即平局优先级
	scores := []scoredCategory{
		{category: model.CategoryEarningsCall},
		{category: model.CategoryCorporateAction},
		{category: model.CategoryNewsArticle},
		{category: model.CategoryQuarterlyResult},
	}
	earnings, corporate, news, quarterly := &scores[0], &scores[1], &scores[2], &scores[3]

	// 规则1: RSS来源是很强的新闻先验
	isFeed := source.IsFeed()
	if isFeed {
		news.score += DefaultFeedBonus
	}

	for _, kw := range earningsCallKeywords {
		if strings.Contains(text, kw) {
			earnings.score += c.EarningsWeight
		}
	}

	for _, kw := range corporateActionKeywords {
		if strings.Contains(text, kw) {
			corporate.score += c.CorporateWeight
		}
	}

	newsHits := 0
	for _, kw := range newsKeywords {
		if strings.Contains(text, kw) {
			news.score += c.NewsWeight
			newsHits++
		}
	}

	// 规则2: 新闻词密度信号
	if newsHits >= 3 {
		news.score += DefaultDensityBonus
	}

	for _, kw := range quarterlyKeywords {
		if strings.Contains(text, kw) {
			quarterly.score += c.QuarterlyWeight
		}
	}

	// 规则3: 提到媒体名称
	for _, name := range publicationNames {
		if strings.Contains(text, name) {
			news.score += DefaultPublicationBonus
			break
		}
	}

	// 规则4: 新闻体固定搭配，每命中一个加一次
	for _, phrase := range newsPhrases {
		if strings.Contains(text, phrase) {
			news.score += DefaultPhraseBonus
		}
	}

	// 规则5: regulation 29/30出现时按是否提及结果分流
	if strings.Contains(text, "regulation 29") || strings.Contains(text, "regulation 30") {
		if strings.Contains(text, "results") || strings.Contains(text, "financial") {
			quarterly.score += DefaultRegulationBonus
		} else {
			corporate.score += DefaultRegulationBonus
		}
	}

	// 规则6: 超长附件文本佐证电话会议记录假设
	if len(attachmentText) > longTextThreshold && earnings.score > 0 {
		earnings.score += DefaultLongTextBonus
	}

	// 规则7: 疑问句式偏向新闻解读
	if strings.Contains(text, "?") || strings.Contains(text, "why") {
		news.score += DefaultQuestionBonus
	}

	// 规则8: 季度词+涨跌词+RSS来源 = 关于业绩的新闻，不是业绩披露本身
	if isFeed && containsAny(text, quarterTokens) && containsAny(text, movementTokens) {
		news.score += DefaultDisambiguation
		quarterly.score -= 1
	}

	// argmax，同分保留先声明的类别
	best := scores[0]
	for _, s := range scores[1:] {
		if s.score > best.score {
			best = s
		}
	}

	if best.score <= 0 {
		return model.CategoryOther, 0.0
	}

	confidence := best.score / c.ConfidenceCeiling
	if confidence > 1.0 {
		confidence = 1.0
	}

	return best.category, confidence
}

// ShouldProcess 判断该类别是否进入处理管道
func ShouldProcess(category model.Category) bool {
	switch category {
	case model.CategoryQuarterlyResult, model.CategoryEarningsCall,
		model.CategoryCorporateAction, model.CategoryNewsArticle:
		return true
	}
	return false
}

func containsAny(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
