// pkg/model/announcement.go
package model

import (
	"strings"
	"time"
)

// Source 公告来源标签
type Source string

const (
	SourceNSE              Source = "nse_api"
	SourceBSE              Source = "bse_api"
	SourceBSEPage          Source = "bse_page"
	SourceMoneycontrolRSS  Source = "moneycontrol_rss"
	SourceEconomicTimesRSS Source = "economic_times_rss"
	SourceLivemintRSS      Source = "livemint_rss"
)

// IsFeed 判断来源是否为新闻RSS源
func (s Source) IsFeed() bool {
	return strings.Contains(strings.ToLower(string(s)), "rss")
}

// Category 公告分类结果
type Category string

const (
	CategoryQuarterlyResult Category = "QUARTERLY_RESULT"
	CategoryEarningsCall    Category = "EARNINGS_CALL"
	CategoryCorporateAction Category = "CORPORATE_ACTION"
	CategoryNewsArticle     Category = "NEWS_ARTICLE"
	CategoryOther           Category = "OTHER"
)

// Announcement 从单一来源观测到的一条披露事件
// 由来源适配器创建，之后只读，管道消费一次后不再保留
type Announcement struct {
	Source         Source    `json:"source"`
	Symbol         string    `json:"symbol"`          // 股票代码或scrip code
	Date           string    `json:"date"`            // 来源提供的原始日期字符串，不做严格解析
	Description    string    `json:"description"`
	AttachmentURL  string    `json:"attachment_url"`  // 文件链接，可为空
	AttachmentText string    `json:"attachment_text"` // 预提取文本，长度决定是否需要下载文件
	Category       Category  `json:"category,omitempty"`
	ObservedAt     time.Time `json:"observed_at"`
}

// Actionable 判断公告是否具备处理条件
func (a *Announcement) Actionable() bool {
	return a.Symbol != "" && (a.AttachmentURL != "" || a.Description != "")
}
