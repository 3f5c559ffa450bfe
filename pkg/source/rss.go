// pkg/source/rss.go
package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"ResultRadar/pkg/config"
	"ResultRadar/pkg/model"
)

// RSSFetcher 财经媒体RSS适配器，Moneycontrol/ET/Livemint共用
type RSSFetcher struct {
	name     string
	source   model.Source
	url      string
	client   *http.Client
	resolver SymbolResolver
}

// NewRSSFetcher 创建RSS适配器
func NewRSSFetcher(sc config.SourceConfig, src model.Source, resolver SymbolResolver) *RSSFetcher {
	return &RSSFetcher{
		name:     sc.Name,
		source:   src,
		url:      sc.URL,
		client:   &http.Client{Timeout: sc.Timeout},
		resolver: resolver,
	}
}

// Name 来源名
func (f *RSSFetcher) Name() string { return f.name }

// Source 来源枚举
func (f *RSSFetcher) Source() model.Source { return f.source }

// rssFeed RSS 2.0结构，三家媒体都是标准格式
type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// Fetch 抓取并解析RSS
// RSS条目没有交易代码，从标题里解析公司名再查代码，查不到的条目丢弃
func (f *RSSFetcher) Fetch(ctx context.Context) ([]model.Announcement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("构造RSS请求失败: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ResultRadar/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求%s失败: %w", f.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s返回状态码%d", f.name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取%s响应失败: %w", f.name, err)
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("解析%s失败: %w", f.name, err)
	}

	now := time.Now()
	var anns []model.Announcement
	for _, item := range feed.Channel.Items {
		symbol := f.symbolFromTitle(ctx, item.Title)
		if symbol == "" {
			continue
		}

		anns = append(anns, model.Announcement{
			Source:        f.source,
			Symbol:        symbol,
			Date:          item.PubDate,
			Description:   strings.TrimSpace(item.Title + ". " + stripHTML(item.Description)),
			AttachmentURL: strings.TrimSpace(item.Link),
			ObservedAt:    now,
		})
	}
	return anns, nil
}

// 标题中公司名通常出现在业绩关键词之前: "Infosys Q3 net profit rises 7%..."
var companySegmentRe = regexp.MustCompile(`(?i)^(.+?)(?:'s)?\s+(?:q[1-4]|quarter|results?|net\s+profit|revenue|posts|reports)`)

// symbolFromTitle 从标题解析交易代码
func (f *RSSFetcher) symbolFromTitle(ctx context.Context, title string) string {
	m := companySegmentRe.FindStringSubmatch(title)
	if m == nil {
		return ""
	}

	name := strings.TrimSpace(m[1])
	if name == "" || f.resolver == nil {
		return ""
	}
	return f.resolver.Resolve(ctx, name)
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, " "))
}
