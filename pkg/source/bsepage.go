// pkg/source/bsepage.go
package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ResultRadar/pkg/config"
	"ResultRadar/pkg/model"
)

// BSEPageFetcher BSE公告页面抓取，API被限流时的备用通道
type BSEPageFetcher struct {
	name   string
	url    string
	client *http.Client
}

// NewBSEPageFetcher 创建BSE页面适配器
func NewBSEPageFetcher(sc config.SourceConfig) *BSEPageFetcher {
	return &BSEPageFetcher{
		name:   sc.Name,
		url:    sc.URL,
		client: &http.Client{Timeout: sc.Timeout},
	}
}

// Name 来源名
func (f *BSEPageFetcher) Name() string { return f.name }

// Source 来源枚举
func (f *BSEPageFetcher) Source() model.Source { return model.SourceBSEPage }

// Fetch 解析公告页面表格
func (f *BSEPageFetcher) Fetch(ctx context.Context) ([]model.Announcement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("构造BSE页面请求失败: %w", err)
	}
	setBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求BSE页面失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("BSE页面返回状态码%d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("解析BSE页面失败: %w", err)
	}

	now := time.Now()
	var anns []model.Announcement
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		code := strings.TrimSpace(cells.Eq(0).Text())
		subject := strings.TrimSpace(cells.Eq(1).Text())
		if code == "" || subject == "" {
			return
		}

		link := ""
		if href, ok := row.Find("a[href$='.pdf']").First().Attr("href"); ok {
			link = absoluteBSEURL(href)
		}

		anns = append(anns, model.Announcement{
			Source:        model.SourceBSEPage,
			Symbol:        code,
			Date:          strings.TrimSpace(cells.Eq(2).Text()),
			Description:   subject,
			AttachmentURL: link,
			ObservedAt:    now,
		})
	})
	return anns, nil
}

func absoluteBSEURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return "https://www.bseindia.com" + href
}
