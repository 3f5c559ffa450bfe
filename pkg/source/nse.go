// pkg/source/nse.go
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"ResultRadar/pkg/config"
	"ResultRadar/pkg/model"
)

const nseHomeURL = "https://www.nseindia.com"

// NSEFetcher NSE公司公告API适配器
// NSE有反爬，直接调API会被403，需要先访问首页拿cookie
type NSEFetcher struct {
	name    string
	url     string
	client  *http.Client
	warmed  time.Time
	warmTTL time.Duration
}

// NewNSEFetcher 创建NSE适配器
func NewNSEFetcher(sc config.SourceConfig) *NSEFetcher {
	jar, _ := cookiejar.New(nil)
	return &NSEFetcher{
		name: sc.Name,
		url:  sc.URL,
		client: &http.Client{
			Timeout: sc.Timeout,
			Jar:     jar,
		},
		warmTTL: 5 * time.Minute,
	}
}

// Name 来源名
func (f *NSEFetcher) Name() string { return f.name }

// Source 来源枚举
func (f *NSEFetcher) Source() model.Source { return model.SourceNSE }

// nseAnnouncement NSE API响应条目
type nseAnnouncement struct {
	Symbol         string `json:"symbol"`
	Desc           string `json:"desc"`
	AttachmentFile string `json:"attchmntFile"`
	AnnouncedAt    string `json:"an_dt"`
	AttachmentText string `json:"attchmntText"`
}

// Fetch 抓取最新公告
func (f *NSEFetcher) Fetch(ctx context.Context) ([]model.Announcement, error) {
	if err := f.warmUp(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("构造NSE请求失败: %w", err)
	}
	setBrowserHeaders(req)
	req.Header.Set("Referer", nseHomeURL+"/companies-listing/corporate-filings-announcements")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求NSE公告API失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// cookie过期会返回401/403，下一轮重新预热
		f.warmed = time.Time{}
		return nil, fmt.Errorf("NSE公告API返回状态码%d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取NSE响应失败: %w", err)
	}

	var items []nseAnnouncement
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("解析NSE响应失败: %w", err)
	}

	now := time.Now()
	anns := make([]model.Announcement, 0, len(items))
	for _, it := range items {
		anns = append(anns, model.Announcement{
			Source:         model.SourceNSE,
			Symbol:         it.Symbol,
			Date:           it.AnnouncedAt,
			Description:    it.Desc,
			AttachmentURL:  it.AttachmentFile,
			AttachmentText: it.AttachmentText,
			ObservedAt:     now,
		})
	}
	return anns, nil
}

// warmUp 访问首页获取会话cookie
func (f *NSEFetcher) warmUp(ctx context.Context) error {
	if time.Since(f.warmed) < f.warmTTL {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nseHomeURL, nil)
	if err != nil {
		return fmt.Errorf("构造NSE预热请求失败: %w", err)
	}
	setBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("NSE会话预热失败: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	f.warmed = time.Now()
	return nil
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}
