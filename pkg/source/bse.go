// pkg/source/bse.go
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ResultRadar/pkg/config"
	"ResultRadar/pkg/model"
)

const bseAttachmentBase = "https://www.bseindia.com/xml-data/corpfiling/AttachLive/"

// BSEFetcher BSE公告API适配器
type BSEFetcher struct {
	name   string
	url    string
	client *http.Client
}

// NewBSEFetcher 创建BSE适配器
func NewBSEFetcher(sc config.SourceConfig) *BSEFetcher {
	return &BSEFetcher{
		name:   sc.Name,
		url:    sc.URL,
		client: &http.Client{Timeout: sc.Timeout},
	}
}

// Name 来源名
func (f *BSEFetcher) Name() string { return f.name }

// Source 来源枚举
func (f *BSEFetcher) Source() model.Source { return model.SourceBSE }

// bseResponse BSE API响应
type bseResponse struct {
	Table []bseAnnouncement `json:"Table"`
}

type bseAnnouncement struct {
	ScripCode      json.Number `json:"SCRIP_CD"`
	CompanyName    string      `json:"SLONGNAME"`
	Subject        string      `json:"NEWSSUB"`
	Attachment     string      `json:"ATTACHMENTNAME"`
	NewsDate       string      `json:"NEWS_DT"`
	HeadlineDetail string      `json:"HEADLINE"`
}

// Fetch 抓取最新公告
// BSE以scrip code标识公司，symbol字段填code，由解析层换算
func (f *BSEFetcher) Fetch(ctx context.Context) ([]model.Announcement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("构造BSE请求失败: %w", err)
	}
	setBrowserHeaders(req)
	req.Header.Set("Referer", "https://www.bseindia.com/corporates/ann.html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求BSE公告API失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("BSE公告API返回状态码%d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取BSE响应失败: %w", err)
	}

	var parsed bseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("解析BSE响应失败: %w", err)
	}

	now := time.Now()
	anns := make([]model.Announcement, 0, len(parsed.Table))
	for _, it := range parsed.Table {
		anns = append(anns, model.Announcement{
			Source:        model.SourceBSE,
			Symbol:        it.ScripCode.String(),
			Date:          it.NewsDate,
			Description:   strings.TrimSpace(it.Subject),
			AttachmentURL: attachmentURL(it.Attachment),
			ObservedAt:    now,
		})
	}
	return anns, nil
}

// attachmentURL BSE只返回文件名，需要拼完整地址
func attachmentURL(name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "http") {
		return name
	}
	return bseAttachmentBase + name
}
