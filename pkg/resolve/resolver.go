// pkg/resolve/resolver.go
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// 常见公司名与交易代码的映射，RSS标题里的称呼和注册名经常不一致
var knownAliases = map[string]string{
	"reliance":            "RELIANCE",
	"reliance industries": "RELIANCE",
	"tcs":                 "TCS",
	"tata consultancy":    "TCS",
	"infosys":             "INFY",
	"hdfc bank":           "HDFCBANK",
	"icici bank":          "ICICIBANK",
	"sbi":                 "SBIN",
	"state bank of india": "SBIN",
	"wipro":               "WIPRO",
	"hcl tech":            "HCLTECH",
	"hcl technologies":    "HCLTECH",
	"bharti airtel":       "BHARTIARTL",
	"airtel":              "BHARTIARTL",
	"itc":                 "ITC",
	"larsen & toubro":     "LT",
	"l&t":                 "LT",
	"maruti suzuki":       "MARUTI",
	"maruti":              "MARUTI",
	"tata motors":         "TATAMOTORS",
	"tata steel":          "TATASTEEL",
	"axis bank":           "AXISBANK",
	"kotak mahindra bank": "KOTAKBANK",
	"kotak bank":          "KOTAKBANK",
	"bajaj finance":       "BAJFINANCE",
	"asian paints":        "ASIANPAINT",
	"hindustan unilever":  "HINDUNILVR",
	"hul":                 "HINDUNILVR",
	"adani enterprises":   "ADANIENT",
	"ntpc":                "NTPC",
	"ongc":                "ONGC",
	"nbcc":                "NBCC",
	"hikal":               "HIKAL",
}

// Resolver 公司名到NSE交易代码的解析器
// 先查别名表和缓存，未命中走NSE搜索API，负结果也缓存避免反复打接口
type Resolver struct {
	client    *http.Client
	searchURL string

	mu    sync.RWMutex
	cache map[string]string
}

// NewResolver 创建解析器
func NewResolver() *Resolver {
	return &Resolver{
		client:    &http.Client{Timeout: 5 * time.Second},
		searchURL: "https://www.nseindia.com/api/search/autocomplete?q=",
		cache:     make(map[string]string),
	}
}

// Resolve 解析公司名，查不到返回空串
// 先按原名查别名表再做后缀归一，"State Bank of India"这类以India结尾的注册名
// 归一后会丢掉后缀，必须在归一前命中
func (r *Resolver) Resolve(ctx context.Context, name string) string {
	raw := strings.ToLower(strings.TrimSpace(name))
	if raw == "" {
		return ""
	}
	if sym, ok := knownAliases[raw]; ok {
		return sym
	}

	key := normalizeName(raw)
	if key == "" {
		return ""
	}
	if sym, ok := knownAliases[key]; ok {
		return sym
	}

	r.mu.RLock()
	sym, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return sym
	}

	sym = r.lookup(ctx, key)

	r.mu.Lock()
	r.cache[key] = sym
	r.mu.Unlock()
	return sym
}

// nseSearchResponse NSE搜索接口响应
type nseSearchResponse struct {
	Symbols []struct {
		Symbol     string `json:"symbol"`
		ResultType string `json:"result_sub_type"`
	} `json:"symbols"`
}

func (r *Resolver) lookup(ctx context.Context, name string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.searchURL+url.QueryEscape(name), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("查询%s代码失败: %v", name, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}

	var parsed nseSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}

	for _, s := range parsed.Symbols {
		if s.ResultType == "equity" && s.Symbol != "" {
			return strings.ToUpper(s.Symbol)
		}
	}
	return ""
}

// normalizeName 去掉常见后缀和多余空白
func normalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range []string{" ltd.", " ltd", " limited", " india"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return strings.TrimSpace(s)
}

// Stats 缓存规模，健康接口用
func (r *Resolver) Stats() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("aliases=%d cached=%d", len(knownAliases), len(r.cache))
}
