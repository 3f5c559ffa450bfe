// pkg/filter/stock_filter.go
package filter

import (
	"log"
	"strings"
	"sync"

	"ResultRadar/pkg/config"
	"ResultRadar/pkg/model"
)

// bse500ScripCodes BSE 500成分股scrip code（按市值前500，节选）
var bse500ScripCodes = map[string]bool{
	"500325": true, "500180": true, "532454": true, "532540": true, "532174": true,
	"500112": true, "500034": true, "500209": true, "543526": true, "500696": true,
	"500510": true, "500875": true, "532500": true, "500520": true, "532281": true,
	"524715": true, "500247": true, "532215": true, "532538": true, "500114": true,
	"532978": true, "532921": true, "532555": true, "512599": true, "541154": true,
	"500312": true, "500049": true, "543320": true, "533096": true, "500228": true,
	"500820": true, "540376": true, "507685": true, "532898": true, "532977": true,
	"500790": true, "530965": true, "533278": true, "539448": true, "500470": true,
	"540719": true, "500188": true, "500295": true, "543940": true, "505200": true,
	"544274": true, "500300": true, "532868": true, "500440": true, "540005": true,
}

// nse500Symbols NSE 500成分股代码（节选）
var nse500Symbols = map[string]bool{
	"RELIANCE": true, "TCS": true, "HDFCBANK": true, "INFY": true,
	"HINDUNILVR": true, "ICICIBANK": true, "KOTAKBANK": true, "LT": true,
	"SBIN": true, "BHARTIARTL": true, "ASIANPAINT": true, "ITC": true,
	"AXISBANK": true, "BAJFINANCE": true, "MARUTI": true, "TITAN": true,
	"WIPRO": true, "ULTRACEMCO": true, "SUNPHARMA": true, "NESTLEIND": true,
	"POWERGRID": true, "NTPC": true, "ONGC": true, "JSWSTEEL": true,
	"TATASTEEL": true, "TATAMOTORS": true, "COALINDIA": true, "ADANIPORTS": true,
	"M&M": true, "GRASIM": true, "HIKAL": true, "NBCC": true,
}

// StockFilter 股票池过滤器，按指数成分和自选清单过滤
// 显式构造注入，不使用全局单例
type StockFilter struct {
	enabled    bool
	bse500Only bool
	nse500Only bool

	// baseline是配置文件里的固定自选，SyncWatchlist重建清单时始终保留
	baseline map[string]bool

	mu        sync.RWMutex
	watchlist map[string]bool
}

// NewStockFilter 创建股票池过滤器
func NewStockFilter(cfg *config.Config) *StockFilter {
	f := &StockFilter{
		enabled:    cfg.StockFilter.Enabled,
		bse500Only: cfg.StockFilter.BSE500Only,
		nse500Only: cfg.StockFilter.NSE500Only,
		baseline:   make(map[string]bool),
		watchlist:  make(map[string]bool),
	}

	for _, s := range cfg.StockFilter.CustomWatchlist {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			f.baseline[s] = true
			f.watchlist[s] = true
		}
	}

	log.Printf("股票过滤器初始化: enabled=%v, bse500=%v, nse500=%v, 自选%d只",
		f.enabled, f.bse500Only, f.nse500Only, len(f.watchlist))

	return f
}

// ShouldProcess 判断该股票的公告是否进入处理管道
func (f *StockFilter) ShouldProcess(symbol string, source model.Source) bool {
	if !f.enabled {
		return true
	}

	upper := strings.ToUpper(strings.TrimSpace(symbol))

	// 自选清单优先
	f.mu.RLock()
	inWatchlist := f.watchlist[upper]
	f.mu.RUnlock()
	if inWatchlist {
		return true
	}

	switch source {
	case model.SourceBSE, model.SourceBSEPage:
		if f.bse500Only {
			return bse500ScripCodes[symbol]
		}
		return true
	case model.SourceNSE:
		if f.nse500Only {
			return nse500Symbols[upper]
		}
		return true
	}

	// RSS新闻源内容已由媒体筛选过，全部放行
	if source.IsFeed() {
		return true
	}

	return true
}

// AddToWatchlist 添加自选股票
func (f *StockFilter) AddToWatchlist(symbol string) {
	upper := strings.ToUpper(strings.TrimSpace(symbol))
	if upper == "" {
		return
	}

	f.mu.Lock()
	f.watchlist[upper] = true
	f.mu.Unlock()

	log.Printf("已添加自选股票: %s", upper)
}

// RemoveFromWatchlist 移除自选股票
func (f *StockFilter) RemoveFromWatchlist(symbol string) {
	upper := strings.ToUpper(strings.TrimSpace(symbol))

	f.mu.Lock()
	delete(f.watchlist, upper)
	f.mu.Unlock()

	log.Printf("已移除自选股票: %s", upper)
}

// SyncWatchlist 用共享清单重建自选，配置文件里的条目不会被同步覆盖掉
func (f *StockFilter) SyncWatchlist(symbols []string) {
	next := make(map[string]bool, len(f.baseline)+len(symbols))
	for s := range f.baseline {
		next[s] = true
	}
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			next[s] = true
		}
	}

	f.mu.Lock()
	f.watchlist = next
	f.mu.Unlock()
}

// Watchlist 获取当前自选清单副本
func (f *StockFilter) Watchlist() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	list := make([]string, 0, len(f.watchlist))
	for s := range f.watchlist {
		list = append(list, s)
	}
	return list
}
