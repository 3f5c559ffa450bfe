// pkg/source/fetcher.go
package source

import (
	"context"
	"log"

	"ResultRadar/pkg/config"
	"ResultRadar/pkg/model"
)

// Fetcher 单个公告来源适配器
// 实现只负责抓取和字段映射，过滤、分类、去重都在管道层做
type Fetcher interface {
	Name() string
	Source() model.Source
	Fetch(ctx context.Context) ([]model.Announcement, error)
}

// SymbolResolver 把公司名解析为交易代码，RSS标题里只有公司名
type SymbolResolver interface {
	Resolve(ctx context.Context, name string) string
}

// Build 按配置构建启用的来源适配器
func Build(cfg *config.Config, resolver SymbolResolver) []Fetcher {
	var fetchers []Fetcher
	for _, sc := range cfg.Monitoring.Sources {
		if !sc.Enabled {
			continue
		}

		switch sc.Name {
		case string(model.SourceNSE):
			fetchers = append(fetchers, NewNSEFetcher(sc))
		case string(model.SourceBSE):
			fetchers = append(fetchers, NewBSEFetcher(sc))
		case string(model.SourceBSEPage):
			fetchers = append(fetchers, NewBSEPageFetcher(sc))
		case string(model.SourceMoneycontrolRSS):
			fetchers = append(fetchers, NewRSSFetcher(sc, model.SourceMoneycontrolRSS, resolver))
		case string(model.SourceEconomicTimesRSS):
			fetchers = append(fetchers, NewRSSFetcher(sc, model.SourceEconomicTimesRSS, resolver))
		case string(model.SourceLivemintRSS):
			fetchers = append(fetchers, NewRSSFetcher(sc, model.SourceLivemintRSS, resolver))
		default:
			log.Printf("未知的数据来源: %s，已跳过", sc.Name)
		}
	}
	return fetchers
}
