// pkg/analysis/estimates.go
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"ResultRadar/pkg/dedup"
	"ResultRadar/pkg/model"
)

// EstimateProvider 分析师预期查询，Redis缓存 + Postgres兜底
// 预期缺失是常态，查不到不算错误
type EstimateProvider struct {
	store    *dedup.Store
	db       *gorm.DB
	cacheTTL time.Duration
}

// NewEstimateProvider 创建预期查询器，store和db均可为nil（降级为无预期）
func NewEstimateProvider(store *dedup.Store, db *gorm.DB) *EstimateProvider {
	return &EstimateProvider{
		store:    store,
		db:       db,
		cacheTTL: 6 * time.Hour,
	}
}

func estimateKey(symbol string, quarter, fiscalYear int) string {
	return fmt.Sprintf("estimates:%s:Q%d:FY%d", symbol, quarter, fiscalYear)
}

// Lookup 查询预期，缓存未命中时回源数据库并回填
// 任何一层故障都只记日志，返回nil让分析走同比降级路径
func (p *EstimateProvider) Lookup(ctx context.Context, symbol string, quarter, fiscalYear int) *model.AnalystEstimates {
	key := estimateKey(symbol, quarter, fiscalYear)

	if p.store != nil {
		cached, err := p.store.Get(ctx, key)
		if err != nil {
			log.Printf("读取预期缓存失败: %v", err)
		} else if cached != "" {
			var est model.AnalystEstimates
			if err := json.Unmarshal([]byte(cached), &est); err == nil {
				return &est
			}
		}
	}

	if p.db == nil {
		return nil
	}

	var est model.AnalystEstimates
	err := p.db.WithContext(ctx).
		Where("symbol = ? AND quarter = ? AND fiscal_year = ?", symbol, quarter, fiscalYear).
		First(&est).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("查询%s预期失败: %v", symbol, err)
		}
		return nil
	}

	if p.store != nil {
		if data, err := json.Marshal(&est); err == nil {
			if err := p.store.SetValue(ctx, key, string(data), p.cacheTTL); err != nil {
				log.Printf("回填预期缓存失败: %v", err)
			}
		}
	}
	return &est
}
