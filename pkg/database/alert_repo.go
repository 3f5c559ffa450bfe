// pkg/database/alert_repo.go
package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ResultRadar/pkg/model"
)

// AlertRepo 提醒记录仓库
type AlertRepo struct {
	db *gorm.DB
}

// NewAlertRepo 创建仓库
func NewAlertRepo(db *gorm.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

// Save 保存提醒记录
func (r *AlertRepo) Save(ctx context.Context, record *model.AlertRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("保存提醒记录失败: %w", err)
	}
	return nil
}

// MarkDelivered 标记已投递
func (r *AlertRepo) MarkDelivered(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Model(&model.AlertRecord{}).
		Where("id = ?", id).
		Update("delivered", true).Error; err != nil {
		return fmt.Errorf("更新投递状态失败: %w", err)
	}
	return nil
}

// Recent 查询最近的提醒，API列表用
func (r *AlertRepo) Recent(ctx context.Context, limit int) ([]model.AlertRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var records []model.AlertRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("查询提醒记录失败: %w", err)
	}
	return records, nil
}

// BySymbol 按代码查询
func (r *AlertRepo) BySymbol(ctx context.Context, symbol string, limit int) ([]model.AlertRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	var records []model.AlertRecord
	if err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("查询%s提醒记录失败: %w", symbol, err)
	}
	return records, nil
}

// CountSince 统计时间段内的提醒数，健康接口用
func (r *AlertRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.AlertRecord{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计提醒记录失败: %w", err)
	}
	return count, nil
}
