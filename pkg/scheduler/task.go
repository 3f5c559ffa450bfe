// pkg/scheduler/task.go
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"ResultRadar/pkg/analysis"
	"ResultRadar/pkg/dedup"
	"ResultRadar/pkg/filter"
	"ResultRadar/pkg/monitor"
)

// Scheduler 任务调度器
type Scheduler struct {
	cron      *cron.Cron
	health    *monitor.Health
	store     *dedup.Store
	estimates *analysis.EstimateProvider
	stocks    *filter.StockFilter
}

// NewScheduler 创建任务调度器，estimates可为nil
func NewScheduler(health *monitor.Health, store *dedup.Store, estimates *analysis.EstimateProvider, stocks *filter.StockFilter) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		health:    health,
		store:     store,
		estimates: estimates,
		stocks:    stocks,
	}
}

// Start 启动调度器
func (s *Scheduler) Start() {
	// 每5分钟巡检来源健康状态
	s.cron.AddFunc("@every 5m", s.sweepSourceHealth)

	// 工作日9:00盘前检查去重存储连通性，公告高峰前的最后窗口
	s.cron.AddFunc("0 9 * * 1-5", s.checkStore)

	// 工作日8:30预热自选股的预期缓存
	if s.estimates != nil && s.stocks != nil {
		s.cron.AddFunc("30 8 * * 1-5", s.refreshEstimates)
	}

	s.cron.Start()
	log.Println("调度器已启动")
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// sweepSourceHealth 巡检长时间无成功抓取的来源
func (s *Scheduler) sweepSourceHealth() {
	stale := s.health.Stale(15 * time.Minute)
	for _, src := range stale {
		log.Printf("来源%s已%v无成功抓取, 状态=%s", src.Source, time.Since(src.LastSuccess).Round(time.Second), src.Status)
	}
}

// checkStore 检查去重存储连通性
func (s *Scheduler) checkStore() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		log.Printf("去重存储巡检失败: %v", err)
		return
	}
	log.Println("去重存储巡检正常")
}

// refreshEstimates 为自选股预热当季预期缓存
func (s *Scheduler) refreshEstimates() {
	quarter, fiscalYear := currentPeriod(time.Now())

	symbols := s.stocks.Watchlist()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	warmed := 0
	for _, symbol := range symbols {
		if s.estimates.Lookup(ctx, symbol, quarter, fiscalYear) != nil {
			warmed++
		}
	}
	log.Printf("预期缓存预热完成: %d/%d只有预期", warmed, len(symbols))
}

// currentPeriod 按印度财年(4月起)推算当前季度和财年
func currentPeriod(now time.Time) (int, int) {
	month := int(now.Month())
	fy := now.Year()
	if now.Month() < time.April {
		fy--
	}

	// 4-6月Q1, 7-9月Q2, 10-12月Q3, 1-3月Q4
	quarter := (month-4+12)%12/3 + 1
	return quarter, fy
}
