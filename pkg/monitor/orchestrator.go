// pkg/monitor/orchestrator.go
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"ResultRadar/pkg/analysis"
	"ResultRadar/pkg/classify"
	"ResultRadar/pkg/config"
	"ResultRadar/pkg/dedup"
	"ResultRadar/pkg/extract"
	"ResultRadar/pkg/filter"
	"ResultRadar/pkg/messaging"
	"ResultRadar/pkg/model"
	"ResultRadar/pkg/news"
	"ResultRadar/pkg/notify"
	"ResultRadar/pkg/source"
)

// AlertSink 提醒记录持久化，db不可用时可为nil
type AlertSink interface {
	Save(ctx context.Context, record *model.AlertRecord) error
	MarkDelivered(ctx context.Context, id string) error
}

// DedupStore 去重、队列与共享状态存储，生产实现为*dedup.Store
type DedupStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	SetWithTTL(ctx context.Context, key string, ttl time.Duration) error
	SetValue(ctx context.Context, key, value string, ttl time.Duration) error
	SetMembers(ctx context.Context, key string) ([]string, error)
	Push(ctx context.Context, queue string, payload []byte) error
}

// Deliverer 提醒投递通道，生产实现为*notify.Telegram
type Deliverer interface {
	Send(ctx context.Context, msg *model.AlertMessage, text string) error
}

// Orchestrator 轮询主循环
// 抓取并发，单条公告的处理严格串行，吞吐瓶颈在外部接口不在本机
type Orchestrator struct {
	cfg        *config.Config
	fetchers   []source.Fetcher
	stocks     *filter.StockFilter
	classifier *classify.Classifier
	store      DedupStore
	downloader *extract.Downloader
	extractor  *extract.Extractor
	parser     *extract.Parser
	engine     *analysis.Engine
	estimates  *analysis.EstimateProvider
	formatter  *notify.Formatter
	telegram   Deliverer
	publisher  *messaging.Publisher
	alerts     AlertSink
	health     *Health
}

// Deps 编排器依赖，publisher/alerts/estimates允许为nil
type Deps struct {
	Fetchers  []source.Fetcher
	Stocks    *filter.StockFilter
	Store     DedupStore
	Engine    *analysis.Engine
	Estimates *analysis.EstimateProvider
	Telegram  Deliverer
	Publisher *messaging.Publisher
	Alerts    AlertSink
	Health    *Health
}

// NewOrchestrator 创建编排器
func NewOrchestrator(cfg *config.Config, d Deps) *Orchestrator {
	o := &Orchestrator{
		cfg:        cfg,
		fetchers:   d.Fetchers,
		stocks:     d.Stocks,
		classifier: classify.NewClassifier(),
		store:      d.Store,
		downloader: extract.NewDownloader(cfg.Extraction.PDFTimeout),
		extractor:  extract.NewExtractor(cfg.Extraction.MinText),
		parser:     extract.NewParser(),
		engine:     d.Engine,
		estimates:  d.Estimates,
		formatter:  notify.NewFormatter(),
		telegram:   d.Telegram,
		publisher:  d.Publisher,
		alerts:     d.Alerts,
		health:     d.Health,
	}

	for _, f := range o.fetchers {
		o.health.Register(f.Name())
	}
	return o
}

// Run 运行轮询循环直到ctx取消
// 正在处理的公告做完再退出，轮间休眠可被取消打断
func (o *Orchestrator) Run(ctx context.Context) {
	log.Printf("监控启动: %d个来源, 轮询间隔%v", len(o.fetchers), o.cfg.Monitoring.PollInterval)

	for {
		if err := o.runCycle(ctx); err != nil {
			log.Printf("本轮处理中止: %v", err)
		}

		select {
		case <-ctx.Done():
			log.Println("监控退出")
			return
		case <-time.After(o.cfg.Monitoring.PollInterval):
		}
	}
}

// runCycle 单轮: 并发抓取 + 串行处理
// 只有去重存储不可用才中止整轮，其余错误都只影响单条
func (o *Orchestrator) runCycle(ctx context.Context) error {
	o.syncWatchlist(ctx)

	anns := o.fetchAll(ctx)
	o.publishHealth(ctx)
	if len(anns) == 0 {
		return nil
	}

	log.Printf("本轮抓取到%d条公告", len(anns))
	for i := range anns {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := o.process(ctx, &anns[i]); err != nil {
			if errors.Is(err, dedup.ErrStoreUnavailable) {
				// 去重失效时继续处理会导致重复提醒，宁可整轮丢弃
				return err
			}
			log.Printf("处理%s公告失败: %v", anns[i].Symbol, err)
		}
	}
	return nil
}

// syncWatchlist 合并API进程写入的共享自选清单，读不到沿用上一轮的
func (o *Orchestrator) syncWatchlist(ctx context.Context) {
	members, err := o.store.SetMembers(ctx, dedup.KeyWatchlist)
	if err != nil {
		log.Printf("读取共享自选清单失败: %v", err)
		return
	}
	o.stocks.SyncWatchlist(members)
}

// publishHealth 把来源健康快照写入共享存储，API进程读取展示
func (o *Orchestrator) publishHealth(ctx context.Context) {
	data, err := json.Marshal(o.health.All())
	if err != nil {
		return
	}
	if err := o.store.SetValue(ctx, dedup.KeySourceHealth, string(data), time.Hour); err != nil {
		log.Printf("写入健康快照失败: %v", err)
	}
}

// fetchAll 并发抓取全部来源，单个来源失败不影响其他来源
func (o *Orchestrator) fetchAll(ctx context.Context) []model.Announcement {
	var (
		mu  sync.Mutex
		all []model.Announcement
		wg  sync.WaitGroup
	)

	for _, f := range o.fetchers {
		wg.Add(1)
		go func(f source.Fetcher) {
			defer wg.Done()

			anns, err := f.Fetch(ctx)
			if err != nil {
				log.Printf("来源%s抓取失败: %v", f.Name(), err)
				o.health.RecordFailure(f.Name(), err)
				return
			}

			o.health.RecordSuccess(f.Name(), len(anns))
			mu.Lock()
			all = append(all, anns...)
			mu.Unlock()
		}(f)
	}
	wg.Wait()
	return all
}

// process 单条公告管道: 过滤→分类→去重→提取→解析→分析→格式化→投递
func (o *Orchestrator) process(ctx context.Context, ann *model.Announcement) error {
	if !ann.Actionable() {
		return nil
	}
	if !o.stocks.ShouldProcess(ann.Symbol, ann.Source) {
		return nil
	}

	category, _ := o.classifier.Classify(ann.Description, ann.AttachmentText, ann.Source)
	ann.Category = category
	if !classify.ShouldProcess(category) {
		return nil
	}
	if !passesRelevance(category, ann.Description) {
		return nil
	}

	key := dedup.BuildKey(ann)
	seen, err := o.store.Exists(ctx, key)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	msg := o.buildAlert(ctx, ann)
	text := o.formatter.Format(msg)

	// 先落去重键再投递，投递失败也不重发，避免风控场景下刷屏
	if err := o.store.SetWithTTL(ctx, key, o.cfg.Redis.DedupTTL); err != nil {
		return err
	}

	record := o.persist(ctx, ann, msg, text)

	if o.publisher != nil {
		if err := o.publisher.PublishAlert(msg); err != nil {
			log.Printf("发布%s事件失败: %v", ann.Symbol, err)
		}
	}

	if err := o.telegram.Send(ctx, msg, text); err != nil {
		return fmt.Errorf("投递%s提醒失败: %w", ann.Symbol, err)
	}

	if record != nil && o.alerts != nil {
		if err := o.alerts.MarkDelivered(ctx, record.ID); err != nil {
			log.Printf("更新%s投递状态失败: %v", ann.Symbol, err)
		}
	}

	log.Printf("已提醒 %s [%s] 情绪=%s 耗时=%v",
		ann.Symbol, category, msg.Analysis.Sentiment, msg.Detection)
	return nil
}

// passesRelevance 分类后的内容过滤，排除优先
func passesRelevance(category model.Category, description string) bool {
	switch category {
	case model.CategoryQuarterlyResult:
		return filter.IsSubstantiveResult(description)
	case model.CategoryNewsArticle:
		return filter.IsRelevantNews(description)
	case model.CategoryCorporateAction:
		return filter.IsMajorCorporateAction(description)
	default:
		return true
	}
}

// buildAlert 组装提醒消息，财报类走完整提取分析，其余只带原文
func (o *Orchestrator) buildAlert(ctx context.Context, ann *model.Announcement) *model.AlertMessage {
	msg := &model.AlertMessage{
		Symbol:      ann.Symbol,
		Category:    ann.Category,
		Description: ann.Description,
		DocumentURL: ann.AttachmentURL,
		Source:      ann.Source,
	}

	if ann.Category == model.CategoryNewsArticle {
		insight := news.Analyze(ann.Description, ann.AttachmentText)
		msg.News = &insight
	}

	if ann.Category == model.CategoryQuarterlyResult {
		text, method, err := o.obtainText(ctx, ann)
		if err != nil {
			log.Printf("提取%s文本失败: %v", ann.Symbol, err)
			msg.ExtractionFailed = true
			o.queueFailedExtraction(ctx, ann)
		} else {
			metrics := o.parser.Parse(text, method)
			metrics.Symbol = ann.Symbol
			msg.Metrics = metrics

			var est *model.AnalystEstimates
			if o.estimates != nil {
				est = o.estimates.Lookup(ctx, ann.Symbol, metrics.Quarter, metrics.FiscalYear)
			}
			msg.Analysis = *o.engine.Analyze(&metrics, est)
		}
	}

	msg.Detection = time.Since(ann.ObservedAt)
	return msg
}

// queueFailedExtraction 提取失败的公告进入重查队列，人工或脚本事后排查
func (o *Orchestrator) queueFailedExtraction(ctx context.Context, ann *model.Announcement) {
	data, err := json.Marshal(ann)
	if err != nil {
		return
	}
	if err := o.store.Push(ctx, dedup.QueueFailedExtraction, data); err != nil {
		log.Printf("写入%s重查队列失败: %v", ann.Symbol, err)
	}
}

// obtainText 取正文: RSS自带文本直接用，交易所公告下载PDF提取
func (o *Orchestrator) obtainText(ctx context.Context, ann *model.Announcement) (string, string, error) {
	if ann.AttachmentText != "" && len(ann.AttachmentText) > o.cfg.Extraction.MinText {
		return ann.AttachmentText, "rss_text", nil
	}
	if ann.Source.IsFeed() {
		return ann.Description, "rss_text", nil
	}

	if ann.AttachmentURL == "" {
		return "", "", extract.ErrNoText
	}

	path, err := o.downloader.Download(ctx, ann.AttachmentURL, ann.Symbol)
	if err != nil {
		return "", "", err
	}
	defer os.Remove(path)

	return o.extractor.Extract(path, ann.Symbol)
}

// persist 保存提醒记录，失败只记日志
func (o *Orchestrator) persist(ctx context.Context, ann *model.Announcement, msg *model.AlertMessage, text string) *model.AlertRecord {
	if o.alerts == nil {
		return nil
	}

	record := &model.AlertRecord{
		Symbol:          ann.Symbol,
		CompanyName:     msg.CompanyName,
		Category:        ann.Category,
		Sentiment:       msg.Analysis.Sentiment,
		SentimentScore:  msg.Analysis.SentimentScore,
		ConfidenceScore: msg.Metrics.ConfidenceScore,
		Quarter:         msg.Metrics.Quarter,
		FiscalYear:      msg.Metrics.FiscalYear,
		Message:         text,
		DocumentURL:     ann.AttachmentURL,
		Source:          ann.Source,
		DetectionMs:     msg.Detection.Milliseconds(),
	}

	if err := o.alerts.Save(ctx, record); err != nil {
		log.Printf("保存%s提醒记录失败: %v", ann.Symbol, err)
		return nil
	}
	return record
}
