package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ResultRadar/pkg/analysis"
	"ResultRadar/pkg/config"
	"ResultRadar/pkg/database"
	"ResultRadar/pkg/dedup"
	"ResultRadar/pkg/filter"
	"ResultRadar/pkg/messaging"
	"ResultRadar/pkg/monitor"
	"ResultRadar/pkg/notify"
	"ResultRadar/pkg/resolve"
	"ResultRadar/pkg/scheduler"
	"ResultRadar/pkg/source"
)

func main() {
	log.Println("启动公告监控服务...")

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v\n", err)
	}

	// 去重存储是硬依赖，连不上直接退出
	store, err := dedup.NewStore(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("连接Redis失败: %v\n", err)
	}
	defer store.Close()

	// 数据库可选，连不上降级为不落库
	var alerts monitor.AlertSink
	var estimates *analysis.EstimateProvider
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Printf("数据库不可用, 提醒记录不落库: %v", err)
		estimates = analysis.NewEstimateProvider(store, nil)
	} else {
		alerts = database.NewAlertRepo(db)
		estimates = analysis.NewEstimateProvider(store, db)
	}

	// NATS可选，连不上只投递Telegram
	var publisher *messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = messaging.NewPublisher(cfg)
		if err != nil {
			log.Printf("NATS不可用, 事件发布已禁用: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	telegram := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChannelID)
	health := monitor.NewHealth(func(src, status, message string) {
		log.Printf("来源%s状态变更为%s: %s", src, status, message)
	})

	resolver := resolve.NewResolver()
	fetchers := source.Build(cfg, resolver)
	if len(fetchers) == 0 {
		log.Fatalln("没有可用的数据来源")
	}

	stocks := filter.NewStockFilter(cfg)
	orch := monitor.NewOrchestrator(cfg, monitor.Deps{
		Fetchers:  fetchers,
		Stocks:    stocks,
		Store:     store,
		Engine:    analysis.NewEngine(cfg),
		Estimates: estimates,
		Telegram:  telegram,
		Publisher: publisher,
		Alerts:    alerts,
		Health:    health,
	})

	// 定时巡检
	sched := scheduler.NewScheduler(health, store, estimates, stocks)
	sched.Start()
	defer sched.Stop()

	// 主循环，收到信号后取消
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("正在关闭公告监控服务...")
		cancel()
	}()

	orch.Run(ctx)
}
