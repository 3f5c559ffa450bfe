package main

import (
	"log"
	"os"

	"ResultRadar/pkg/api"
	"ResultRadar/pkg/config"
	"ResultRadar/pkg/database"
	"ResultRadar/pkg/dedup"
	"ResultRadar/pkg/filter"
)

func main() {
	log.Println("启动API服务...")

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v\n", err)
	}

	// 初始化数据库
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v\n", err)
	}

	// 共享状态存储，自选清单和健康快照都由监控进程消费
	store, err := dedup.NewStore(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("连接Redis失败: %v\n", err)
	}
	defer store.Close()

	handlers := api.NewHandlers(
		database.NewAlertRepo(db),
		filter.NewStockFilter(cfg),
		store,
	)

	server := api.NewServer(cfg.API.Port)
	server.SetupRoutes(handlers)
	server.Start()
}
