// pkg/api/server.go
package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// Server API服务器
type Server struct {
	router *gin.Engine
	srv    *http.Server
}

// NewServer 创建API服务器
func NewServer(port string) *Server {
	router := gin.Default()

	router.Use(gin.Recovery())

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	return &Server{
		router: router,
		srv:    srv,
	}
}

// SetupRoutes 设置路由
func (s *Server) SetupRoutes(handlers *Handlers) {
	// 健康检查
	s.router.GET("/health", handlers.HealthCheck)
	s.router.GET("/ready", handlers.ReadinessCheck)

	// API v1 路由组
	v1 := s.router.Group("/api/v1")
	{
		// 提醒历史
		v1.GET("/alerts", handlers.RecentAlerts)
		v1.GET("/alerts/:symbol", handlers.AlertsBySymbol)

		// 来源健康状态
		v1.GET("/sources", handlers.SourceStatus)

		// 自选股管理
		v1.GET("/watchlist", handlers.GetWatchlist)
		v1.POST("/watchlist", handlers.AddWatchlist)
		v1.DELETE("/watchlist/:symbol", handlers.RemoveWatchlist)
	}
}

// Start 启动服务器并阻塞等待退出信号
func (s *Server) Start() {
	go func() {
		log.Printf("API服务器启动在 %s\n", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务器失败: %v\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器关闭失败: %v\n", err)
	}

	log.Println("服务器已关闭")
}
