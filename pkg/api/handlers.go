// pkg/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ResultRadar/pkg/database"
	"ResultRadar/pkg/dedup"
	"ResultRadar/pkg/filter"
	"ResultRadar/pkg/monitor"
)

// SharedState 监控进程与API进程之间的共享状态，生产实现为*dedup.Store
// 自选清单和健康快照都走这里，API进程的改动对监控进程下一轮生效
type SharedState interface {
	AddToSet(ctx context.Context, key, member string) error
	RemoveFromSet(ctx context.Context, key, member string) error
	SetMembers(ctx context.Context, key string) ([]string, error)
	Get(ctx context.Context, key string) (string, error)
}

// Handlers API处理程序
type Handlers struct {
	alerts *database.AlertRepo
	stocks *filter.StockFilter
	state  SharedState
}

// NewHandlers 创建API处理程序
func NewHandlers(alerts *database.AlertRepo, stocks *filter.StockFilter, state SharedState) *Handlers {
	return &Handlers{
		alerts: alerts,
		stocks: stocks,
		state:  state,
	}
}

// HealthCheck 健康检查处理程序
func (h *Handlers) HealthCheck(c *gin.Context) {
	alerts24h, err := h.alerts.CountSince(c.Request.Context(), time.Now().Add(-24*time.Hour))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status": "degraded",
			"error":  "查询提醒统计失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"alerts_24h": alerts24h,
	})
}

// ReadinessCheck 就绪检查处理程序
func (h *Handlers) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// RecentAlerts 最近提醒列表
func (h *Handlers) RecentAlerts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.alerts.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查询提醒记录失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": records,
	})
}

// AlertsBySymbol 按代码查询提醒
func (h *Handlers) AlertsBySymbol(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "symbol参数不能为空",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := h.alerts.BySymbol(c.Request.Context(), symbol, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查询提醒记录失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": records,
	})
}

// SourceStatus 来源健康状态，读监控进程写入的快照
func (h *Handlers) SourceStatus(c *gin.Context) {
	raw, err := h.state.Get(c.Request.Context(), dedup.KeySourceHealth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "读取健康快照失败: " + err.Error(),
		})
		return
	}

	sources := []monitor.SourceHealth{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &sources); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "解析健康快照失败: " + err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": sources,
	})
}

// GetWatchlist 获取自选股，配置清单和共享清单的并集
func (h *Handlers) GetWatchlist(c *gin.Context) {
	shared, err := h.state.SetMembers(c.Request.Context(), dedup.KeyWatchlist)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "读取自选清单失败: " + err.Error(),
		})
		return
	}

	seen := make(map[string]bool)
	merged := []string{}
	for _, s := range append(h.stocks.Watchlist(), shared...) {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			merged = append(merged, s)
		}
	}
	sort.Strings(merged)

	c.JSON(http.StatusOK, gin.H{
		"data": merged,
	})
}

// WatchlistRequest 自选股请求
type WatchlistRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// AddWatchlist 添加自选股
func (h *Handlers) AddWatchlist(c *gin.Context) {
	var req WatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := h.state.AddToSet(c.Request.Context(), dedup.KeyWatchlist, symbol); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "写入自选清单失败: " + err.Error(),
		})
		return
	}

	// 共享清单是事实来源，本地过滤器同步更新只为本进程立即可见
	h.stocks.AddToWatchlist(symbol)
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}

// RemoveWatchlist 移除自选股
func (h *Handlers) RemoveWatchlist(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "symbol参数不能为空",
		})
		return
	}

	symbol = strings.ToUpper(symbol)
	if err := h.state.RemoveFromSet(c.Request.Context(), dedup.KeyWatchlist, symbol); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "移除自选清单失败: " + err.Error(),
		})
		return
	}

	h.stocks.RemoveFromWatchlist(symbol)
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}
