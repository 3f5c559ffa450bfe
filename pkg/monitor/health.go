// pkg/monitor/health.go
package monitor

import (
	"sync"
	"time"
)

// SourceHealth 单个数据来源的健康状态
type SourceHealth struct {
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	LastSuccess  time.Time `json:"last_success"`
	LastChecked  time.Time `json:"last_checked"`
	FailStreak   int       `json:"fail_streak"`
	LastError    string    `json:"last_error,omitempty"`
	FetchedTotal int64     `json:"fetched_total"`
}

// Health 来源健康登记表
// 连续失败超过阈值时降级，由告警回调通知运维频道
type Health struct {
	sources   map[string]*SourceHealth
	mutex     sync.RWMutex
	alertFunc func(source, status, message string)

	// 连续失败达到该次数视为down
	failThreshold int
}

// NewHealth 创建健康登记表
func NewHealth(alertFunc func(source, status, message string)) *Health {
	return &Health{
		sources:       make(map[string]*SourceHealth),
		alertFunc:     alertFunc,
		failThreshold: 3,
	}
}

// Register 注册来源
func (h *Health) Register(source string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.sources[source] = &SourceHealth{
		Source:      source,
		Status:      "unknown",
		LastChecked: time.Now(),
	}
}

// RecordSuccess 记录一次成功抓取
func (h *Health) RecordSuccess(source string, fetched int) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	s := h.ensure(source)
	old := s.Status
	s.Status = "healthy"
	s.LastSuccess = time.Now()
	s.LastChecked = s.LastSuccess
	s.FailStreak = 0
	s.LastError = ""
	s.FetchedTotal += int64(fetched)

	if old != "healthy" && old != "unknown" && h.alertFunc != nil {
		h.alertFunc(source, "healthy", "数据来源恢复")
	}
}

// RecordFailure 记录一次抓取失败
func (h *Health) RecordFailure(source string, err error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	s := h.ensure(source)
	old := s.Status
	s.LastChecked = time.Now()
	s.FailStreak++
	s.LastError = err.Error()

	if s.FailStreak >= h.failThreshold {
		s.Status = "down"
	} else {
		s.Status = "degraded"
	}

	if old != s.Status && s.Status == "down" && h.alertFunc != nil {
		h.alertFunc(source, s.Status, s.LastError)
	}
}

func (h *Health) ensure(source string) *SourceHealth {
	if s, exists := h.sources[source]; exists {
		return s
	}
	s := &SourceHealth{Source: source}
	h.sources[source] = s
	return s
}

// Get 获取单个来源状态
func (h *Health) Get(source string) *SourceHealth {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if s, exists := h.sources[source]; exists {
		copied := *s
		return &copied
	}
	return nil
}

// All 获取全部来源状态
func (h *Health) All() []*SourceHealth {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	statuses := make([]*SourceHealth, 0, len(h.sources))
	for _, s := range h.sources {
		copied := *s
		statuses = append(statuses, &copied)
	}
	return statuses
}

// Stale 返回超过maxAge没有成功过的来源，巡检任务用
func (h *Health) Stale(maxAge time.Duration) []*SourceHealth {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	var stale []*SourceHealth
	cutoff := time.Now().Add(-maxAge)
	for _, s := range h.sources {
		if s.LastSuccess.Before(cutoff) {
			copied := *s
			stale = append(stale, &copied)
		}
	}
	return stale
}
