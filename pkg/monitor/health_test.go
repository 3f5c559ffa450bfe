package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ResultRadar/pkg/model"
)

func TestHealthFailureEscalation(t *testing.T) {
	var alerts []string
	h := NewHealth(func(source, status, message string) {
		alerts = append(alerts, source+":"+status)
	})
	h.Register("nse_api")

	err := errors.New("connection refused")
	h.RecordFailure("nse_api", err)
	assert.Equal(t, "degraded", h.Get("nse_api").Status)
	assert.Empty(t, alerts)

	h.RecordFailure("nse_api", err)
	h.RecordFailure("nse_api", err)
	assert.Equal(t, "down", h.Get("nse_api").Status)
	assert.Equal(t, []string{"nse_api:down"}, alerts)

	// 恢复后清空失败计数并告警恢复
	h.RecordSuccess("nse_api", 10)
	s := h.Get("nse_api")
	assert.Equal(t, "healthy", s.Status)
	assert.Equal(t, 0, s.FailStreak)
	assert.Equal(t, int64(10), s.FetchedTotal)
	assert.Equal(t, []string{"nse_api:down", "nse_api:healthy"}, alerts)
}

func TestHealthStale(t *testing.T) {
	h := NewHealth(nil)
	h.Register("bse_api")
	h.Register("nse_api")

	h.RecordSuccess("nse_api", 5)

	stale := h.Stale(time.Minute)
	require.Len(t, stale, 1)
	assert.Equal(t, "bse_api", stale[0].Source)
}

func TestHealthGetReturnsCopy(t *testing.T) {
	h := NewHealth(nil)
	h.Register("nse_api")

	s := h.Get("nse_api")
	s.Status = "tampered"
	assert.Equal(t, "unknown", h.Get("nse_api").Status)

	assert.Nil(t, h.Get("missing"))
}

func TestPassesRelevance(t *testing.T) {
	tests := []struct {
		name        string
		category    model.Category
		description string
		want        bool
	}{
		{
			name:        "substantive result passes",
			category:    model.CategoryQuarterlyResult,
			description: "Unaudited Financial Results for Q3 FY24",
			want:        true,
		},
		{
			name:        "newspaper notice rejected",
			category:    model.CategoryQuarterlyResult,
			description: "Newspaper publication of financial results",
			want:        false,
		},
		{
			name:        "movement headline passes as news",
			category:    model.CategoryNewsArticle,
			description: "Hikal stock surges after results",
			want:        true,
		},
		{
			name:        "dull headline rejected as news",
			category:    model.CategoryNewsArticle,
			description: "Board meets officials in Mumbai",
			want:        false,
		},
		{
			name:        "buyback passes as corporate action",
			category:    model.CategoryCorporateAction,
			description: "Board approves buyback of shares",
			want:        true,
		},
		{
			name:        "earnings call always passes",
			category:    model.CategoryEarningsCall,
			description: "Transcript of the call",
			want:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, passesRelevance(tt.category, tt.description))
		})
	}
}
