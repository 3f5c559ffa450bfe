package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentPeriod(t *testing.T) {
	tests := []struct {
		name        string
		now         time.Time
		wantQuarter int
		wantFY      int
	}{
		{name: "april starts Q1", now: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), wantQuarter: 1, wantFY: 2024},
		{name: "june is Q1", now: time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), wantQuarter: 1, wantFY: 2024},
		{name: "july starts Q2", now: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), wantQuarter: 2, wantFY: 2024},
		{name: "december is Q3", now: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), wantQuarter: 3, wantFY: 2024},
		{name: "january rolls to Q4 of prior FY", now: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), wantQuarter: 4, wantFY: 2024},
		{name: "march is Q4", now: time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), wantQuarter: 4, wantFY: 2024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quarter, fy := currentPeriod(tt.now)
			assert.Equal(t, tt.wantQuarter, quarter)
			assert.Equal(t, tt.wantFY, fy)
		})
	}
}
