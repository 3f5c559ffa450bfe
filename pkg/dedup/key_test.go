package dedup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ResultRadar/pkg/model"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "scheme forced to https",
			raw:  "http://www.moneycontrol.com/news/article",
			want: "https://www.moneycontrol.com/news/article",
		},
		{
			name: "query stripped",
			raw:  "https://www.moneycontrol.com/news/article?utm_source=rss&ref=home",
			want: "https://www.moneycontrol.com/news/article",
		},
		{
			name: "fragment stripped",
			raw:  "https://www.moneycontrol.com/news/article#section-2",
			want: "https://www.moneycontrol.com/news/article",
		},
		{
			name: "trailing slash stripped",
			raw:  "https://www.moneycontrol.com/news/article/",
			want: "https://www.moneycontrol.com/news/article",
		},
		{
			name: "all at once",
			raw:  "http://www.moneycontrol.com/news/article/?utm=rss#top",
			want: "https://www.moneycontrol.com/news/article",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.raw))
		})
	}
}

func TestBuildKeyFeedBranch(t *testing.T) {
	ann := &model.Announcement{
		Source:        model.SourceMoneycontrolRSS,
		Symbol:        "HIKAL",
		Description:   "Hikal rebounds after Q3 results",
		AttachmentURL: "http://www.moneycontrol.com/news/hikal-q3/?utm=rss",
	}

	key := BuildKey(ann)
	assert.True(t, strings.HasPrefix(key, "processed:rss:"))
	assert.Len(t, key, len("processed:rss:")+16)

	// 同一篇文章换个跟踪参数必须得到同一个键
	variant := *ann
	variant.AttachmentURL = "https://www.moneycontrol.com/news/hikal-q3#body"
	variant.Description = "Hikal shares rebound on strong results"
	assert.Equal(t, key, BuildKey(&variant))
}

func TestBuildKeyExchangeBranch(t *testing.T) {
	ann := &model.Announcement{
		Source:      model.SourceNSE,
		Symbol:      "TCS",
		Description: "Unaudited Financial Results for Q3 FY24",
	}

	key := BuildKey(ann)
	assert.True(t, strings.HasPrefix(key, "processed:TCS:"))
	assert.Len(t, key, len("processed:TCS:")+12)

	// 同一天的第二条公告必须产生不同的键
	second := *ann
	second.Description = "Investor presentation for Q3 FY24"
	assert.NotEqual(t, key, BuildKey(&second))

	// 键派生是确定性的
	assert.Equal(t, key, BuildKey(ann))
}

func TestBuildKeyFeedWithoutURLFallsBack(t *testing.T) {
	ann := &model.Announcement{
		Source:      model.SourceEconomicTimesRSS,
		Symbol:      "NBCC",
		Description: "NBCC bags order worth Rs 369 crore",
	}

	key := BuildKey(ann)
	assert.True(t, strings.HasPrefix(key, "processed:NBCC:"))
}
