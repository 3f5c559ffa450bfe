package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ResultRadar/pkg/config"
	"ResultRadar/pkg/model"
)

type staticResolver struct {
	table map[string]string
}

func (r *staticResolver) Resolve(_ context.Context, name string) string {
	return r.table[strings.ToLower(name)]
}

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Results</title>
<item>
<title>Hikal Q3 net profit rises 7% to Rs 12 crore</title>
<link>https://www.moneycontrol.com/news/hikal-q3/?utm=rss</link>
<description><![CDATA[<p>Quarterly numbers beat street estimates.</p>]]></description>
<pubDate>Thu, 25 Jan 2024 16:05:00 +0530</pubDate>
</item>
<item>
<title>Unknown Corp Q3 results declared</title>
<link>https://www.moneycontrol.com/news/unknown-q3</link>
<description>no symbol for this one</description>
<pubDate>Thu, 25 Jan 2024 16:10:00 +0530</pubDate>
</item>
<item>
<title>Weather update for Mumbai</title>
<link>https://www.moneycontrol.com/news/weather</link>
<description>not a results item</description>
<pubDate>Thu, 25 Jan 2024 16:15:00 +0530</pubDate>
</item>
</channel>
</rss>`

func TestRSSFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	resolver := &staticResolver{table: map[string]string{"hikal": "HIKAL"}}
	f := NewRSSFetcher(config.SourceConfig{
		Name:    "moneycontrol_rss",
		URL:     srv.URL,
		Timeout: 5 * time.Second,
	}, model.SourceMoneycontrolRSS, resolver)

	anns, err := f.Fetch(context.Background())
	require.NoError(t, err)

	// 解析不出代码的条目和非业绩标题被丢弃
	require.Len(t, anns, 1)
	assert.Equal(t, "HIKAL", anns[0].Symbol)
	assert.Equal(t, model.SourceMoneycontrolRSS, anns[0].Source)
	assert.Contains(t, anns[0].Description, "Hikal Q3 net profit rises 7%")
	assert.NotContains(t, anns[0].Description, "<p>")
	assert.Equal(t, "https://www.moneycontrol.com/news/hikal-q3/?utm=rss", anns[0].AttachmentURL)
}

func TestRSSFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewRSSFetcher(config.SourceConfig{
		Name:    "moneycontrol_rss",
		URL:     srv.URL,
		Timeout: 5 * time.Second,
	}, model.SourceMoneycontrolRSS, nil)

	_, err := f.Fetch(context.Background())
	assert.Error(t, err)
}

func TestSymbolFromTitle(t *testing.T) {
	resolver := &staticResolver{table: map[string]string{
		"hikal":      "HIKAL",
		"tata steel": "TATASTEEL",
	}}
	f := NewRSSFetcher(config.SourceConfig{Name: "moneycontrol_rss"}, model.SourceMoneycontrolRSS, resolver)

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "company before quarter token",
			title: "Hikal Q3 net profit rises",
			want:  "HIKAL",
		},
		{
			name:  "possessive form",
			title: "Tata Steel's quarterly results beat estimates",
			want:  "TATASTEEL",
		},
		{
			name:  "unknown company",
			title: "Somebody Else Q3 results declared",
			want:  "",
		},
		{
			name:  "no results wording",
			title: "Weather update for Mumbai",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.symbolFromTitle(context.Background(), tt.title))
		})
	}
}
