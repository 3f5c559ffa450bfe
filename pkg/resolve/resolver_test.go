package resolve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveKnownAliases(t *testing.T) {
	// 别名命中不允许走到搜索接口
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("不应发起搜索请求: %s", r.URL.RawQuery)
		w.Write([]byte(`{"symbols":[]}`))
	}))
	defer srv.Close()

	r := NewResolver()
	r.searchURL = srv.URL + "/?q="

	tests := []struct {
		name string
		want string
	}{
		{name: "Infosys", want: "INFY"},
		{name: "infosys ltd", want: "INFY"},
		{name: "Tata Consultancy Limited", want: "TCS"},
		{name: "State Bank of India", want: "SBIN"},
		{name: "L&T", want: "LT"},
		{name: "HUL", want: "HINDUNILVR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(context.Background(), tt.name))
		})
	}
}

func TestResolveFallsBackToSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "q=")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbols":[{"symbol":"KPITTECH","result_sub_type":"equity"}]}`))
	}))
	defer srv.Close()

	r := NewResolver()
	r.searchURL = srv.URL + "/?q="

	assert.Equal(t, "KPITTECH", r.Resolve(context.Background(), "KPIT Technologies"))
}

func TestResolveCachesNegativeResults(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbols":[]}`))
	}))
	defer srv.Close()

	r := NewResolver()
	r.searchURL = srv.URL + "/?q="

	assert.Equal(t, "", r.Resolve(context.Background(), "No Such Company"))
	assert.Equal(t, "", r.Resolve(context.Background(), "No Such Company"))
	assert.Equal(t, 1, hits)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "hikal", normalizeName("  Hikal Ltd. "))
	assert.Equal(t, "tata steel", normalizeName("Tata Steel Limited"))
	assert.Equal(t, "", normalizeName("   "))
}
