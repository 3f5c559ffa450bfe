package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ResultRadar/pkg/model"
)

func newTestTelegram(srv *httptest.Server) *Telegram {
	tg := NewTelegram("test-token", "@channel")
	tg.baseURL = srv.URL
	tg.client = srv.Client()
	return tg
}

func TestTelegramSend(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "@channel", payload["chat_id"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":42}}`))
	}))
	defer srv.Close()

	tg := newTestTelegram(srv)
	msg := &model.AlertMessage{
		Symbol:   "TCS",
		Analysis: model.AnalysisResult{Sentiment: model.SentimentInline},
	}

	err := tg.Send(context.Background(), msg, "test message")
	require.NoError(t, err)

	// 普通情绪不置顶
	assert.Equal(t, []string{"/bottest-token/sendMessage"}, calls)
}

func TestTelegramPinsExtremeSentiment(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":42}}`))
	}))
	defer srv.Close()

	tg := newTestTelegram(srv)
	msg := &model.AlertMessage{
		Symbol:   "TCS",
		Analysis: model.AnalysisResult{Sentiment: model.SentimentStrongBeat},
	}

	require.NoError(t, tg.Send(context.Background(), msg, "test message"))
	assert.Equal(t, []string{"/bottest-token/sendMessage", "/bottest-token/pinChatMessage"}, calls)
}

func TestTelegramAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	tg := newTestTelegram(srv)
	msg := &model.AlertMessage{Symbol: "TCS"}

	err := tg.Send(context.Background(), msg, "test message")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeliveryFailed))
	assert.Contains(t, err.Error(), "chat not found")
}

func TestBuildButtons(t *testing.T) {
	msg := &model.AlertMessage{Symbol: "HIKAL", DocumentURL: "https://example.com/a.pdf"}

	buttons := buildButtons(msg)
	require.Len(t, buttons, 3)
	assert.Contains(t, buttons[0].URL, "NSE:HIKAL")
	assert.Contains(t, buttons[1].URL, "screener.in/company/HIKAL")
	assert.Equal(t, "https://example.com/a.pdf", buttons[2].URL)

	// 无附件时不显示PDF按钮
	buttons = buildButtons(&model.AlertMessage{Symbol: "HIKAL"})
	assert.Len(t, buttons, 2)
}
