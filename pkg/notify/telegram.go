// pkg/notify/telegram.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"ResultRadar/pkg/model"
)

// ErrDeliveryFailed 消息投递失败
// 投递失败不重试，下一轮由去重键兜底防止重复提醒
var ErrDeliveryFailed = errors.New("Telegram消息投递失败")

// Telegram Bot API客户端
type Telegram struct {
	token   string
	chatID  string
	client  *http.Client
	baseURL string
}

// NewTelegram 创建Telegram通知器
func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.telegram.org",
	}
}

// inlineButton Telegram内联按钮
type inlineButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
	ReplyMarkup           *struct {
		InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
	} `json:"reply_markup,omitempty"`
}

type sendMessageResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
	Description string `json:"description"`
}

// Send 投递消息，极端情绪的消息置顶
func (t *Telegram) Send(ctx context.Context, msg *model.AlertMessage, text string) error {
	req := sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	}

	buttons := buildButtons(msg)
	if len(buttons) > 0 {
		req.ReplyMarkup = &struct {
			InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
		}{InlineKeyboard: [][]inlineButton{buttons}}
	}

	resp, err := t.call(ctx, "sendMessage", req)
	if err != nil {
		return err
	}

	// 大超预期/大不及预期置顶，置顶失败只记日志
	s := msg.Analysis.Sentiment
	if s == model.SentimentStrongBeat || s == model.SentimentMajorMiss {
		if err := t.pin(ctx, resp.Result.MessageID); err != nil {
			log.Printf("置顶%s消息失败: %v", msg.Symbol, err)
		}
	}
	return nil
}

func buildButtons(msg *model.AlertMessage) []inlineButton {
	buttons := []inlineButton{
		{Text: "📈 Chart", URL: fmt.Sprintf("https://www.tradingview.com/chart/?symbol=NSE:%s", msg.Symbol)},
		{Text: "🔍 Screener", URL: fmt.Sprintf("https://www.screener.in/company/%s/", msg.Symbol)},
	}
	if msg.DocumentURL != "" {
		buttons = append(buttons, inlineButton{Text: "📄 PDF", URL: msg.DocumentURL})
	}
	return buttons
}

func (t *Telegram) pin(ctx context.Context, messageID int64) error {
	_, err := t.call(ctx, "pinChatMessage", map[string]any{
		"chat_id":              t.chatID,
		"message_id":           messageID,
		"disable_notification": true,
	})
	return err
}

func (t *Telegram) call(ctx context.Context, method string, payload any) (*sendMessageResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化%s请求失败: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构造%s请求失败: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取响应失败: %v", ErrDeliveryFailed, err)
	}

	var resp sendMessageResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: 解析响应失败: %v", ErrDeliveryFailed, err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("%w: %s", ErrDeliveryFailed, resp.Description)
	}
	return &resp, nil
}
