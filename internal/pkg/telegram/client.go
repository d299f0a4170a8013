package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/TuanPhamVN/CloudSentry/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.telegram.org"

// Client posts messages through the Telegram Bot API. One bot token serves
// all recipients; each recipient is addressed by their chat ID. Telegram has
// no attachment colors, so the severity tier is carried by the message text
// alone.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewClient creates a Telegram client from TELEGRAM_BOT_TOKEN and an
// optional TELEGRAM_API_BASE_URL override.
func NewClient() *Client {
	return &Client{
		BaseURL: env.GetEnv("TELEGRAM_API_BASE_URL", defaultAPIBaseURL),
		Token:   env.GetEnv("TELEGRAM_BOT_TOKEN", ""),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send posts one Markdown message to a chat. Delivery failures are logged and
// reported as false; they never cross the boundary as errors so one recipient
// cannot break another's delivery.
func (c *Client) Send(ctx context.Context, chatID, title, body string) bool {
	if c.Token == "" {
		log.Errorf("[Telegram] No bot token configured; dropping message for chat %s", chatID)
		return false
	}

	payload := sendMessageRequest{
		ChatID:    chatID,
		Text:      fmt.Sprintf("*%s*\n\n%s", title, body),
		ParseMode: "Markdown",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("[Telegram] Failed to encode message for chat %s: %v", chatID, err)
		return false
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.BaseURL, c.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		log.Errorf("[Telegram] Failed to build request for chat %s: %v", chatID, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Errorf("[Telegram] Delivery to chat %s failed: %v", chatID, err)
		return false
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Errorf("[Telegram] Unreadable response for chat %s: %v", chatID, err)
		return false
	}
	if resp.StatusCode != http.StatusOK || !result.OK {
		log.Errorf("[Telegram] Delivery to chat %s refused: HTTP %d %s", chatID, resp.StatusCode, result.Description)
		return false
	}

	return true
}
