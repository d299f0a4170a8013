package rocketchat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/TuanPhamVN/CloudSentry/internal/pkg/env"
)

// Attachment colors understood by RocketChat.
const (
	ColorGood    = "good"
	ColorWarning = "warning"
	ColorDanger  = "danger"
)

const postMessagePath = "/api/v1/chat.postMessage"

// Client posts messages to a RocketChat server. Auth is per-recipient: the
// token and user ID come from each notify config, not from the client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

type attachment struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Color string `json:"color"`
	TS    string `json:"ts"`
}

type postMessageRequest struct {
	RoomID      string       `json:"roomId"`
	Attachments []attachment `json:"attachments"`
}

type postMessageResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewClient creates a RocketChat client from ROCKETCHAT_BASE_URL.
func NewClient() *Client {
	return &Client{
		BaseURL: env.GetEnv("ROCKETCHAT_BASE_URL", "https://rocket.int.team"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send posts one attachment-style message to a room using the recipient's own
// credentials. Delivery failures are logged and reported as false; they never
// cross the boundary as errors so one recipient cannot break another's
// delivery.
func (c *Client) Send(ctx context.Context, authToken, userID, roomID, title, body, color string) bool {
	payload := postMessageRequest{
		RoomID: roomID,
		Attachments: []attachment{{
			Title: title,
			Text:  body,
			Color: color,
			TS:    time.Now().Format(time.RFC3339),
		}},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("[RocketChat] Failed to encode message for room %s: %v", roomID, err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+postMessagePath, bytes.NewReader(data))
	if err != nil {
		log.Errorf("[RocketChat] Failed to build request for room %s: %v", roomID, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth-Token", authToken)
	req.Header.Set("X-User-Id", userID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Errorf("[RocketChat] Delivery to room %s failed: %v", roomID, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Errorf("[RocketChat] Delivery to room %s rejected: HTTP %d", roomID, resp.StatusCode)
		return false
	}

	var result postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Errorf("[RocketChat] Unreadable response for room %s: %v", roomID, err)
		return false
	}
	if !result.Success {
		log.Errorf("[RocketChat] Delivery to room %s refused: %s", roomID, result.Error)
		return false
	}

	return true
}
