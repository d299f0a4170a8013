package notify

import (
	"context"

	"github.com/gofiber/fiber/v2/log"

	"github.com/TuanPhamVN/CloudSentry/app/models"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/rocketchat"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/telegram"
)

// Gateway delivers one message to the recipient's configured chat backend.
// Implementations report success as a bool and must not panic or leak errors;
// delivery failure for one recipient is never allowed to disturb another's.
type Gateway interface {
	Send(ctx context.Context, cfg *models.NotifyConfig, title, body, color string) bool
}

// chatGateway routes each message to the backend named by the recipient's
// channel.
type chatGateway struct {
	rocket   *rocketchat.Client
	telegram *telegram.Client
}

// NewChatGateway creates the production gateway serving both supported
// backends.
func NewChatGateway(rocket *rocketchat.Client, tg *telegram.Client) Gateway {
	return &chatGateway{rocket: rocket, telegram: tg}
}

func (g *chatGateway) Send(ctx context.Context, cfg *models.NotifyConfig, title, body, color string) bool {
	switch cfg.Channel {
	case models.ChannelTelegram:
		return g.telegram.Send(ctx, cfg.TelegramChatID, title, body)
	case models.ChannelRocketChat:
		return g.rocket.Send(ctx, cfg.AuthToken, cfg.RocketUserID, cfg.RoomID, title, body, color)
	default:
		log.Errorf("[Notify] Unknown channel %q for user %d", cfg.Channel, cfg.UserID)
		return false
	}
}
