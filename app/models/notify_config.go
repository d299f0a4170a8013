package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ChannelRocketChat = "rocketchat"
	ChannelTelegram   = "telegram"
)

// NotifyConfig holds one user's notification schedule and chat target. The
// channel selects the messaging backend; the RocketChat fields are required
// for rocketchat recipients, the chat ID for telegram recipients.
// LastFiredDate is owned by the notification scheduler and records the local
// calendar date (YYYY-MM-DD) of the last automatic fire, making the daily
// fire idempotent across any tick granularity.
type NotifyConfig struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex" json:"user_id"`
	NotifyHour     int       `json:"notify_hour" validate:"min=0,max=23"`
	NotifyMinute   int       `json:"notify_minute" validate:"min=0,max=59"`
	NotifyDays     int       `gorm:"default:3" json:"notify_days" validate:"min=1,max=60"`
	Channel        string    `gorm:"type:varchar(20)" json:"channel" validate:"oneof=rocketchat telegram"`
	RoomID         string    `gorm:"type:varchar(100)" json:"room_id" validate:"required_if=Channel rocketchat"`
	AuthToken      string    `gorm:"type:varchar(255)" json:"-" validate:"required_if=Channel rocketchat"`
	RocketUserID   string    `gorm:"type:varchar(100)" json:"rocket_user_id" validate:"required_if=Channel rocketchat"`
	TelegramChatID string    `gorm:"type:varchar(64)" json:"telegram_chat_id" validate:"required_if=Channel telegram"`
	Active         bool      `json:"active"`
	LastFiredDate  string    `gorm:"type:varchar(10)" json:"last_fired_date"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *NotifyConfig) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// FiredToday reports whether the config already fired on the given day.
func (c *NotifyConfig) FiredToday(now time.Time) bool {
	return c.LastFiredDate == now.Format("2006-01-02")
}

// TimeReached reports whether the wall clock has reached the configured
// notify time today. Combined with the FiredToday guard this fires exactly
// once per day for any tick granularity up to one day: a coarse tick that
// lands past the configured minute still fires, and a fine tick cannot
// double-fire.
func (c *NotifyConfig) TimeReached(now time.Time) bool {
	if now.Hour() != c.NotifyHour {
		return now.Hour() > c.NotifyHour
	}
	return now.Minute() >= c.NotifyMinute
}
