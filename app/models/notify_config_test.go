package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifyConfigTimeReached(t *testing.T) {
	cfg := NotifyConfig{NotifyHour: 8, NotifyMinute: 30}
	at := func(h, m int) time.Time {
		return time.Date(2026, 8, 30, h, m, 0, 0, time.UTC)
	}

	assert.False(t, cfg.TimeReached(at(7, 59)))
	assert.False(t, cfg.TimeReached(at(8, 29)))
	assert.True(t, cfg.TimeReached(at(8, 30)))
	assert.True(t, cfg.TimeReached(at(8, 31)))
	assert.True(t, cfg.TimeReached(at(9, 0)))
	assert.True(t, cfg.TimeReached(at(23, 59)))
}

func TestNotifyConfigFiredToday(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	cfg := NotifyConfig{LastFiredDate: "2026-08-30"}
	assert.True(t, cfg.FiredToday(now))

	cfg.LastFiredDate = "2026-08-29"
	assert.False(t, cfg.FiredToday(now))

	cfg.LastFiredDate = ""
	assert.False(t, cfg.FiredToday(now))
}

func TestNotifyConfigValidate(t *testing.T) {
	cfg := NotifyConfig{
		UserID:       1,
		NotifyHour:   8,
		NotifyMinute: 0,
		NotifyDays:   3,
		Channel:      ChannelRocketChat,
		RoomID:       "room-1",
		AuthToken:    "token",
		RocketUserID: "u1",
	}
	assert.NoError(t, cfg.Validate())

	cfg.NotifyHour = 24
	assert.Error(t, cfg.Validate())

	cfg.NotifyHour = 8
	cfg.NotifyDays = 0
	assert.Error(t, cfg.Validate())
	cfg.NotifyDays = 3

	cfg.Channel = "pager"
	assert.Error(t, cfg.Validate(), "unknown channel")
}

func TestNotifyConfigValidatePerChannelTargets(t *testing.T) {
	telegramCfg := NotifyConfig{
		UserID:         1,
		NotifyHour:     8,
		NotifyDays:     3,
		Channel:        ChannelTelegram,
		TelegramChatID: "12345",
	}
	assert.NoError(t, telegramCfg.Validate(), "telegram recipient needs no RocketChat fields")

	telegramCfg.TelegramChatID = ""
	assert.Error(t, telegramCfg.Validate(), "telegram recipient needs a chat id")

	rocketCfg := NotifyConfig{
		UserID:     1,
		NotifyHour: 8,
		NotifyDays: 3,
		Channel:    ChannelRocketChat,
		RoomID:     "room-1",
	}
	assert.Error(t, rocketCfg.Validate(), "rocketchat recipient needs token and user id")
}
