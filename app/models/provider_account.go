package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ProviderBitLaunch = "bitlaunch"
	ProviderZingProxy = "zingproxy"
	ProviderCloudFly  = "cloudfly"
)

// ProviderAccount stores an external provider credential linked to a user,
// together with the balance snapshot from the last successful sync.
// Balance and LastSyncedAt are owned by the sync engine; RefreshIntervalDays
// is owned by the account owner.
type ProviderAccount struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	UserID              uint       `gorm:"index;uniqueIndex:owner_provider_email" json:"user_id"`
	Provider            string     `gorm:"uniqueIndex:owner_provider_email;type:varchar(50)" json:"provider" validate:"oneof=bitlaunch zingproxy cloudfly"`
	Email               string     `gorm:"uniqueIndex:owner_provider_email;type:varchar(191)" json:"email" validate:"required,email"`
	Credential          string     `gorm:"type:text" json:"-" validate:"required"`
	Balance             float64    `json:"balance"`
	BalanceLimit        float64    `json:"balance_limit"`
	LastSyncedAt        *time.Time `gorm:"type:timestamp;default:null" json:"last_synced_at"`
	RefreshIntervalDays int        `gorm:"default:1" json:"refresh_interval_days" validate:"oneof=1 3 7 30"`
	Active              bool       `json:"active"`
	AuthFailed          bool       `gorm:"default:false" json:"auth_failed"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *ProviderAccount) Validate() error {
	v := validator.New()

	return v.Struct(a)
}

// DueAt reports whether the account needs a refresh at the given time.
// A never-synced account is always due.
func (a *ProviderAccount) DueAt(now time.Time) bool {
	if a.LastSyncedAt == nil {
		return true
	}
	days := int(now.Sub(*a.LastSyncedAt).Hours() / 24)
	return days >= a.RefreshIntervalDays
}
