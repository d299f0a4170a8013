package models

import "time"

const (
	ResourceKindVPS   = "vps"
	ResourceKindProxy = "proxy"
)

// ManagedResource is one provider-owned resource (a VPS instance or a proxy)
// mirrored from the provider inventory. The full set for an account is
// replaced on each successful sync, matched by ExternalID.
type ManagedResource struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ProviderAccountID uint      `gorm:"index;uniqueIndex:account_external" json:"provider_account_id"`
	ExternalID        string    `gorm:"uniqueIndex:account_external;type:varchar(191)" json:"external_id"`
	Name              string    `gorm:"type:varchar(191)" json:"name"`
	Kind              string    `gorm:"type:varchar(32)" json:"kind"`
	Status            string    `gorm:"type:varchar(32)" json:"status"`
	Address           string    `gorm:"type:varchar(128)" json:"address"`
	Location          string    `gorm:"type:varchar(64)" json:"location"`
	Expiry            string    `gorm:"type:varchar(64)" json:"expiry,omitempty"`
	Metadata          string    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
