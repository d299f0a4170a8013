package repository

import (
	"time"

	"github.com/TuanPhamVN/CloudSentry/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByName(name string) (*models.User, error)
	Update(user *models.User) error
	List() ([]models.User, error)
	Count() (int64, error)
}

// AccountRepository defines the interface for provider account operations.
// Balance/LastSyncedAt writes go through CommitSyncResult so the sync engine
// is the only mutator of those fields.
type AccountRepository interface {
	Create(account *models.ProviderAccount) error
	GetByID(id uint) (*models.ProviderAccount, error)
	GetByOwnerProviderEmail(userID uint, provider, email string) (*models.ProviderAccount, error)
	Update(account *models.ProviderAccount) error
	UpdateRefreshInterval(id uint, days int) error
	RotateCredential(id uint, credential string) error
	SoftDelete(id uint) error
	ListActive() ([]models.ProviderAccount, error)
	ListActiveByUser(userID uint) ([]models.ProviderAccount, error)
	MarkAuthFailed(id uint, failed bool) error
	CommitSyncResult(id uint, balance, limit float64, syncedAt time.Time) error
}

// ResourceRepository defines the interface for managed resource operations
type ResourceRepository interface {
	ListByAccount(accountID uint) ([]models.ManagedResource, error)
	ListByUser(userID uint) ([]models.ManagedResource, error)
	CountByAccount(accountID uint) (int64, error)
	// ReplaceForAccount reconciles the stored set with the upstream inventory:
	// rows are matched by external_id and updated in place, new rows inserted,
	// rows absent upstream deleted. Must run inside the same transaction as
	// the balance commit.
	ReplaceForAccount(accountID uint, resources []models.ManagedResource) error
}

// NotifyConfigRepository defines the interface for notification schedule configs
type NotifyConfigRepository interface {
	GetByUserID(userID uint) (*models.NotifyConfig, error)
	Upsert(config *models.NotifyConfig) error
	ListActive() ([]models.NotifyConfig, error)
	SetLastFired(id uint, date string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Account      AccountRepository
	Resource     ResourceRepository
	NotifyConfig NotifyConfigRepository
}
