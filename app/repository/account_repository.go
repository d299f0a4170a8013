package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/TuanPhamVN/CloudSentry/app/models"
)

// accountRepository implements the AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new provider account repository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(account *models.ProviderAccount) error {
	return r.db.Create(account).Error
}

func (r *accountRepository) GetByID(id uint) (*models.ProviderAccount, error) {
	var account models.ProviderAccount
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByOwnerProviderEmail(userID uint, provider, email string) (*models.ProviderAccount, error) {
	var account models.ProviderAccount
	err := r.db.Where("user_id = ? AND provider = ? AND email = ?", userID, provider, email).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Update(account *models.ProviderAccount) error {
	return r.db.Save(account).Error
}

func (r *accountRepository) UpdateRefreshInterval(id uint, days int) error {
	return r.db.Model(&models.ProviderAccount{}).Where("id = ?", id).
		Update("refresh_interval_days", days).Error
}

// RotateCredential replaces the stored credential and clears the auth-failed
// flag so the account is picked up again on the next due check.
func (r *accountRepository) RotateCredential(id uint, credential string) error {
	return r.db.Model(&models.ProviderAccount{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"credential":  credential,
			"auth_failed": false,
			"active":      true,
		}).Error
}

func (r *accountRepository) SoftDelete(id uint) error {
	return r.db.Model(&models.ProviderAccount{}).Where("id = ?", id).
		Update("active", false).Error
}

func (r *accountRepository) ListActive() ([]models.ProviderAccount, error) {
	var accounts []models.ProviderAccount
	err := r.db.Where("active = ?", true).Order("id asc").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) ListActiveByUser(userID uint) ([]models.ProviderAccount, error) {
	var accounts []models.ProviderAccount
	err := r.db.Where("user_id = ? AND active = ?", userID, true).
		Order("id asc").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) MarkAuthFailed(id uint, failed bool) error {
	return r.db.Model(&models.ProviderAccount{}).Where("id = ?", id).
		Update("auth_failed", failed).Error
}

func (r *accountRepository) CommitSyncResult(id uint, balance, limit float64, syncedAt time.Time) error {
	return r.db.Model(&models.ProviderAccount{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":        balance,
			"balance_limit":  limit,
			"last_synced_at": syncedAt,
			"auth_failed":    false,
		}).Error
}
