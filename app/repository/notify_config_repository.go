package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/TuanPhamVN/CloudSentry/app/models"
)

// notifyConfigRepository implements the NotifyConfigRepository interface
type notifyConfigRepository struct {
	db *gorm.DB
}

// NewNotifyConfigRepository creates a new notify config repository instance
func NewNotifyConfigRepository(db *gorm.DB) NotifyConfigRepository {
	return &notifyConfigRepository{db: db}
}

func (r *notifyConfigRepository) GetByUserID(userID uint) (*models.NotifyConfig, error) {
	var config models.NotifyConfig
	if err := r.db.Where("user_id = ?", userID).First(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

// Upsert creates or updates the 1:1 schedule config for the config's owner.
// The scheduler-owned last_fired_date is preserved on update.
func (r *notifyConfigRepository) Upsert(config *models.NotifyConfig) error {
	var existing models.NotifyConfig
	err := r.db.Where("user_id = ?", config.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(config).Error
	}
	if err != nil {
		return err
	}

	config.ID = existing.ID
	config.LastFiredDate = existing.LastFiredDate
	return r.db.Save(config).Error
}

func (r *notifyConfigRepository) ListActive() ([]models.NotifyConfig, error) {
	var configs []models.NotifyConfig
	err := r.db.Where("active = ?", true).Order("user_id asc").Find(&configs).Error
	return configs, err
}

func (r *notifyConfigRepository) SetLastFired(id uint, date string) error {
	return r.db.Model(&models.NotifyConfig{}).Where("id = ?", id).
		Update("last_fired_date", date).Error
}
