package repository

import (
	"gorm.io/gorm"

	"github.com/TuanPhamVN/CloudSentry/app/models"
)

// resourceRepository implements the ResourceRepository interface
type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository creates a new managed resource repository instance
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) ListByAccount(accountID uint) ([]models.ManagedResource, error) {
	var resources []models.ManagedResource
	err := r.db.Where("provider_account_id = ?", accountID).
		Order("external_id asc").Find(&resources).Error
	return resources, err
}

func (r *resourceRepository) ListByUser(userID uint) ([]models.ManagedResource, error) {
	var resources []models.ManagedResource
	err := r.db.
		Joins("JOIN provider_accounts ON provider_accounts.id = managed_resources.provider_account_id").
		Where("provider_accounts.user_id = ? AND provider_accounts.active = ?", userID, true).
		Order("managed_resources.id asc").
		Find(&resources).Error
	return resources, err
}

func (r *resourceRepository) CountByAccount(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ManagedResource{}).
		Where("provider_account_id = ?", accountID).Count(&count).Error
	return count, err
}

// ReplaceForAccount reconciles the stored resource set with the upstream
// inventory. Existing rows are matched by external_id and updated in place so
// a sync with unchanged upstream data causes no row churn; rows that vanished
// upstream are deleted.
func (r *resourceRepository) ReplaceForAccount(accountID uint, resources []models.ManagedResource) error {
	var existing []models.ManagedResource
	if err := r.db.Where("provider_account_id = ?", accountID).Find(&existing).Error; err != nil {
		return err
	}

	existingByExternalID := make(map[string]uint, len(existing))
	for _, res := range existing {
		existingByExternalID[res.ExternalID] = res.ID
	}

	seen := make(map[string]bool, len(resources))
	for i := range resources {
		res := &resources[i]
		res.ProviderAccountID = accountID
		seen[res.ExternalID] = true

		if id, ok := existingByExternalID[res.ExternalID]; ok {
			res.ID = id
			err := r.db.Model(&models.ManagedResource{}).Where("id = ?", id).
				Updates(map[string]interface{}{
					"name":     res.Name,
					"kind":     res.Kind,
					"status":   res.Status,
					"address":  res.Address,
					"location": res.Location,
					"expiry":   res.Expiry,
					"metadata": res.Metadata,
				}).Error
			if err != nil {
				return err
			}
			continue
		}

		if err := r.db.Create(res).Error; err != nil {
			return err
		}
	}

	// Delete rows whose external_id is absent upstream
	stale := make([]uint, 0)
	for externalID, id := range existingByExternalID {
		if !seen[externalID] {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := r.db.Delete(&models.ManagedResource{}, stale).Error; err != nil {
			return err
		}
	}

	return nil
}
