package repository

import (
	"errors"

	"tenantnotes/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultTenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *DefaultTenantRepository {
	return &DefaultTenantRepository{db: db}
}

func (t *DefaultTenantRepository) FindByID(id string) (*entity.Tenant, error) {
	var tenant entity.Tenant
	err := t.db.Where("id = ?", id).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (t *DefaultTenantRepository) Save(tenant *entity.Tenant) error {
	return t.db.Save(tenant).Error
}

// UpdateTier switches the tenant's plan and rewrites the denormalized
// subscription of every user in the tenant, in one transaction.
func (t *DefaultTenantRepository) UpdateTier(tenantID string, tier entity.Tier, now int64) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entity.Tenant{}).
			Where("id = ?", tenantID).
			Updates(map[string]any{"subscription": tier, "updated_at": now}).Error
		if err != nil {
			return err
		}

		return tx.Model(&entity.User{}).
			Where("tenant_id = ?", tenantID).
			Updates(map[string]any{"subscription": tier, "updated_at": now}).Error
	})
}
