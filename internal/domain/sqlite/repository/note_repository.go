package repository

import (
	"errors"
	"strings"

	"tenantnotes/internal/domain/entity"

	"gorm.io/gorm"
)

// DefaultNoteRepository is the tenant-isolation boundary for notes:
// every query takes the caller's tenant id as an unconditional
// predicate. There is no way to fetch a note without naming a tenant.
type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

func (d *DefaultNoteRepository) FindByID(tenantID string, id int64) (*entity.Note, error) {
	var note entity.Note
	err := d.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

// FindByOwner returns the user's notes, newest-updated first. A
// non-empty search narrows by title/content substring.
func (d *DefaultNoteRepository) FindByOwner(tenantID, userID, search string) ([]*entity.Note, error) {
	query := d.db.
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("updated_at DESC")

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", pattern, pattern)
	}

	var notes []*entity.Note
	if err := query.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) FindAllByTenant(tenantID string) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := d.db.Where("tenant_id = ?", tenantID).Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) CountByTenant(tenantID string) (int64, error) {
	return d.count(d.db.Where("tenant_id = ?", tenantID))
}

func (d *DefaultNoteRepository) CountPrivateByTenant(tenantID string) (int64, error) {
	return d.count(d.db.Where("tenant_id = ? AND is_private = ?", tenantID, true))
}

func (d *DefaultNoteRepository) CountByOwner(tenantID, userID string) (int64, error) {
	return d.count(d.db.Where("tenant_id = ? AND user_id = ?", tenantID, userID))
}

func (d *DefaultNoteRepository) CountPrivateByOwner(tenantID, userID string) (int64, error) {
	return d.count(d.db.Where("tenant_id = ? AND user_id = ? AND is_private = ?", tenantID, userID, true))
}

func (d *DefaultNoteRepository) Save(note *entity.Note) error {
	return d.db.Save(note).Error
}

func (d *DefaultNoteRepository) Delete(note *entity.Note) error {
	return d.db.Delete(note).Error
}

// DeleteOwned removes the subset of ids that belong to the user inside
// the tenant, and reports how many rows actually went away.
func (d *DefaultNoteRepository) DeleteOwned(tenantID, userID string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := d.db.
		Where("tenant_id = ? AND user_id = ? AND id IN ?", tenantID, userID, ids).
		Delete(&entity.Note{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (d *DefaultNoteRepository) count(query *gorm.DB) (int64, error) {
	var count int64
	if err := query.Model(&entity.Note{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
