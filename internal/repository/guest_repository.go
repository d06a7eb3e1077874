package repository

import (
	"github.com/well-broomed/cleaning-api/internal/database"
	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/utils"
	"gorm.io/gorm"
)

// GormGuestRepository is a GORM implementation of GuestRepository
type GormGuestRepository struct {
	db *gorm.DB
}

// NewGuestRepository creates a new GuestRepository
func NewGuestRepository(db *gorm.DB) GuestRepository {
	return &GormGuestRepository{db: db}
}

// Create creates a new guest
func (r *GormGuestRepository) Create(guest *models.Guest) error {
	return r.db.Create(guest).Error
}

// FindByID finds a guest by ID with optional preloading
func (r *GormGuestRepository) FindByID(id uint64, preload ...string) (*models.Guest, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var guest models.Guest
	if err := query.First(&guest, id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

// ListByManager lists a page of guests staying at the manager's properties,
// alongside the unpaged total
func (r *GormGuestRepository) ListByManager(managerID uint64, params utils.PaginationParams) ([]models.Guest, int64, error) {
	var total int64
	err := r.db.Model(&models.Guest{}).
		Joins("JOIN properties ON properties.property_id = guests.property_id").
		Where("properties.manager_id = ?", managerID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var guests []models.Guest
	err = r.db.
		Preload("Property").
		Preload("Cleaner").
		Preload("PendingCleaner").
		Joins("JOIN properties ON properties.property_id = guests.property_id").
		Where("properties.manager_id = ?", managerID).
		Order("guests.checkin").
		Scopes(database.Paginate(params)).
		Find(&guests).Error
	if err != nil {
		return nil, 0, err
	}
	return guests, total, nil
}

// ListByCleaner lists a page of guests the cleaner is bound or proposed to,
// alongside the unpaged total
func (r *GormGuestRepository) ListByCleaner(cleanerID uint64, params utils.PaginationParams) ([]models.Guest, int64, error) {
	var total int64
	err := r.db.Model(&models.Guest{}).
		Where("cleaner_id = ? OR pending_cleaner_id = ?", cleanerID, cleanerID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var guests []models.Guest
	err = r.db.
		Preload("Property").
		Preload("Cleaner").
		Preload("PendingCleaner").
		Where("cleaner_id = ? OR pending_cleaner_id = ?", cleanerID, cleanerID).
		Order("checkin").
		Scopes(database.Paginate(params)).
		Find(&guests).Error
	if err != nil {
		return nil, 0, err
	}
	return guests, total, nil
}

// FindConflicting returns guests of the property with the same name
func (r *GormGuestRepository) FindConflicting(propertyID uint64, guestName string, excludeID uint64) ([]models.Guest, error) {
	var guests []models.Guest
	query := r.db.Where("property_id = ? AND guest_name = ?", propertyID, guestName)
	if excludeID != 0 {
		query = query.Where("guest_id <> ?", excludeID)
	}
	if err := query.Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

// Update applies the given fields to a guest
func (r *GormGuestRepository) Update(id uint64, fields map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.Guest{}).
		Where("guest_id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// Delete removes a guest and its tasks in a transaction
func (r *GormGuestRepository) Delete(id uint64) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guest_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Guest{}, id)
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

// CreateTask creates a cleaning task under a guest
func (r *GormGuestRepository) CreateTask(task *models.Task) error {
	return r.db.Create(task).Error
}

// UpdateTask sets the completed flag on a guest's task
func (r *GormGuestRepository) UpdateTask(guestID, taskID uint64, completed bool) (*models.Task, error) {
	result := r.db.Model(&models.Task{}).
		Where("guest_id = ? AND task_id = ?", guestID, taskID).
		Update("completed", completed)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var task models.Task
	if err := r.db.First(&task, taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}
