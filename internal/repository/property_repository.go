package repository

import (
	"github.com/well-broomed/cleaning-api/internal/database"
	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/utils"
	"gorm.io/gorm"
)

// GormPropertyRepository is a GORM implementation of PropertyRepository
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new PropertyRepository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &GormPropertyRepository{db: db}
}

// Create creates a new property
func (r *GormPropertyRepository) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

// FindByID finds a property by ID
func (r *GormPropertyRepository) FindByID(id uint64) (*models.Property, error) {
	var property models.Property
	if err := r.db.First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// FindOwned finds a property owned by the given manager
func (r *GormPropertyRepository) FindOwned(managerID, propertyID uint64) (*models.Property, error) {
	var property models.Property
	err := r.db.
		Where("manager_id = ? AND property_id = ?", managerID, propertyID).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// FindForCleaner finds a property whose manager is partnered with the cleaner
func (r *GormPropertyRepository) FindForCleaner(cleanerID, propertyID uint64) (*models.Property, error) {
	var property models.Property
	err := r.db.
		Joins("JOIN partners ON partners.manager_id = properties.manager_id").
		Where("partners.cleaner_id = ? AND properties.property_id = ?", cleanerID, propertyID).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// FindDetail loads a property with its cleaner, guests, tasks and
// availability roster
func (r *GormPropertyRepository) FindDetail(propertyID uint64) (*models.Property, error) {
	var property models.Property
	err := r.db.
		Preload("Cleaner").
		Preload("Guests.Tasks").
		Preload("Guests.Cleaner").
		Preload("AvailableCleaners.Cleaner").
		First(&property, propertyID).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// ListByManager lists a page of the manager's properties with cleaner
// relations, alongside the unpaged total
func (r *GormPropertyRepository) ListByManager(managerID uint64, params utils.PaginationParams) ([]models.Property, int64, error) {
	var total int64
	err := r.db.Model(&models.Property{}).
		Where("manager_id = ?", managerID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var properties []models.Property
	err = r.db.
		Preload("Cleaner").
		Preload("AvailableCleaners.Cleaner").
		Where("manager_id = ?", managerID).
		Order("property_name").
		Scopes(database.Paginate(params)).
		Find(&properties).Error
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

// ListForCleaner lists a page of properties of managers partnered with the
// cleaner, alongside the unpaged total
func (r *GormPropertyRepository) ListForCleaner(cleanerID uint64, params utils.PaginationParams) ([]models.Property, int64, error) {
	var total int64
	err := r.db.Model(&models.Property{}).
		Joins("JOIN partners ON partners.manager_id = properties.manager_id").
		Where("partners.cleaner_id = ?", cleanerID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var properties []models.Property
	err = r.db.
		Preload("Manager").
		Preload("Cleaner").
		Preload("AvailableCleaners").
		Joins("JOIN partners ON partners.manager_id = properties.manager_id").
		Where("partners.cleaner_id = ?", cleanerID).
		Order("property_name").
		Scopes(database.Paginate(params)).
		Find(&properties).Error
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

// TaskCounts returns the open task count per property, walking through guests
func (r *GormPropertyRepository) TaskCounts(propertyIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return counts, nil
	}

	type row struct {
		PropertyID uint64
		N          int64
	}
	var rows []row
	err := r.db.
		Table("tasks").
		Select("guests.property_id AS property_id, COUNT(tasks.task_id) AS n").
		Joins("JOIN guests ON guests.guest_id = tasks.guest_id").
		Where("guests.property_id IN ? AND tasks.completed = ?", propertyIDs, false).
		Group("guests.property_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.PropertyID] = r.N
	}
	return counts, nil
}

// FindConflicting returns properties colliding with the candidate name or
// address within the manager's portfolio
func (r *GormPropertyRepository) FindConflicting(managerID uint64, name, address string, excludeID uint64) ([]models.Property, error) {
	var properties []models.Property
	query := r.db.
		Where("manager_id = ?", managerID).
		Where("property_name = ? OR address = ?", name, address)
	if excludeID != 0 {
		query = query.Where("property_id <> ?", excludeID)
	}
	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// Update applies the given fields to an owned property
func (r *GormPropertyRepository) Update(managerID, propertyID uint64, fields map[string]interface{}) (int64, error) {
	result := r.db.Model(&models.Property{}).
		Where("manager_id = ? AND property_id = ?", managerID, propertyID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// Delete removes an owned property along with its guests and their tasks
func (r *GormPropertyRepository) Delete(managerID, propertyID uint64) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var guestIDs []uint64
		if err := tx.Model(&models.Guest{}).
			Where("property_id = ?", propertyID).
			Pluck("guest_id", &guestIDs).Error; err != nil {
			return err
		}

		if len(guestIDs) > 0 {
			if err := tx.Where("guest_id IN ?", guestIDs).Delete(&models.Task{}).Error; err != nil {
				return err
			}
			if err := tx.Where("property_id = ?", propertyID).Delete(&models.Guest{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("property_id = ?", propertyID).Delete(&models.AvailableCleaner{}).Error; err != nil {
			return err
		}

		result := tx.Where("manager_id = ? AND property_id = ?", managerID, propertyID).
			Delete(&models.Property{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

// SetDefaultCleaner binds or clears a property's default cleaner
func (r *GormPropertyRepository) SetDefaultCleaner(propertyID uint64, cleanerID *uint64) error {
	return r.db.Model(&models.Property{}).
		Where("property_id = ?", propertyID).
		Update("cleaner_id", cleanerID).Error
}

// AddAvailableCleaner marks a cleaner available for a property. FirstOrCreate
// keeps repeated opt-ins idempotent on the composite key.
func (r *GormPropertyRepository) AddAvailableCleaner(propertyID, cleanerID uint64) error {
	ac := models.AvailableCleaner{PropertyID: propertyID, CleanerID: cleanerID}
	return r.db.FirstOrCreate(&ac, models.AvailableCleaner{PropertyID: propertyID, CleanerID: cleanerID}).Error
}

// RemoveAvailableCleaner removes the availability marker
func (r *GormPropertyRepository) RemoveAvailableCleaner(propertyID, cleanerID uint64) (int64, error) {
	result := r.db.
		Where("property_id = ? AND cleaner_id = ?", propertyID, cleanerID).
		Delete(&models.AvailableCleaner{})
	return result.RowsAffected, result.Error
}

// ListAvailableCleaners lists opted-in cleaners with their profiles
func (r *GormPropertyRepository) ListAvailableCleaners(propertyID uint64) ([]models.AvailableCleaner, error) {
	var cleaners []models.AvailableCleaner
	err := r.db.
		Preload("Cleaner").
		Where("property_id = ?", propertyID).
		Find(&cleaners).Error
	if err != nil {
		return nil, err
	}
	return cleaners, nil
}
