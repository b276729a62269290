package repository

import (
	"context"

	"github.com/hostelhq/reservation-service/internal/models"
	"gorm.io/gorm"
)

type BedRepository interface {
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Bed, error)
	FindByOfficeID(ctx context.Context, officeID uint) ([]models.Bed, error)
}

type bedRepository struct {
	db *gorm.DB
}

func NewBedRepository(db *gorm.DB) BedRepository {
	return &bedRepository{db: db}
}

func (r *bedRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Bed, error) {
	if tx == nil {
		tx = r.db
	}
	var bed models.Bed
	if err := tx.WithContext(ctx).Preload("Room").First(&bed, id).Error; err != nil {
		return nil, err
	}
	return &bed, nil
}

// FindByOfficeID returns every bed in the office with its room preloaded,
// ordered by room then bed for stable listings.
func (r *bedRepository) FindByOfficeID(ctx context.Context, officeID uint) ([]models.Bed, error) {
	var beds []models.Bed
	err := r.db.WithContext(ctx).
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Where("rooms.office_id = ?", officeID).
		Preload("Room").
		Order("beds.room_id ASC, beds.id ASC").
		Find(&beds).Error
	if err != nil {
		return nil, err
	}
	return beds, nil
}
