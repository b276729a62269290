package repository

import (
	"context"
	"time"

	"github.com/hostelhq/reservation-service/internal/models"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	FindActiveForRoom(ctx context.Context, tx *gorm.DB, roomID uint, date time.Time) ([]models.EligibleGenderSchedule, error)
	OverlapExists(ctx context.Context, roomID uint, start, end time.Time) (bool, error)
	Create(ctx context.Context, schedule *models.EligibleGenderSchedule) error
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// FindActiveForRoom returns every schedule covering the date, newest first.
// More than one row means the non-overlap invariant was violated upstream;
// the resolver picks the first and logs the rest.
func (r *scheduleRepository) FindActiveForRoom(ctx context.Context, tx *gorm.DB, roomID uint, date time.Time) ([]models.EligibleGenderSchedule, error) {
	if tx == nil {
		tx = r.db
	}
	var schedules []models.EligibleGenderSchedule
	err := tx.WithContext(ctx).
		Where("room_id = ? AND start_date <= ? AND end_date >= ?", roomID, date, date).
		Order("created_at DESC, id DESC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) OverlapExists(ctx context.Context, roomID uint, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EligibleGenderSchedule{}).
		Where("room_id = ? AND start_date <= ? AND end_date >= ?", roomID, end, start).
		Count(&count).Error
	return count > 0, err
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.EligibleGenderSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}
