package repository

import (
	"context"
	"time"

	"github.com/hostelhq/reservation-service/internal/models"
	"gorm.io/gorm"
)

type StayDetailRepository interface {
	ReservedBedIDs(ctx context.Context, tx *gorm.DB, start, end time.Time, excludeReservationID uint) ([]uint, error)
	BedIDsWithBalance(ctx context.Context, tx *gorm.DB) ([]uint, error)
	FindByReservationID(ctx context.Context, tx *gorm.DB, reservationID uint) ([]models.StayDetail, error)
	UpdateBatch(ctx context.Context, tx *gorm.DB, stays []models.StayDetail) error
	UpdateStatusByReservation(ctx context.Context, tx *gorm.DB, reservationID uint, status models.ReservationStatus) error
	DeleteByReservation(ctx context.Context, tx *gorm.DB, reservationID uint) error
}

type stayDetailRepository struct {
	db *gorm.DB
}

func NewStayDetailRepository(db *gorm.DB) StayDetailRepository {
	return &stayDetailRepository{db: db}
}

// ReservedBedIDs is the overlap query: beds held by an active stay detail
// whose closed interval [check_in_date, check_out_date] intersects
// [start, end]. Two ranges overlap iff existing.check_in <= queryEnd AND
// existing.check_out >= queryStart. Pass excludeReservationID to ignore the
// caller's own holds (a bed is never in conflict with itself).
func (r *stayDetailRepository) ReservedBedIDs(ctx context.Context, tx *gorm.DB, start, end time.Time, excludeReservationID uint) ([]uint, error) {
	if tx == nil {
		tx = r.db
	}
	q := tx.WithContext(ctx).
		Model(&models.StayDetail{}).
		Where("bed_id IS NOT NULL").
		Where("status NOT IN ?", []models.ReservationStatus{models.StatusCanceled, models.StatusCheckedOut}).
		Where("check_in_date <= ? AND check_out_date >= ?", end, start)
	if excludeReservationID != 0 {
		q = q.Where("reservation_id <> ?", excludeReservationID)
	}
	var ids []uint
	if err := q.Pluck("bed_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// BedIDsWithBalance returns beds soft-held by an unpaid reservation: under the
// pay-later policy a guest who still owes money keeps their bed blocked even
// outside the booked date range. The hold lifts when the reservation
// terminates, whether or not the debt was settled.
func (r *stayDetailRepository) BedIDsWithBalance(ctx context.Context, tx *gorm.DB) ([]uint, error) {
	if tx == nil {
		tx = r.db
	}
	var ids []uint
	err := tx.WithContext(ctx).
		Model(&models.StayDetail{}).
		Joins("JOIN reservations ON reservations.id = stay_details.reservation_id").
		Where("stay_details.bed_id IS NOT NULL").
		Where("reservations.remaining_balance > 0").
		Where("reservations.status NOT IN ?", []models.ReservationStatus{models.StatusCanceled, models.StatusCheckedOut}).
		Pluck("stay_details.bed_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *stayDetailRepository) FindByReservationID(ctx context.Context, tx *gorm.DB, reservationID uint) ([]models.StayDetail, error) {
	if tx == nil {
		tx = r.db
	}
	var stays []models.StayDetail
	err := tx.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("id ASC").
		Find(&stays).Error
	if err != nil {
		return nil, err
	}
	return stays, nil
}

func (r *stayDetailRepository) UpdateBatch(ctx context.Context, tx *gorm.DB, stays []models.StayDetail) error {
	for i := range stays {
		if err := tx.WithContext(ctx).Save(&stays[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatusByReservation cascades a status change to every stay detail.
// Terminal statuses also release the bed binding: bed_id must be non-null only
// while the stay is active.
func (r *stayDetailRepository) UpdateStatusByReservation(ctx context.Context, tx *gorm.DB, reservationID uint, status models.ReservationStatus) error {
	updates := map[string]any{"status": status}
	if status == models.StatusCheckedOut || status == models.StatusCanceled {
		updates["bed_id"] = nil
	}
	return tx.WithContext(ctx).
		Model(&models.StayDetail{}).
		Where("reservation_id = ?", reservationID).
		Updates(updates).Error
}

func (r *stayDetailRepository) DeleteByReservation(ctx context.Context, tx *gorm.DB, reservationID uint) error {
	return tx.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Delete(&models.StayDetail{}).Error
}
