package repository

import (
	"context"
	"time"

	"github.com/hostelhq/reservation-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	Save(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error)
	CountForOfficeMonth(ctx context.Context, tx *gorm.DB, officeID uint, monthStart, monthEnd time.Time) (int64, error)
	DeleteGuestsByReservation(ctx context.Context, tx *gorm.DB, reservationID uint) error
	CreateExtension(ctx context.Context, tx *gorm.DB, ext *models.ExtendedReservation) error
	CreateRebookLink(ctx context.Context, tx *gorm.DB, link *models.RebookReservation) error
	CreatePayment(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	SumPayments(ctx context.Context, tx *gorm.DB, reservationID uint) (int64, error)
	GetDB() *gorm.DB
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *reservationRepository) Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return tx.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) Save(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return tx.WithContext(ctx).Save(reservation).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Guests").
		Preload("StayDetails").
		First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindByIDForUpdate acquires a row-level lock on the reservation within the
// given transaction, serializing concurrent mutations of the same booking.
// SQLite (used by the unit tests) locks the whole database on write, so the
// clause is only added on postgres.
func (r *reservationRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Reservation, error) {
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var reservation models.Reservation
	if err := q.Preload("Guests").Preload("StayDetails").First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CountForOfficeMonth backs the per-office per-month code sequence. Must run
// inside the same transaction as the insert so the sequence stays monotonic.
func (r *reservationRepository) CountForOfficeMonth(ctx context.Context, tx *gorm.DB, officeID uint, monthStart, monthEnd time.Time) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("office_id = ? AND created_at >= ? AND created_at < ?", officeID, monthStart, monthEnd).
		Count(&count).Error
	return count, err
}

func (r *reservationRepository) DeleteGuestsByReservation(ctx context.Context, tx *gorm.DB, reservationID uint) error {
	return tx.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Delete(&models.Guest{}).Error
}

func (r *reservationRepository) CreateExtension(ctx context.Context, tx *gorm.DB, ext *models.ExtendedReservation) error {
	return tx.WithContext(ctx).Create(ext).Error
}

func (r *reservationRepository) CreateRebookLink(ctx context.Context, tx *gorm.DB, link *models.RebookReservation) error {
	return tx.WithContext(ctx).Create(link).Error
}

func (r *reservationRepository) CreatePayment(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *reservationRepository) SumPayments(ctx context.Context, tx *gorm.DB, reservationID uint) (int64, error) {
	var total int64
	err := tx.WithContext(ctx).
		Model(&models.Payment{}).
		Where("reservation_id = ?", reservationID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
