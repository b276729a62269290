package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hostelhq/reservation-service/internal/dates"
	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/internal/notifier"
	"github.com/hostelhq/reservation-service/internal/repository"
	"github.com/hostelhq/reservation-service/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BillingService interface {
	RecordPayment(ctx context.Context, reservationID uint, amount int64, method string) (*models.Reservation, error)
}

type billingService struct {
	reservationRepo repository.ReservationRepository
	notifier        *notifier.Notifier
	cache           *cache.AvailabilityCache
	log             *zap.Logger
}

func NewBillingService(
	reservationRepo repository.ReservationRepository,
	ntf *notifier.Notifier,
	availCache *cache.AvailabilityCache,
	log *zap.Logger,
) BillingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &billingService{
		reservationRepo: reservationRepo,
		notifier:        ntf,
		cache:           availCache,
		log:             log,
	}
}

// RecordPayment appends a payment row and re-derives the remaining balance
// from total billings minus the payment sum. A paid-off reservation stops
// soft-holding its beds, so the availability cache is invalidated after
// commit.
func (s *billingService) RecordPayment(ctx context.Context, reservationID uint, amount int64, method string) (*models.Reservation, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	if method == "" {
		method = "cash"
	}

	var result *models.Reservation
	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.reservationRepo.FindByIDForUpdate(ctx, tx, reservationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if reservation.Status == models.StatusPending || reservation.Status == models.StatusCanceled {
			return ErrInvalidStatus
		}
		if amount > reservation.RemainingBalance {
			return ErrOverpayment
		}

		payment := &models.Payment{
			ReservationID: reservationID,
			Amount:        amount,
			Method:        method,
			PaidAt:        time.Now().In(dates.Location),
		}
		if err := s.reservationRepo.CreatePayment(ctx, tx, payment); err != nil {
			return err
		}

		paid, err := s.reservationRepo.SumPayments(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		reservation.RemainingBalance = reservation.TotalBillings - paid
		if reservation.RemainingBalance < 0 {
			return ErrOverpayment
		}
		if err := s.reservationRepo.Save(ctx, tx, reservation); err != nil {
			return err
		}

		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateOffice(ctx, result.OfficeID)
	}
	if s.notifier != nil {
		s.notifier.PaymentRecorded(result, amount)
	}
	return result, nil
}
