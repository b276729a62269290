package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hostelhq/reservation-service/internal/dates"
	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/internal/notifier"
	"github.com/hostelhq/reservation-service/internal/repository"
	"github.com/hostelhq/reservation-service/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GuestBedPair is one requested binding in an assignment batch.
type GuestBedPair struct {
	GuestID uint `json:"guest_id"`
	BedID   uint `json:"bed_id"`
}

type AllocationService interface {
	AssignBeds(ctx context.Context, reservationID uint, pairs []GuestBedPair) (*models.Reservation, error)
}

type allocationService struct {
	reservationRepo repository.ReservationRepository
	stayRepo        repository.StayDetailRepository
	bedRepo         repository.BedRepository
	availability    AvailabilityService
	eligibility     EligibilityResolver
	notifier        *notifier.Notifier
	cache           *cache.AvailabilityCache
	log             *zap.Logger
}

func NewAllocationService(
	reservationRepo repository.ReservationRepository,
	stayRepo repository.StayDetailRepository,
	bedRepo repository.BedRepository,
	availability AvailabilityService,
	eligibility EligibilityResolver,
	ntf *notifier.Notifier,
	availCache *cache.AvailabilityCache,
	log *zap.Logger,
) AllocationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &allocationService{
		reservationRepo: reservationRepo,
		stayRepo:        stayRepo,
		bedRepo:         bedRepo,
		availability:    availability,
		eligibility:     eligibility,
		notifier:        ntf,
		cache:           availCache,
		log:             log,
	}
}

// AssignBeds binds one bed per guest and derives billing, all-or-nothing.
// Single-pass greedy: a taken bed rejects the whole batch, the caller
// re-fetches availability and resubmits. The availability read and the commit
// share one transaction; the storage-level exclusion constraint on
// stay_details catches the writer that loses a concurrent race and surfaces
// it as ErrBedUnavailable.
func (s *allocationService) AssignBeds(ctx context.Context, reservationID uint, pairs []GuestBedPair) (*models.Reservation, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no guest-bed pairs", ErrValidation)
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
		if reservation.Status != models.StatusPending {
			return ErrInvalidStatus
		}

		guests := make(map[uint]*models.Guest, len(reservation.Guests))
		for i := range reservation.Guests {
			guests[reservation.Guests[i].ID] = &reservation.Guests[i]
		}
		if len(pairs) != len(guests) {
			return fmt.Errorf("%w: batch must cover every guest exactly once", ErrValidation)
		}

		stays, err := s.stayRepo.FindByReservationID(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		stayByGuest := make(map[uint]*models.StayDetail, len(stays))
		for i := range stays {
			stayByGuest[stays[i].GuestID] = &stays[i]
		}

		available, err := s.availability.AvailableBedIDs(ctx, tx, reservation.OfficeID, reservation.CheckInDate, reservation.CheckOutDate, 0)
		if err != nil {
			return err
		}

		usedBedIDs := make(map[uint]struct{}, len(pairs))
		usedGuestIDs := make(map[uint]struct{}, len(pairs))
		var totalBedPrice int64
		lengthOfStay := dates.LengthOfStay(reservation.CheckInDate, reservation.CheckOutDate)

		for _, pair := range pairs {
			guest, ok := guests[pair.GuestID]
			if !ok {
				return fmt.Errorf("%w: guest %d not in reservation", ErrNotFound, pair.GuestID)
			}
			stay, ok := stayByGuest[pair.GuestID]
			if !ok {
				return fmt.Errorf("%w: stay detail for guest %d", ErrNotFound, pair.GuestID)
			}
			if _, dup := usedGuestIDs[pair.GuestID]; dup {
				return fmt.Errorf("%w: guest %d paired twice", ErrValidation, pair.GuestID)
			}
			usedGuestIDs[pair.GuestID] = struct{}{}
			if _, dup := usedBedIDs[pair.BedID]; dup {
				return ErrDuplicateAssignment
			}
			if _, free := available[pair.BedID]; !free {
				return ErrBedUnavailable
			}

			bed, err := s.bedRepo.FindByID(ctx, tx, pair.BedID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: bed %d", ErrNotFound, pair.BedID)
				}
				return err
			}
			if bed.Room != nil {
				eligibility, err := s.eligibility.EffectiveEligibility(ctx, tx, bed.Room, reservation.CheckInDate)
				if err != nil {
					return err
				}
				if eligibility != models.GenderAny && guest.Gender != eligibility {
					return ErrGenderMismatch
				}
			}

			usedBedIDs[pair.BedID] = struct{}{}

			bedID := pair.BedID
			stay.BedID = &bedID
			stay.Status = models.StatusConfirmed
			if stay.IsExempted {
				stay.AmountBilled = 0
			} else {
				totalBedPrice += bed.Price
				stay.AmountBilled = bed.Price * int64(dates.LengthOfStay(stay.CheckInDate, stay.CheckOutDate))
			}
		}

		reservation.DailyRate = totalBedPrice
		reservation.TotalBillings = totalBedPrice * int64(lengthOfStay)
		reservation.RemainingBalance = reservation.TotalBillings
		reservation.Status = models.StatusConfirmed

		if err := s.stayRepo.UpdateBatch(ctx, tx, stays); err != nil {
			return err
		}
		reservation.StayDetails = stays
		if err := s.reservationRepo.Save(ctx, tx, reservation); err != nil {
			return err
		}

		result = reservation
		return nil
	})
	if err != nil {
		// The losing side of a concurrent double-booking fails on the
		// exclusion constraint at commit; report it like any taken bed.
		return nil, classifyConflict(err, ErrBedUnavailable)
	}

	s.afterCommit(ctx, result)
	return result, nil
}

func (s *allocationService) afterCommit(ctx context.Context, reservation *models.Reservation) {
	if s.cache != nil {
		s.cache.InvalidateOffice(ctx, reservation.OfficeID)
	}
	if s.notifier != nil {
		s.notifier.ReservationConfirmed(reservation)
	}
}
