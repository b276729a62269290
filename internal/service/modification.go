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

type ModificationService interface {
	ExtendStay(ctx context.Context, reservationID uint, newCheckOut time.Time) (*models.Reservation, error)
	UpdateCheckout(ctx context.Context, reservationID uint, newCheckOut time.Time) (*models.Reservation, error)
	CancelReservation(ctx context.Context, reservationID uint) error
	RebookReservation(ctx context.Context, canceledID uint, params CreateReservationParams) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, reservationID uint, status models.ReservationStatus) (*models.Reservation, error)
}

type modificationService struct {
	reservationRepo repository.ReservationRepository
	stayRepo        repository.StayDetailRepository
	bedRepo         repository.BedRepository
	reservations    ReservationService
	notifier        *notifier.Notifier
	cache           *cache.AvailabilityCache
	log             *zap.Logger
}

func NewModificationService(
	reservationRepo repository.ReservationRepository,
	stayRepo repository.StayDetailRepository,
	bedRepo repository.BedRepository,
	reservations ReservationService,
	ntf *notifier.Notifier,
	availCache *cache.AvailabilityCache,
	log *zap.Logger,
) ModificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &modificationService{
		reservationRepo: reservationRepo,
		stayRepo:        stayRepo,
		bedRepo:         bedRepo,
		reservations:    reservations,
		notifier:        ntf,
		cache:           availCache,
		log:             log,
	}
}

// ExtendStay pushes the checkout date forward. The delta interval
// [old_check_out, new_check_out] is re-validated against other reservations'
// holds on the same beds; billing grows by daily_rate x added days and an
// audit row is appended.
func (s *modificationService) ExtendStay(ctx context.Context, reservationID uint, newCheckOut time.Time) (*models.Reservation, error) {
	newCheckOut = dates.Normalize(newCheckOut)

	var result *models.Reservation
	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.lockActiveReservation(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if !newCheckOut.After(dates.Normalize(reservation.CheckOutDate)) {
			return fmt.Errorf("%w: new checkout must be after current checkout", ErrValidation)
		}
		if err := s.applyCheckoutChange(ctx, tx, reservation, newCheckOut); err != nil {
			return err
		}
		result = reservation
		return nil
	})
	if err != nil {
		// The delta interval was re-checked inside the transaction, but a
		// concurrent extension can still lose on the exclusion constraint.
		return nil, classifyConflict(err, ErrOverlapConflict)
	}

	s.afterCommit(ctx, result)
	if s.notifier != nil {
		s.notifier.ReservationExtended(result)
	}
	return result, nil
}

// UpdateCheckout is the bidirectional form of ExtendStay: a later date
// extends, an earlier date shortens. Shortening that would push billing below
// zero is rejected before any mutation.
func (s *modificationService) UpdateCheckout(ctx context.Context, reservationID uint, newCheckOut time.Time) (*models.Reservation, error) {
	newCheckOut = dates.Normalize(newCheckOut)

	var result *models.Reservation
	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.lockActiveReservation(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if newCheckOut.Before(dates.Normalize(reservation.CheckInDate)) {
			return fmt.Errorf("%w: checkout before check-in", ErrValidation)
		}
		if dates.DaysBetween(reservation.CheckOutDate, newCheckOut) == 0 {
			return fmt.Errorf("%w: checkout date unchanged", ErrValidation)
		}
		if err := s.applyCheckoutChange(ctx, tx, reservation, newCheckOut); err != nil {
			return err
		}
		result = reservation
		return nil
	})
	if err != nil {
		return nil, classifyConflict(err, ErrOverlapConflict)
	}

	s.afterCommit(ctx, result)
	if s.notifier != nil {
		s.notifier.ReservationExtended(result)
	}
	return result, nil
}

// applyCheckoutChange moves the reservation checkout and re-derives billing.
// Positive deltas first re-check the delta interval for conflicting holds;
// negative deltas are validated against the zero floor before anything is
// written.
func (s *modificationService) applyCheckoutChange(ctx context.Context, tx *gorm.DB, reservation *models.Reservation, newCheckOut time.Time) error {
	oldCheckOut := dates.Normalize(reservation.CheckOutDate)
	additionalDays := dates.DaysBetween(oldCheckOut, newCheckOut)

	stays, err := s.stayRepo.FindByReservationID(ctx, tx, reservation.ID)
	if err != nil {
		return err
	}

	if additionalDays > 0 {
		// A bed already held by this reservation is not a conflict with
		// itself, so its own rows are excluded from the blocking set.
		reserved, err := s.stayRepo.ReservedBedIDs(ctx, tx, oldCheckOut, newCheckOut, reservation.ID)
		if err != nil {
			return err
		}
		blocked := make(map[uint]struct{}, len(reserved))
		for _, id := range reserved {
			blocked[id] = struct{}{}
		}
		for _, stay := range stays {
			if stay.BedID == nil || !stayActive(stay) {
				continue
			}
			if _, conflict := blocked[*stay.BedID]; conflict {
				return ErrOverlapConflict
			}
		}
	}

	charge := reservation.DailyRate * int64(additionalDays)
	if additionalDays < 0 {
		if reservation.TotalBillings+charge < 0 || reservation.RemainingBalance+charge < 0 {
			return ErrNegativeBalance
		}
		// A guest's individual stay may start after the reservation does;
		// shortening past that check-in would invert the stay interval.
		for _, stay := range stays {
			if stayActive(stay) && newCheckOut.Before(dates.Normalize(stay.CheckInDate)) {
				return fmt.Errorf("%w: new checkout precedes a guest's check-in", ErrValidation)
			}
		}
	}

	for i := range stays {
		stay := &stays[i]
		if !stayActive(*stay) || dates.DaysBetween(stay.CheckOutDate, oldCheckOut) != 0 {
			continue
		}
		stay.CheckOutDate = newCheckOut
		if !stay.IsExempted && stay.BedID != nil {
			bed, err := s.bedRepo.FindByID(ctx, tx, *stay.BedID)
			if err != nil {
				return err
			}
			stay.AmountBilled += bed.Price * int64(additionalDays)
		}
	}
	if err := s.stayRepo.UpdateBatch(ctx, tx, stays); err != nil {
		return err
	}

	reservation.TotalBillings += charge
	reservation.RemainingBalance += charge
	reservation.CheckOutDate = newCheckOut
	if err := s.reservationRepo.Save(ctx, tx, reservation); err != nil {
		return err
	}

	return s.reservationRepo.CreateExtension(ctx, tx, &models.ExtendedReservation{
		ReservationID:   reservation.ID,
		OldCheckOutDate: oldCheckOut,
		NewCheckOutDate: newCheckOut,
		DaysExtended:    additionalDays,
	})
}

// CancelReservation is irreversible: stay details and guests are deleted
// (freeing the beds immediately, availability being derived from active
// stays) and billing is zeroed. Rebooking happens through a new reservation
// linked by a RebookReservation row.
func (s *modificationService) CancelReservation(ctx context.Context, reservationID uint) error {
	var canceled *models.Reservation
	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.reservationRepo.FindByIDForUpdate(ctx, tx, reservationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !reservation.CanCancel() {
			return ErrInvalidStatus
		}

		if err := s.stayRepo.DeleteByReservation(ctx, tx, reservationID); err != nil {
			return err
		}
		if err := s.reservationRepo.DeleteGuestsByReservation(ctx, tx, reservationID); err != nil {
			return err
		}

		reservation.Status = models.StatusCanceled
		reservation.TotalBillings = 0
		reservation.RemainingBalance = 0
		reservation.Guests = nil
		reservation.StayDetails = nil
		if err := s.reservationRepo.Save(ctx, tx, reservation); err != nil {
			return err
		}
		canceled = reservation
		return nil
	})
	if err != nil {
		return err
	}

	s.afterCommit(ctx, canceled)
	if s.notifier != nil {
		s.notifier.ReservationCanceled(canceled)
	}
	return nil
}

// RebookReservation creates a fresh pending reservation for a canceled one
// and records the audit link between the two, atomically: a rebooking without
// its link must not survive.
func (s *modificationService) RebookReservation(ctx context.Context, canceledID uint, params CreateReservationParams) (*models.Reservation, error) {
	var created *models.Reservation
	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := s.reservationRepo.FindByIDForUpdate(ctx, tx, canceledID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if old.Status != models.StatusCanceled {
			return ErrInvalidStatus
		}
		if params.OfficeID == 0 {
			params.OfficeID = old.OfficeID
		}
		if params.GuestName == "" {
			params.GuestName = old.GuestName
			params.GuestEmail = old.GuestEmail
		}

		created, err = s.reservations.CreateReservationTx(ctx, tx, params)
		if err != nil {
			return err
		}
		return s.reservationRepo.CreateRebookLink(ctx, tx, &models.RebookReservation{
			CanceledReservationID: old.ID,
			NewReservationID:      created.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ReservationCreated(created)
	}
	return created, nil
}

// UpdateStatus drives the confirmed -> checked_in -> checked_out edges of the
// state machine. Cancellation has its own path; everything else is rejected.
func (s *modificationService) UpdateStatus(ctx context.Context, reservationID uint, status models.ReservationStatus) (*models.Reservation, error) {
	var result *models.Reservation
	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.reservationRepo.FindByIDForUpdate(ctx, tx, reservationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		valid := (reservation.Status == models.StatusConfirmed && status == models.StatusCheckedIn) ||
			(reservation.Status == models.StatusCheckedIn && status == models.StatusCheckedOut)
		if !valid {
			return ErrInvalidStatus
		}

		reservation.Status = status
		if err := s.stayRepo.UpdateStatusByReservation(ctx, tx, reservationID, status); err != nil {
			return err
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

	s.afterCommit(ctx, result)
	return result, nil
}

// lockActiveReservation loads the row under FOR UPDATE and rejects terminal
// or not-yet-assigned reservations.
func (s *modificationService) lockActiveReservation(ctx context.Context, tx *gorm.DB, reservationID uint) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.FindByIDForUpdate(ctx, tx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if reservation.Status != models.StatusConfirmed && reservation.Status != models.StatusCheckedIn {
		return nil, ErrInvalidStatus
	}
	return reservation, nil
}

func (s *modificationService) afterCommit(ctx context.Context, reservation *models.Reservation) {
	if s.cache != nil && reservation != nil {
		s.cache.InvalidateOffice(ctx, reservation.OfficeID)
	}
}

func stayActive(stay models.StayDetail) bool {
	return stay.Status != models.StatusCanceled && stay.Status != models.StatusCheckedOut
}
