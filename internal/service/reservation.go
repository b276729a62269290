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
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GuestParams describes one person in a reservation request. Zero date fields
// inherit the reservation's window.
type GuestParams struct {
	FullName   string        `json:"full_name"`
	Gender     models.Gender `json:"gender"`
	CheckIn    time.Time     `json:"check_in,omitempty"`
	CheckOut   time.Time     `json:"check_out,omitempty"`
	IsExempted bool          `json:"is_exempted"`
}

type CreateReservationParams struct {
	OfficeID   uint          `json:"office_id"`
	GuestName  string        `json:"guest_name"`
	GuestEmail string        `json:"guest_email"`
	CheckIn    time.Time     `json:"check_in_date"`
	CheckOut   time.Time     `json:"check_out_date"`
	Guests     []GuestParams `json:"guests"`
}

type ReservationService interface {
	CreateReservation(ctx context.Context, params CreateReservationParams) (*models.Reservation, error)
	// CreateReservationTx is the transactional core of CreateReservation, for
	// callers that bundle the create with other writes (rebooking).
	CreateReservationTx(ctx context.Context, tx *gorm.DB, params CreateReservationParams) (*models.Reservation, error)
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
}

type reservationService struct {
	reservationRepo repository.ReservationRepository
	officeRepo      repository.OfficeRepository
	notifier        *notifier.Notifier
	log             *zap.Logger
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	officeRepo repository.OfficeRepository,
	ntf *notifier.Notifier,
	log *zap.Logger,
) ReservationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &reservationService{
		reservationRepo: reservationRepo,
		officeRepo:      officeRepo,
		notifier:        ntf,
		log:             log,
	}
}

// CreateReservation writes the pending header plus one guest and one stay
// detail per person. Beds are bound later by the allocation engine. The code
// is sequenced per office per month inside the same transaction, so it stays
// monotonic under concurrent creates.
func (s *reservationService) CreateReservation(ctx context.Context, params CreateReservationParams) (*models.Reservation, error) {
	var result *models.Reservation
	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.CreateReservationTx(ctx, tx, params)
		if err != nil {
			return err
		}
		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.ReservationCreated(result)
	}
	return result, nil
}

// CreateReservationTx does the validated create inside the caller's
// transaction. The office row is locked first so the code sequence stays
// monotonic under concurrent creates; notification is the outer caller's job.
func (s *reservationService) CreateReservationTx(ctx context.Context, tx *gorm.DB, params CreateReservationParams) (*models.Reservation, error) {
	if err := validateCreateParams(&params); err != nil {
		return nil, err
	}

	office, err := s.officeRepo.FindByIDForUpdate(ctx, tx, params.OfficeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: office %d", ErrNotFound, params.OfficeID)
		}
		return nil, err
	}

	code, err := s.nextCode(ctx, tx, office)
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		OfficeID:     office.ID,
		Code:         code,
		GuestName:    params.GuestName,
		GuestEmail:   params.GuestEmail,
		Status:       models.StatusPending,
		CheckInDate:  params.CheckIn,
		CheckOutDate: params.CheckOut,
	}
	for _, g := range params.Guests {
		reservation.Guests = append(reservation.Guests, models.Guest{
			FullName: g.FullName,
			Gender:   g.Gender,
		})
	}
	if err := s.reservationRepo.Create(ctx, tx, reservation); err != nil {
		return nil, err
	}

	for i, g := range params.Guests {
		checkIn, checkOut := g.CheckIn, g.CheckOut
		if checkIn.IsZero() {
			checkIn = params.CheckIn
		}
		if checkOut.IsZero() {
			checkOut = params.CheckOut
		}
		reservation.StayDetails = append(reservation.StayDetails, models.StayDetail{
			ReservationID: reservation.ID,
			GuestID:       reservation.Guests[i].ID,
			CheckInDate:   dates.Normalize(checkIn),
			CheckOutDate:  dates.Normalize(checkOut),
			Status:        models.StatusPending,
			IsExempted:    g.IsExempted,
		})
	}
	if err := tx.WithContext(ctx).Create(&reservation.StayDetails).Error; err != nil {
		return nil, err
	}

	return reservation, nil
}

func (s *reservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return reservation, nil
}

// nextCode formats OFFICE-YYYYMM-NNNN from the office code and this month's
// reservation count.
func (s *reservationService) nextCode(ctx context.Context, tx *gorm.DB, office *models.Office) (string, error) {
	now := time.Now().In(dates.Location)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, dates.Location)
	monthEnd := monthStart.AddDate(0, 1, 0)

	count, err := s.reservationRepo.CountForOfficeMonth(ctx, tx, office.ID, monthStart, monthEnd)
	if err != nil {
		return "", fmt.Errorf("sequence reservation code: %w", err)
	}
	return fmt.Sprintf("%s-%04d%02d-%04d", office.Code, now.Year(), int(now.Month()), count+1), nil
}

func validateCreateParams(params *CreateReservationParams) error {
	if params.GuestName == "" {
		return fmt.Errorf("%w: guest_name is required", ErrValidation)
	}
	if len(params.Guests) == 0 {
		return fmt.Errorf("%w: at least one guest is required", ErrValidation)
	}
	if params.CheckIn.IsZero() || params.CheckOut.IsZero() {
		return fmt.Errorf("%w: check_in_date and check_out_date are required", ErrValidation)
	}
	params.CheckIn = dates.Normalize(params.CheckIn)
	params.CheckOut = dates.Normalize(params.CheckOut)
	if params.CheckOut.Before(params.CheckIn) {
		return fmt.Errorf("%w: check_out_date before check_in_date", ErrValidation)
	}
	for _, g := range params.Guests {
		if g.FullName == "" {
			return fmt.Errorf("%w: guest full_name is required", ErrValidation)
		}
		if g.Gender != models.GenderMale && g.Gender != models.GenderFemale {
			return fmt.Errorf("%w: guest gender must be male or female", ErrValidation)
		}
	}
	return nil
}
