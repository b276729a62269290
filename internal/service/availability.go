package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hostelhq/reservation-service/internal/dates"
	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/internal/repository"
	"github.com/hostelhq/reservation-service/pkg/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AvailableBed is one row of the availability listing exposed to the web
// layer: the bed, its room, and the room's effective eligibility at check-in.
type AvailableBed struct {
	RoomID      uint          `json:"room_id"`
	RoomName    string        `json:"room_name"`
	BedID       uint          `json:"bed_id"`
	BedName     string        `json:"bed_name"`
	Price       int64         `json:"price"`
	Eligibility models.Gender `json:"eligibility"`
}

type AvailabilityService interface {
	ListAvailableBeds(ctx context.Context, officeID uint, checkIn, checkOut time.Time) ([]AvailableBed, error)
	// AvailableBedIDs computes the free-bed set inside a caller's transaction:
	// all beds minus overlap-reserved minus pay-later holds.
	AvailableBedIDs(ctx context.Context, tx *gorm.DB, officeID uint, checkIn, checkOut time.Time, excludeReservationID uint) (map[uint]struct{}, error)
}

type availabilityService struct {
	bedRepo     repository.BedRepository
	stayRepo    repository.StayDetailRepository
	eligibility EligibilityResolver
	cache       *cache.AvailabilityCache
	log         *zap.Logger
}

func NewAvailabilityService(
	bedRepo repository.BedRepository,
	stayRepo repository.StayDetailRepository,
	eligibility EligibilityResolver,
	availCache *cache.AvailabilityCache,
	log *zap.Logger,
) AvailabilityService {
	if log == nil {
		log = zap.NewNop()
	}
	return &availabilityService{
		bedRepo:     bedRepo,
		stayRepo:    stayRepo,
		eligibility: eligibility,
		cache:       availCache,
		log:         log,
	}
}

func (s *availabilityService) ListAvailableBeds(ctx context.Context, officeID uint, checkIn, checkOut time.Time) ([]AvailableBed, error) {
	checkIn, checkOut = dates.Normalize(checkIn), dates.Normalize(checkOut)
	if checkOut.Before(checkIn) {
		return nil, fmt.Errorf("%w: check_out before check_in", ErrValidation)
	}

	var cached []AvailableBed
	if s.cache != nil && s.cache.Get(ctx, officeID, checkIn, checkOut, &cached) {
		return cached, nil
	}

	beds, err := s.bedRepo.FindByOfficeID(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("list office beds: %w", err)
	}

	free, err := s.AvailableBedIDs(ctx, nil, officeID, checkIn, checkOut, 0)
	if err != nil {
		return nil, err
	}

	result := make([]AvailableBed, 0, len(free))
	for _, bed := range beds {
		if _, ok := free[bed.ID]; !ok {
			continue
		}
		eligibility := models.GenderAny
		if bed.Room != nil {
			eligibility, err = s.eligibility.EffectiveEligibility(ctx, nil, bed.Room, checkIn)
			if err != nil {
				return nil, err
			}
		}
		row := AvailableBed{
			BedID:   bed.ID,
			BedName: bed.Name,
			Price:   bed.Price,
		}
		if bed.Room != nil {
			row.RoomID = bed.Room.ID
			row.RoomName = bed.Room.Name
		}
		row.Eligibility = eligibility
		result = append(result, row)
	}

	if s.cache != nil {
		s.cache.Set(ctx, officeID, checkIn, checkOut, result)
	}
	return result, nil
}

func (s *availabilityService) AvailableBedIDs(ctx context.Context, tx *gorm.DB, officeID uint, checkIn, checkOut time.Time, excludeReservationID uint) (map[uint]struct{}, error) {
	checkIn, checkOut = dates.Normalize(checkIn), dates.Normalize(checkOut)

	reserved, err := s.stayRepo.ReservedBedIDs(ctx, tx, checkIn, checkOut, excludeReservationID)
	if err != nil {
		return nil, fmt.Errorf("query reserved beds: %w", err)
	}
	held, err := s.stayRepo.BedIDsWithBalance(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("query balance holds: %w", err)
	}

	blocked := make(map[uint]struct{}, len(reserved)+len(held))
	for _, id := range reserved {
		blocked[id] = struct{}{}
	}
	for _, id := range held {
		blocked[id] = struct{}{}
	}

	beds, err := s.bedRepo.FindByOfficeID(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("list office beds: %w", err)
	}
	free := make(map[uint]struct{}, len(beds))
	for _, bed := range beds {
		if _, taken := blocked[bed.ID]; !taken {
			free[bed.ID] = struct{}{}
		}
	}
	return free, nil
}
