package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hostelhq/reservation-service/internal/dates"
	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EligibilityResolver answers which gender a room accepts on a given date:
// a time-bounded schedule override wins over the room's static setting.
type EligibilityResolver interface {
	EffectiveEligibility(ctx context.Context, tx *gorm.DB, room *models.Room, date time.Time) (models.Gender, error)
	CreateSchedule(ctx context.Context, schedule *models.EligibleGenderSchedule) error
}

type eligibilityResolver struct {
	scheduleRepo repository.ScheduleRepository
	log          *zap.Logger
}

func NewEligibilityResolver(scheduleRepo repository.ScheduleRepository, log *zap.Logger) EligibilityResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &eligibilityResolver{scheduleRepo: scheduleRepo, log: log}
}

// EffectiveEligibility picks the newest schedule covering the date, falling
// back to the room default. Multiple covering schedules violate the
// non-overlap invariant; the pick is deterministic (created_at DESC, id DESC)
// and the violation is logged rather than silently resolved.
func (r *eligibilityResolver) EffectiveEligibility(ctx context.Context, tx *gorm.DB, room *models.Room, date time.Time) (models.Gender, error) {
	schedules, err := r.scheduleRepo.FindActiveForRoom(ctx, tx, room.ID, dates.Normalize(date))
	if err != nil {
		return "", fmt.Errorf("lookup gender schedules: %w", err)
	}
	if len(schedules) == 0 {
		return room.EligibleGender, nil
	}
	if len(schedules) > 1 {
		r.log.Warn("overlapping gender schedules for room, using newest",
			zap.Uint("room_id", room.ID),
			zap.Time("date", date),
			zap.Int("matches", len(schedules)))
	}
	return schedules[0].EligibleGender, nil
}

// CreateSchedule enforces non-overlap at write time so the resolver's
// ambiguous case cannot be created through this service.
func (r *eligibilityResolver) CreateSchedule(ctx context.Context, schedule *models.EligibleGenderSchedule) error {
	schedule.StartDate = dates.Normalize(schedule.StartDate)
	schedule.EndDate = dates.Normalize(schedule.EndDate)
	if schedule.EndDate.Before(schedule.StartDate) {
		return fmt.Errorf("%w: end_date before start_date", ErrValidation)
	}
	exists, err := r.scheduleRepo.OverlapExists(ctx, schedule.RoomID, schedule.StartDate, schedule.EndDate)
	if err != nil {
		return fmt.Errorf("check schedule overlap: %w", err)
	}
	if exists {
		return ErrScheduleOverlap
	}
	return r.scheduleRepo.Create(ctx, schedule)
}
