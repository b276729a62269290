package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hostelhq/reservation-service/internal/dates"
	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/internal/repository"
	"github.com/hostelhq/reservation-service/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack against an in-memory sqlite database.
// Notifier and cache are nil: post-commit side effects are not under test here.
type testEnv struct {
	db *gorm.DB

	officeRepo      repository.OfficeRepository
	bedRepo         repository.BedRepository
	scheduleRepo    repository.ScheduleRepository
	stayRepo        repository.StayDetailRepository
	reservationRepo repository.ReservationRepository

	eligibility  EligibilityResolver
	availability AvailabilityService
	reservations ReservationService
	allocation   AllocationService
	modification ModificationService
	billing      BillingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// One shared in-memory database per test; the name keeps parallel tests apart.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{db: db}
	env.officeRepo = repository.NewOfficeRepository(db)
	env.bedRepo = repository.NewBedRepository(db)
	env.scheduleRepo = repository.NewScheduleRepository(db)
	env.stayRepo = repository.NewStayDetailRepository(db)
	env.reservationRepo = repository.NewReservationRepository(db)

	env.eligibility = NewEligibilityResolver(env.scheduleRepo, nil)
	env.availability = NewAvailabilityService(env.bedRepo, env.stayRepo, env.eligibility, nil, nil)
	env.reservations = NewReservationService(env.reservationRepo, env.officeRepo, nil, nil)
	env.allocation = NewAllocationService(env.reservationRepo, env.stayRepo, env.bedRepo, env.availability, env.eligibility, nil, nil, nil)
	env.modification = NewModificationService(env.reservationRepo, env.stayRepo, env.bedRepo, env.reservations, nil, nil, nil)
	env.billing = NewBillingService(env.reservationRepo, nil, nil, nil)
	return env
}

func day(t *testing.T, y int, m time.Month, d int) time.Time {
	t.Helper()
	return time.Date(y, m, d, 0, 0, 0, 0, dates.Location)
}

// seedOffice creates an office with one room (given eligibility) holding beds
// at the given prices. Returns the office, room and beds in order.
func (env *testEnv) seedOffice(t *testing.T, eligibility models.Gender, prices ...int64) (*models.Office, *models.Room, []models.Bed) {
	t.Helper()

	office := &models.Office{Name: "Manila Main", Code: "MNL"}
	require.NoError(t, env.db.Create(office).Error)

	room := &models.Room{OfficeID: office.ID, Name: "Room 101", EligibleGender: eligibility}
	require.NoError(t, env.db.Create(room).Error)

	beds := make([]models.Bed, len(prices))
	for i, price := range prices {
		beds[i] = models.Bed{RoomID: room.ID, Name: fmt.Sprintf("Bed %d", i+1), Price: price}
		require.NoError(t, env.db.Create(&beds[i]).Error)
	}
	return office, room, beds
}

type guestSpec struct {
	name     string
	gender   models.Gender
	exempted bool
}

// createPending creates a pending reservation covering [checkIn, checkOut]
// for the given guests.
func (env *testEnv) createPending(t *testing.T, officeID uint, checkIn, checkOut time.Time, guests ...guestSpec) *models.Reservation {
	t.Helper()

	params := CreateReservationParams{
		OfficeID:  officeID,
		GuestName: guests[0].name,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
	}
	for _, g := range guests {
		params.Guests = append(params.Guests, GuestParams{
			FullName:   g.name,
			Gender:     g.gender,
			IsExempted: g.exempted,
		})
	}
	reservation, err := env.reservations.CreateReservation(context.Background(), params)
	require.NoError(t, err)
	return reservation
}

// assignAll pairs guests with beds positionally and requires success.
func (env *testEnv) assignAll(t *testing.T, reservation *models.Reservation, beds []models.Bed) *models.Reservation {
	t.Helper()

	pairs := make([]GuestBedPair, len(reservation.Guests))
	for i, g := range reservation.Guests {
		pairs[i] = GuestBedPair{GuestID: g.ID, BedID: beds[i].ID}
	}
	assigned, err := env.allocation.AssignBeds(context.Background(), reservation.ID, pairs)
	require.NoError(t, err)
	return assigned
}
