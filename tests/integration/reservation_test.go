//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hostelhq/reservation-service/internal/dates"
	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/internal/repository"
	"github.com/hostelhq/reservation-service/internal/service"
	"github.com/hostelhq/reservation-service/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	reservations service.ReservationService
	allocation   service.AllocationService
	modification service.ModificationService
	billing      service.BillingService
	availability service.AvailabilityService
}

func newServices() *services {
	officeRepo := repository.NewOfficeRepository(testDB)
	bedRepo := repository.NewBedRepository(testDB)
	scheduleRepo := repository.NewScheduleRepository(testDB)
	stayRepo := repository.NewStayDetailRepository(testDB)
	reservationRepo := repository.NewReservationRepository(testDB)

	eligibility := service.NewEligibilityResolver(scheduleRepo, nil)
	availability := service.NewAvailabilityService(bedRepo, stayRepo, eligibility, nil, nil)
	reservations := service.NewReservationService(reservationRepo, officeRepo, nil, nil)
	allocation := service.NewAllocationService(reservationRepo, stayRepo, bedRepo, availability, eligibility, nil, nil, nil)
	modification := service.NewModificationService(reservationRepo, stayRepo, bedRepo, reservations, nil, nil, nil)
	billing := service.NewBillingService(reservationRepo, nil, nil, nil)

	return &services{
		reservations: reservations,
		allocation:   allocation,
		modification: modification,
		billing:      billing,
		availability: availability,
	}
}

func seedOffice(t *testing.T, bedCount int) (*models.Office, []models.Bed) {
	t.Helper()

	office := &models.Office{Name: "Manila Main", Code: "MNL"}
	require.NoError(t, testDB.Create(office).Error)

	room := &models.Room{OfficeID: office.ID, Name: "Room 101", EligibleGender: models.GenderAny}
	require.NoError(t, testDB.Create(room).Error)

	beds := make([]models.Bed, bedCount)
	for i := range beds {
		beds[i] = models.Bed{RoomID: room.ID, Name: fmt.Sprintf("Bed %d", i+1), Price: 400}
		require.NoError(t, testDB.Create(&beds[i]).Error)
	}
	return office, beds
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, dates.Location)
}

func createPending(t *testing.T, svc *services, officeID uint, guestName string, checkIn, checkOut time.Time) *models.Reservation {
	t.Helper()
	reservation, err := svc.reservations.CreateReservation(context.Background(), service.CreateReservationParams{
		OfficeID:  officeID,
		GuestName: guestName,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests: []service.GuestParams{
			{FullName: guestName, Gender: models.GenderFemale},
		},
	})
	require.NoError(t, err)
	return reservation
}

// Many reservations race to assign the same bed for overlapping dates.
// The exclusion constraint must let exactly one through.
func TestConcurrentAssignSameBed(t *testing.T) {
	cleanTables()
	office, beds := seedOffice(t, 1)
	svc := newServices()

	attempts := 10
	checkIn, checkOut := day(2025, 6, 1), day(2025, 6, 5)

	reservations := make([]*models.Reservation, attempts)
	for i := range reservations {
		reservations[i] = createPending(t, svc, office.ID, fmt.Sprintf("Guest %03d", i), checkIn, checkOut)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0
	conflictCount := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(r *models.Reservation) {
			defer wg.Done()
			pairs := []service.GuestBedPair{{GuestID: r.Guests[0].ID, BedID: beds[0].ID}}
			_, err := svc.allocation.AssignBeds(context.Background(), r.ID, pairs)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successCount++
			} else if assert.ErrorIs(t, err, service.ErrBedUnavailable) {
				conflictCount++
			}
		}(reservations[i])
	}
	wg.Wait()

	assert.Equal(t, 1, successCount, "exactly one reservation should win the bed")
	assert.Equal(t, attempts-1, conflictCount)

	var active int64
	testDB.Model(&models.StayDetail{}).
		Where("bed_id = ? AND status NOT IN ?", beds[0].ID, []string{"canceled", "checked_out"}).
		Count(&active)
	assert.Equal(t, int64(1), active, "DB should hold exactly one active stay on the bed")
}

// The constraint itself, bypassing the service-level availability check:
// inserting an overlapping active stay for the same bed must fail with a
// conflict the service layer can classify.
func TestExclusionConstraintDirectInsert(t *testing.T) {
	cleanTables()
	office, beds := seedOffice(t, 1)
	svc := newServices()

	r1 := createPending(t, svc, office.ID, "First Guest", day(2025, 7, 1), day(2025, 7, 10))
	r2 := createPending(t, svc, office.ID, "Second Guest", day(2025, 7, 5), day(2025, 7, 6))

	_, err := svc.allocation.AssignBeds(context.Background(), r1.ID, []service.GuestBedPair{
		{GuestID: r1.Guests[0].ID, BedID: beds[0].ID},
	})
	require.NoError(t, err)

	// Update r2's stay row directly, colliding with r1's interval.
	err = testDB.Model(&models.StayDetail{}).
		Where("reservation_id = ?", r2.ID).
		Update("bed_id", beds[0].ID).Error
	require.Error(t, err)
	assert.True(t, database.IsConflict(err), "overlap should surface as an exclusion conflict")
}

// Freeing a bed by checkout makes it visible to availability again.
func TestCheckoutReleasesBed(t *testing.T) {
	cleanTables()
	office, beds := seedOffice(t, 1)
	svc := newServices()

	checkIn, checkOut := day(2025, 8, 1), day(2025, 8, 3)
	r := createPending(t, svc, office.ID, "Ana Cruz", checkIn, checkOut)
	_, err := svc.allocation.AssignBeds(context.Background(), r.ID, []service.GuestBedPair{
		{GuestID: r.Guests[0].ID, BedID: beds[0].ID},
	})
	require.NoError(t, err)

	ids, err := svc.availability.AvailableBedIDs(context.Background(), nil, office.ID, checkIn, checkOut, 0)
	require.NoError(t, err)
	assert.NotContains(t, ids, beds[0].ID)

	// Settle the balance, walk the state machine to checked out.
	_, err = svc.billing.RecordPayment(context.Background(), r.ID, 800, "cash")
	require.NoError(t, err)
	_, err = svc.modification.UpdateStatus(context.Background(), r.ID, models.StatusCheckedIn)
	require.NoError(t, err)
	_, err = svc.modification.UpdateStatus(context.Background(), r.ID, models.StatusCheckedOut)
	require.NoError(t, err)

	ids, err = svc.availability.AvailableBedIDs(context.Background(), nil, office.ID, checkIn, checkOut, 0)
	require.NoError(t, err)
	assert.Contains(t, ids, beds[0].ID)
}
