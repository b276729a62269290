package service

import (
	"context"
	"testing"
	"time"

	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAvailableBeds_ExcludesReservedBeds(t *testing.T) {
	env := newTestEnv(t)
	office, _, beds := env.seedOffice(t, models.GenderAny, 200, 250)

	reservation := env.createPending(t, office.ID,
		day(t, 2025, time.June, 1), day(t, 2025, time.June, 3),
		guestSpec{name: "Ana Cruz", gender: models.GenderFemale})
	env.assignAll(t, reservation, beds[:1])
	_, err := env.billing.RecordPayment(context.Background(), reservation.ID, 400, "cash")
	require.NoError(t, err)

	// Overlapping window: only the second bed is free.
	available, err := env.availability.ListAvailableBeds(context.Background(), office.ID,
		day(t, 2025, time.June, 2), day(t, 2025, time.June, 4))
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, beds[1].ID, available[0].BedID)
	assert.Equal(t, int64(250), available[0].Price)

	// Disjoint window: both beds are free (balance settled, no soft hold).
	available, err = env.availability.ListAvailableBeds(context.Background(), office.ID,
		day(t, 2025, time.July, 1), day(t, 2025, time.July, 3))
	require.NoError(t, err)
	assert.Len(t, available, 2)
}

func TestListAvailableBeds_IncludesBalanceHolds(t *testing.T) {
	env := newTestEnv(t)
	office, _, beds := env.seedOffice(t, models.GenderAny, 200, 250)

	reservation := env.createPending(t, office.ID,
		day(t, 2025, time.June, 1), day(t, 2025, time.June, 3),
		guestSpec{name: "Ana Cruz", gender: models.GenderFemale})
	env.assignAll(t, reservation, beds[:1])

	// Unpaid: the bed is held even for a disjoint window.
	available, err := env.availability.ListAvailableBeds(context.Background(), office.ID,
		day(t, 2025, time.July, 1), day(t, 2025, time.July, 3))
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, beds[1].ID, available[0].BedID)
}

func TestReservedBedIDs_IdempotentWithoutWrites(t *testing.T) {
	env := newTestEnv(t)
	office, _, beds := env.seedOffice(t, models.GenderAny, 200, 200)

	reservation := env.createPending(t, office.ID,
		day(t, 2025, time.June, 1), day(t, 2025, time.June, 3),
		guestSpec{name: "Ana Cruz", gender: models.GenderFemale},
		guestSpec{name: "Ben Reyes", gender: models.GenderMale},
	)
	env.assignAll(t, reservation, beds)

	first, err := env.stayRepo.ReservedBedIDs(context.Background(), nil,
		day(t, 2025, time.June, 2), day(t, 2025, time.June, 4), 0)
	require.NoError(t, err)
	second, err := env.stayRepo.ReservedBedIDs(context.Background(), nil,
		day(t, 2025, time.June, 2), day(t, 2025, time.June, 4), 0)
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
	assert.Len(t, first, 2)
}

func TestListAvailableBeds_ReportsScheduleEligibility(t *testing.T) {
	env := newTestEnv(t)
	office, room, _ := env.seedOffice(t, models.GenderAny, 200)

	require.NoError(t, env.eligibility.CreateSchedule(context.Background(), &models.EligibleGenderSchedule{
		RoomID:         room.ID,
		StartDate:      day(t, 2025, time.June, 1),
		EndDate:        day(t, 2025, time.June, 30),
		EligibleGender: models.GenderFemale,
	}))

	// Inside the schedule window the override wins.
	available, err := env.availability.ListAvailableBeds(context.Background(), office.ID,
		day(t, 2025, time.June, 10), day(t, 2025, time.June, 12))
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, models.GenderFemale, available[0].Eligibility)

	// Outside it the room default applies.
	available, err = env.availability.ListAvailableBeds(context.Background(), office.ID,
		day(t, 2025, time.July, 10), day(t, 2025, time.July, 12))
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, models.GenderAny, available[0].Eligibility)
}

func TestEffectiveEligibility_ScheduleBoundsInclusive(t *testing.T) {
	env := newTestEnv(t)
	_, room, _ := env.seedOffice(t, models.GenderMale, 200)

	require.NoError(t, env.eligibility.CreateSchedule(context.Background(), &models.EligibleGenderSchedule{
		RoomID:         room.ID,
		StartDate:      day(t, 2025, time.June, 5),
		EndDate:        day(t, 2025, time.June, 10),
		EligibleGender: models.GenderFemale,
	}))

	for _, tc := range []struct {
		date time.Time
		want models.Gender
	}{
		{day(t, 2025, time.June, 4), models.GenderMale},
		{day(t, 2025, time.June, 5), models.GenderFemale},
		{day(t, 2025, time.June, 10), models.GenderFemale},
		{day(t, 2025, time.June, 11), models.GenderMale},
	} {
		got, err := env.eligibility.EffectiveEligibility(context.Background(), nil, room, tc.date)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "date %s", tc.date.Format("2006-01-02"))
	}
}

func TestCreateSchedule_RejectsOverlap(t *testing.T) {
	env := newTestEnv(t)
	_, room, _ := env.seedOffice(t, models.GenderAny, 200)

	require.NoError(t, env.eligibility.CreateSchedule(context.Background(), &models.EligibleGenderSchedule{
		RoomID:         room.ID,
		StartDate:      day(t, 2025, time.June, 1),
		EndDate:        day(t, 2025, time.June, 15),
		EligibleGender: models.GenderFemale,
	}))

	err := env.eligibility.CreateSchedule(context.Background(), &models.EligibleGenderSchedule{
		RoomID:         room.ID,
		StartDate:      day(t, 2025, time.June, 15),
		EndDate:        day(t, 2025, time.June, 30),
		EligibleGender: models.GenderMale,
	})
	assert.ErrorIs(t, err, ErrScheduleOverlap)

	// Adjacent but disjoint is fine.
	require.NoError(t, env.eligibility.CreateSchedule(context.Background(), &models.EligibleGenderSchedule{
		RoomID:         room.ID,
		StartDate:      day(t, 2025, time.June, 16),
		EndDate:        day(t, 2025, time.June, 30),
		EligibleGender: models.GenderMale,
	}))
}

func TestListAvailableBeds_InvalidRange(t *testing.T) {
	env := newTestEnv(t)
	office, _, _ := env.seedOffice(t, models.GenderAny, 200)

	_, err := env.availability.ListAvailableBeds(context.Background(), office.ID,
		day(t, 2025, time.June, 3), day(t, 2025, time.June, 1))
	assert.ErrorIs(t, err, ErrValidation)
}
