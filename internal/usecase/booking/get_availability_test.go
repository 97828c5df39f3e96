package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
)

// 2026-03-10 is a Tuesday.
var availabilityDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func TestGetAvailability_ListsFreeStarts(t *testing.T) {
	repo := newFakeRepo()
	repo.slots[10] = []models.AvailabilitySlot{
		{Weekday: int(time.Tuesday), StartTime: "09:00", EndTime: "12:00", Timezone: "UTC", Active: true},
	}

	uc := NewGetAvailability(repo)

	got, err := uc.Execute(context.Background(), 10, availabilityDate, 60)

	require.NoError(t, err)
	assert.Equal(t, []TimeSlot{
		{Start: "09:00", End: "10:00"},
		{Start: "10:00", End: "11:00"},
		{Start: "11:00", End: "12:00"},
	}, got)
}

func TestGetAvailability_BookedSlotOmitted(t *testing.T) {
	repo := newFakeRepo()
	repo.slots[10] = []models.AvailabilitySlot{
		{Weekday: int(time.Tuesday), StartTime: "09:00", EndTime: "12:00", Timezone: "UTC", Active: true},
	}
	repo.bookings[1] = &models.Booking{
		ID: 1, TutorProfileID: 10,
		ScheduledAt: availabilityDate.Add(10 * time.Hour),
		DurationMin: 60, Status: string(domain.StatusConfirmed),
	}

	uc := NewGetAvailability(repo)

	got, err := uc.Execute(context.Background(), 10, availabilityDate, 60)

	require.NoError(t, err)
	assert.Equal(t, []TimeSlot{
		{Start: "09:00", End: "10:00"},
		{Start: "11:00", End: "12:00"},
	}, got)
}

func TestGetAvailability_CancelledBookingFreesSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.slots[10] = []models.AvailabilitySlot{
		{Weekday: int(time.Tuesday), StartTime: "09:00", EndTime: "11:00", Timezone: "UTC", Active: true},
	}
	repo.bookings[1] = &models.Booking{
		ID: 1, TutorProfileID: 10,
		ScheduledAt: availabilityDate.Add(9 * time.Hour),
		DurationMin: 60, Status: string(domain.StatusCancelled),
	}

	uc := NewGetAvailability(repo)

	got, err := uc.Execute(context.Background(), 10, availabilityDate, 60)

	require.NoError(t, err)
	assert.Equal(t, []TimeSlot{
		{Start: "09:00", End: "10:00"},
		{Start: "10:00", End: "11:00"},
	}, got)
}

func TestGetAvailability_NoSlotForDay(t *testing.T) {
	repo := newFakeRepo()

	uc := NewGetAvailability(repo)

	got, err := uc.Execute(context.Background(), 10, availabilityDate, 60)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetAvailability_BadDuration(t *testing.T) {
	repo := newFakeRepo()

	uc := NewGetAvailability(repo)

	_, err := uc.Execute(context.Background(), 10, availabilityDate, 45)

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidDuration))
}
