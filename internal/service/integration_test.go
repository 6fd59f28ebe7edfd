//go:build integration

package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingService(pub realtime.Publisher) service.BookingService {
	return service.NewBookingService(
		repository.NewTransactor(testDB),
		repository.NewBookingRepository(testDB),
		repository.NewRoomRepository(testDB),
		repository.NewUserRepository(testDB),
		pub,
	)
}

func bookingRequest(user *models.User, room *models.Room) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		UserID:    user.ID.String(),
		RoomID:    room.ID.String(),
		StartDate: "2026-08-01",
		EndDate:   "2027-05-31",
	}
}

// 12 students race for a 3 bed room: exactly 3 are admitted and the room
// ends unavailable.
func TestConcurrentCapacityGate(t *testing.T) {
	cleanTables()
	room := createRoom(t, "B-204", 3)
	svc := newBookingService(nil)

	students := make([]*models.User, 12)
	for i := range students {
		students[i] = createStudent(t, fmt.Sprintf("student-%02d", i))
	}

	var wg sync.WaitGroup
	var admitted, full, other int
	var mu sync.Mutex
	for _, s := range students {
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), bookingRequest(u, room))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				admitted++
			case errors.Is(err, service.ErrRoomFull):
				full++
			default:
				other++
				t.Logf("unexpected error: %v", err)
			}
		}(s)
	}
	wg.Wait()

	assert.Equal(t, 3, admitted)
	assert.Equal(t, 9, full)
	assert.Zero(t, other)

	var active int64
	require.NoError(t, testDB.Model(&models.Booking{}).
		Where("room_id = ? AND status IN ?", room.ID, models.ActiveBookingStatuses).
		Count(&active).Error)
	assert.Equal(t, int64(3), active)

	var reloaded models.Room
	require.NoError(t, testDB.First(&reloaded, "id = ?", room.ID).Error)
	assert.False(t, reloaded.IsAvailable)
}

func TestAttendanceIsIdempotentPerDay(t *testing.T) {
	cleanTables()
	student := createStudent(t, "Asha Rao")
	var events []realtime.Event
	pub := realtime.NewLocalPublisher(func(ev realtime.Event) { events = append(events, ev) })
	svc := service.NewAttendanceService(
		repository.NewTransactor(testDB),
		repository.NewAttendanceRepository(testDB),
		repository.NewUserRepository(testDB),
		pub,
	)
	ctx := context.Background()

	first, err := svc.CheckIn(ctx, student.ID)
	require.NoError(t, err)
	second, err := svc.CheckIn(ctx, student.ID)
	require.NoError(t, err)
	out, err := svc.CheckOut(ctx, student.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ID, out.ID)
	require.NotNil(t, out.CheckIn)
	require.NotNil(t, out.CheckOut)

	var rows int64
	require.NoError(t, testDB.Model(&models.Attendance{}).Where("user_id = ?", student.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	counters, err := svc.Counters(ctx, svc.Today())
	require.NoError(t, err)
	assert.Equal(t, dto.AttendanceCounters{CheckedInToday: 1, CheckedOutToday: 1, CurrentlyOutside: 0}, counters)

	require.Len(t, events, 3)
	assert.Equal(t, realtime.Insert, events[0].Type)
	assert.Equal(t, realtime.Update, events[1].Type)
	assert.Equal(t, realtime.Update, events[2].Type)
}

func TestBookingRoundTrip(t *testing.T) {
	cleanTables()
	room := createRoom(t, "C-301", 1)
	student := createStudent(t, "Ravi Kumar")
	svc := newBookingService(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, bookingRequest(student, room))
	require.NoError(t, err)
	require.NotNil(t, created.User)
	require.NotNil(t, created.Room)
	assert.Equal(t, "Ravi Kumar", created.User.FullName)
	assert.False(t, created.Room.IsAvailable)

	listed, err := svc.List(ctx, repository.BookingFilter{}, "c-301")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	cancelled := string(models.BookingCancelled)
	updated, err := svc.Update(ctx, created.ID, dto.UpdateBookingRequest{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, updated.Status)

	var reloaded models.Room
	require.NoError(t, testDB.First(&reloaded, "id = ?", room.ID).Error)
	assert.True(t, reloaded.IsAvailable)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrBookingNotFound)
}
