package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type statsFixture struct {
	rooms      []models.Room
	active     []models.Booking
	roomRepo   *mockRoomRepo
	bookings   *mockBookingRepo
	users      *mockUserRepo
	attendance AttendanceService
	listCalls  int
}

func newStatsFixture() *statsFixture {
	f := &statsFixture{
		rooms: []models.Room{
			{ID: uuid.New(), RoomNumber: "A-101", Capacity: 2, IsAvailable: false},
			{ID: uuid.New(), RoomNumber: "B-201", Capacity: 2, IsAvailable: false},
			{ID: uuid.New(), RoomNumber: "C-301", Capacity: 4, IsAvailable: true},
		},
	}
	for _, r := range f.rooms[:2] {
		for i := 0; i < 2; i++ {
			f.active = append(f.active, models.Booking{ID: uuid.New(), UserID: uuid.New(), RoomID: r.ID, Status: models.BookingApproved})
		}
	}
	f.roomRepo = &mockRoomRepo{
		listFn: func(ctx context.Context) ([]models.Room, error) {
			f.listCalls++
			return f.rooms, nil
		},
	}
	f.bookings = &mockBookingRepo{
		listFn: func(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
			return f.active, nil
		},
	}
	f.users = &mockUserRepo{
		countByRoleFn: func(ctx context.Context, role models.Role) (int64, error) {
			if role == models.RoleStudent {
				return 120, nil
			}
			return 0, nil
		},
	}
	f.attendance = NewAttendanceService(mockTx{}, &mockAttendanceRepo{
		countFn: func(ctx context.Context, date datatypes.Date) (int64, int64, error) {
			return 187, 59, nil
		},
	}, f.users, nil)
	return f
}

func TestStatsSummary_BulkRead(t *testing.T) {
	f := newStatsFixture()
	svc := NewStatsService(f.roomRepo, f.bookings, f.users, f.attendance, nil)
	defer svc.Close()

	s, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, dto.StatsSummary{
		TotalRooms:       3,
		AvailableRooms:   1,
		TotalCapacity:    8,
		TotalOccupied:    4,
		OccupancyRate:    50,
		TotalStudents:    120,
		CheckedInToday:   187,
		CheckedOutToday:  59,
		CurrentlyOutside: 128,
	}, *s)

	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.listCalls, "without a hub every call reads the tables")
}

func TestStatsSummary_FollowsHub(t *testing.T) {
	f := newStatsFixture()
	hub := realtime.NewHub(16)
	defer hub.Close()
	svc := NewStatsService(f.roomRepo, f.bookings, f.users, f.attendance, hub)
	defer svc.Close()

	s, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalOccupied)

	booking := models.Booking{ID: uuid.New(), UserID: uuid.New(), RoomID: f.rooms[2].ID, Status: models.BookingPending}
	ev, err := realtime.NewEvent(realtime.TableBookings, realtime.Insert, dto.ToBookingResponse(&booking), nil)
	require.NoError(t, err)
	hub.Dispatch(ev)

	assert.Eventually(t, func() bool {
		s, err := svc.Summary(context.Background())
		return err == nil && s.TotalOccupied == 5
	}, time.Second, 10*time.Millisecond)

	cancelled := booking
	cancelled.Status = models.BookingCancelled
	ev, err = realtime.NewEvent(realtime.TableBookings, realtime.Update, dto.ToBookingResponse(&cancelled), dto.ToBookingResponse(&booking))
	require.NoError(t, err)
	hub.Dispatch(ev)

	assert.Eventually(t, func() bool {
		s, err := svc.Summary(context.Background())
		return err == nil && s.TotalOccupied == 4
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, f.listCalls, "collections are loaded once")
}

func TestStatsSummary_BurstKeepsTotalsExact(t *testing.T) {
	f := newStatsFixture()
	hub := realtime.NewHub(4)
	defer hub.Close()
	svc := NewStatsService(f.roomRepo, f.bookings, f.users, f.attendance, hub)
	defer svc.Close()

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		room := models.Room{ID: uuid.New(), RoomNumber: fmt.Sprintf("D-%03d", i), Capacity: 1, IsAvailable: true}
		ev, err := realtime.NewEvent(realtime.TableRooms, realtime.Insert, dto.ToRoomResponse(&room), nil)
		require.NoError(t, err)
		hub.Dispatch(ev)
	}

	s, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 203, s.TotalRooms)
	assert.Equal(t, 201, s.AvailableRooms)
	assert.Equal(t, 208, s.TotalCapacity)
	assert.Equal(t, 2, s.OccupancyRate)
}

func TestStatsSummary_KeepsWritesMadeDuringFirstLoad(t *testing.T) {
	f := newStatsFixture()
	hub := realtime.NewHub(16)
	defer hub.Close()

	late := models.Booking{ID: uuid.New(), UserID: uuid.New(), RoomID: f.rooms[2].ID, Status: models.BookingApproved}
	list := f.roomRepo.listFn
	f.roomRepo.listFn = func(ctx context.Context) ([]models.Room, error) {
		rooms, err := list(ctx)
		if f.listCalls == 1 {
			ev, evErr := realtime.NewEvent(realtime.TableBookings, realtime.Insert, dto.ToBookingResponse(&late), nil)
			require.NoError(t, evErr)
			hub.Dispatch(ev)
		}
		return rooms, err
	}
	svc := NewStatsService(f.roomRepo, f.bookings, f.users, f.attendance, hub)
	defer svc.Close()

	s, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5, s.TotalOccupied)
}
