package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Eursukkul/dormmate-service/internal/domain"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
)

type StatsService interface {
	// Summary recomputes every aggregate from the current row sets.
	Summary(ctx context.Context) (*dto.StatsSummary, error)
	Close()
}

type statsService struct {
	rooms      repository.RoomRepository
	bookings   repository.BookingRepository
	users      repository.UserRepository
	attendance AttendanceService
	hub        *realtime.Hub

	mu         sync.Mutex
	roomRows   *realtime.Collection[dto.RoomResponse]
	activeRows *realtime.Collection[dto.BookingResponse]
}

// NewStatsService reads rooms and active bookings through hub-patched
// collections when hub is not nil, and with a bulk read on each call
// otherwise.
func NewStatsService(rooms repository.RoomRepository, bookings repository.BookingRepository, users repository.UserRepository, attendance AttendanceService, hub *realtime.Hub) StatsService {
	return &statsService{rooms: rooms, bookings: bookings, users: users, attendance: attendance, hub: hub}
}

func (s *statsService) Summary(ctx context.Context) (*dto.StatsSummary, error) {
	rooms, active, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	perRoom := make(map[string]int, len(rooms))
	for _, b := range active {
		perRoom[b.RoomID.String()]++
	}
	loads := make([]domain.RoomLoad, 0, len(rooms))
	available := 0
	for _, r := range rooms {
		if r.IsAvailable {
			available++
		}
		loads = append(loads, domain.RoomLoad{Capacity: r.Capacity, Active: perRoom[r.ID.String()]})
	}
	capacity, occupied := domain.Totals(loads)

	students, err := s.users.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	counters, err := s.attendance.Counters(ctx, s.attendance.Today())
	if err != nil {
		return nil, err
	}

	return &dto.StatsSummary{
		TotalRooms:       len(rooms),
		AvailableRooms:   available,
		TotalCapacity:    capacity,
		TotalOccupied:    occupied,
		OccupancyRate:    domain.OccupancyRate(occupied, capacity),
		TotalStudents:    int(students),
		CheckedInToday:   counters.CheckedInToday,
		CheckedOutToday:  counters.CheckedOutToday,
		CurrentlyOutside: counters.CurrentlyOutside,
	}, nil
}

func (s *statsService) snapshot(ctx context.Context) ([]dto.RoomResponse, []dto.BookingResponse, error) {
	if s.hub == nil {
		return s.load(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roomRows == nil {
		roomRows := realtime.NewCollection(realtime.CollectionConfig[dto.RoomResponse]{
			Table:   realtime.TableRooms,
			Key:     func(r dto.RoomResponse) string { return r.ID.String() },
			Compare: func(a, b dto.RoomResponse) int { return strings.Compare(a.RoomNumber, b.RoomNumber) },
		})
		activeRows := realtime.NewCollection(realtime.CollectionConfig[dto.BookingResponse]{
			Table: realtime.TableBookings,
			Key:   func(b dto.BookingResponse) string { return b.ID.String() },
			Keep:  func(b dto.BookingResponse) bool { return b.Status.Active() },
		})
		// Subscribe before the bulk read so no change between the two is lost.
		roomRows.Follow(s.hub)
		activeRows.Follow(s.hub)
		rooms, active, err := s.load(ctx)
		if err != nil {
			roomRows.Close()
			activeRows.Close()
			return nil, nil, err
		}
		roomRows.Load(rooms)
		activeRows.Load(active)
		s.roomRows, s.activeRows = roomRows, activeRows
		log.Printf("[StatsService] following rooms (%d) and active bookings (%d)", len(rooms), len(active))
	}
	return s.roomRows.Items(), s.activeRows.Items(), nil
}

func (s *statsService) load(ctx context.Context) ([]dto.RoomResponse, []dto.BookingResponse, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list rooms: %w", err)
	}
	active, err := s.bookings.List(ctx, repository.BookingFilter{Statuses: models.ActiveBookingStatuses})
	if err != nil {
		return nil, nil, fmt.Errorf("list active bookings: %w", err)
	}
	return dto.MapSlice(rooms, dto.ToRoomResponse), dto.MapSlice(active, dto.ToBookingResponse), nil
}

func (s *statsService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roomRows != nil {
		s.roomRows.Close()
		s.activeRows.Close()
		s.roomRows, s.activeRows = nil, nil
	}
}
