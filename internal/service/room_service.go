package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Eursukkul/dormmate-service/internal/domain"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomService interface {
	List(ctx context.Context, q string) ([]models.Room, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Room, error)
	Create(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateRoomRequest) (*models.Room, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type roomService struct {
	tx       repository.Transactor
	rooms    repository.RoomRepository
	bookings repository.BookingRepository
	pub      realtime.Publisher
}

func NewRoomService(tx repository.Transactor, rooms repository.RoomRepository, bookings repository.BookingRepository, pub realtime.Publisher) RoomService {
	return &roomService{tx: tx, rooms: rooms, bookings: bookings, pub: pub}
}

func RoomSearchFields(r models.Room) []string {
	return []string{r.RoomNumber, strconv.Itoa(r.Floor)}
}

func (s *roomService) List(ctx context.Context, q string) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return domain.Filter(rooms, q, RoomSearchFields), nil
}

func (s *roomService) Get(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *roomService) Create(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	room := &models.Room{
		RoomNumber:    strings.TrimSpace(req.RoomNumber),
		Floor:         req.Floor,
		Capacity:      req.Capacity,
		PricePerMonth: req.PricePerMonth,
		Amenities:     req.Amenities,
		IsAvailable:   true,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrRoomNumberTaken
		}
		return nil, fmt.Errorf("create room: %w", err)
	}
	realtime.Emit(s.pub, realtime.TableRooms, realtime.Insert, dto.ToRoomResponse(room), nil)
	return room, nil
}

// Update locks the room so a capacity change cannot race a booking write.
func (s *roomService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateRoomRequest) (*models.Room, error) {
	var room *models.Room
	var old dto.RoomResponse

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		room, err = s.rooms.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrRoomNotFound
			}
			return err
		}
		old = dto.ToRoomResponse(room)

		if req.RoomNumber != nil {
			room.RoomNumber = strings.TrimSpace(*req.RoomNumber)
		}
		if req.Floor != nil {
			room.Floor = *req.Floor
		}
		if req.PricePerMonth != nil {
			room.PricePerMonth = *req.PricePerMonth
		}
		if req.Amenities != nil {
			room.Amenities = req.Amenities
		}

		active, err := s.bookings.CountActiveByRoom(ctx, tx, id, uuid.Nil)
		if err != nil {
			return err
		}
		if req.Capacity != nil {
			if int64(*req.Capacity) < active {
				return ErrCapacityBelowActive
			}
			room.Capacity = *req.Capacity
		}
		room.IsAvailable = active < int64(room.Capacity)

		if err := s.rooms.Update(ctx, tx, room); err != nil {
			if repository.IsDuplicate(err) {
				return ErrRoomNumberTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	realtime.Emit(s.pub, realtime.TableRooms, realtime.Update, dto.ToRoomResponse(room), old)
	return room, nil
}

func (s *roomService) Delete(ctx context.Context, id uuid.UUID) error {
	var room *models.Room
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		room, err = s.rooms.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrRoomNotFound
			}
			return err
		}
		active, err := s.bookings.CountActiveByRoom(ctx, tx, id, uuid.Nil)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrRoomOccupied
		}
		return s.rooms.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	realtime.Emit(s.pub, realtime.TableRooms, realtime.Delete, nil, dto.ToRoomResponse(room))
	return nil
}
