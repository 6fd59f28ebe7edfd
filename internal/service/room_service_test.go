package service

import (
	"context"
	"testing"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func roomFixture(capacity int, active int64) (*models.Room, *mockRoomRepo, *mockBookingRepo) {
	room := &models.Room{ID: uuid.New(), RoomNumber: "A-101", Floor: 1, Capacity: capacity, IsAvailable: active < int64(capacity)}
	rooms := &mockRoomRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Room, error) {
			if id != room.ID {
				return nil, repository.ErrNotFound
			}
			cp := *room
			return &cp, nil
		},
	}
	bookings := &mockBookingRepo{
		countActiveFn: func(ctx context.Context, tx *gorm.DB, roomID, exclude uuid.UUID) (int64, error) {
			return active, nil
		},
	}
	return room, rooms, bookings
}

func TestCreateRoom_Duplicate(t *testing.T) {
	rooms := &mockRoomRepo{
		createFn: func(ctx context.Context, room *models.Room) error {
			return repository.ErrDuplicate
		},
	}
	svc := NewRoomService(mockTx{}, rooms, &mockBookingRepo{}, nil)

	_, err := svc.Create(context.Background(), dto.CreateRoomRequest{RoomNumber: "A-101", Capacity: 2})

	assert.ErrorIs(t, err, ErrRoomNumberTaken)
}

func TestCreateRoom_StartsAvailable(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewRoomService(mockTx{}, &mockRoomRepo{}, &mockBookingRepo{}, pub)

	room, err := svc.Create(context.Background(), dto.CreateRoomRequest{RoomNumber: " B-12 ", Floor: 2, Capacity: 3})

	require.NoError(t, err)
	assert.Equal(t, "B-12", room.RoomNumber)
	assert.True(t, room.IsAvailable)
	assert.Equal(t, []string{"rooms.insert"}, pub.keys())
}

func TestUpdateRoom_CapacityBelowActive(t *testing.T) {
	room, rooms, bookings := roomFixture(3, 3)
	svc := NewRoomService(mockTx{}, rooms, bookings, nil)
	two := 2

	_, err := svc.Update(context.Background(), room.ID, dto.UpdateRoomRequest{Capacity: &two})

	assert.ErrorIs(t, err, ErrCapacityBelowActive)
}

func TestUpdateRoom_RaisingCapacityFreesRoom(t *testing.T) {
	room, rooms, bookings := roomFixture(2, 2)
	var written *models.Room
	rooms.updateFn = func(ctx context.Context, tx *gorm.DB, r *models.Room) error {
		written = r
		return nil
	}
	svc := NewRoomService(mockTx{}, rooms, bookings, nil)
	four := 4

	updated, err := svc.Update(context.Background(), room.ID, dto.UpdateRoomRequest{Capacity: &four})

	require.NoError(t, err)
	assert.Equal(t, 4, updated.Capacity)
	assert.True(t, updated.IsAvailable)
	assert.Same(t, written, updated)
	assert.Equal(t, []uuid.UUID{room.ID}, rooms.locked)
}

func TestDeleteRoom_Occupied(t *testing.T) {
	room, rooms, bookings := roomFixture(2, 1)
	deleted := false
	rooms.deleteFn = func(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
		deleted = true
		return nil
	}
	svc := NewRoomService(mockTx{}, rooms, bookings, nil)

	err := svc.Delete(context.Background(), room.ID)

	assert.ErrorIs(t, err, ErrRoomOccupied)
	assert.False(t, deleted)
}

func TestDeleteRoom_Empty(t *testing.T) {
	room, rooms, bookings := roomFixture(2, 0)
	pub := &recordingPublisher{}
	svc := NewRoomService(mockTx{}, rooms, bookings, pub)

	require.NoError(t, svc.Delete(context.Background(), room.ID))
	assert.Equal(t, []string{"rooms.delete"}, pub.keys())
}

func TestGetRoom_NotFound(t *testing.T) {
	_, rooms, bookings := roomFixture(2, 0)
	svc := NewRoomService(mockTx{}, rooms, bookings, nil)

	_, err := svc.Get(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestListRooms_SearchByFloor(t *testing.T) {
	rooms := &mockRoomRepo{
		listFn: func(ctx context.Context) ([]models.Room, error) {
			return []models.Room{{RoomNumber: "A-101", Floor: 1}, {RoomNumber: "C-301", Floor: 3}}, nil
		},
	}
	svc := NewRoomService(mockTx{}, rooms, &mockBookingRepo{}, nil)

	out, err := svc.List(context.Background(), "c-3")

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "C-301", out[0].RoomNumber)
}
