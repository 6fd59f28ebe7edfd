package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/domain"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/metrics"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingService interface {
	List(ctx context.Context, filter repository.BookingFilter, q string) ([]models.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (*models.Booking, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateBookingRequest) (*models.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// CompleteExpired marks approved bookings that ended before now as
	// completed and returns how many it changed.
	CompleteExpired(ctx context.Context, now time.Time) (int, error)
}

type bookingService struct {
	tx       repository.Transactor
	bookings repository.BookingRepository
	rooms    repository.RoomRepository
	users    repository.UserRepository
	pub      realtime.Publisher
}

func NewBookingService(tx repository.Transactor, bookings repository.BookingRepository, rooms repository.RoomRepository, users repository.UserRepository, pub realtime.Publisher) BookingService {
	return &bookingService{tx: tx, bookings: bookings, rooms: rooms, users: users, pub: pub}
}

func BookingSearchFields(b models.Booking) []string {
	var fields []string
	if b.User != nil {
		fields = append(fields, b.User.FullName, b.User.Email)
	}
	if b.Room != nil {
		fields = append(fields, b.Room.RoomNumber)
	}
	return fields
}

// roomChange is a room whose availability flipped inside a transaction.
type roomChange struct {
	old, new dto.RoomResponse
}

func (s *bookingService) List(ctx context.Context, filter repository.BookingFilter, q string) ([]models.Booking, error) {
	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return domain.Filter(bookings, q, BookingSearchFields), nil
}

func (s *bookingService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, nil, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) Create(ctx context.Context, req dto.CreateBookingRequest) (*models.Booking, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, ErrStudentNotFound
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.requireStudent(ctx, userID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:        userID,
		RoomID:        roomID,
		StartDate:     start,
		EndDate:       end,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
	}
	if req.Status != "" {
		booking.Status = models.BookingStatus(req.Status)
	}
	if req.PaymentStatus != "" {
		booking.PaymentStatus = models.PaymentStatus(req.PaymentStatus)
	}
	if !booking.Status.Valid() || !booking.PaymentStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	var changes []roomChange
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		room, err := s.lockRoom(ctx, tx, roomID)
		if err != nil {
			return err
		}
		if booking.Status.Active() {
			if err := s.admit(ctx, tx, room, booking); err != nil {
				return err
			}
		}
		if err := s.bookings.Create(ctx, tx, booking); err != nil {
			if repository.IsDuplicate(err) {
				return ErrAlreadyAssigned
			}
			return err
		}
		ch, err := s.refreshAvailability(ctx, tx, room)
		if err != nil {
			return err
		}
		changes = appendChange(changes, ch)
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := s.reload(ctx, booking)
	realtime.Emit(s.pub, realtime.TableBookings, realtime.Insert, dto.ToBookingResponse(created), nil)
	s.emitRooms(changes)
	return created, nil
}

func (s *bookingService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateBookingRequest) (*models.Booking, error) {
	var (
		before  dto.BookingResponse
		booking *models.Booking
		changes []roomChange
	)
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		current, err := s.bookings.FindByID(ctx, tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrBookingNotFound
			}
			return err
		}
		before = dto.ToBookingResponse(current)

		next := *current
		next.User, next.Room = nil, nil
		if err := applyBookingUpdate(&next, req); err != nil {
			return err
		}

		// Lock every room the write touches in a fixed order.
		ids := []uuid.UUID{current.RoomID}
		if next.RoomID != current.RoomID {
			ids = append(ids, next.RoomID)
		}
		slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
		locked := make(map[uuid.UUID]*models.Room, len(ids))
		for _, rid := range ids {
			room, err := s.lockRoom(ctx, tx, rid)
			if err != nil {
				return err
			}
			locked[rid] = room
		}

		if next.Status.Active() {
			if err := s.admit(ctx, tx, locked[next.RoomID], &next); err != nil {
				return err
			}
		}
		if err := s.bookings.Update(ctx, tx, &next); err != nil {
			return err
		}
		for _, rid := range ids {
			ch, err := s.refreshAvailability(ctx, tx, locked[rid])
			if err != nil {
				return err
			}
			changes = appendChange(changes, ch)
		}
		booking = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated := s.reload(ctx, booking)
	realtime.Emit(s.pub, realtime.TableBookings, realtime.Update, dto.ToBookingResponse(updated), before)
	s.emitRooms(changes)
	return updated, nil
}

func (s *bookingService) Delete(ctx context.Context, id uuid.UUID) error {
	var (
		before  dto.BookingResponse
		changes []roomChange
	)
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		current, err := s.bookings.FindByID(ctx, tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrBookingNotFound
			}
			return err
		}
		before = dto.ToBookingResponse(current)

		room, err := s.lockRoom(ctx, tx, current.RoomID)
		if err != nil {
			return err
		}
		if err := s.bookings.Delete(ctx, tx, id); err != nil {
			return err
		}
		ch, err := s.refreshAvailability(ctx, tx, room)
		if err != nil {
			return err
		}
		changes = appendChange(changes, ch)
		return nil
	})
	if err != nil {
		return err
	}
	realtime.Emit(s.pub, realtime.TableBookings, realtime.Delete, nil, before)
	s.emitRooms(changes)
	return nil
}

func (s *bookingService) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
	type completed struct{ old, new models.Booking }
	var (
		done    []completed
		changes []roomChange
	)
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		expired, err := s.bookings.FindExpired(ctx, tx, dto.DateOf(now))
		if err != nil {
			return err
		}
		rooms := make(map[uuid.UUID]*models.Room)
		for _, b := range expired {
			if _, ok := rooms[b.RoomID]; ok {
				continue
			}
			room, err := s.lockRoom(ctx, tx, b.RoomID)
			if err != nil {
				return err
			}
			rooms[b.RoomID] = room
		}
		for _, b := range expired {
			next := b
			next.Status = models.BookingCompleted
			if err := s.bookings.Update(ctx, tx, &next); err != nil {
				return err
			}
			done = append(done, completed{old: b, new: next})
		}
		for _, room := range rooms {
			ch, err := s.refreshAvailability(ctx, tx, room)
			if err != nil {
				return err
			}
			changes = appendChange(changes, ch)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	for _, c := range done {
		realtime.Emit(s.pub, realtime.TableBookings, realtime.Update, dto.ToBookingResponse(&c.new), dto.ToBookingResponse(&c.old))
	}
	s.emitRooms(changes)
	metrics.BookingsCompleted.Add(float64(len(done)))
	return len(done), nil
}

// admit enforces one active booking per student and the room's capacity.
// booking.ID is excluded from both counts so an update does not collide
// with its own row.
func (s *bookingService) admit(ctx context.Context, tx *gorm.DB, room *models.Room, booking *models.Booking) error {
	_, err := s.bookings.FindActiveByUser(ctx, tx, booking.UserID, booking.ID)
	if err == nil {
		metrics.BookingsRejected.WithLabelValues("already_assigned").Inc()
		return ErrAlreadyAssigned
	}
	if !repository.IsNotFound(err) {
		return err
	}
	active, err := s.bookings.CountActiveByRoom(ctx, tx, room.ID, booking.ID)
	if err != nil {
		return err
	}
	if active >= int64(room.Capacity) {
		metrics.BookingsRejected.WithLabelValues("room_full").Inc()
		return ErrRoomFull
	}
	return nil
}

func (s *bookingService) lockRoom(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Room, error) {
	room, err := s.rooms.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// refreshAvailability sets is_available from the current active count and
// returns the change when the flag flipped.
func (s *bookingService) refreshAvailability(ctx context.Context, tx *gorm.DB, room *models.Room) (*roomChange, error) {
	active, err := s.bookings.CountActiveByRoom(ctx, tx, room.ID, uuid.Nil)
	if err != nil {
		return nil, err
	}
	available := active < int64(room.Capacity)
	if available == room.IsAvailable {
		return nil, nil
	}
	old := dto.ToRoomResponse(room)
	if err := s.rooms.SetAvailability(ctx, tx, room.ID, available); err != nil {
		return nil, err
	}
	room.IsAvailable = available
	return &roomChange{old: old, new: dto.ToRoomResponse(room)}, nil
}

func (s *bookingService) requireStudent(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrStudentNotFound
		}
		return err
	}
	if user.Role != models.RoleStudent {
		return ErrStudentNotFound
	}
	return nil
}

// reload returns the row with user and room preloaded, falling back to the
// written value if the read fails.
func (s *bookingService) reload(ctx context.Context, b *models.Booking) *models.Booking {
	full, err := s.bookings.FindByID(ctx, nil, b.ID)
	if err != nil || full == nil {
		if err != nil {
			log.Printf("[BookingService] reload %s: %v", b.ID, err)
		}
		return b
	}
	return full
}

func (s *bookingService) emitRooms(changes []roomChange) {
	for _, c := range changes {
		realtime.Emit(s.pub, realtime.TableRooms, realtime.Update, c.new, c.old)
	}
}

func appendChange(changes []roomChange, ch *roomChange) []roomChange {
	if ch == nil {
		return changes
	}
	return append(changes, *ch)
}

func applyBookingUpdate(b *models.Booking, req dto.UpdateBookingRequest) error {
	if req.RoomID != nil {
		id, err := uuid.Parse(*req.RoomID)
		if err != nil {
			return ErrRoomNotFound
		}
		b.RoomID = id
	}
	start, end := dto.FormatDate(b.StartDate), dto.FormatDate(b.EndDate)
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	s, e, err := parseRange(start, end)
	if err != nil {
		return err
	}
	b.StartDate, b.EndDate = s, e
	if req.Status != nil {
		b.Status = models.BookingStatus(*req.Status)
		if !b.Status.Valid() {
			return ErrInvalidStatus
		}
	}
	if req.PaymentStatus != nil {
		b.PaymentStatus = models.PaymentStatus(*req.PaymentStatus)
		if !b.PaymentStatus.Valid() {
			return ErrInvalidStatus
		}
	}
	return nil
}

func parseRange(startRaw, endRaw string) (start, end datatypes.Date, err error) {
	if start, err = dto.ParseDate(startRaw); err != nil {
		return start, end, ErrInvalidDates
	}
	if end, err = dto.ParseDate(endRaw); err != nil {
		return start, end, ErrInvalidDates
	}
	if time.Time(end).Before(time.Time(start)) {
		return start, end, ErrInvalidDates
	}
	return start, end, nil
}

