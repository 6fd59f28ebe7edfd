package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/google/uuid"
)

type serviceSource struct {
	students service.StudentService
	menus    service.MenuService
	bookings service.BookingService
}

// NewServiceSource reads assistant context through the regular services.
func NewServiceSource(students service.StudentService, menus service.MenuService, bookings service.BookingService) Source {
	return &serviceSource{students: students, menus: menus, bookings: bookings}
}

func (s *serviceSource) MyRoom(ctx context.Context, userID uuid.UUID) (string, error) {
	mine, err := s.students.MyRoom(ctx, userID)
	if errors.Is(err, service.ErrNoActiveRoom) {
		return "No active room assignment.", nil
	}
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if mine.Room != nil {
		fmt.Fprintf(&b, "Room %s on floor %d, capacity %d.\n", mine.Room.RoomNumber, mine.Room.Floor, mine.Room.Capacity)
	}
	fmt.Fprintf(&b, "Stay %s to %s, status %s, payment %s.\n",
		dto.FormatDate(mine.Booking.StartDate), dto.FormatDate(mine.Booking.EndDate),
		mine.Booking.Status, mine.Booking.PaymentStatus)
	if len(mine.Roommates) == 0 {
		b.WriteString("No roommates.")
	} else {
		names := make([]string, 0, len(mine.Roommates))
		for _, u := range mine.Roommates {
			names = append(names, u.FullName)
		}
		b.WriteString("Roommates: " + strings.Join(names, ", ") + ".")
	}
	return b.String(), nil
}

func (s *serviceSource) WeeklyMenu(ctx context.Context) (string, error) {
	menus, err := s.menus.List(ctx, "")
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(menus))
	for _, m := range menus {
		lines = append(lines, fmt.Sprintf("%s %s: %s", m.DayOfWeek, m.MealType, dto.MenuItemsText(m.Items)))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *serviceSource) Bookings(ctx context.Context, userID uuid.UUID) (string, error) {
	bookings, err := s.bookings.List(ctx, repository.BookingFilter{UserID: &userID}, "")
	if err != nil {
		return "", err
	}
	if len(bookings) == 0 {
		return "No room assignments.", nil
	}
	lines := make([]string, 0, len(bookings))
	for _, b := range bookings {
		room := b.RoomID.String()
		if b.Room != nil {
			room = b.Room.RoomNumber
		}
		lines = append(lines, fmt.Sprintf("Room %s, %s to %s, status %s, payment %s",
			room, dto.FormatDate(b.StartDate), dto.FormatDate(b.EndDate), b.Status, b.PaymentStatus))
	}
	return strings.Join(lines, "\n"), nil
}
