package service

import (
	"context"
	"errors"

	"github.com/Eursukkul/dormmate-service/internal/auth"
	"github.com/Eursukkul/dormmate-service/internal/domain"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/repository"
)

const (
	ViewLanding       = "landing"
	ViewRoleSelection = "role_selection"
	ViewDashboard     = "dashboard"
)

type DashboardService interface {
	// Compose picks the view for the caller; claims is nil for anonymous
	// requests.
	Compose(ctx context.Context, claims *auth.Claims) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	users      repository.UserRepository
	stats      StatsService
	menus      MenuService
	attendance AttendanceService
	students   StudentService
	hostels    HostelService
}

func NewDashboardService(users repository.UserRepository, stats StatsService, menus MenuService, attendance AttendanceService, students StudentService, hostels HostelService) DashboardService {
	return &dashboardService{users: users, stats: stats, menus: menus, attendance: attendance, students: students, hostels: hostels}
}

func (s *dashboardService) Compose(ctx context.Context, claims *auth.Claims) (*dto.DashboardResponse, error) {
	if claims == nil {
		return &dto.DashboardResponse{View: ViewLanding, Route: domain.RouteLanding}, nil
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return &dto.DashboardResponse{View: ViewLanding, Route: domain.RouteLanding}, nil
		}
		return nil, err
	}
	me := dto.ToUserResponse(user)
	if !user.Role.Valid() {
		return &dto.DashboardResponse{View: ViewRoleSelection, Route: domain.RouteAuth, User: &me}, nil
	}

	stats, err := s.widgets(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardResponse{
		View:  ViewDashboard,
		Route: domain.RouteForRole(user.Role),
		Role:  user.Role,
		Theme: domain.ThemeForRole(user.Role),
		Nav:   domain.NavForRole(user.Role),
		Stats: stats,
		User:  &me,
	}, nil
}

func (s *dashboardService) widgets(ctx context.Context, user *models.User) (map[string]any, error) {
	switch user.Role {
	case models.RoleAdmin:
		summary, err := s.stats.Summary(ctx)
		if err != nil {
			return nil, err
		}
		pending, err := s.hostels.CountPending(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"summary": summary, "pending_hostels": pending}, nil

	case models.RoleStudent:
		today, err := s.menus.Today(ctx)
		if err != nil {
			return nil, err
		}
		out := map[string]any{"today_menu": today, "my_room": nil}
		mine, err := s.students.MyRoom(ctx, user.ID)
		switch {
		case err == nil:
			room := map[string]any{
				"booking_id": mine.Booking.ID,
				"start_date": dto.FormatDate(mine.Booking.StartDate),
				"end_date":   dto.FormatDate(mine.Booking.EndDate),
				"status":     mine.Booking.Status,
				"roommates":  len(mine.Roommates),
			}
			if mine.Room != nil {
				room["room_number"] = mine.Room.RoomNumber
				room["floor"] = mine.Room.Floor
			}
			out["my_room"] = room
		case !errors.Is(err, ErrNoActiveRoom):
			return nil, err
		}
		return out, nil

	case models.RoleSecurity:
		counters, err := s.attendance.Counters(ctx, s.attendance.Today())
		if err != nil {
			return nil, err
		}
		return map[string]any{"attendance": counters}, nil

	case models.RoleMess:
		today, err := s.menus.Today(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"today_menu": today, "current_meal": today.CurrentMeal}, nil

	case models.RoleHostel:
		out := map[string]any{"hostel": nil, "approval_status": "unregistered"}
		hostel, err := s.hostels.Mine(ctx, user.ID)
		switch {
		case err == nil:
			out["hostel"] = dto.ToHostelResponse(hostel)
			out["commission_rate"] = hostel.CommissionRate
			out["approval_status"] = "pending"
			if hostel.IsApproved {
				out["approval_status"] = "approved"
			}
		case !errors.Is(err, ErrHostelNotFound):
			return nil, err
		}
		return out, nil
	}
	return map[string]any{}, nil
}
