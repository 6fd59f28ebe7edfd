package dto

import (
	"strings"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/domain"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Phone     string      `json:"phone"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
	Redirect     string       `json:"redirect"`
}

type RoomResponse struct {
	ID            uuid.UUID `json:"id"`
	RoomNumber    string    `json:"room_number"`
	Floor         int       `json:"floor"`
	Capacity      int       `json:"capacity"`
	PricePerMonth float64   `json:"price_per_month"`
	Amenities     []string  `json:"amenities"`
	IsAvailable   bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingResponse struct {
	ID            uuid.UUID            `json:"id"`
	UserID        uuid.UUID            `json:"user_id"`
	RoomID        uuid.UUID            `json:"room_id"`
	StartDate     string               `json:"start_date"`
	EndDate       string               `json:"end_date"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	Status        models.BookingStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	User          *UserResponse        `json:"user,omitempty"`
	Room          *RoomResponse        `json:"room,omitempty"`
}

type AttendanceResponse struct {
	ID       uuid.UUID     `json:"id"`
	UserID   uuid.UUID     `json:"user_id"`
	Date     string        `json:"date"`
	CheckIn  *time.Time    `json:"check_in"`
	CheckOut *time.Time    `json:"check_out"`
	User     *UserResponse `json:"user,omitempty"`
}

type MenuResponse struct {
	ID        uuid.UUID       `json:"id"`
	DayOfWeek string          `json:"day_of_week"`
	MealType  models.MealType `json:"meal_type"`
	Items     []string        `json:"items"`
}

type TodayMenuResponse struct {
	Day         string          `json:"day"`
	CurrentMeal models.MealType `json:"current_meal"`
	Meals       []MenuResponse  `json:"meals"`
}

type HostelResponse struct {
	ID             uuid.UUID           `json:"id"`
	OwnerID        uuid.UUID           `json:"owner_id"`
	Name           string              `json:"name"`
	Address        string              `json:"address"`
	City           string              `json:"city"`
	Size           models.HostelSize   `json:"size"`
	LocationTier   models.LocationTier `json:"location_tier"`
	CommissionRate float64             `json:"commission_rate"`
	IsVerified     bool                `json:"is_verified"`
	IsApproved     bool                `json:"is_approved"`
	Photos         []string            `json:"photos"`
	CreatedAt      time.Time           `json:"created_at"`
}

type ComplaintResponse struct {
	ID          uuid.UUID              `json:"id"`
	UserID      uuid.UUID              `json:"user_id"`
	RoomID      *uuid.UUID             `json:"room_id,omitempty"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      models.ComplaintStatus `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	User        *UserResponse          `json:"user,omitempty"`
}

type StatsSummary struct {
	TotalRooms       int `json:"total_rooms"`
	AvailableRooms   int `json:"available_rooms"`
	TotalCapacity    int `json:"total_capacity"`
	TotalOccupied    int `json:"total_occupied"`
	OccupancyRate    int `json:"occupancy_rate"`
	TotalStudents    int `json:"total_students"`
	CheckedInToday   int `json:"checked_in_today"`
	CheckedOutToday  int `json:"checked_out_today"`
	CurrentlyOutside int `json:"currently_outside"`
}

type AttendanceCounters struct {
	CheckedInToday   int `json:"checked_in_today"`
	CheckedOutToday  int `json:"checked_out_today"`
	CurrentlyOutside int `json:"currently_outside"`
}

type MyRoomResponse struct {
	Booking   BookingResponse `json:"booking"`
	Room      RoomResponse    `json:"room"`
	Roommates []UserResponse  `json:"roommates"`
}

type DashboardResponse struct {
	View  string           `json:"view"`
	Route string           `json:"route"`
	Role  models.Role      `json:"role,omitempty"`
	Theme string           `json:"theme,omitempty"`
	Nav   []domain.NavItem `json:"nav,omitempty"`
	Stats map[string]any   `json:"stats,omitempty"`
	User  *UserResponse    `json:"user,omitempty"`
}

type ChatResponse struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

type PhotoUploadResponse struct {
	Hostel   HostelResponse `json:"hostel"`
	Uploaded []string       `json:"uploaded"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func ToRoomResponse(r *models.Room) RoomResponse {
	return RoomResponse{
		ID:            r.ID,
		RoomNumber:    r.RoomNumber,
		Floor:         r.Floor,
		Capacity:      r.Capacity,
		PricePerMonth: r.PricePerMonth,
		Amenities:     nonNil(r.Amenities),
		IsAvailable:   r.IsAvailable,
		CreatedAt:     r.CreatedAt,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		RoomID:        b.RoomID,
		StartDate:     FormatDate(b.StartDate),
		EndDate:       FormatDate(b.EndDate),
		PaymentStatus: b.PaymentStatus,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
	}
	if b.User != nil {
		u := ToUserResponse(b.User)
		resp.User = &u
	}
	if b.Room != nil {
		r := ToRoomResponse(b.Room)
		resp.Room = &r
	}
	return resp
}

func ToAttendanceResponse(a *models.Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:       a.ID,
		UserID:   a.UserID,
		Date:     FormatDate(a.Date),
		CheckIn:  a.CheckIn,
		CheckOut: a.CheckOut,
	}
	if a.User != nil {
		u := ToUserResponse(a.User)
		resp.User = &u
	}
	return resp
}

func ToMenuResponse(m *models.MessMenu) MenuResponse {
	return MenuResponse{
		ID:        m.ID,
		DayOfWeek: m.DayOfWeek,
		MealType:  m.MealType,
		Items:     nonNil(m.Items),
	}
}

func ToHostelResponse(h *models.Hostel) HostelResponse {
	return HostelResponse{
		ID:             h.ID,
		OwnerID:        h.OwnerID,
		Name:           h.Name,
		Address:        h.Address,
		City:           h.City,
		Size:           h.Size,
		LocationTier:   h.LocationTier,
		CommissionRate: h.CommissionRate,
		IsVerified:     h.IsVerified,
		IsApproved:     h.IsApproved,
		Photos:         nonNil(h.Photos),
		CreatedAt:      h.CreatedAt,
	}
}

func ToComplaintResponse(c *models.Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		RoomID:      c.RoomID,
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
	if c.User != nil {
		u := ToUserResponse(c.User)
		resp.User = &u
	}
	return resp
}

// MapSlice converts rows with fn and never returns nil, so empty lists
// encode as [].
func MapSlice[M any, R any](rows []M, fn func(*M) R) []R {
	out := make([]R, len(rows))
	for i := range rows {
		out[i] = fn(&rows[i])
	}
	return out
}

// MenuItemsText joins items for search and display.
func MenuItemsText(items []string) string {
	return strings.Join(items, ", ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
