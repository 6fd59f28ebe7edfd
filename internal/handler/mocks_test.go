package handler

import (
	"context"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/assistant"
	"github.com/Eursukkul/dormmate-service/internal/auth"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// --- Mock BookingService ---

type mockBookingService struct {
	listFn   func(ctx context.Context, filter repository.BookingFilter, q string) ([]models.Booking, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	createFn func(ctx context.Context, req dto.CreateBookingRequest) (*models.Booking, error)
	updateFn func(ctx context.Context, id uuid.UUID, req dto.UpdateBookingRequest) (*models.Booking, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBookingService) List(ctx context.Context, filter repository.BookingFilter, q string) ([]models.Booking, error) {
	return m.listFn(ctx, filter, q)
}
func (m *mockBookingService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) Create(ctx context.Context, req dto.CreateBookingRequest) (*models.Booking, error) {
	return m.createFn(ctx, req)
}
func (m *mockBookingService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateBookingRequest) (*models.Booking, error) {
	return m.updateFn(ctx, id, req)
}
func (m *mockBookingService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}
func (m *mockBookingService) CompleteExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

// --- Mock AttendanceService ---

type mockAttendanceService struct {
	marked []uuid.UUID
	markFn func(userID uuid.UUID) (*models.Attendance, error)
	listFn func(date *datatypes.Date, q string) ([]models.Attendance, error)
}

func (m *mockAttendanceService) mark(userID uuid.UUID) (*models.Attendance, error) {
	m.marked = append(m.marked, userID)
	if m.markFn != nil {
		return m.markFn(userID)
	}
	now := time.Now()
	return &models.Attendance{ID: uuid.New(), UserID: userID, CheckIn: &now}, nil
}
func (m *mockAttendanceService) CheckIn(ctx context.Context, userID uuid.UUID) (*models.Attendance, error) {
	return m.mark(userID)
}
func (m *mockAttendanceService) CheckOut(ctx context.Context, userID uuid.UUID) (*models.Attendance, error) {
	return m.mark(userID)
}
func (m *mockAttendanceService) List(ctx context.Context, date *datatypes.Date, q string) ([]models.Attendance, error) {
	return m.listFn(date, q)
}
func (m *mockAttendanceService) Counters(ctx context.Context, date datatypes.Date) (dto.AttendanceCounters, error) {
	return dto.AttendanceCounters{}, nil
}
func (m *mockAttendanceService) Today() datatypes.Date { return dto.DateOf(time.Now()) }

// --- Mock RoomService ---

type mockRoomService struct {
	deleted []uuid.UUID
	listFn  func(q string) ([]models.Room, error)
}

func (m *mockRoomService) List(ctx context.Context, q string) ([]models.Room, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, nil
}
func (m *mockRoomService) Get(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return nil, service.ErrRoomNotFound
}
func (m *mockRoomService) Create(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	return &models.Room{ID: uuid.New(), RoomNumber: req.RoomNumber, Capacity: req.Capacity, IsAvailable: true}, nil
}
func (m *mockRoomService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateRoomRequest) (*models.Room, error) {
	return nil, service.ErrRoomNotFound
}
func (m *mockRoomService) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// --- Mock HostelService ---

type mockHostelService struct {
	addFn    func(viewer service.Viewer, id uuid.UUID, photos []service.Photo) (*models.Hostel, []string, error)
	removeFn func(viewer service.Viewer, id uuid.UUID, url string) (*models.Hostel, error)
	listFn   func(viewer service.Viewer, status, city string) ([]models.Hostel, error)
}

func (m *mockHostelService) Register(ctx context.Context, ownerID uuid.UUID, req dto.RegisterHostelRequest) (*models.Hostel, error) {
	return nil, nil
}
func (m *mockHostelService) List(ctx context.Context, viewer service.Viewer, status, city string) ([]models.Hostel, error) {
	return m.listFn(viewer, status, city)
}
func (m *mockHostelService) Get(ctx context.Context, viewer service.Viewer, id uuid.UUID) (*models.Hostel, error) {
	return nil, service.ErrHostelNotFound
}
func (m *mockHostelService) Mine(ctx context.Context, ownerID uuid.UUID) (*models.Hostel, error) {
	return nil, service.ErrHostelNotFound
}
func (m *mockHostelService) Update(ctx context.Context, viewer service.Viewer, id uuid.UUID, req dto.UpdateHostelRequest) (*models.Hostel, error) {
	return nil, nil
}
func (m *mockHostelService) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*models.Hostel, error) {
	return &models.Hostel{ID: id, IsApproved: approved, IsVerified: approved}, nil
}
func (m *mockHostelService) CountPending(ctx context.Context) (int, error) { return 0, nil }
func (m *mockHostelService) AddPhotos(ctx context.Context, viewer service.Viewer, id uuid.UUID, photos []service.Photo) (*models.Hostel, []string, error) {
	return m.addFn(viewer, id, photos)
}
func (m *mockHostelService) RemovePhoto(ctx context.Context, viewer service.Viewer, id uuid.UUID, url string) (*models.Hostel, error) {
	return m.removeFn(viewer, id, url)
}

// --- Mock DashboardService / StatsService ---

type mockDashboardService struct {
	composeFn func(claims *auth.Claims) (*dto.DashboardResponse, error)
}

func (m *mockDashboardService) Compose(ctx context.Context, claims *auth.Claims) (*dto.DashboardResponse, error) {
	return m.composeFn(claims)
}

type mockStatsService struct {
	summary *dto.StatsSummary
}

func (m *mockStatsService) Summary(ctx context.Context) (*dto.StatsSummary, error) {
	return m.summary, nil
}
func (m *mockStatsService) Close() {}

// --- Mock Assistant ---

type mockAssistant struct {
	reqs    []assistant.Request
	replyFn func(req assistant.Request) (string, error)
}

func (m *mockAssistant) Reply(ctx context.Context, req assistant.Request) (string, error) {
	m.reqs = append(m.reqs, req)
	return m.replyFn(req)
}
func (m *mockAssistant) Backend() string { return "mock" }

// --- Mock AuthService ---

// mockAuthService keeps accounts in memory keyed by email.
type mockAuthService struct {
	accounts  map[string]*models.User
	passwords map[string]string
}

func newMockAuthService() *mockAuthService {
	return &mockAuthService{accounts: map[string]*models.User{}, passwords: map[string]string{}}
}

func (m *mockAuthService) seed(email, password string, role models.Role) *models.User {
	u := &models.User{ID: uuid.New(), Email: email, FullName: "Seeded", Role: role}
	m.accounts[email] = u
	m.passwords[email] = password
	return u
}

func (m *mockAuthService) session(u *models.User) *service.Session {
	return &service.Session{
		User:    u,
		Access:  auth.AccessToken{Token: "access-" + u.ID.String(), Exp: time.Now().Add(15 * time.Minute)},
		Refresh: auth.RefreshToken{Raw: "refresh-" + u.ID.String(), Exp: time.Now().Add(time.Hour)},
	}
}

func (m *mockAuthService) byID(id uuid.UUID) *models.User {
	for _, u := range m.accounts {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (m *mockAuthService) Signup(ctx context.Context, req dto.SignupRequest) (*service.Session, error) {
	if _, ok := m.accounts[req.Email]; ok {
		return nil, service.ErrEmailTaken
	}
	return m.session(m.seed(req.Email, req.Password, models.Role(req.Role))), nil
}
func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.Session, error) {
	u, ok := m.accounts[email]
	if !ok || m.passwords[email] != password {
		return nil, service.ErrInvalidCredentials
	}
	return m.session(u), nil
}
func (m *mockAuthService) Refresh(ctx context.Context, rawRefresh string) (*service.Session, error) {
	return nil, service.ErrInvalidToken
}
func (m *mockAuthService) Logout(ctx context.Context, rawRefresh string) error {
	return nil
}
func (m *mockAuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if u := m.byID(userID); u != nil {
		return u, nil
	}
	return nil, service.ErrUserNotFound
}
func (m *mockAuthService) SelectRole(ctx context.Context, userID uuid.UUID, role models.Role) (*service.Session, error) {
	u := m.byID(userID)
	if u == nil {
		return nil, service.ErrUserNotFound
	}
	if u.Role != models.RoleNone {
		return nil, service.ErrRoleAlreadySet
	}
	u.Role = role
	return m.session(u), nil
}
