package service

import (
	"context"
	"sync"

	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --- Mock Transactor ---

type mockTx struct{}

func (mockTx) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// --- Recording publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *recordingPublisher) Publish(routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload.(realtime.Event))
	return nil
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.RoutingKey())
	}
	return out
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	createFn         func(ctx context.Context, tx *gorm.DB, user *models.User) error
	findByIDFn       func(ctx context.Context, id uuid.UUID) (*models.User, error)
	findByEmailFn    func(ctx context.Context, email string) (*models.User, error)
	listByRoleFn     func(ctx context.Context, role models.Role) ([]models.User, error)
	countByRoleFn    func(ctx context.Context, role models.Role) (int64, error)
	updateFn         func(ctx context.Context, user *models.User) error
	deleteFn         func(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	setRoleIfEmptyFn func(ctx context.Context, id uuid.UUID, role models.Role) (bool, error)
	verifyFn         func(ctx context.Context, email, password string) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, tx, user)
}
func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.findByIDFn == nil {
		return nil, repository.ErrNotFound
	}
	return m.findByIDFn(ctx, id)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailFn == nil {
		return nil, repository.ErrNotFound
	}
	return m.findByEmailFn(ctx, email)
}
func (m *mockUserRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	if m.listByRoleFn == nil {
		return nil, nil
	}
	return m.listByRoleFn(ctx, role)
}
func (m *mockUserRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	if m.countByRoleFn == nil {
		return 0, nil
	}
	return m.countByRoleFn(ctx, role)
}
func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, user)
}
func (m *mockUserRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, tx, id)
}
func (m *mockUserRepo) SetRoleIfEmpty(ctx context.Context, id uuid.UUID, role models.Role) (bool, error) {
	return m.setRoleIfEmptyFn(ctx, id, role)
}
func (m *mockUserRepo) VerifyPassword(ctx context.Context, email, password string) (bool, error) {
	return m.verifyFn(ctx, email, password)
}

// --- Mock TokenRepository ---

type mockTokenRepo struct {
	created []*models.RefreshToken
	revoked []uuid.UUID
	findFn  func(ctx context.Context, hash string) (*models.RefreshToken, error)
}

func (m *mockTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	token.ID = uuid.New()
	m.created = append(m.created, token)
	return nil
}
func (m *mockTokenRepo) FindActiveByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	if m.findFn == nil {
		return nil, repository.ErrNotFound
	}
	return m.findFn(ctx, hash)
}
func (m *mockTokenRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	m.revoked = append(m.revoked, id)
	return nil
}
func (m *mockTokenRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return nil
}

// --- Mock RoomRepository ---

type mockRoomRepo struct {
	createFn     func(ctx context.Context, room *models.Room) error
	findByIDFn   func(ctx context.Context, id uuid.UUID) (*models.Room, error)
	listFn       func(ctx context.Context) ([]models.Room, error)
	updateFn     func(ctx context.Context, tx *gorm.DB, room *models.Room) error
	deleteFn     func(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	availability map[uuid.UUID]bool
	locked       []uuid.UUID
}

func (m *mockRoomRepo) Create(ctx context.Context, room *models.Room) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, room)
}
func (m *mockRoomRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	if m.findByIDFn == nil {
		return nil, repository.ErrNotFound
	}
	return m.findByIDFn(ctx, id)
}
func (m *mockRoomRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Room, error) {
	m.locked = append(m.locked, id)
	return m.FindByID(ctx, id)
}
func (m *mockRoomRepo) List(ctx context.Context) ([]models.Room, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}
func (m *mockRoomRepo) Update(ctx context.Context, tx *gorm.DB, room *models.Room) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, tx, room)
}
func (m *mockRoomRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, tx, id)
}
func (m *mockRoomRepo) SetAvailability(ctx context.Context, tx *gorm.DB, id uuid.UUID, available bool) error {
	if m.availability == nil {
		m.availability = map[uuid.UUID]bool{}
	}
	m.availability[id] = available
	return nil
}

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	createFn         func(ctx context.Context, tx *gorm.DB, b *models.Booking) error
	findByIDFn       func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error)
	listFn           func(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error)
	updateFn         func(ctx context.Context, tx *gorm.DB, b *models.Booking) error
	deleteFn         func(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	countActiveFn    func(ctx context.Context, tx *gorm.DB, roomID, exclude uuid.UUID) (int64, error)
	findActiveByUser func(ctx context.Context, tx *gorm.DB, userID, exclude uuid.UUID) (*models.Booking, error)
	findExpiredFn    func(ctx context.Context, tx *gorm.DB, day datatypes.Date) ([]models.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, tx, b)
}
func (m *mockBookingRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	if m.findByIDFn == nil {
		return nil, repository.ErrNotFound
	}
	return m.findByIDFn(ctx, tx, id)
}
func (m *mockBookingRepo) List(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, filter)
}
func (m *mockBookingRepo) Update(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, tx, b)
}
func (m *mockBookingRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, tx, id)
}
func (m *mockBookingRepo) CountActiveByRoom(ctx context.Context, tx *gorm.DB, roomID, exclude uuid.UUID) (int64, error) {
	if m.countActiveFn == nil {
		return 0, nil
	}
	return m.countActiveFn(ctx, tx, roomID, exclude)
}
func (m *mockBookingRepo) FindActiveByUser(ctx context.Context, tx *gorm.DB, userID, exclude uuid.UUID) (*models.Booking, error) {
	if m.findActiveByUser == nil {
		return nil, repository.ErrNotFound
	}
	return m.findActiveByUser(ctx, tx, userID, exclude)
}
func (m *mockBookingRepo) FindExpired(ctx context.Context, tx *gorm.DB, day datatypes.Date) ([]models.Booking, error) {
	if m.findExpiredFn == nil {
		return nil, nil
	}
	return m.findExpiredFn(ctx, tx, day)
}

// --- Mock AttendanceRepository ---

type mockAttendanceRepo struct {
	rows    map[uuid.UUID]*models.Attendance
	upserts []string
	countFn func(ctx context.Context, date datatypes.Date) (int64, int64, error)
}

func (m *mockAttendanceRepo) FindByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date datatypes.Date) (*models.Attendance, error) {
	row, ok := m.rows[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}
func (m *mockAttendanceRepo) Upsert(ctx context.Context, tx *gorm.DB, row *models.Attendance, column string) error {
	if m.rows == nil {
		m.rows = map[uuid.UUID]*models.Attendance{}
	}
	m.upserts = append(m.upserts, column)
	existing, ok := m.rows[row.UserID]
	if !ok {
		cp := *row
		cp.ID = uuid.New()
		m.rows[row.UserID] = &cp
		return nil
	}
	if column == "check_in" {
		existing.CheckIn = row.CheckIn
	} else {
		existing.CheckOut = row.CheckOut
	}
	return nil
}
func (m *mockAttendanceRepo) List(ctx context.Context, date *datatypes.Date) ([]models.Attendance, error) {
	out := make([]models.Attendance, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, *r)
	}
	return out, nil
}
func (m *mockAttendanceRepo) CountForDate(ctx context.Context, date datatypes.Date) (int64, int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, date)
	}
	var in, out int64
	for _, r := range m.rows {
		if r.CheckIn != nil {
			in++
		}
		if r.CheckOut != nil {
			out++
		}
	}
	return in, out, nil
}

// --- Mock MenuRepository ---

type mockMenuRepo struct {
	createFn func(ctx context.Context, menu *models.MessMenu) error
	listFn   func(ctx context.Context, day string) ([]models.MessMenu, error)
	findFn   func(ctx context.Context, id uuid.UUID) (*models.MessMenu, error)
}

func (m *mockMenuRepo) Create(ctx context.Context, menu *models.MessMenu) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, menu)
}
func (m *mockMenuRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MessMenu, error) {
	if m.findFn == nil {
		return nil, repository.ErrNotFound
	}
	return m.findFn(ctx, id)
}
func (m *mockMenuRepo) List(ctx context.Context, day string) ([]models.MessMenu, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, day)
}
func (m *mockMenuRepo) Update(ctx context.Context, menu *models.MessMenu) error { return nil }
func (m *mockMenuRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }

// --- Mock HostelRepository ---

type mockHostelRepo struct {
	byID      map[uuid.UUID]*models.Hostel
	pending   int64
	appended  []string
	appendErr error
}

func (m *mockHostelRepo) Create(ctx context.Context, hostel *models.Hostel) error {
	if m.byID == nil {
		m.byID = map[uuid.UUID]*models.Hostel{}
	}
	hostel.ID = uuid.New()
	m.byID[hostel.ID] = hostel
	return nil
}
func (m *mockHostelRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error) {
	h, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *h
	return &cp, nil
}
func (m *mockHostelRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Hostel, error) {
	for _, h := range m.byID {
		if h.OwnerID == ownerID {
			cp := *h
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (m *mockHostelRepo) List(ctx context.Context, filter repository.HostelFilter) ([]models.Hostel, error) {
	var out []models.Hostel
	for _, h := range m.byID {
		if filter.Approved != nil && h.IsApproved != *filter.Approved {
			continue
		}
		out = append(out, *h)
	}
	return out, nil
}
func (m *mockHostelRepo) CountPending(ctx context.Context) (int64, error) { return m.pending, nil }
func (m *mockHostelRepo) Update(ctx context.Context, hostel *models.Hostel) error {
	cp := *hostel
	m.byID[hostel.ID] = &cp
	return nil
}
func (m *mockHostelRepo) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	h, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	h.IsApproved, h.IsVerified = approved, approved
	return nil
}
func (m *mockHostelRepo) AppendPhotos(ctx context.Context, id uuid.UUID, urls []string) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, urls...)
	return nil
}
func (m *mockHostelRepo) RemovePhoto(ctx context.Context, id uuid.UUID, url string) error {
	return nil
}
