package dto

// Custom tags "day" and "meal" are registered by middleware.NewValidator.

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Role     string `json:"role" validate:"omitempty,oneof=student security mess hostel"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type SelectRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin student security mess hostel"`
}

type CreateStudentRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}

type UpdateStudentRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

type CreateRoomRequest struct {
	RoomNumber    string   `json:"room_number" validate:"required,max=32"`
	Floor         int      `json:"floor" validate:"gte=0"`
	Capacity      int      `json:"capacity" validate:"required,gt=0"`
	PricePerMonth float64  `json:"price_per_month" validate:"gte=0"`
	Amenities     []string `json:"amenities" validate:"omitempty,dive,required,max=64"`
}

type UpdateRoomRequest struct {
	RoomNumber    *string  `json:"room_number" validate:"omitempty,min=1,max=32"`
	Floor         *int     `json:"floor" validate:"omitempty,gte=0"`
	Capacity      *int     `json:"capacity" validate:"omitempty,gt=0"`
	PricePerMonth *float64 `json:"price_per_month" validate:"omitempty,gte=0"`
	Amenities     []string `json:"amenities" validate:"omitempty,dive,required,max=64"`
}

type CreateBookingRequest struct {
	UserID        string `json:"user_id" validate:"required,uuid"`
	RoomID        string `json:"room_id" validate:"required,uuid"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=pending partial complete refunded"`
	Status        string `json:"status" validate:"omitempty,oneof=pending approved cancelled completed"`
}

type UpdateBookingRequest struct {
	RoomID        *string `json:"room_id" validate:"omitempty,uuid"`
	StartDate     *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	PaymentStatus *string `json:"payment_status" validate:"omitempty,oneof=pending partial complete refunded"`
	Status        *string `json:"status" validate:"omitempty,oneof=pending approved cancelled completed"`
}

// AttendanceMarkRequest may be empty when a student marks themselves.
type AttendanceMarkRequest struct {
	UserID string `json:"user_id" validate:"omitempty,uuid"`
}

type MenuRequest struct {
	DayOfWeek string   `json:"day_of_week" validate:"required,day"`
	MealType  string   `json:"meal_type" validate:"required,meal"`
	Items     []string `json:"items" validate:"required,min=1,dive,required,max=128"`
}

type RegisterHostelRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Address      string `json:"address" validate:"required"`
	City         string `json:"city" validate:"required,max=120"`
	Size         string `json:"size" validate:"required,oneof=small medium large"`
	LocationTier string `json:"location_tier" validate:"required,oneof=tier1 tier2 tier3"`
}

type UpdateHostelRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=255"`
	Address      *string `json:"address" validate:"omitempty,min=1"`
	City         *string `json:"city" validate:"omitempty,min=1,max=120"`
	Size         *string `json:"size" validate:"omitempty,oneof=small medium large"`
	LocationTier *string `json:"location_tier" validate:"omitempty,oneof=tier1 tier2 tier3"`
}

type CreateComplaintRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=4000"`
	RoomID      string `json:"room_id" validate:"omitempty,uuid"`
}

type UpdateComplaintStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved"`
}

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

type ChatRequest struct {
	Message string        `json:"message" validate:"required,max=2000"`
	History []ChatMessage `json:"history" validate:"omitempty,max=20,dive"`
}
