package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleAlreadySet     = errors.New("role has already been selected")
	ErrInvalidRole        = errors.New("invalid role")
	ErrForbidden          = errors.New("forbidden")

	ErrStudentNotFound    = errors.New("student not found")
	ErrStudentHasBookings = errors.New("student has active room assignments")

	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomNumberTaken     = errors.New("room number already exists")
	ErrRoomOccupied        = errors.New("room has active room assignments")
	ErrCapacityBelowActive = errors.New("capacity is below the room's active assignments")

	ErrBookingNotFound = errors.New("room assignment not found")
	ErrRoomFull        = errors.New("room is at full capacity")
	ErrAlreadyAssigned = errors.New("student already has an active room assignment")
	ErrInvalidDates    = errors.New("end date must not be before start date")
	ErrNoActiveRoom    = errors.New("no active room assignment")
	ErrInvalidStatus   = errors.New("invalid status")

	ErrMenuNotFound = errors.New("menu entry not found")
	ErrMenuExists   = errors.New("menu entry already exists for this day and meal")
	ErrInvalidDay   = errors.New("invalid day of week")
	ErrInvalidMeal  = errors.New("invalid meal type")

	ErrHostelNotFound  = errors.New("hostel not found")
	ErrHostelExists    = errors.New("owner already registered a hostel")
	ErrNotHostelOwner  = errors.New("only the hostel owner can do this")
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrInvalidImage    = errors.New("file is not a supported image")
	ErrNoStorage       = errors.New("photo storage is not configured")
	ErrInvalidCategory = errors.New("invalid hostel size or location tier")

	ErrComplaintNotFound = errors.New("complaint not found")
)
