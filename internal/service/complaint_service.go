package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/google/uuid"
)

type ComplaintService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateComplaintRequest) (*models.Complaint, error)
	// List returns every complaint to admins and only their own to others.
	List(ctx context.Context, viewer Viewer) ([]models.Complaint, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus) (*models.Complaint, error)
}

type complaintService struct {
	complaints repository.ComplaintRepository
	rooms      repository.RoomRepository
	pub        realtime.Publisher
}

func NewComplaintService(complaints repository.ComplaintRepository, rooms repository.RoomRepository, pub realtime.Publisher) ComplaintService {
	return &complaintService{complaints: complaints, rooms: rooms, pub: pub}
}

func (s *complaintService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateComplaintRequest) (*models.Complaint, error) {
	complaint := &models.Complaint{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      models.ComplaintOpen,
	}
	if req.RoomID != "" {
		roomID, err := uuid.Parse(req.RoomID)
		if err != nil {
			return nil, ErrRoomNotFound
		}
		if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrRoomNotFound
			}
			return nil, err
		}
		complaint.RoomID = &roomID
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}
	realtime.Emit(s.pub, realtime.TableComplaints, realtime.Insert, dto.ToComplaintResponse(complaint), nil)
	return complaint, nil
}

func (s *complaintService) List(ctx context.Context, viewer Viewer) ([]models.Complaint, error) {
	var owner *uuid.UUID
	if !viewer.IsAdmin() {
		owner = &viewer.UserID
	}
	complaints, err := s.complaints.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return complaints, nil
}

func (s *complaintService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus) (*models.Complaint, error) {
	switch status {
	case models.ComplaintOpen, models.ComplaintInProgress, models.ComplaintResolved:
	default:
		return nil, ErrInvalidStatus
	}
	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	old := dto.ToComplaintResponse(complaint)
	if err := s.complaints.UpdateStatus(ctx, id, status); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("update complaint: %w", err)
	}
	complaint.Status = status
	realtime.Emit(s.pub, realtime.TableComplaints, realtime.Update, dto.ToComplaintResponse(complaint), old)
	return complaint, nil
}
