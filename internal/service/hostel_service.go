package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"

	"github.com/Eursukkul/dormmate-service/internal/domain"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/Eursukkul/dormmate-service/pkg/storage"
	"github.com/google/uuid"
)

// Viewer is the caller as seen by services that filter by ownership.
type Viewer struct {
	UserID uuid.UUID
	Role   models.Role
}

func (v Viewer) IsAdmin() bool { return v.Role == models.RoleAdmin }

// Photo is one uploaded file awaiting normalisation.
type Photo struct {
	Name string
	Body io.Reader
}

type HostelConfig struct {
	PurgeOnRemove bool
	MaxImageEdge  int
}

type HostelService interface {
	Register(ctx context.Context, ownerID uuid.UUID, req dto.RegisterHostelRequest) (*models.Hostel, error)
	// List shows approved hostels; admins may pass status "pending" or "all".
	List(ctx context.Context, viewer Viewer, status, city string) ([]models.Hostel, error)
	Get(ctx context.Context, viewer Viewer, id uuid.UUID) (*models.Hostel, error)
	Mine(ctx context.Context, ownerID uuid.UUID) (*models.Hostel, error)
	Update(ctx context.Context, viewer Viewer, id uuid.UUID, req dto.UpdateHostelRequest) (*models.Hostel, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*models.Hostel, error)
	CountPending(ctx context.Context) (int, error)
	AddPhotos(ctx context.Context, viewer Viewer, id uuid.UUID, photos []Photo) (*models.Hostel, []string, error)
	RemovePhoto(ctx context.Context, viewer Viewer, id uuid.UUID, url string) (*models.Hostel, error)
}

type hostelService struct {
	hostels repository.HostelRepository
	bucket  storage.Bucket
	pub     realtime.Publisher
	cfg     HostelConfig
}

func NewHostelService(hostels repository.HostelRepository, bucket storage.Bucket, pub realtime.Publisher, cfg HostelConfig) HostelService {
	return &hostelService{hostels: hostels, bucket: bucket, pub: pub, cfg: cfg}
}

func (s *hostelService) Register(ctx context.Context, ownerID uuid.UUID, req dto.RegisterHostelRequest) (*models.Hostel, error) {
	if _, err := s.hostels.FindByOwner(ctx, ownerID); err == nil {
		return nil, ErrHostelExists
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	size, tier := models.HostelSize(req.Size), models.LocationTier(req.LocationTier)
	if !domain.ValidHostelSize(size) || !domain.ValidLocationTier(tier) {
		return nil, ErrInvalidCategory
	}
	hostel := &models.Hostel{
		OwnerID:        ownerID,
		Name:           strings.TrimSpace(req.Name),
		Address:        strings.TrimSpace(req.Address),
		City:           strings.TrimSpace(req.City),
		Size:           size,
		LocationTier:   tier,
		CommissionRate: domain.CommissionRate(size, tier),
		Photos:         []string{},
	}
	if err := s.hostels.Create(ctx, hostel); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrHostelExists
		}
		return nil, fmt.Errorf("register hostel: %w", err)
	}
	log.Printf("[HostelService] registered %s (%s/%s, commission %.2f)", hostel.ID, size, tier, hostel.CommissionRate)
	realtime.Emit(s.pub, realtime.TableHostels, realtime.Insert, dto.ToHostelResponse(hostel), nil)
	return hostel, nil
}

func (s *hostelService) List(ctx context.Context, viewer Viewer, status, city string) ([]models.Hostel, error) {
	approved := true
	filter := repository.HostelFilter{Approved: &approved, City: city}
	if viewer.IsAdmin() {
		switch status {
		case "pending":
			pending := false
			filter.Approved = &pending
		case "all":
			filter.Approved = nil
		}
	}
	hostels, err := s.hostels.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list hostels: %w", err)
	}
	return hostels, nil
}

// Get hides unapproved hostels from everyone but their owner and admins.
func (s *hostelService) Get(ctx context.Context, viewer Viewer, id uuid.UUID) (*models.Hostel, error) {
	hostel, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !hostel.IsApproved && !viewer.IsAdmin() && hostel.OwnerID != viewer.UserID {
		return nil, ErrHostelNotFound
	}
	return hostel, nil
}

func (s *hostelService) Mine(ctx context.Context, ownerID uuid.UUID) (*models.Hostel, error) {
	hostel, err := s.hostels.FindByOwner(ctx, ownerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrHostelNotFound
		}
		return nil, err
	}
	return hostel, nil
}

func (s *hostelService) Update(ctx context.Context, viewer Viewer, id uuid.UUID, req dto.UpdateHostelRequest) (*models.Hostel, error) {
	hostel, err := s.owned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	old := dto.ToHostelResponse(hostel)

	if req.Name != nil {
		hostel.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		hostel.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		hostel.City = strings.TrimSpace(*req.City)
	}
	if req.Size != nil {
		hostel.Size = models.HostelSize(*req.Size)
	}
	if req.LocationTier != nil {
		hostel.LocationTier = models.LocationTier(*req.LocationTier)
	}
	if !domain.ValidHostelSize(hostel.Size) || !domain.ValidLocationTier(hostel.LocationTier) {
		return nil, ErrInvalidCategory
	}
	hostel.CommissionRate = domain.CommissionRate(hostel.Size, hostel.LocationTier)

	if err := s.hostels.Update(ctx, hostel); err != nil {
		return nil, fmt.Errorf("update hostel: %w", err)
	}
	realtime.Emit(s.pub, realtime.TableHostels, realtime.Update, dto.ToHostelResponse(hostel), old)
	return hostel, nil
}

func (s *hostelService) SetApproval(ctx context.Context, id uuid.UUID, approved bool) (*models.Hostel, error) {
	hostel, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	old := dto.ToHostelResponse(hostel)
	if err := s.hostels.SetApproval(ctx, id, approved); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrHostelNotFound
		}
		return nil, fmt.Errorf("set approval: %w", err)
	}
	hostel.IsApproved, hostel.IsVerified = approved, approved
	realtime.Emit(s.pub, realtime.TableHostels, realtime.Update, dto.ToHostelResponse(hostel), old)
	return hostel, nil
}

func (s *hostelService) CountPending(ctx context.Context) (int, error) {
	n, err := s.hostels.CountPending(ctx)
	return int(n), err
}

// AddPhotos stores every photo before touching the row. A file that fails
// to decode rejects the whole upload, and blobs already stored for it are
// deleted again.
func (s *hostelService) AddPhotos(ctx context.Context, viewer Viewer, id uuid.UUID, photos []Photo) (*models.Hostel, []string, error) {
	if s.bucket == nil {
		return nil, nil, ErrNoStorage
	}
	hostel, err := s.owned(ctx, viewer, id)
	if err != nil {
		return nil, nil, err
	}
	old := dto.ToHostelResponse(hostel)

	urls := make([]string, 0, len(photos))
	keys := make([]string, 0, len(photos))
	for _, p := range photos {
		buf, err := storage.NormalizeImage(p.Body, s.cfg.MaxImageEdge)
		if err != nil {
			s.discard(keys)
			if errors.Is(err, storage.ErrNotImage) {
				return nil, nil, fmt.Errorf("%w: %s", ErrInvalidImage, p.Name)
			}
			return nil, nil, err
		}
		key := fmt.Sprintf("hostels/%s/%s.jpg", hostel.ID, uuid.New())
		url, err := s.bucket.Put(ctx, key, buf, storage.JPEGContentType)
		if err != nil {
			s.discard(keys)
			return nil, nil, fmt.Errorf("store photo: %w", err)
		}
		keys = append(keys, key)
		urls = append(urls, url)
	}
	if err := s.hostels.AppendPhotos(ctx, id, urls); err != nil {
		s.discard(keys)
		return nil, nil, fmt.Errorf("append photos: %w", err)
	}
	hostel.Photos = append(hostel.Photos, urls...)
	realtime.Emit(s.pub, realtime.TableHostels, realtime.Update, dto.ToHostelResponse(hostel), old)
	return hostel, urls, nil
}

// discard deletes blobs stored by an upload that did not reach the row. It
// does not use the request context, which may already be cancelled.
func (s *hostelService) discard(keys []string) {
	for _, key := range keys {
		if err := s.bucket.Delete(context.Background(), key); err != nil {
			log.Printf("[HostelService] discard %s: %v", key, err)
		}
	}
}

// RemovePhoto drops url from the hostel. The blob itself is deleted only
// when PurgeOnRemove is set.
func (s *hostelService) RemovePhoto(ctx context.Context, viewer Viewer, id uuid.UUID, url string) (*models.Hostel, error) {
	hostel, err := s.owned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(hostel.Photos, url) {
		return nil, ErrPhotoNotFound
	}
	old := dto.ToHostelResponse(hostel)
	if err := s.hostels.RemovePhoto(ctx, id, url); err != nil {
		return nil, fmt.Errorf("remove photo: %w", err)
	}
	hostel.Photos = slices.DeleteFunc(slices.Clone(hostel.Photos), func(p string) bool { return p == url })

	if s.cfg.PurgeOnRemove && s.bucket != nil {
		if key, ok := s.bucket.KeyForURL(url); ok {
			if err := s.bucket.Delete(ctx, key); err != nil {
				log.Printf("[HostelService] purge %s: %v", key, err)
			}
		}
	}
	realtime.Emit(s.pub, realtime.TableHostels, realtime.Update, dto.ToHostelResponse(hostel), old)
	return hostel, nil
}

func (s *hostelService) find(ctx context.Context, id uuid.UUID) (*models.Hostel, error) {
	hostel, err := s.hostels.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrHostelNotFound
		}
		return nil, err
	}
	return hostel, nil
}

func (s *hostelService) owned(ctx context.Context, viewer Viewer, id uuid.UUID) (*models.Hostel, error) {
	hostel, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if hostel.OwnerID != viewer.UserID {
		return nil, ErrNotHostelOwner
	}
	return hostel, nil
}
