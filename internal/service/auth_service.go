package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/auth"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/google/uuid"
)

type AuthConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

// Session is a signed-in user with a fresh token pair.
type Session struct {
	User    *models.User
	Access  auth.AccessToken
	Refresh auth.RefreshToken
}

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, rawRefresh string) (*Session, error)
	Logout(ctx context.Context, rawRefresh string) error
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
	// SelectRole sets the role of a user who has none yet.
	SelectRole(ctx context.Context, userID uuid.UUID, role models.Role) (*Session, error)
}

type authService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	pub    realtime.Publisher
	cfg    AuthConfig
}

func NewAuthService(users repository.UserRepository, tokens repository.TokenRepository, pub realtime.Publisher, cfg AuthConfig) AuthService {
	return &authService{users: users, tokens: tokens, pub: pub, cfg: cfg}
}

func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*Session, error) {
	role := models.Role(req.Role)
	if role == models.RoleAdmin || (role != models.RoleNone && !role.Valid()) {
		return nil, ErrInvalidRole
	}
	hash, err := repository.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, nil, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	realtime.Emit(s.pub, realtime.TableUsers, realtime.Insert, dto.ToUserResponse(user), nil)
	return s.issue(ctx, user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	ok, err := s.users.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.issue(ctx, user)
}

// Refresh rotates the refresh token: the presented one is revoked.
func (s *authService) Refresh(ctx context.Context, rawRefresh string) (*Session, error) {
	stored, err := s.tokens.FindActiveByHash(ctx, auth.HashRefreshToken(rawRefresh))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	return s.issue(ctx, user)
}

func (s *authService) Logout(ctx context.Context, rawRefresh string) error {
	stored, err := s.tokens.FindActiveByHash(ctx, auth.HashRefreshToken(rawRefresh))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}
	return s.tokens.Revoke(ctx, stored.ID)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) SelectRole(ctx context.Context, userID uuid.UUID, role models.Role) (*Session, error) {
	if !role.Valid() || role == models.RoleAdmin {
		return nil, ErrInvalidRole
	}
	before, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if before.Role != models.RoleNone {
		return nil, ErrRoleAlreadySet
	}
	changed, err := s.users.SetRoleIfEmpty(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	if !changed {
		return nil, ErrRoleAlreadySet
	}
	after := *before
	after.Role = role
	log.Printf("[Auth] user %s selected role %s", userID, role)
	realtime.Emit(s.pub, realtime.TableUsers, realtime.Update, dto.ToUserResponse(&after), dto.ToUserResponse(before))
	return s.issue(ctx, &after)
}

func (s *authService) issue(ctx context.Context, user *models.User) (*Session, error) {
	access, err := auth.NewAccessToken(s.cfg.Secret, user.ID, user.Role, s.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := auth.NewRefreshToken(s.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokens.Create(ctx, &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		ExpiresAt: refresh.Exp,
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &Session{User: user, Access: access, Refresh: refresh}, nil
}

// IsAuthError reports whether err should surface as 401.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInvalidToken)
}
