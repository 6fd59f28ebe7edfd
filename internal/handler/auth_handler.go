package handler

import (
	"net/http"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/domain"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterRoutes(v1 *echo.Group, mw Guards) {
	a := v1.Group("/auth")
	a.POST("/signup", h.Signup)
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)

	v1.GET("/me", h.Me, mw.Auth)
	v1.PUT("/me/role", h.SelectRole, mw.Auth)
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sess, err := h.svc.Signup(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toAuthResponse(sess))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sess, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toAuthResponse(sess))
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req dto.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sess, err := h.svc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toAuthResponse(sess))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	var req dto.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.svc.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.svc.Me(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *AuthHandler) SelectRole(c echo.Context) error {
	var req dto.SelectRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sess, err := h.svc.SelectRole(c.Request().Context(), middleware.UserID(c), models.Role(req.Role))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toAuthResponse(sess))
}

func toAuthResponse(s *service.Session) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  s.Access.Token,
		RefreshToken: s.Refresh.Raw,
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(s.Access.Exp).Seconds()),
		User:         dto.ToUserResponse(s.User),
		Redirect:     domain.RouteForRole(s.User.Role),
	}
}
