package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/labstack/echo/v4"
)

type HostelHandler struct {
	svc       service.HostelService
	maxUpload int64
}

// NewHostelHandler rejects photo files larger than maxUpload bytes; zero
// means no limit.
func NewHostelHandler(svc service.HostelService, maxUpload int64) *HostelHandler {
	return &HostelHandler{svc: svc, maxUpload: maxUpload}
}

func (h *HostelHandler) RegisterRoutes(v1 *echo.Group, mw Guards) {
	g := v1.Group("/hostels")
	owner := middleware.RequireRole(models.RoleHostel)
	admin := middleware.RequireRole(models.RoleAdmin)

	g.GET("", h.List, mw.Optional)
	g.GET("/mine", h.Mine, mw.Auth, owner)
	g.GET("/:id", h.Get, mw.Optional)
	g.POST("/register", h.Register, mw.Auth, owner)
	g.PUT("/:id", h.Update, mw.Auth, owner)
	g.POST("/:id/approve", h.Approve, mw.Auth, admin)
	g.POST("/:id/reject", h.Reject, mw.Auth, admin)
	g.POST("/:id/photos", h.AddPhotos, mw.Auth, owner)
	g.DELETE("/:id/photos", h.RemovePhoto, mw.Auth, owner, middleware.RequireConfirm)
}

func (h *HostelHandler) List(c echo.Context) error {
	hostels, err := h.svc.List(c.Request().Context(), viewer(c), c.QueryParam("status"), c.QueryParam("city"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.MapSlice(hostels, dto.ToHostelResponse))
}

func (h *HostelHandler) Get(c echo.Context) error {
	id, err := parseID(c, "hostel")
	if err != nil {
		return err
	}
	hostel, err := h.svc.Get(c.Request().Context(), viewer(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHostelResponse(hostel))
}

func (h *HostelHandler) Mine(c echo.Context) error {
	hostel, err := h.svc.Mine(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHostelResponse(hostel))
}

func (h *HostelHandler) Register(c echo.Context) error {
	var req dto.RegisterHostelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	hostel, err := h.svc.Register(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToHostelResponse(hostel))
}

func (h *HostelHandler) Update(c echo.Context) error {
	id, err := parseID(c, "hostel")
	if err != nil {
		return err
	}
	var req dto.UpdateHostelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	hostel, err := h.svc.Update(c.Request().Context(), viewer(c), id, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHostelResponse(hostel))
}

func (h *HostelHandler) Approve(c echo.Context) error {
	return h.setApproval(c, true)
}

func (h *HostelHandler) Reject(c echo.Context) error {
	return h.setApproval(c, false)
}

func (h *HostelHandler) setApproval(c echo.Context, approved bool) error {
	id, err := parseID(c, "hostel")
	if err != nil {
		return err
	}
	hostel, err := h.svc.SetApproval(c.Request().Context(), id, approved)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHostelResponse(hostel))
}

// AddPhotos reads every "photos" part of a multipart form.
func (h *HostelHandler) AddPhotos(c echo.Context) error {
	id, err := parseID(c, "hostel")
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected multipart form with photos")
	}
	files := form.File["photos"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no photos uploaded")
	}

	photos := make([]service.Photo, 0, len(files))
	var closers []io.Closer
	defer func() {
		for _, cl := range closers {
			cl.Close()
		}
	}()
	for _, fh := range files {
		if h.maxUpload > 0 && fh.Size > h.maxUpload {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("%s exceeds %d bytes", fh.Filename, h.maxUpload))
		}
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot read "+fh.Filename)
		}
		closers = append(closers, f)
		photos = append(photos, service.Photo{Name: fh.Filename, Body: f})
	}

	hostel, uploaded, err := h.svc.AddPhotos(c.Request().Context(), viewer(c), id, photos)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.PhotoUploadResponse{Hostel: dto.ToHostelResponse(hostel), Uploaded: uploaded})
}

func (h *HostelHandler) RemovePhoto(c echo.Context) error {
	id, err := parseID(c, "hostel")
	if err != nil {
		return err
	}
	url := c.QueryParam("url")
	if url == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url is required")
	}
	hostel, err := h.svc.RemovePhoto(c.Request().Context(), viewer(c), id, url)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHostelResponse(hostel))
}
