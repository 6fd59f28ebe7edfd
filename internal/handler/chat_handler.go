package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/Eursukkul/dormmate-service/internal/assistant"
	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/metrics"
	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

type ChatHandler struct {
	bot assistant.Assistant
}

func NewChatHandler(bot assistant.Assistant) *ChatHandler {
	return &ChatHandler{bot: bot}
}

func (h *ChatHandler) RegisterRoutes(e *echo.Echo, v1 *echo.Group, mw Guards) {
	v1.POST("/chat", h.Chat, mw.Optional, mw.Limit)

	public := echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	})
	e.POST("/functions/chat", h.Proxy, public, mw.Limit)
	e.OPTIONS("/functions/chat", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, public)
}

// Chat answers with the configured backend. A backend failure still gives
// the client something to show.
func (h *ChatHandler) Chat(c echo.Context) error {
	var req dto.ChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	history := make([]assistant.Message, len(req.History))
	for i, m := range req.History {
		history[i] = assistant.Message{Role: m.Role, Content: m.Content}
	}

	reply, err := h.reply(c, assistant.Request{Message: req.Message, History: history, UserID: middleware.UserID(c)})
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMessage) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusBadGateway, dto.ChatResponse{Error: "assistant unavailable", Reply: assistant.Apology})
	}
	return c.JSON(http.StatusOK, dto.ChatResponse{Reply: reply})
}

// Proxy is the unauthenticated variant for static sites: {message} in,
// {reply} or {error} out.
func (h *ChatHandler) Proxy(c echo.Context) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ChatResponse{Error: "invalid request body"})
	}
	reply, err := h.reply(c, assistant.Request{Message: req.Message})
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMessage) {
			return c.JSON(http.StatusBadRequest, dto.ChatResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusBadGateway, dto.ChatResponse{Error: "assistant unavailable"})
	}
	return c.JSON(http.StatusOK, dto.ChatResponse{Reply: reply})
}

func (h *ChatHandler) reply(c echo.Context, req assistant.Request) (string, error) {
	reply, err := h.bot.Reply(c.Request().Context(), req)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if !errors.Is(err, assistant.ErrEmptyMessage) {
			log.Printf("[Chat] %s backend failed: %v", h.bot.Backend(), err)
		}
	}
	metrics.ChatRequests.WithLabelValues(h.bot.Backend(), outcome).Inc()
	return reply, err
}
