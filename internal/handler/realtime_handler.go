package handler

import (
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// tableAccess decides who may follow a table. Open tables and the roles in
// all see every row. Any other caller is narrowed to rows whose owner column
// holds their id, plus the rows matched by public.
type tableAccess struct {
	open   bool
	all    []models.Role
	owner  string
	public *realtime.Topic
}

var realtimeAccess = map[string]tableAccess{
	realtime.TableRooms:    {open: true},
	realtime.TableMessMenu: {open: true},
	realtime.TableHostels: {
		all:    []models.Role{models.RoleAdmin},
		owner:  "owner_id",
		public: &realtime.Topic{Table: realtime.TableHostels, Column: "is_approved", Value: "true"},
	},
	realtime.TableUsers:         {all: []models.Role{models.RoleAdmin}, owner: "id"},
	realtime.TableBookings:      {all: []models.Role{models.RoleAdmin}, owner: "user_id"},
	realtime.TableComplaints:    {all: []models.Role{models.RoleAdmin}, owner: "user_id"},
	realtime.TableAttendance:    {all: []models.Role{models.RoleAdmin, models.RoleSecurity}, owner: "user_id"},
	realtime.TableNotifications: {all: []models.Role{models.RoleAdmin, models.RoleSecurity}, owner: "user_id"},
}

// authorizeTopics applies realtimeAccess to the requested topics. A caller
// may repeat their own owner filter but no other filter on a narrowed table.
func authorizeTopics(role models.Role, userID uuid.UUID, topics []realtime.Topic) ([]realtime.Topic, error) {
	out := make([]realtime.Topic, 0, len(topics))
	for _, t := range topics {
		access, ok := realtimeAccess[t.Table]
		if !ok {
			return nil, echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("not allowed to follow %s", t.Table))
		}
		if access.open || slices.Contains(access.all, role) {
			out = append(out, t)
			continue
		}
		own := realtime.Topic{Table: t.Table, Column: access.owner, Value: userID.String()}
		if t.Column != "" && t != own {
			return nil, echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("not allowed to filter %s by %s", t.Table, t.Column))
		}
		out = append(out, own)
		if access.public != nil {
			out = append(out, *access.public)
		}
	}
	return out, nil
}

type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewRealtimeHandler accepts websocket upgrades from the given origins; "*"
// accepts any.
func NewRealtimeHandler(hub *realtime.Hub, origins []string) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
			},
		},
	}
}

func (h *RealtimeHandler) RegisterRoutes(v1 *echo.Group, mw Guards) {
	v1.GET("/realtime", h.Subscribe, mw.Auth)
}

// Subscribe streams change events for ?tables=rooms,users:role=student
// until the client goes away. Tables the caller may not read in full are
// narrowed to the caller's own rows.
func (h *RealtimeHandler) Subscribe(c echo.Context) error {
	topics, err := realtime.ParseTopics(c.QueryParam("tables"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	topics, err = authorizeTopics(middleware.Role(c), middleware.UserID(c), topics)
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("[Realtime] upgrade failed: %v", err)
		return nil
	}
	defer conn.Close()

	sub := h.hub.Subscribe(topics...)
	defer sub.Close()
	log.Printf("[Realtime] user %s subscribed to %s", middleware.UserID(c), c.QueryParam("tables"))

	// The read loop only exists to notice the close frame and keep pongs
	// flowing.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(writeWait))
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-gone:
			return nil
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
