package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
	"github.com/iliyamo/meeting-room-scheduler/internal/middleware"
	"github.com/iliyamo/meeting-room-scheduler/internal/model"
	"github.com/iliyamo/meeting-room-scheduler/internal/service"
	"github.com/iliyamo/meeting-room-scheduler/internal/utils"
)

// AuthHandler exposes the staff session of the gate over HTTP.  Logging
// in is the domain-suffix check of the gate; the returned token merely
// lets later requests name the session holder.
type AuthHandler struct {
	Gate      *service.Gate
	JWTSecret string
	TTLMin    int
	Log       logger.Logger
}

func NewAuthHandler(gate *service.Gate, secret string, ttlMin int, log logger.Logger) *AuthHandler {
	if gate == nil {
		panic("nil gate passed to NewAuthHandler")
	}
	return &AuthHandler{Gate: gate, JWTSecret: secret, TTLMin: ttlMin, Log: logger.OrNop(log)}
}

// ----- DTOs -----

type loginReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginResp struct {
	Session model.StaffSession `json:"session"`
	Access  utils.AccessToken  `json:"access"`
}

// Login handles POST /v1/auth/login.  Any email ending in the configured
// domain opens (or replaces) the staff session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required", "field": "email"})
	}

	s, err := h.Gate.Login(c.Request().Context(), req.Email, req.Name)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	access, err := utils.NewAccessToken(h.JWTSecret, s.Email, s.DisplayName, string(model.RoleStaff), h.TTLMin)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, loginResp{Session: s, Access: access})
}

// Logout handles POST /v1/auth/logout.  Every token issued for the
// session stops granting staff rights.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Gate.Logout(c.Request().Context()); err != nil {
		return writeError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/auth/me and returns the active staff session.
func (h *AuthHandler) Me(c echo.Context) error {
	s, ok := h.Gate.Session()
	if !ok || !s.Matches(middleware.ActorFrom(c).Email) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"email": s.Email, "name": s.DisplayName, "role": model.RoleStaff})
}
