package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/galwaybites/storefront/pkg/logging"
)

type Handler struct {
	Svc *Service
}

type userResponse struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	City    string `json:"city"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Role:    u.Role,
		City:    u.City,
		Address: u.Address,
		Phone:   u.Phone,
	}
}

func (h *Handler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		City     string `json:"city"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password, req.Name, req.City, req.Address, req.Phone)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
	}

	return c.JSON(http.StatusCreated, toUserResponse(*user))
}

func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	session, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	setSessionCookies(c, session)
	return c.JSON(http.StatusOK, toUserResponse(session.User))
}

func (h *Handler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	cookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no refresh token")
	}

	session, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, ErrInvalidRefresh) {
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token invalid")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "refresh failed")
	}

	setSessionCookies(c, session)
	return c.JSON(http.StatusOK, toUserResponse(session.User))
}

func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie("refreshToken"); err == nil {
		if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
			logging.FromContext(ctx).Warn("logout_error", "error", err)
		}
	}

	expired := time.Unix(0, 0)
	c.SetCookie(CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(CreateCookie("refreshToken", "", "/", expired))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := c.Get("user_id").(string)

	user, err := h.Svc.GetUser(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, toUserResponse(*user))
}

func setSessionCookies(c echo.Context, s *Session) {
	c.SetCookie(CreateCookie("accessToken", s.AccessToken, "/", s.AccessExp))
	c.SetCookie(CreateCookie("refreshToken", s.RefreshToken, "/", s.RefreshExp))
}

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
