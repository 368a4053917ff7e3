package account

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medrefer/medrefer/internal/platform/token"
	"github.com/medrefer/medrefer/pkg/pagination"
)

type Handler struct {
	svc    *Service
	issuer *token.Issuer
}

func NewHandler(svc *Service, issuer *token.Issuer) *Handler {
	return &Handler{svc: svc, issuer: issuer}
}

// RegisterPublicRoutes mounts the endpoints reachable without a session.
func (h *Handler) RegisterPublicRoutes(e *echo.Group) {
	auth := e.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
}

// RegisterRoutes mounts the endpoints that require an authenticated session
// but not an approved account, so pending accounts can still refresh status.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/me", h.Me)
	api.POST("/auth/refresh", h.Refresh)
	api.POST("/auth/logout", h.Logout)
}

// RegisterAdminRoutes mounts account administration behind the full gate.
func (h *Handler) RegisterAdminRoutes(api *echo.Group) {
	api.GET("/accounts", h.List)
	api.PUT("/accounts/:id/active", h.SetActive)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Account *Account `json:"account"`
	Token   string   `json:"token"`
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	acct, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, acct)
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	acct, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInactive) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	tok, err := h.issuer.Issue(acct.ID, string(acct.Role))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	return c.JSON(http.StatusOK, loginResponse{Account: acct, Token: tok})
}

// Refresh re-reads the account bound to the session token. Clients call it
// on load and from the blocking status screen's refresh action, so approval
// decisions made elsewhere become visible.
func (h *Handler) Refresh(c echo.Context) error {
	acct, err := h.currentAccount(c)
	if err != nil {
		return err
	}
	if !acct.Active {
		return echo.NewHTTPError(http.StatusUnauthorized, ErrInactive.Error())
	}
	return c.JSON(http.StatusOK, acct)
}

func (h *Handler) Logout(c echo.Context) error {
	// Session tokens are stateless; logout is client-side teardown.
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	acct, err := h.currentAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acct)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	accts, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list accounts")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(accts, total, p))
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) SetActive(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.SetActive(c.Request().Context(), id, req.Active); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "update failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) currentAccount(c echo.Context) (*Account, error) {
	id := token.AccountIDFromContext(c.Request().Context())
	if id == uuid.Nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "no authenticated account")
	}
	acct, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load account")
	}
	return acct, nil
}
