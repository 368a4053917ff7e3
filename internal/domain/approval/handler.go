package approval

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medrefer/medrefer/internal/domain/account"
	"github.com/medrefer/medrefer/pkg/pagination"
)

// Handler exposes the approval administration API. Every payload carries a
// success flag plus data or a user-displayable message, which is the
// contract the administration screens consume.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/approvals")

	users := g.Group("/users", account.RequireRole(account.RoleHospital))
	users.GET("", h.ListPendingUsers)
	users.POST("/:id/approve", h.ApproveUser)
	users.POST("/:id/reject", h.RejectUser)

	hospitals := g.Group("/hospitals", account.RequireRole(account.RoleSuperAdmin))
	hospitals.GET("", h.ListPendingHospitals)
	hospitals.POST("/:id/approve", h.ApproveHospital)
	hospitals.POST("/:id/reject", h.RejectHospital)

	g.GET("/stats", h.Stats, account.RequireRole(account.RoleSuperAdmin, account.RoleHospital))
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type listPayload struct {
	Items      []*PendingItem `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

type decisionRequest struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

func (h *Handler) ListPendingUsers(c echo.Context) error {
	return h.listPending(c, KindUser)
}

func (h *Handler) ListPendingHospitals(c echo.Context) error {
	return h.listPending(c, KindHospital)
}

func (h *Handler) listPending(c echo.Context, kind Kind) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListPending(c.Request().Context(), kind, p.Limit, p.Offset())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, envelope{Message: "failed to load pending items"})
	}
	// A page past the end is a caller error but must not break rendering:
	// it yields an empty item list with the real total.
	if items == nil {
		items = []*PendingItem{}
	}
	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Data: listPayload{
			Items:      items,
			Total:      total,
			Page:       p.Page,
			TotalPages: p.TotalPages(total),
		},
	})
}

func (h *Handler) ApproveUser(c echo.Context) error {
	return h.decide(c, KindUser, true)
}

func (h *Handler) RejectUser(c echo.Context) error {
	return h.decide(c, KindUser, false)
}

func (h *Handler) ApproveHospital(c echo.Context) error {
	return h.decide(c, KindHospital, true)
}

func (h *Handler) RejectHospital(c echo.Context) error {
	return h.decide(c, KindHospital, false)
}

func (h *Handler) decide(c echo.Context, kind Kind, approve bool) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: "invalid id"})
	}

	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: "invalid request body"})
	}

	approver := account.Current(c)
	ctx := c.Request().Context()

	if approve {
		err = h.svc.Approve(ctx, approver, kind, id, req.Message)
	} else {
		err = h.svc.Reject(ctx, approver, kind, id, req.Reason)
	}

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, envelope{Success: true})
	case errors.Is(err, ErrReasonRequired):
		return c.JSON(http.StatusBadRequest, envelope{Message: err.Error()})
	case errors.Is(err, ErrNotPending):
		return c.JSON(http.StatusConflict, envelope{Message: err.Error()})
	case errors.Is(err, ErrNotAuthorized):
		return c.JSON(http.StatusForbidden, envelope{Message: err.Error()})
	case errors.Is(err, account.ErrNotFound):
		return c.JSON(http.StatusNotFound, envelope{Message: "item not found"})
	default:
		return c.JSON(http.StatusInternalServerError, envelope{Message: "decision failed"})
	}
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, envelope{Message: "failed to load stats"})
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: stats})
}
