package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/domain/user"
	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
	"github.com/clinicdesk/clinicdesk/pkg/pagination"
)

type Handler struct {
	svc   *Service
	users *user.Service
}

func NewHandler(svc *Service, users *user.Service) *Handler {
	return &Handler{svc: svc, users: users}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	authed := g.Group("", auth.RequireRole(auth.RoleDoctor, auth.RolePatient, auth.RoleUser))
	authed.GET("/appointments", h.List)
	authed.GET("/appointments/options", h.Options)
	authed.GET("/appointments/:id", h.Get)
	authed.POST("/appointments", h.Create)
	authed.PUT("/appointments/:id", h.Update)

	g.DELETE("/appointments/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
}

// ruleHTTPError maps a rule engine rejection onto an HTTP response: booking
// conflicts are 409, everything else 422.
func ruleHTTPError(c echo.Context, rerr *RuleError) error {
	status := http.StatusUnprocessableEntity
	if rerr.Kind == KindConflict {
		status = http.StatusConflict
	}
	return c.JSON(status, map[string]string{
		"field": rerr.Field,
		"code":  rerr.Code,
	})
}

func (h *Handler) Create(c echo.Context) error {
	var cand Candidate
	if err := c.Bind(&cand); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, err := h.svc.Create(c.Request().Context(), cand)
	if err != nil {
		var rerr *RuleError
		if errors.As(err, &rerr) {
			return ruleHTTPError(c, rerr)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var cand Candidate
	if err := c.Bind(&cand); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	role := auth.RoleFromContext(ctx)
	actorID, _ := uuid.Parse(auth.UserIDFromContext(ctx))

	a, err := h.svc.Update(ctx, role, actorID, id, cand)
	if err != nil {
		var rerr *RuleError
		if errors.As(err, &rerr) {
			return ruleHTTPError(c, rerr)
		}
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
		}
		if errors.Is(err, ErrForbidden) {
			return echo.NewHTTPError(http.StatusForbidden, ErrForbidden.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	role := auth.RoleFromContext(ctx)
	actorID, _ := uuid.Parse(auth.UserIDFromContext(ctx))

	a, err := h.svc.Get(ctx, role, actorID, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	role := auth.RoleFromContext(ctx)
	actorID, _ := uuid.Parse(auth.UserIDFromContext(ctx))

	appts, total, err := h.svc.List(ctx, role, actorID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(appts, total, pg.Limit, pg.Offset))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// Options serves the booking form's option lists: doctors, patients, the
// status enum, and upcoming non-cancelled bookings for conflict display.
// Pass exclude=<id> when editing so the record's own slot is omitted.
func (h *Handler) Options(c echo.Context) error {
	ctx := c.Request().Context()

	excludeID := uuid.Nil
	if raw := c.QueryParam("exclude"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid exclude id")
		}
		excludeID = id
	}

	doctors, err := h.users.Doctors(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	patients, err := h.users.Patients(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	slots, err := h.svc.UpcomingSlots(ctx, excludeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctors":               doctors,
		"patients":              patients,
		"statuses":              Statuses,
		"existing_appointments": slots,
	})
}
