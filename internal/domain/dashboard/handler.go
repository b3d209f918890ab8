package dashboard

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.Stats)
}

// Stats returns the dashboard for the calling role: doctors get their own
// schedule summary, everyone else gets the clinic-wide view.
func (h *Handler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	if auth.RoleFromContext(ctx) == auth.RoleDoctor {
		doctorID, err := uuid.Parse(auth.UserIDFromContext(ctx))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
		}

		counts, err := h.repo.AppointmentCounts(ctx, doctorID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		patients, err := h.repo.DistinctPatients(ctx, doctorID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, DoctorStats{
			Appointments:      counts,
			TotalAppointments: counts.total(),
			DistinctPatients:  patients,
		})
	}

	counts, err := h.repo.AppointmentCounts(ctx, uuid.Nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	doctors, err := h.repo.CountDoctors(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	patients, err := h.repo.CountPatients(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, AdminStats{
		Appointments:      counts,
		TotalAppointments: counts.total(),
		TotalDoctors:      doctors,
		TotalPatients:     patients,
	})
}
