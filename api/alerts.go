package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/auth"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
)

// (GET /alerts)
//
// Every fetch re-evaluates the rules against the caller's current patient
// set, so the feed always reflects the latest records.
func (h *Handler) ListAlerts(c echo.Context) error {
	ctx := c.Request().Context()

	a, err := currentAuth(c)
	if err != nil {
		return err
	}

	var records []*patients.Patient
	if auth.IsAdminAuth(a) {
		records, err = h.patients.List(ctx)
	} else {
		records, err = h.patients.ListByOwner(ctx, a.Email)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, h.alerts.Refresh(ctx, records))
}

// (GET /alerts/unread)
func (h *Handler) CountUnreadAlerts(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"count": h.alerts.Unread()})
}

// (POST /alerts/{id}/read)
func (h *Handler) MarkAlertRead(c echo.Context) error {
	id, err := pathId(c)
	if err != nil {
		return err
	}

	h.alerts.MarkRead(id)
	return c.NoContent(http.StatusNoContent)
}

// (POST /alerts/read)
func (h *Handler) MarkAllAlertsRead(c echo.Context) error {
	h.alerts.MarkAllRead()
	return c.NoContent(http.StatusNoContent)
}
