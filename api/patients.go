package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/auth"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/errors"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
)

// (GET /patients)
//
// Administrators see the whole roster and may narrow it down with the
// owner and status query parameters. Doctors only ever see their own
// partition.
func (h *Handler) ListPatients(c echo.Context) error {
	ctx := c.Request().Context()

	a, err := currentAuth(c)
	if err != nil {
		return err
	}

	if !auth.IsAdminAuth(a) {
		list, err := h.patients.ListByOwner(ctx, a.Email)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, list)
	}

	if owner := c.QueryParam("owner"); owner != "" {
		list, err := h.patients.ListByOwner(ctx, owner)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, list)
	}
	if status := c.QueryParam("status"); status != "" {
		list, err := h.patients.ListByStatus(ctx, status)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, list)
	}

	list, err := h.patients.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// (GET /patients/critical)
func (h *Handler) ListCriticalPatients(c echo.Context) error {
	list, err := h.patients.ListCritical(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, list)
}

// (GET /patients/count)
func (h *Handler) CountPatients(c echo.Context) error {
	ctx := c.Request().Context()

	a, err := currentAuth(c)
	if err != nil {
		return err
	}

	var count int
	if auth.IsAdminAuth(a) {
		count, err = h.patients.Count(ctx)
	} else {
		count, err = h.patients.CountByOwner(ctx, a.Email)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

// (POST /patients)
func (h *Handler) CreatePatient(c echo.Context) error {
	a, err := currentAuth(c)
	if err != nil {
		return err
	}

	patient := patients.Patient{}
	if err := c.Bind(&patient); err != nil {
		return fmt.Errorf("%w: unable to parse patient", errors.BadRequest)
	}
	if patient.Name == "" {
		return fmt.Errorf("%w: name is required", errors.BadRequest)
	}

	// New records always land in the creator's partition
	created, err := h.patients.Create(c.Request().Context(), a.Email, patient)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// (GET /patients/{id})
func (h *Handler) GetPatient(c echo.Context) error {
	id, err := pathId(c)
	if err != nil {
		return err
	}

	patient, err := h.patients.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if patient == nil {
		return fmt.Errorf("patient %w", errors.NotFound)
	}

	return c.JSON(http.StatusOK, patient)
}

// (PUT /patients/{id})
func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := pathId(c)
	if err != nil {
		return err
	}

	update := patients.PatientUpdate{}
	if err := c.Bind(&update); err != nil {
		return fmt.Errorf("%w: unable to parse patient update", errors.BadRequest)
	}

	updated, err := h.patients.Update(c.Request().Context(), id, update)
	if err != nil {
		return err
	}
	if updated == nil {
		return fmt.Errorf("patient %w", errors.NotFound)
	}

	return c.JSON(http.StatusOK, updated)
}

// (DELETE /patients/{id})
func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := pathId(c)
	if err != nil {
		return err
	}

	if err := h.patients.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
