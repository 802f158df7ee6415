package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/clinicians"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/errors"
)

// (GET /doctors)
func (h *Handler) ListDoctors(c echo.Context) error {
	list, err := h.doctors.List(c.Request().Context())
	if err != nil {
		return err
	}

	result := make([]*clinicians.Clinician, 0, len(list))
	for _, clinician := range list {
		result = append(result, scrubSecret(clinician))
	}

	return c.JSON(http.StatusOK, result)
}

// (POST /doctors)
func (h *Handler) CreateDoctor(c echo.Context) error {
	clinician := clinicians.Clinician{}
	if err := c.Bind(&clinician); err != nil {
		return fmt.Errorf("%w: unable to parse clinician", errors.BadRequest)
	}
	if clinician.Email == "" {
		return fmt.Errorf("%w: email is required", errors.BadRequest)
	}

	created, err := h.doctors.Create(c.Request().Context(), clinician)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, scrubSecret(created))
}

// (GET /doctors/{id})
func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := pathId(c)
	if err != nil {
		return err
	}

	clinician, err := h.doctors.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if clinician == nil {
		return fmt.Errorf("clinician %w", errors.NotFound)
	}

	return c.JSON(http.StatusOK, scrubSecret(clinician))
}

// (PUT /doctors/{id})
func (h *Handler) UpdateDoctor(c echo.Context) error {
	id, err := pathId(c)
	if err != nil {
		return err
	}

	update := clinicians.ClinicianUpdate{}
	if err := c.Bind(&update); err != nil {
		return fmt.Errorf("%w: unable to parse clinician update", errors.BadRequest)
	}

	updated, err := h.doctors.Update(c.Request().Context(), id, update)
	if err != nil {
		return err
	}
	if updated == nil {
		return fmt.Errorf("clinician %w", errors.NotFound)
	}

	return c.JSON(http.StatusOK, scrubSecret(updated))
}

// (DELETE /doctors/{id})
func (h *Handler) DeleteDoctor(c echo.Context) error {
	id, err := pathId(c)
	if err != nil {
		return err
	}

	if err := h.doctors.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
