package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/auth"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/clinicians"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/errors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string                `json:"token"`
	SessionId string                `json:"sessionId"`
	Clinician *clinicians.Clinician `json:"clinician,omitempty"`
}

type LogoutRequest struct {
	SessionId string `json:"sessionId"`
}

// (POST /auth/login)
func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	req := &LoginRequest{}
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: unable to parse login request", errors.BadRequest)
	}
	if req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: email and password are required", errors.BadRequest)
	}

	if h.accountsConfig.Enabled {
		return h.remoteLogin(c, req)
	}

	clinician, err := h.doctors.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if clinician == nil || clinician.PasswordSecret != req.Password {
		return fmt.Errorf("%w: invalid credentials", errors.Unauthorized)
	}

	token, err := auth.GrantToken(h.authConfig, clinician.Id, clinician.Email, clinician.Role)
	if err != nil {
		return err
	}

	session := h.sessions.Start(clinician.Id, clinician.Email, clinician.Role, token)
	h.logger.Infow("clinician logged in", "id", clinician.Id, "email", clinician.Email)

	return c.JSON(http.StatusOK, &LoginResponse{
		Token:     token,
		SessionId: session.Id,
		Clinician: scrubSecret(clinician),
	})
}

func (h *Handler) remoteLogin(c echo.Context, req *LoginRequest) error {
	ctx := c.Request().Context()

	grant, err := h.accounts.Login(ctx, req.Email, req.Password)
	if err == auth.ErrUnauthenticated {
		return fmt.Errorf("%w: invalid credentials", errors.Unauthorized)
	} else if err != nil {
		return err
	}

	profile, err := h.accounts.GetCurrentProfile(ctx, grant.Token)
	if err != nil {
		return err
	}

	session := h.sessions.Start(profile.Id, profile.Email, profile.Role, grant.Token)
	h.logger.Infow("clinician logged in via account service", "id", profile.Id, "email", profile.Email)

	return c.JSON(http.StatusOK, &LoginResponse{
		Token:     grant.Token,
		SessionId: session.Id,
	})
}

// (POST /auth/logout)
func (h *Handler) Logout(c echo.Context) error {
	req := &LogoutRequest{}
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: unable to parse logout request", errors.BadRequest)
	}
	if req.SessionId != "" {
		h.sessions.End(req.SessionId)
	}

	return c.NoContent(http.StatusNoContent)
}

// (GET /auth/me)
func (h *Handler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	a, err := currentAuth(c)
	if err != nil {
		return err
	}

	clinician, err := h.doctors.Get(ctx, a.ClinicianId)
	if err != nil {
		return err
	}
	if clinician == nil {
		return fmt.Errorf("clinician %w", errors.NotFound)
	}

	return c.JSON(http.StatusOK, scrubSecret(clinician))
}

// scrubSecret strips the password secret before a clinician leaves the API.
func scrubSecret(clinician *clinicians.Clinician) *clinicians.Clinician {
	scrubbed := *clinician
	scrubbed.PasswordSecret = ""
	return &scrubbed
}
