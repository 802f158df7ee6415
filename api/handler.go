package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/alerts"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/auth"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/clinicians"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/errors"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
)

type Handler struct {
	doctors        clinicians.Service
	patients       patients.Service
	alerts         *alerts.Engine
	sessions       *auth.SessionManager
	accounts       auth.AccountClient
	accountsConfig *auth.AccountClientConfig
	authConfig     *auth.Config
	logger         *zap.SugaredLogger
}

type Params struct {
	fx.In

	Doctors        clinicians.Service
	Patients       patients.Service
	Alerts         *alerts.Engine
	Sessions       *auth.SessionManager
	Accounts       auth.AccountClient
	AccountsConfig *auth.AccountClientConfig
	AuthConfig     *auth.Config
	Logger         *zap.SugaredLogger
}

func NewHandler(p Params) *Handler {
	return &Handler{
		doctors:        p.Doctors,
		patients:       p.Patients,
		alerts:         p.Alerts,
		sessions:       p.Sessions,
		accounts:       p.Accounts,
		accountsConfig: p.AccountsConfig,
		authConfig:     p.AuthConfig,
		logger:         p.Logger,
	}
}

func RegisterHandlers(e *echo.Echo, h *Handler) {
	e.POST("/auth/login", h.Login)
	e.POST("/auth/logout", h.Logout)
	e.GET("/auth/me", h.Me)

	e.GET("/doctors", h.ListDoctors)
	e.POST("/doctors", h.CreateDoctor)
	e.GET("/doctors/:id", h.GetDoctor)
	e.PUT("/doctors/:id", h.UpdateDoctor)
	e.DELETE("/doctors/:id", h.DeleteDoctor)

	e.GET("/patients", h.ListPatients)
	e.GET("/patients/critical", h.ListCriticalPatients)
	e.GET("/patients/count", h.CountPatients)
	e.POST("/patients", h.CreatePatient)
	e.GET("/patients/:id", h.GetPatient)
	e.PUT("/patients/:id", h.UpdatePatient)
	e.DELETE("/patients/:id", h.DeletePatient)

	e.GET("/alerts", h.ListAlerts)
	e.GET("/alerts/unread", h.CountUnreadAlerts)
	e.POST("/alerts/read", h.MarkAllAlertsRead)
	e.POST("/alerts/:id/read", h.MarkAlertRead)
}

func pathId(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}
	return id, nil
}

func currentAuth(c echo.Context) (*auth.Auth, error) {
	a := auth.GetAuthData(c.Request().Context())
	if a == nil {
		return nil, errors.Unauthorized
	}
	return a, nil
}
