package clinicians

import (
	"context"
	"fmt"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/errors"
)

var (
	ErrDuplicateEmail   = fmt.Errorf("%w: a clinician with this email already exists", errors.Duplicate)
	ErrProtectedAccount = fmt.Errorf("%w: the administrator account cannot be deleted", errors.Forbidden)
)

const (
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"

	// AdminId is the reserved, non-deletable administrator account seeded
	// on first run.
	AdminId = 999

	AdminEmail = "admin@gmail.com"

	defaultPasswordSecret = "doctor123"
)

type Service interface {
	Create(ctx context.Context, clinician Clinician) (*Clinician, error)
	Update(ctx context.Context, id int, update ClinicianUpdate) (*Clinician, error)
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Clinician, error)
	GetByEmail(ctx context.Context, email string) (*Clinician, error)
	List(ctx context.Context) ([]*Clinician, error)
}

type Clinician struct {
	Id              int     `json:"id"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	PasswordSecret  string  `json:"password,omitempty"`
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Location        *string `json:"location,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	Specialization  *string `json:"specialization,omitempty"`
	LicenseNumber   *string `json:"licenseNumber,omitempty"`
	YearsExperience *string `json:"yearsExperience,omitempty"`
	Department      *string `json:"department,omitempty"`
	Education       *string `json:"education,omitempty"`
	Availability    *string `json:"availability,omitempty"`
}

func (c *Clinician) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// ClinicianUpdate is a partial update. The password secret is only replaced
// when explicitly provided.
type ClinicianUpdate struct {
	Email           *string `json:"email,omitempty"`
	PasswordSecret  *string `json:"password,omitempty"`
	Name            *string `json:"name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Location        *string `json:"location,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	Specialization  *string `json:"specialization,omitempty"`
	LicenseNumber   *string `json:"licenseNumber,omitempty"`
	YearsExperience *string `json:"yearsExperience,omitempty"`
	Department      *string `json:"department,omitempty"`
	Education       *string `json:"education,omitempty"`
	Availability    *string `json:"availability,omitempty"`
}
