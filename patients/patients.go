package patients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/errors"
)

var (
	ErrNotFound = fmt.Errorf("patient %w", errors.NotFound)
)

const (
	StatusCritical = "critical"
	StatusHigh     = "high"
	StatusMedium   = "medium"
	StatusStable   = "stable"
	StatusLow      = "low"

	// Patients with a risk score at or above this threshold are surfaced
	// alongside the ones flagged critical by status.
	CriticalRiskScore = 70
)

type Service interface {
	Create(ctx context.Context, owner string, patient Patient) (*Patient, error)
	Update(ctx context.Context, id int, update PatientUpdate) (*Patient, error)
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Patient, error)
	GetByName(ctx context.Context, name string) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	ListByOwner(ctx context.Context, owner string) ([]*Patient, error)
	ListByStatus(ctx context.Context, status string) ([]*Patient, error)
	ListCritical(ctx context.Context) ([]*Patient, error)
	Count(ctx context.Context) (int, error)
	CountByOwner(ctx context.Context, owner string) (int, error)
}

// Repository is the patient record store. It is satisfied both by the
// partitioned side-store repository and by the remote patient service proxy.
type Repository interface {
	Create(ctx context.Context, patient Patient) (*Patient, error)
	Update(ctx context.Context, id int, update PatientUpdate) (*Patient, error)
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	ListByOwner(ctx context.Context, owner string) ([]*Patient, error)
}

// PartitionRepository exposes the per-owner partition primitives on top of
// the plain record contract. The ownership migrator is built exclusively
// from these.
type PartitionRepository interface {
	Repository

	HasPartition(ctx context.Context, owner string) (bool, error)
	EnsurePartition(ctx context.Context, owner string) error
	WritePartition(ctx context.Context, owner string, records []*Patient) error
	RemovePartition(ctx context.Context, owner string) error
}

type Patient struct {
	Id               int       `json:"id"`
	Owner            string    `json:"owner"`
	Name             string    `json:"name"`
	Age              int       `json:"age,omitempty"`
	Email            *string   `json:"email,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	Description      *string   `json:"description,omitempty"`
	HealthStatus     string    `json:"healthStatus,omitempty"`
	RiskScore        int       `json:"riskScore"`
	HeartRate        int       `json:"heartRate"`
	LastVisit        *string   `json:"lastVisit,omitempty"`
	EpilepsyType     *string   `json:"epilepsyType,omitempty"`
	SeizureFrequency *string   `json:"seizureFrequency,omitempty"`
	Medications      *string   `json:"medications,omitempty"`
	Allergies        *string   `json:"allergies,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// HasStatus compares health statuses case-insensitively.
func (p *Patient) HasStatus(status string) bool {
	return strings.EqualFold(p.HealthStatus, status)
}

func (p *Patient) IsCritical() bool {
	return p.HasStatus(StatusCritical) || p.RiskScore >= CriticalRiskScore
}

// PatientUpdate is a partial update. The owner is deliberately absent -
// ownership only ever changes through the migrator.
type PatientUpdate struct {
	Name             *string `json:"name,omitempty"`
	Age              *int    `json:"age,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Description      *string `json:"description,omitempty"`
	HealthStatus     *string `json:"healthStatus,omitempty"`
	RiskScore        *int    `json:"riskScore,omitempty"`
	HeartRate        *int    `json:"heartRate,omitempty"`
	LastVisit        *string `json:"lastVisit,omitempty"`
	EpilepsyType     *string `json:"epilepsyType,omitempty"`
	SeizureFrequency *string `json:"seizureFrequency,omitempty"`
	Medications      *string `json:"medications,omitempty"`
	Allergies        *string `json:"allergies,omitempty"`
}
