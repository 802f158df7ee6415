package alerts

import (
	"context"
	"time"
)

const (
	KindCritical         = "critical"
	KindWarning          = "warning"
	KindInfo             = "info"
	KindSuccess          = "success"
	KindMedicationIntake = "medication_intake"
)

// Local rule instances derive their id from the source patient id and a
// per-rule offset, so a single patient can trip several rules and every
// instance still gets a distinct, stable id. Remote instances keep the id
// assigned by the alert service.
const (
	offsetCriticalStatus    = 1
	offsetHighRiskScore     = 2
	offsetAbnormalHeartRate = 3
	offsetNewPatient        = 4
	offsetStablePatient     = 5

	ruleIdSpan = 1000
)

// NewPatientWindow is how long after creation a patient still triggers the
// "new patient" notice.
const NewPatientWindow = 24 * time.Hour

type Alert struct {
	Id          int       `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PatientId   int       `json:"patientId"`
	Patient     string    `json:"patient"`
	Time        time.Time `json:"time"`
	Read        bool      `json:"read"`
}

// RemoteAlert is an alert-like event produced by the external alert
// service, e.g. a confirmed medication intake.
type RemoteAlert struct {
	Id           int       `json:"id"`
	PatientId    int       `json:"patient_id"`
	Type         string    `json:"alert_type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	TriggeredAt  time.Time `json:"triggered_at"`
	Acknowledged bool      `json:"acknowledged"`
}

// RemoteService fetches the alerts managed by the logged-in clinician from
// the external alert service.
type RemoteService interface {
	FetchManaged(ctx context.Context, limit int) ([]RemoteAlert, error)
}
