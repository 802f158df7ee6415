package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
)

const DefaultRemoteLimit = 50

// Engine turns the current patient set and the externally managed alert
// events into an ordered alert feed. The feed is a pure projection of its
// inputs; only the read flags carry session state, and those are reset by
// the next evaluation.
type Engine struct {
	remote RemoteService
	logger *zap.SugaredLogger

	mu        sync.Mutex
	instances []*Alert
}

func NewEngine(remote RemoteService, logger *zap.SugaredLogger) (*Engine, error) {
	return &Engine{
		remote: remote,
		logger: logger,
	}, nil
}

// Refresh re-evaluates the rules for the given patients. A failing remote
// fetch degrades to local-only alerts and is never surfaced to the caller.
func (e *Engine) Refresh(ctx context.Context, records []*patients.Patient) []*Alert {
	remote, err := e.remote.FetchManaged(ctx, DefaultRemoteLimit)
	if err != nil {
		e.logger.Warnw("unable to fetch managed alerts, degrading to local rules", "error", err)
		remote = nil
	}

	instances := Evaluate(records, remote, time.Now())

	e.mu.Lock()
	e.instances = instances
	e.mu.Unlock()

	return e.snapshot()
}

func (e *Engine) Instances() []*Alert {
	return e.snapshot()
}

func (e *Engine) Unread() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, alert := range e.instances {
		if !alert.Read {
			count++
		}
	}
	return count
}

// MarkRead flips the in-memory read flag. Read state does not survive a
// re-evaluation.
func (e *Engine) MarkRead(alertId int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, alert := range e.instances {
		if alert.Id == alertId {
			alert.Read = true
		}
	}
}

func (e *Engine) MarkAllRead() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, alert := range e.instances {
		alert.Read = true
	}
}

func (e *Engine) snapshot() []*Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make([]*Alert, len(e.instances))
	for i, alert := range e.instances {
		cpy := *alert
		result[i] = &cpy
	}
	return result
}

// Evaluate merges remote events with the locally derived rule instances.
// Remote alerts come first, assumed more recent; within each group the
// insertion order is kept. The two sources are deliberately not
// deduplicated against each other.
func Evaluate(records []*patients.Patient, remote []RemoteAlert, now time.Time) []*Alert {
	var result []*Alert

	names := make(map[int]string, len(records))
	for _, patient := range records {
		names[patient.Id] = patient.Name
	}

	for _, event := range remote {
		result = append(result, fromRemote(event, names))
	}
	for _, patient := range records {
		result = append(result, localRules(patient, now)...)
	}

	return result
}

func fromRemote(event RemoteAlert, names map[int]string) *Alert {
	name, ok := names[event.PatientId]
	if !ok {
		name = "Patient"
	}

	return &Alert{
		Id:          event.Id,
		Kind:        remoteKind(event.Type),
		Title:       event.Title,
		Description: event.Message,
		PatientId:   event.PatientId,
		Patient:     name,
		Time:        event.TriggeredAt,
		Read:        event.Acknowledged,
	}
}

func remoteKind(kind string) string {
	switch kind {
	case KindCritical, KindWarning, KindInfo, KindSuccess, KindMedicationIntake:
		return kind
	default:
		return KindMedicationIntake
	}
}

// localRules evaluates every rule independently; a single patient may
// yield several alerts.
func localRules(patient *patients.Patient, now time.Time) []*Alert {
	var result []*Alert

	emit := func(offset int, kind, title, description string) {
		result = append(result, &Alert{
			Id:          patient.Id*ruleIdSpan + offset,
			Kind:        kind,
			Title:       title,
			Description: description,
			PatientId:   patient.Id,
			Patient:     patient.Name,
			Time:        now,
		})
	}

	if patient.HasStatus(patients.StatusCritical) {
		emit(offsetCriticalStatus, KindCritical,
			"Seizure Episode Detected",
			fmt.Sprintf("Patient %s is in critical condition.", patient.Name))
	}
	if patient.RiskScore > 80 {
		emit(offsetHighRiskScore, KindWarning,
			"High Risk Score",
			fmt.Sprintf("Patient %s has a risk score of %d.", patient.Name, patient.RiskScore))
	}
	if patient.HeartRate < 60 || patient.HeartRate > 100 {
		emit(offsetAbnormalHeartRate, KindWarning,
			"Abnormal Heart Rate",
			fmt.Sprintf("Patient %s has a heart rate of %d bpm.", patient.Name, patient.HeartRate))
	}
	if now.Sub(patient.CreatedAt) < NewPatientWindow {
		emit(offsetNewPatient, KindInfo,
			"New Patient",
			fmt.Sprintf("Patient %s was added in the last 24 hours.", patient.Name))
	}
	if patient.HasStatus(patients.StatusStable) && patient.RiskScore < 30 {
		emit(offsetStablePatient, KindSuccess,
			"Patient Stable",
			fmt.Sprintf("Patient %s is stable with a low risk score.", patient.Name))
	}

	return result
}
