package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
)

type Config struct {
	// When enabled, patient records are proxied to the external patient
	// service instead of the partitioned side-store.
	Enabled    bool          `envconfig:"EPILEPTICAI_PATIENT_SERVICE_ENABLED" default:"false"`
	ServiceUrl string        `envconfig:"EPILEPTICAI_PATIENT_SERVICE_URL" default:"http://localhost:8000/api/v1"`
	Token      string        `envconfig:"EPILEPTICAI_PATIENT_SERVICE_TOKEN"`
	Timeout    time.Duration `envconfig:"EPILEPTICAI_PATIENT_SERVICE_TIMEOUT" default:"10s"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewPatientRepository returns a patient repository backed by the external
// patient service. It keeps no record state of its own, so a failed call
// leaves nothing half-applied on this side.
func NewPatientRepository(cfg *Config) (patients.Repository, error) {
	return &patientRepository{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

type patientRepository struct {
	cfg    *Config
	client *http.Client
}

var _ patients.Repository = &patientRepository{}

func (p *patientRepository) Create(ctx context.Context, patient patients.Patient) (*patients.Patient, error) {
	result := &patients.Patient{}
	if err := p.do(ctx, http.MethodPost, "/patients", patient, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *patientRepository) Update(ctx context.Context, id int, update patients.PatientUpdate) (*patients.Patient, error) {
	result := &patients.Patient{}
	err := p.do(ctx, http.MethodPut, fmt.Sprintf("/patients/%d", id), update, result)
	if err == patients.ErrNotFound {
		// Unknown records are ignored, matching the local repository
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return result, nil
}

func (p *patientRepository) Delete(ctx context.Context, id int) error {
	err := p.do(ctx, http.MethodDelete, fmt.Sprintf("/patients/%d", id), nil, nil)
	if err == patients.ErrNotFound {
		return nil
	}

	return err
}

func (p *patientRepository) Get(ctx context.Context, id int) (*patients.Patient, error) {
	result := &patients.Patient{}
	err := p.do(ctx, http.MethodGet, fmt.Sprintf("/patients/%d", id), nil, result)
	if err == patients.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return result, nil
}

func (p *patientRepository) List(ctx context.Context) ([]*patients.Patient, error) {
	var result []*patients.Patient
	if err := p.do(ctx, http.MethodGet, "/patients", nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *patientRepository) ListByOwner(ctx context.Context, owner string) ([]*patients.Patient, error) {
	var result []*patients.Patient
	path := "/patients?owner=" + url.QueryEscape(owner)
	if err := p.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *patientRepository) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.cfg.ServiceUrl+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("patient service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return patients.ErrNotFound
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status %v from patient service", resp.StatusCode)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("unable to decode patient service response: %w", err)
		}
	}

	return nil
}
