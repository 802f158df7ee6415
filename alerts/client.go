package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServiceUrl string        `envconfig:"EPILEPTICAI_ALERT_SERVICE_URL" default:"http://localhost:8000/api/v1"`
	Token      string        `envconfig:"EPILEPTICAI_ALERT_SERVICE_TOKEN"`
	Timeout    time.Duration `envconfig:"EPILEPTICAI_ALERT_SERVICE_TIMEOUT" default:"10s"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func NewRemoteService(cfg *Config) (RemoteService, error) {
	return &remoteService{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

type remoteService struct {
	cfg    *Config
	client *http.Client
}

var _ RemoteService = &remoteService{}

func (r *remoteService) FetchManaged(ctx context.Context, limit int) ([]RemoteAlert, error) {
	url := fmt.Sprintf("%s/alerts/managed?limit=%d", r.cfg.ServiceUrl, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch managed alerts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %v fetching managed alerts", resp.StatusCode)
	}

	var result []RemoteAlert
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("unable to decode managed alerts: %w", err)
	}

	return result, nil
}
