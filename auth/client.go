package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AccountClient talks to the external account service. It backs the login
// flow when the deployment delegates credential checks instead of using the
// local clinician roster.
type AccountClient interface {
	Login(ctx context.Context, email, password string) (*Grant, error)
	GetCurrentProfile(ctx context.Context, token string) (*Profile, error)
}

type Grant struct {
	Token string `json:"access_token"`
	Role  string `json:"role"`
}

type Profile struct {
	Id        int    `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type AccountClientConfig struct {
	// When enabled, credential checks are delegated to the account service
	// instead of the local clinician roster.
	Enabled    bool          `envconfig:"EPILEPTICAI_ACCOUNT_SERVICE_ENABLED" default:"false"`
	ServiceUrl string        `envconfig:"EPILEPTICAI_ACCOUNT_SERVICE_URL" default:"http://localhost:8000/api/v1"`
	Timeout    time.Duration `envconfig:"EPILEPTICAI_ACCOUNT_SERVICE_TIMEOUT" default:"10s"`
}

func NewAccountClientConfig() (*AccountClientConfig, error) {
	cfg := &AccountClientConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func NewAccountClient(cfg *AccountClientConfig) (AccountClient, error) {
	return &accountClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

type accountClient struct {
	cfg    *AccountClientConfig
	client *http.Client
}

var _ AccountClient = &accountClient{}

func (a *accountClient) Login(ctx context.Context, email, password string) (*Grant, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/auth/login", a.cfg.ServiceUrl)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to log in: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %v logging in", resp.StatusCode)
	}

	grant := &Grant{}
	if err := json.NewDecoder(resp.Body).Decode(grant); err != nil {
		return nil, fmt.Errorf("unable to decode login response: %w", err)
	}

	return grant, nil
}

func (a *accountClient) GetCurrentProfile(ctx context.Context, token string) (*Profile, error) {
	url := fmt.Sprintf("%s/auth/me", a.cfg.ServiceUrl)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(AuthorizationHeaderKey, BearerTokenPrefix+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch current profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %v fetching current profile", resp.StatusCode)
	}

	profile := &Profile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("unable to decode current profile: %w", err)
	}

	return profile, nil
}
