package store

import "github.com/kelseyhightower/envconfig"

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

type Config struct {
	Address  string `envconfig:"EPILEPTICAI_STORE_ADDRESS" default:"localhost:6379"`
	Password string `envconfig:"EPILEPTICAI_STORE_PASSWORD"`
	Database int    `envconfig:"EPILEPTICAI_STORE_DATABASE" default:"0"`
}
