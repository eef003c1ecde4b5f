package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings holds everything the admin panel reads from the environment.
type Settings struct {
	Port          string `env:"PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL" envDefault:"mcadmin.db"`
	RepoRoot      string `env:"MC_ADMIN_REPO_ROOT" envDefault:"/workspace"`
	ContainerName string `env:"MC_ADMIN_CONTAINER" envDefault:"cobblemon"`

	// Password may be either plaintext or a bcrypt hash ($2... prefix).
	Password      string `env:"MC_ADMIN_PASSWORD"`
	SessionSecret string `env:"MC_ADMIN_SESSION_SECRET"`
	CookieSecure  bool   `env:"MC_ADMIN_COOKIE_SECURE" envDefault:"false"`

	JobHistory    int `env:"MC_ADMIN_JOB_HISTORY" envDefault:"100"`
	PlayerWorkers int `env:"MC_ADMIN_PLAYER_WORKERS" envDefault:"4"`

	// Optional path to the live server log. When set, log tailing reads the
	// file instead of docker logs and /api/logs/follow becomes available.
	LogFile string `env:"MC_ADMIN_LOG_FILE"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`
}

func Load() (*Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if s.Password == "" {
		return nil, errors.New("MC_ADMIN_PASSWORD must be configured")
	}
	if s.SessionSecret == "" {
		return nil, errors.New("MC_ADMIN_SESSION_SECRET must be configured")
	}
	if s.JobHistory < 1 {
		s.JobHistory = 100
	}
	if s.PlayerWorkers < 1 {
		s.PlayerWorkers = 1
	}
	return &s, nil
}
