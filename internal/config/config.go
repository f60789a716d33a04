package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModeSingle = "single"
	ModeMulti  = "multi"

	PolicyStrict   = "strict"
	PolicyRegional = "regional"
)

// Config holds everything the client needs to talk to the backend and run.
type Config struct {
	BaseURL         string
	SocketURL       string
	StorePath       string
	Mode            string
	PlatePolicy     string
	RefreshInterval time.Duration
}

// Load reads .env (if present) and environment variables, applying defaults.
func Load() (Config, error) {
	godotenv.Load()

	cfg := Config{
		BaseURL:         "http://localhost:5000",
		SocketURL:       "ws://localhost:5000/ws",
		StorePath:       "parkdesk.db",
		Mode:            ModeSingle,
		PlatePolicy:     PolicyRegional,
		RefreshInterval: 30 * time.Second,
	}

	if v := os.Getenv("PARKDESK_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("PARKDESK_SOCKET_URL"); v != "" {
		cfg.SocketURL = v
	}
	if v := os.Getenv("PARKDESK_STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("PARKDESK_MODE"); v != "" {
		if v != ModeSingle && v != ModeMulti {
			return Config{}, fmt.Errorf("invalid PARKDESK_MODE %q: want %q or %q", v, ModeSingle, ModeMulti)
		}
		cfg.Mode = v
	}
	if v := os.Getenv("PARKDESK_PLATE_POLICY"); v != "" {
		if v != PolicyStrict && v != PolicyRegional {
			return Config{}, fmt.Errorf("invalid PARKDESK_PLATE_POLICY %q: want %q or %q", v, PolicyStrict, PolicyRegional)
		}
		cfg.PlatePolicy = v
	}
	if v := os.Getenv("PARKDESK_REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PARKDESK_REFRESH_INTERVAL: %w", err)
		}
		cfg.RefreshInterval = d
	}

	return cfg, nil
}
