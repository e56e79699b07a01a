package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dfw-fab/fabsync/internal/calendar"
	"github.com/dfw-fab/fabsync/internal/config"
)

const probeTimeout = 30 * time.Second

// ConfigCheck validates the loaded configuration.
func ConfigCheck(cfg *config.Config) Check {
	return Check{
		Name: "configuration",
		Run: func(context.Context) error {
			return cfg.Validate()
		},
	}
}

// CredentialFileCheck verifies the service-account credential file exists
// and is readable.
func CredentialFileCheck(path string) Check {
	return Check{
		Name: "credential file",
		Run: func(context.Context) error {
			if path == "" {
				return fmt.Errorf("no credentials file configured")
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			return f.Close()
		},
	}
}

// LogDirCheck verifies the log directory exists and is writable.
func LogDirCheck(dir string) Check {
	return Check{
		Name: "log directory",
		Run: func(context.Context) error {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
			probe := filepath.Join(dir, ".health-probe")
			if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
				return fmt.Errorf("writing to %s: %w", dir, err)
			}
			return os.Remove(probe)
		},
	}
}

// SourceCheck verifies a listing URL answers successfully.
func SourceCheck(name, url string) Check {
	rest := resty.New().SetTimeout(probeTimeout)
	return Check{
		Name: name,
		Run: func(ctx context.Context) error {
			resp, err := rest.R().SetContext(ctx).Get(url)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", url, err)
			}
			if resp.IsError() {
				return fmt.Errorf("fetching %s: unexpected status code %d", url, resp.StatusCode())
			}
			return nil
		},
	}
}

// CalendarCheck verifies the configured calendar is reachable.
func CalendarCheck(backend calendar.Backend) Check {
	return Check{
		Name: "calendar access",
		Run: func(ctx context.Context) error {
			return backend.Probe(ctx)
		},
	}
}
