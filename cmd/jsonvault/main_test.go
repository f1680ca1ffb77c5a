package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with an invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("JSONVAULT_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_InvalidRetention verifies run fails when validation rejects the config.
func TestRun_InvalidRetention(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 8080

storage:
  data_dir: ` + filepath.Join(tmpDir, "items") + `

auth:
  secret: test-secret

retention:
  days: 0
  timezone: UTC

database:
  path: ` + filepath.Join(tmpDir, "vault.db") + `
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("JSONVAULT_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with retention.days = 0")
	}
}

// TestRun_CleanStartupAndShutdown boots the full service with MQTT and
// InfluxDB disabled, then cancels the context to exercise shutdown.
func TestRun_CleanStartupAndShutdown(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  host: 127.0.0.1
  port: 18099
  timeouts:
    read: 5
    write: 5
    idle: 5

storage:
  data_dir: ` + filepath.Join(tmpDir, "items") + `

auth:
  secret: test-secret

retention:
  days: 7
  timezone: UTC

database:
  path: ` + filepath.Join(tmpDir, "vault.db") + `

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: error
  format: text
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("JSONVAULT_CONFIG", configPath)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- run(ctx)
	}()

	// Give the service a moment to come up, then signal shutdown.
	time.Sleep(500 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() error = %v, want clean shutdown", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("run() did not shut down")
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("JSONVAULT_CONFIG", "")
		if got := getConfigPath(); got != defaultConfigPath {
			t.Errorf("getConfigPath() = %q, want %q", got, defaultConfigPath)
		}
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("JSONVAULT_CONFIG", "/etc/jsonvault/config.yaml")
		if got := getConfigPath(); got != "/etc/jsonvault/config.yaml" {
			t.Errorf("getConfigPath() = %q", got)
		}
	})
}
