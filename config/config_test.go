package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `data:
  dir: "marietta_traffic_data"
  store_path: "marietta_traffic.db"
logging:
  level: "debug"
metrics:
  prometheus_enabled: true
  prometheus_port: ":9091"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Data.Dir != "marietta_traffic_data" {
		t.Errorf("data.dir = %q", cfg.Data.Dir)
	}
	if cfg.Data.StorePath != "marietta_traffic.db" {
		t.Errorf("data.store_path = %q", cfg.Data.StorePath)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q", cfg.Logging.Level)
	}
	if !cfg.Metrics.PrometheusEnabled || cfg.Metrics.PrometheusPort != ":9091" {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", "data: {}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Data.Dir != "traffic_data" || cfg.Data.StorePath != "traffic.db" {
		t.Errorf("defaults not applied: %+v", cfg.Data)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default level = %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "logging:\n  level: \"info\"\n")
	t.Setenv("TC_LOGGING__LEVEL", "warn")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("env override ignored, level = %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsUnknownLevel(t *testing.T) {
	path := writeConfig(t, "config.yaml", "logging:\n  level: \"loud\"\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "x = 1\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}
