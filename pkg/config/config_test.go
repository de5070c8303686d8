package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d; want 8080", cfg.Server.Port)
	}
	if cfg.Analysis.TopN != 30 {
		t.Errorf("TopN = %d; want 30", cfg.Analysis.TopN)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should default to enabled")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	const raw = `
server:
  port: 9000
  readTimeout: 10s
species:
  arabidopsis:
    go: data/arabidopsis_go.tsv
    kegg: data/arabidopsis_kegg.tsv
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d; want 9000", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v; want 10s", cfg.Server.ReadTimeout)
	}
	if cfg.Species["arabidopsis"].GO != "data/arabidopsis_go.tsv" {
		t.Errorf("species GO = %q", cfg.Species["arabidopsis"].GO)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("GSV_SERVER_PORT", "7777")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Port = %d; want 7777", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("no/such/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
