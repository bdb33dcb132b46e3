package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/cadence/pkg/storage"
)

func initWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := storage.NewFilesystemRepository(root).Initialize(); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(initWorkspace(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	root := initWorkspace(t)
	want := Default()
	want.Provider = "openai"
	want.Model = "gpt-4o-mini"
	want.MaxRetries = 4
	want.LogFormat = "json"

	if err := Save(root, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	info, err := os.Stat(filepath.Join(root, storage.CadenceDir, storage.ConfigFile))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config perm = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	root := initWorkspace(t)
	path := filepath.Join(root, storage.CadenceDir, storage.ConfigFile)
	if err := os.WriteFile(path, []byte("provider: ollama\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "ollama" {
		t.Errorf("Provider = %s", cfg.Provider)
	}
	if cfg.TimeoutSec != 300 || cfg.DateFormat != "Jan 02" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := initWorkspace(t)
	if err := Save(root, Default()); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CADENCE_PROVIDER", "openai")
	t.Setenv("CADENCE_MAX_RETRIES", "7")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "openai" || cfg.MaxRetries != 7 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	root := initWorkspace(t)
	path := filepath.Join(root, storage.CadenceDir, storage.ConfigFile)
	if err := os.WriteFile(path, []byte("provider: carrier-pigeon\nlog_format: xml\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(root)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"carrier-pigeon", "log_format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestSave_Nil(t *testing.T) {
	if err := Save(t.TempDir(), nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestLoad_Webhooks(t *testing.T) {
	root := initWorkspace(t)
	path := filepath.Join(root, storage.CadenceDir, storage.ConfigFile)
	body := `webhooks:
  - name: team-chat
    url: https://hooks.example.com/cadence
    secret: s3cret
    events: [plan.revised]
    max_retries: 5
  - name: old
    url: http://localhost:9000/hook
    disabled: true
`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []WebhookConfig{{
		Name:       "team-chat",
		URL:        "https://hooks.example.com/cadence",
		Secret:     "s3cret",
		Events:     []string{"plan.revised"},
		MaxRetries: 5,
	}}
	if diff := cmp.Diff(want, cfg.ActiveWebhooks()); diff != "" {
		t.Errorf("active webhooks mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Webhooks) != 2 {
		t.Errorf("expected both webhooks loaded, got %d", len(cfg.Webhooks))
	}
}

func TestValidate_WebhookURL(t *testing.T) {
	cfg := Default()
	cfg.Webhooks = []WebhookConfig{{Name: "bad", URL: "ftp://example.com"}}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "webhooks[0]") {
		t.Errorf("expected webhook url error, got %v", err)
	}
}
