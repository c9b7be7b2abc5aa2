package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if !cfg.Render.Actions || !cfg.Render.SetDocumentTitle {
		t.Error("actions and title must be enabled by default")
	}
	if cfg.Render.TitleTemplate != "%s - Curriculum Vitae" {
		t.Errorf("TitleTemplate = %q", cfg.Render.TitleTemplate)
	}
	if cfg.Render.PrintFallbackDelay != 1500*time.Millisecond {
		t.Errorf("PrintFallbackDelay = %v", cfg.Render.PrintFallbackDelay)
	}
	if cfg.Page.Mount != "cv" || !cfg.Page.InlineDefaultStylesheet {
		t.Errorf("Page = %+v", cfg.Page)
	}
	if cfg.Preferences.Store != "memory" {
		t.Errorf("Preferences.Store = %q", cfg.Preferences.Store)
	}
	if cfg.Output.WatchDebounce != 300*time.Millisecond {
		t.Errorf("WatchDebounce = %v", cfg.Output.WatchDebounce)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
render:
  actions: false
  title_template: "CV of %s"
  print_fallback_delay: 2s
page:
  language: de-CH
  mount: resume
output:
  name_template: "{{ .Name | lower }}"
  workers: 3
preferences:
  store: sqlite
  path: ` + filepath.Join(tmpDir, "prefs.db") + `
logging:
  console:
    level: debug
  file:
    level: none
reporting:
  destination: ` + filepath.Join(tmpDir, "report.zip") + `
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Render.Actions {
		t.Error("Actions should be overridden to false")
	}
	if !cfg.Render.SetDocumentTitle {
		t.Error("SetDocumentTitle default lost")
	}
	if cfg.Render.TitleTemplate != "CV of %s" {
		t.Errorf("TitleTemplate = %q", cfg.Render.TitleTemplate)
	}
	if cfg.Render.PrintFallbackDelay != 2*time.Second {
		t.Errorf("PrintFallbackDelay = %v", cfg.Render.PrintFallbackDelay)
	}
	if cfg.Page.Tag() != language.MustParse("de-CH") {
		t.Errorf("Tag() = %v", cfg.Page.Tag())
	}
	if cfg.Page.Mount != "resume" {
		t.Errorf("Mount = %q", cfg.Page.Mount)
	}
	if cfg.Output.NameTemplate != "{{ .Name | lower }}" {
		t.Errorf("NameTemplate was expanded: %q", cfg.Output.NameTemplate)
	}
	if cfg.Output.WorkerCount() != 3 {
		t.Errorf("WorkerCount() = %d", cfg.Output.WorkerCount())
	}
	if cfg.Preferences.Store != "sqlite" {
		t.Errorf("Store = %q", cfg.Preferences.Store)
	}
}

func TestLoadConfiguration_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "version: 1\nrender:\n  colour: red\n"},
		{"bad version", "version: 2\n"},
		{"bad store", "version: 1\npreferences:\n  store: redis\n"},
		{"sqlite without path", "version: 1\npreferences:\n  store: sqlite\n  path: \"\"\n"},
		{"negative workers", "version: 1\noutput:\n  workers: -1\n"},
		{"bad mount", "version: 1\npage:\n  mount: \"a b\"\n"},
		{"bad yaml", "version: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfiguration(path); err == nil {
				t.Error("LoadConfiguration() expected error")
			}
		})
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("error = %v", err)
	}
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "title_template") {
		t.Error("prepared configuration lacks render section")
	}

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	dump, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	// dumped configuration must load back
	path := filepath.Join(t.TempDir(), "dump.yaml")
	if err := os.WriteFile(path, dump, 0644); err != nil {
		t.Fatal(err)
	}
	again, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("reload of dumped configuration: %v", err)
	}
	if again.Render != cfg.Render || again.Page != cfg.Page || again.Output != cfg.Output {
		t.Error("dumped configuration differs after reload")
	}
}

func TestWorkerCountDefault(t *testing.T) {
	conf := OutputConfig{}
	if conf.WorkerCount() < 1 {
		t.Errorf("WorkerCount() = %d", conf.WorkerCount())
	}
}

func TestCleanFileName(t *testing.T) {
	if got := CleanFileName("..hidden"); strings.HasPrefix(got, ".") {
		t.Errorf("leading dots kept: %q", got)
	}
	if got := CleanFileName(string(os.PathSeparator)); got != "_bad_file_name_" {
		t.Errorf("CleanFileName(separator) = %q", got)
	}
	if got := CleanFileName("Ada Lovelace"); got != "Ada Lovelace" {
		t.Errorf("CleanFileName = %q", got)
	}
}
