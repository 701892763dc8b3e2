package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %s", err)
	}
	return dir
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	if cfg.Render != RenderDecimal || cfg.Disasm || cfg.Trace {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadReadsAllFields(t *testing.T) {
	dir := writeConfig(t, "render: exact\ndisasm: true\ntrace: true\n")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	if cfg.Render != RenderExact || !cfg.Disasm || !cfg.Trace {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := writeConfig(t, "disasm: true\n")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	if cfg.Render != RenderDecimal {
		t.Errorf("render = %q, want the decimal default", cfg.Render)
	}
	if !cfg.Disasm {
		t.Errorf("disasm was not read")
	}
}

func TestLoadRejectsUnknownRenderMode(t *testing.T) {
	dir := writeConfig(t, "render: binary\n")
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "binary") {
		t.Errorf("error = %v, want unknown render mode", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := writeConfig(t, "render: [oops\n")
	if _, err := Load(dir); err == nil {
		t.Errorf("expected error for malformed yaml")
	}
}
