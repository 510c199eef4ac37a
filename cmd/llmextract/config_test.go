package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if !*cfg.XML.Validate || !*cfg.XML.Recover {
		t.Error("LoadConfig() XML validation and recovery should default on")
	}
	if cfg.JSON.Strict || cfg.Code.Strict || cfg.HTML.Clean {
		t.Error("LoadConfig() strict and clean modes should default off")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if !*cfg.XML.Validate {
		t.Error("LoadConfig() missing file should keep defaults")
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "json:\n  strict: true\nxml:\n  recover: false\ncode:\n  language: go\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if !cfg.JSON.Strict {
		t.Error("LoadConfig() json.strict not applied")
	}
	if *cfg.XML.Recover {
		t.Error("LoadConfig() xml.recover=false not applied")
	}
	if !*cfg.XML.Validate {
		t.Error("LoadConfig() unset xml.validate should stay on")
	}
	if cfg.Code.Language != "go" {
		t.Errorf("LoadConfig() code.language = %q, want %q", cfg.Code.Language, "go")
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("json: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() accepted malformed YAML")
	}
}
