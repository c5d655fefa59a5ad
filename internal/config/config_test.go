package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"colors", func(c *Config) { c.Analysis.NumColors = 0 }, "num_colors"},
		{"sample", func(c *Config) { c.Analysis.SampleSize = -1 }, "sample_size"},
		{"detector", func(c *Config) { c.Analysis.Detector = "yolo" }, "detector"},
		{"ocr", func(c *Config) { c.OCR.Engine = "" }, "ocr.engine"},
		{"backend", func(c *Config) { c.LLM.Enabled = true; c.LLM.Backend = "openai" }, "backend"},
		{"model", func(c *Config) { c.LLM.Enabled = true; c.LLM.Model = "" }, "model"},
		{"analysis type", func(c *Config) { c.LLM.Enabled = true; c.LLM.AnalysisType = "seo" }, "analysis_type"},
		{"overlay", func(c *Config) { c.Output.OverlayFormat = "gif" }, "overlay_format"},
		{"quality", func(c *Config) { c.Output.Quality = 101 }, "quality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Expected error to mention %s, got %v", tt.field, err)
			}
		})
	}
}

func TestValidateCustomPromptSkipsType(t *testing.T) {
	cfg := Default()
	cfg.LLM.Enabled = true
	cfg.LLM.AnalysisType = "seo"
	cfg.LLM.CustomPrompt = "Rate the SEO."

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected custom prompt to allow any analysis type, got %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `analysis:
  num_colors: 8
  seed: 42
ocr:
  engine: none
llm:
  enabled: true
  backend: llamacpp
  analysis_type: ux
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Analysis.NumColors != 8 {
		t.Errorf("Expected 8 colors, got %d", cfg.Analysis.NumColors)
	}

	if cfg.Analysis.Seed == nil || *cfg.Analysis.Seed != 42 {
		t.Errorf("Expected seed 42, got %v", cfg.Analysis.Seed)
	}

	if cfg.Analysis.SampleSize != 10000 {
		t.Errorf("Expected default sample size to survive, got %d", cfg.Analysis.SampleSize)
	}

	if cfg.LLM.Backend != "llamacpp" || cfg.LLM.AnalysisType != "ux" {
		t.Errorf("Expected llamacpp/ux, got %s/%s", cfg.LLM.Backend, cfg.LLM.AnalysisType)
	}

	if cfg.OCR.Engine != "none" {
		t.Errorf("Expected OCR engine none, got %s", cfg.OCR.Engine)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"nested/config.json", "config.yml"} {
		cfg := Default()
		cfg.Output.OutputDir = "/tmp/pages"
		cfg.LLM.Model = "qwen2.5"

		path := filepath.Join(dir, name)
		if err := cfg.SaveToFile(path); err != nil {
			t.Fatalf("SaveToFile(%s) failed: %v", name, err)
		}

		loaded, err := LoadFromFile(path)
		if err != nil {
			t.Fatalf("LoadFromFile(%s) failed: %v", name, err)
		}

		if loaded.Output.OutputDir != "/tmp/pages" || loaded.LLM.Model != "qwen2.5" {
			t.Errorf("%s: values not preserved: %+v", name, loaded)
		}
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFromFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{"), 0644)
	if _, err := LoadFromFile(bad); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}

func TestGetConfigPath(t *testing.T) {
	if !strings.HasSuffix(GetConfigPath(), "config.yaml") {
		t.Errorf("Expected a config.yaml path, got %s", GetConfigPath())
	}
}
