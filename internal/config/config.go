package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/menta2k/page-describer/pkg/llm"
)

// Config holds the application configuration
type Config struct {
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	OCR      OCRConfig      `json:"ocr" yaml:"ocr"`
	LLM      LLMConfig      `json:"llm" yaml:"llm"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}

// AnalysisConfig holds configuration for screenshot analysis
type AnalysisConfig struct {
	NumColors    int     `json:"num_colors" yaml:"num_colors"`
	SampleSize   int     `json:"sample_size" yaml:"sample_size"`
	Seed         *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
	MergeSimilar bool    `json:"merge_similar" yaml:"merge_similar"`
	Detector     string  `json:"detector" yaml:"detector"`
	MinImageSize int     `json:"min_image_size" yaml:"min_image_size"`
}

// OCRConfig selects the text extractor. Engine is "tesseract", "none", or a
// path to a saved OCR result.
type OCRConfig struct {
	Engine   string `json:"engine" yaml:"engine"`
	Language string `json:"language" yaml:"language"`
}

// LLMConfig holds configuration for the optional model analysis. An empty
// ServerURL selects the backend's local default.
type LLMConfig struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	Backend      string `json:"backend" yaml:"backend"`
	ServerURL    string `json:"server_url" yaml:"server_url"`
	Model        string `json:"model" yaml:"model"`
	AnalysisType string `json:"analysis_type" yaml:"analysis_type"`
	CustomPrompt string `json:"custom_prompt,omitempty" yaml:"custom_prompt,omitempty"`
	MaxAttempts  uint   `json:"max_attempts" yaml:"max_attempts"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	OutputDir        string `json:"output_dir" yaml:"output_dir"`
	IncludeTimestamp bool   `json:"include_timestamp" yaml:"include_timestamp"`
	DebugOverlay     bool   `json:"debug_overlay" yaml:"debug_overlay"`
	OverlayFormat    string `json:"overlay_format" yaml:"overlay_format"`
	Quality          int    `json:"quality" yaml:"quality"`
}

// Backends supported by LLMConfig.Backend
var Backends = []string{"ollama", "llamacpp"}

// Detectors supported by AnalysisConfig.Detector
var Detectors = []string{"simulated", "none"}

var overlayFormats = []string{"png", "jpg", "jpeg", "webp"}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			NumColors:    5,
			SampleSize:   10000,
			Detector:     "simulated",
			MinImageSize: 1,
		},
		OCR: OCRConfig{
			Engine:   "tesseract",
			Language: "eng",
		},
		LLM: LLMConfig{
			Enabled:      false,
			Backend:      "ollama",
			Model:        "llama3.1",
			AnalysisType: llm.General,
			MaxAttempts:  3,
		},
		Output: OutputConfig{
			OutputDir:        "./output",
			IncludeTimestamp: true,
			DebugOverlay:     false,
			OverlayFormat:    "png",
			Quality:          90,
		},
	}
}

// LoadFromFile loads configuration from a JSON or YAML file. Values missing
// from the file keep their defaults.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if isYAML(filename) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration as JSON, or YAML for .yaml/.yml files
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isYAML(filename) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Analysis.NumColors < 1 {
		return fmt.Errorf("analysis.num_colors must be positive")
	}

	if c.Analysis.SampleSize < 1 {
		return fmt.Errorf("analysis.sample_size must be positive")
	}

	if c.Analysis.MinImageSize < 1 {
		return fmt.Errorf("analysis.min_image_size must be positive")
	}

	if c.Analysis.Detector != "" && !slices.Contains(Detectors, c.Analysis.Detector) {
		return fmt.Errorf("analysis.detector must be one of %v", Detectors)
	}

	if c.OCR.Engine == "" {
		return fmt.Errorf("ocr.engine cannot be empty")
	}

	if c.LLM.Enabled {
		if !slices.Contains(Backends, c.LLM.Backend) {
			return fmt.Errorf("llm.backend must be one of %v", Backends)
		}
		if c.LLM.Model == "" {
			return fmt.Errorf("llm.model cannot be empty")
		}
		if c.LLM.CustomPrompt == "" && !slices.Contains(llm.AnalysisTypes(), c.LLM.AnalysisType) {
			return fmt.Errorf("llm.analysis_type must be one of %v", llm.AnalysisTypes())
		}
	}

	if c.Output.OutputDir == "" {
		return fmt.Errorf("output.output_dir cannot be empty")
	}

	if !slices.Contains(overlayFormats, strings.ToLower(c.Output.OverlayFormat)) {
		return fmt.Errorf("output.overlay_format must be one of %v", overlayFormats)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".config", "page-describer", "config.yaml")
}
