// Package llm sends a page description to a language model for a typed
// analysis (general, ux, accessibility or structure).
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/menta2k/page-describer/pkg/client"
)

// ErrAnalysisFailed wraps every failure of AnalyzeDescription
var ErrAnalysisFailed = errors.New("llm analysis failed")

// Analysis types
const (
	General       = "general"
	UX            = "ux"
	Accessibility = "accessibility"
	Structure     = "structure"
)

// descriptionSeparator joins the prompt and the page description
const descriptionSeparator = "\n\nHere is the textual description of the webpage:\n\n"

var prompts = map[string]string{
	General: `Analyze this textual description of a webpage and provide insights about:
1. Overall structure and layout
2. Main UI components and their organization
3. Potential usability considerations
4. Any notable design patterns used`,

	UX: `Analyze this textual description of a webpage from a UX perspective and provide:
1. Strengths of the current design
2. Potential usability issues that might exist
3. Suggestions for improvement based on UX best practices
4. Assessment of information hierarchy and content organization`,

	Accessibility: `Analyze this textual description of a webpage from an accessibility perspective and provide:
1. Potential accessibility concerns based on the description
2. Suggestions for improving accessibility
3. Areas that should be prioritized for a detailed accessibility audit
4. WCAG guidelines that might be relevant to consider`,

	Structure: `Analyze this textual description of a webpage's structure and provide:
1. A high-level component breakdown
2. Assessment of the layout strategy used
3. How the UI elements relate to each other
4. Suggestions for structural improvements`,
}

// AnalysisTypes lists the supported analysis types
func AnalysisTypes() []string {
	return []string{General, UX, Accessibility, Structure}
}

// Prompt returns the prompt for an analysis type, falling back to general
func Prompt(analysisType string) string {
	if p, ok := prompts[analysisType]; ok {
		return p
	}
	return prompts[General]
}

// Analysis is a completed model analysis
type Analysis struct {
	AnalysisType string `json:"analysis_type"`
	Prompt       string `json:"prompt"`
	Response     string `json:"response"`
}

// Config controls the model and retry policy
type Config struct {
	Model       string
	MaxAttempts uint
	RetryDelay  time.Duration
}

// DefaultConfig returns three attempts, one second apart
func DefaultConfig(model string) Config {
	return Config{
		Model:       model,
		MaxAttempts: 3,
		RetryDelay:  time.Second,
	}
}

// Analyzer sends descriptions to a TextClient
type Analyzer struct {
	client client.TextClient
	config Config
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer with the default retry policy
func NewAnalyzer(c client.TextClient, model string) *Analyzer {
	return NewAnalyzerWithConfig(c, DefaultConfig(model))
}

// NewAnalyzerWithConfig creates an analyzer with a custom retry policy
func NewAnalyzerWithConfig(c client.TextClient, cfg Config) *Analyzer {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	return &Analyzer{
		client: c,
		config: cfg,
		logger: slog.Default(),
	}
}

// SetLogger replaces the logger used for attempt progress
func (a *Analyzer) SetLogger(logger *slog.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// BuildPrompt returns the full prompt sent to the model. A non-empty
// customPrompt replaces the analysis type's prompt.
func BuildPrompt(description, analysisType, customPrompt string) (prompt, full string) {
	prompt = customPrompt
	if prompt == "" {
		prompt = Prompt(analysisType)
	}
	return prompt, prompt + descriptionSeparator + description
}

// AnalyzeDescription asks the model to analyze a textual page description
func (a *Analyzer) AnalyzeDescription(ctx context.Context, description, analysisType, customPrompt string) (*Analysis, error) {
	if analysisType == "" {
		analysisType = General
	}
	prompt, full := BuildPrompt(description, analysisType, customPrompt)

	a.logger.Info("Requesting LLM analysis",
		"analysis_type", analysisType,
		"model", a.config.Model,
		"prompt_chars", len(full))

	var reply string
	err := retry.Do(
		func() error {
			var err error
			reply, err = a.client.Complete(ctx, a.config.Model, full)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(a.config.MaxAttempts),
		retry.Delay(a.config.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			a.logger.Warn("LLM request failed, retrying",
				"attempt", n+1,
				"max_attempts", a.config.MaxAttempts,
				"error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	return &Analysis{
		AnalysisType: analysisType,
		Prompt:       prompt,
		Response:     CleanResponse(reply),
	}, nil
}

var (
	reThink = regexp.MustCompile(`(?s)<think>.*?</think>`)
	reFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\n(.*)\\n```$")
)

// CleanResponse strips reasoning blocks emitted by thinking models and a
// code fence wrapped around the whole reply
func CleanResponse(raw string) string {
	raw = reThink.ReplaceAllString(raw, "")
	raw = strings.TrimSpace(raw)
	if m := reFence.FindStringSubmatch(raw); m != nil {
		raw = strings.TrimSpace(m[1])
	}
	return raw
}
