// Package output saves and prints the results of a page description run.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/menta2k/page-describer/internal/utils"
	"github.com/menta2k/page-describer/pkg/describer"
	"github.com/menta2k/page-describer/pkg/llm"
)

// Keys of the map returned by SaveResults
const (
	TextualDescription    = "textual_description"
	StructuredDescription = "structured_description"
	LLMAnalysis           = "llm_analysis"
)

const timestampFormat = "20060102_150405"

// Results is everything a run produced
type Results struct {
	URL         string
	Screenshot  string
	Description *describer.Result
	Analysis    *llm.Analysis
	SavedFiles  map[string]string
}

// Handler writes results under OutputDir
type Handler struct {
	OutputDir string
	now       func() time.Time
}

// NewHandler creates the output directory if needed
func NewHandler(outputDir string) (*Handler, error) {
	if outputDir == "" {
		outputDir = "output"
	}
	if err := utils.EnsureDir(outputDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Handler{OutputDir: outputDir, now: time.Now}, nil
}

// BaseFilename returns the shared stem of every file written for a run
func (h *Handler) BaseFilename(results Results, includeTimestamp bool) string {
	name := utils.SourceName(results.URL, results.Screenshot)
	if includeTimestamp {
		name += "_" + h.now().Format(timestampFormat)
	}
	return name
}

// SaveResults writes the prose as <base>.md, the structured description as
// <base>.json and, when present, the model analysis as <base>_analysis.md.
// Empty parts are skipped. It returns the written paths keyed by kind.
func (h *Handler) SaveResults(results Results, includeTimestamp bool) (map[string]string, error) {
	base := filepath.Join(h.OutputDir, h.BaseFilename(results, includeTimestamp))
	saved := make(map[string]string)

	if d := results.Description; d != nil {
		if d.Text != "" {
			path := base + ".md"
			if err := os.WriteFile(path, []byte(d.Text), 0644); err != nil {
				return saved, fmt.Errorf("failed to write description: %w", err)
			}
			saved[TextualDescription] = path
		}

		if d.JSON != "" {
			path := base + ".json"
			if err := os.WriteFile(path, []byte(d.JSON), 0644); err != nil {
				return saved, fmt.Errorf("failed to write structured description: %w", err)
			}
			saved[StructuredDescription] = path
		}
	}

	if a := results.Analysis; a != nil {
		path := base + "_analysis.md"
		if err := os.WriteFile(path, []byte(AnalysisMarkdown(results.source(), a)), 0644); err != nil {
			return saved, fmt.Errorf("failed to write analysis: %w", err)
		}
		saved[LLMAnalysis] = path
	}

	return saved, nil
}

func (r Results) source() string {
	if r.URL != "" {
		return r.URL
	}
	return r.Screenshot
}

// AnalysisMarkdown renders a model analysis as a small markdown document
func AnalysisMarkdown(source string, a *llm.Analysis) string {
	analysisType := a.AnalysisType
	if analysisType == "" {
		analysisType = llm.General
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Analysis of %s\n\n", source)
	fmt.Fprintf(&b, "## %s Analysis\n\n", capitalize(analysisType))
	b.WriteString(a.Response)
	return b.String()
}

// capitalize title-cases an analysis type for a heading
func capitalize(s string) string {
	return cases.Title(language.Und).String(s)
}

// DisplayResults prints the prose description, the model analysis and the
// saved paths
func DisplayResults(w io.Writer, results Results) {
	rule := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 80)

	if d := results.Description; d != nil && d.Text != "" {
		fmt.Fprintf(w, "\n%s\n%s\n%s\n\n", rule, d.Text, rule)
	}

	if a := results.Analysis; a != nil {
		fmt.Fprintf(w, "\nLLM ANALYSIS:\n%s\n%s\n%s\n\n", thin, a.Response, thin)
	}

	if len(results.SavedFiles) > 0 {
		kinds := make([]string, 0, len(results.SavedFiles))
		for k := range results.SavedFiles {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)

		fmt.Fprintln(w, "\nResults saved to:")
		for _, k := range kinds {
			fmt.Fprintf(w, "- %s: %s\n", k, results.SavedFiles[k])
		}
	}
}
