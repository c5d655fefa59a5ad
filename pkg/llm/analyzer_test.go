package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type fakeClient struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
	models  []string
}

func (f *fakeClient) Complete(_ context.Context, model, prompt string) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.models = append(f.models, model)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", nil
}

func quietAnalyzer(c *fakeClient, attempts uint) *Analyzer {
	a := NewAnalyzerWithConfig(c, Config{Model: "test-model", MaxAttempts: attempts, RetryDelay: time.Millisecond})
	a.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return a
}

func TestPrompt(t *testing.T) {
	for _, typ := range AnalysisTypes() {
		if Prompt(typ) == "" {
			t.Errorf("Expected a prompt for %s", typ)
		}
	}

	if Prompt("seo") != Prompt(General) {
		t.Error("Expected unknown analysis type to fall back to general")
	}

	if !strings.Contains(Prompt(Accessibility), "WCAG") {
		t.Error("Expected the accessibility prompt to mention WCAG")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, full := BuildPrompt("# Shop", UX, "")
	if prompt != Prompt(UX) {
		t.Error("Expected the UX prompt")
	}

	expected := Prompt(UX) + "\n\nHere is the textual description of the webpage:\n\n# Shop"
	if full != expected {
		t.Errorf("Expected full prompt %q, got %q", expected, full)
	}

	prompt, full = BuildPrompt("# Shop", UX, "Rate it.")
	if prompt != "Rate it." {
		t.Errorf("Expected custom prompt, got %q", prompt)
	}
	if !strings.HasPrefix(full, "Rate it.\n\n") {
		t.Errorf("Expected full prompt to start with the custom prompt, got %q", full)
	}
}

func TestAnalyzeDescription(t *testing.T) {
	c := &fakeClient{replies: []string{"Looks good."}}
	a := quietAnalyzer(c, 3)

	analysis, err := a.AnalyzeDescription(context.Background(), "# Shop", Structure, "")
	if err != nil {
		t.Fatalf("AnalyzeDescription failed: %v", err)
	}

	if analysis.AnalysisType != Structure {
		t.Errorf("Expected analysis type structure, got %s", analysis.AnalysisType)
	}

	if analysis.Prompt != Prompt(Structure) {
		t.Error("Expected the structure prompt to be recorded")
	}

	if analysis.Response != "Looks good." {
		t.Errorf("Expected 'Looks good.', got %q", analysis.Response)
	}

	if c.models[0] != "test-model" {
		t.Errorf("Expected model test-model, got %s", c.models[0])
	}

	if !strings.HasSuffix(c.prompts[0], "# Shop") {
		t.Error("Expected the description at the end of the prompt")
	}
}

func TestAnalyzeDescriptionDefaultsType(t *testing.T) {
	c := &fakeClient{replies: []string{"ok"}}
	analysis, err := quietAnalyzer(c, 1).AnalyzeDescription(context.Background(), "x", "", "")
	if err != nil {
		t.Fatalf("AnalyzeDescription failed: %v", err)
	}

	if analysis.AnalysisType != General {
		t.Errorf("Expected general, got %s", analysis.AnalysisType)
	}
}

func TestAnalyzeDescriptionRetries(t *testing.T) {
	c := &fakeClient{
		errs:    []error{errors.New("connection refused"), nil},
		replies: []string{"", "Second time lucky."},
	}

	analysis, err := quietAnalyzer(c, 3).AnalyzeDescription(context.Background(), "x", General, "")
	if err != nil {
		t.Fatalf("AnalyzeDescription failed: %v", err)
	}

	if c.calls != 2 {
		t.Errorf("Expected 2 calls, got %d", c.calls)
	}

	if analysis.Response != "Second time lucky." {
		t.Errorf("Expected second reply, got %q", analysis.Response)
	}
}

func TestAnalyzeDescriptionFailure(t *testing.T) {
	boom := errors.New("model not found")
	c := &fakeClient{errs: []error{boom, boom}}

	analysis, err := quietAnalyzer(c, 2).AnalyzeDescription(context.Background(), "x", General, "")
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("Expected ErrAnalysisFailed, got %v", err)
	}

	if analysis != nil {
		t.Error("Expected no analysis on failure")
	}

	if c.calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", c.calls)
	}

	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("Expected the last error in the message, got %v", err)
	}
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Fine.  ", "Fine."},
		{"think block", "<think>hmm\nlet me see</think>\nThe layout is clear.", "The layout is clear."},
		{"fenced", "```markdown\n## Summary\nGood.\n```", "## Summary\nGood."},
		{"inner fence kept", "Intro\n```css\na{}\n```", "Intro\n```css\na{}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanResponse(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
