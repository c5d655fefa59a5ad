package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	pagedescriber "github.com/menta2k/page-describer"
	"github.com/menta2k/page-describer/internal/config"
	"github.com/menta2k/page-describer/internal/output"
	"github.com/menta2k/page-describer/internal/utils"
	"github.com/menta2k/page-describer/pkg/analyzer"
	"github.com/menta2k/page-describer/pkg/client"
	"github.com/menta2k/page-describer/pkg/llamacpp"
	"github.com/menta2k/page-describer/pkg/llm"
	"github.com/menta2k/page-describer/pkg/ocr"
	"github.com/menta2k/page-describer/pkg/ocr/tesseract"
	"github.com/menta2k/page-describer/pkg/ollama"
	"github.com/menta2k/page-describer/pkg/page"
	"github.com/menta2k/page-describer/pkg/palette"
	"github.com/menta2k/page-describer/pkg/types"
)

func main() {
	var in, htmlPath, pageURL, title, configPath string
	var fetch, verbose bool
	var seed uint64

	// Flags below override the config file when set
	var ocrEngine, ocrLang, outDir, analysisType, prompt, backend, server, model, detector, dbgext string
	var useLLM, debug, merge, timestamp bool
	var colors, samples, quality int

	flag.StringVar(&in, "in", "", "screenshot path or URL (jpg/png/webp)")
	flag.StringVar(&htmlPath, "html", "", "saved HTML of the page, read for title and meta tags")
	flag.StringVar(&pageURL, "url", "", "URL of the page the screenshot shows")
	flag.BoolVar(&fetch, "fetch", false, "download -url to read its title and meta tags")
	flag.StringVar(&title, "title", "", "page title (overrides -html/-fetch)")
	flag.StringVar(&configPath, "config", "", "config file (json or yaml), default "+config.GetConfigPath())
	flag.BoolVar(&verbose, "v", false, "verbose pipeline logging")

	flag.StringVar(&ocrEngine, "ocr", "", "OCR engine: tesseract|none|<path to OCR result json>")
	flag.StringVar(&ocrLang, "lang", "", "tesseract language, e.g. eng or eng+deu")
	flag.StringVar(&outDir, "out", "", "output directory")
	flag.BoolVar(&timestamp, "timestamp", true, "append a timestamp to output file names")

	flag.BoolVar(&useLLM, "llm", false, "send the description to a language model for analysis")
	flag.StringVar(&analysisType, "analysis", "", "analysis type: "+strings.Join(llm.AnalysisTypes(), "|"))
	flag.StringVar(&prompt, "prompt", "", "custom analysis prompt")
	flag.StringVar(&backend, "backend", "", "LLM backend: ollama or llamacpp")
	flag.StringVar(&server, "server", "", "LLM server URL (defaults: ollama=http://localhost:11434, llamacpp=http://localhost:8080)")
	flag.StringVar(&model, "model", "", "model name")

	flag.IntVar(&colors, "colors", 0, "number of palette colors")
	flag.IntVar(&samples, "samples", 0, "pixels sampled for the palette")
	flag.Uint64Var(&seed, "seed", 0, "palette sampling seed")
	flag.BoolVar(&merge, "merge", false, "merge perceptually similar palette colors")
	flag.StringVar(&detector, "detector", "", "UI element detector: simulated|none")

	flag.BoolVar(&debug, "debug", false, "save a debug overlay with element and text boxes")
	flag.StringVar(&dbgext, "dbgext", "", "debug overlay format: png|jpg|webp")
	flag.IntVar(&quality, "quality", 0, "debug overlay quality (for jpg/webp)")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in screenshot.png|URL [-url page_url] [-html page.html] [-ocr tesseract|none|ocr.json] [-llm -analysis ux] [-out outdir]", filepath.Base(os.Args[0]))
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ocr":
			cfg.OCR.Engine = ocrEngine
		case "lang":
			cfg.OCR.Language = ocrLang
		case "out":
			cfg.Output.OutputDir = outDir
		case "timestamp":
			cfg.Output.IncludeTimestamp = timestamp
		case "llm":
			cfg.LLM.Enabled = useLLM
		case "analysis":
			cfg.LLM.AnalysisType = analysisType
		case "prompt":
			cfg.LLM.CustomPrompt = prompt
		case "backend":
			cfg.LLM.Backend = backend
		case "server":
			cfg.LLM.ServerURL = server
		case "model":
			cfg.LLM.Model = model
		case "colors":
			cfg.Analysis.NumColors = colors
		case "samples":
			cfg.Analysis.SampleSize = samples
		case "seed":
			cfg.Analysis.Seed = &seed
		case "merge":
			cfg.Analysis.MergeSimilar = merge
		case "detector":
			cfg.Analysis.Detector = detector
		case "debug":
			cfg.Output.DebugOverlay = debug
		case "dbgext":
			cfg.Output.OverlayFormat = dbgext
		case "quality":
			cfg.Output.Quality = quality
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	opts := runOptions{
		in:       in,
		pageURL:  pageURL,
		htmlPath: htmlPath,
		title:    title,
		fetch:    fetch,
		verbose:  verbose,
	}
	if err := run(context.Background(), cfg, opts); err != nil {
		log.Fatal(err)
	}
}

// runOptions carries the flags that never come from the config file
type runOptions struct {
	in       string
	pageURL  string
	htmlPath string
	title    string
	fetch    bool
	verbose  bool
}

// openExtractor builds the OCR engine named in the config
var openExtractor = newExtractor

// run describes one screenshot and saves the results. Resources opened here
// are released before it returns.
func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	info, err := pageInfo(ctx, opts.pageURL, opts.htmlPath, opts.fetch)
	if err != nil {
		return err
	}
	if opts.title != "" {
		info.Title = opts.title
	}

	describer, err := pagedescriber.NewWithConfig(describerConfig(cfg))
	if err != nil {
		return err
	}
	describer.SetLogger(logger)

	extractor, closeOCR, err := openExtractor(cfg.OCR)
	if err != nil {
		return err
	}
	defer closeOCR()
	if extractor != nil {
		describer.SetOCR(extractor)
	}

	img, data, err := describer.LoadImage(opts.in)
	if err != nil {
		return err
	}

	report, err := describer.AnalyzePage(ctx, img, data, info)
	if err != nil {
		return err
	}
	log.Printf("detected %d UI elements, %d text blocks, layout %s",
		len(report.Analysis.Elements), len(report.OCR.TextBlocks), report.Analysis.LayoutPattern)

	results := output.Results{
		URL:         info.URL,
		Screenshot:  opts.in,
		Description: report.Description,
	}

	if cfg.LLM.Enabled {
		analysis, err := analyze(ctx, cfg.LLM, report.Description.Text, logger)
		if err != nil {
			log.Printf("skipping LLM analysis: %v", err)
		} else {
			results.Analysis = analysis
		}
	}

	handler, err := output.NewHandler(cfg.Output.OutputDir)
	if err != nil {
		return err
	}

	saved, err := handler.SaveResults(results, cfg.Output.IncludeTimestamp)
	if err != nil {
		return err
	}

	if cfg.Output.DebugOverlay {
		format := strings.ToLower(cfg.Output.OverlayFormat)
		base := handler.BaseFilename(results, cfg.Output.IncludeTimestamp)
		path := filepath.Join(handler.OutputDir, fmt.Sprintf("%s_overlay.%s", base, format))
		if err := describer.SaveImage(describer.DebugOverlay(img, report), path, format, cfg.Output.Quality); err != nil {
			log.Printf("debug overlay save failed: %v", err)
		} else {
			saved["debug_overlay"] = path
		}
	}

	results.SavedFiles = saved
	output.DisplayResults(os.Stdout, results)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetConfigPath()
		if !utils.FileExists(path) {
			return config.Default(), nil
		}
	}
	return config.LoadFromFile(path)
}

func describerConfig(cfg *config.Config) pagedescriber.Config {
	dc := pagedescriber.Config{
		Analyzer: analyzer.Config{MinImageSize: cfg.Analysis.MinImageSize},
		Palette: palette.Config{
			NumColors:  cfg.Analysis.NumColors,
			SampleSize: cfg.Analysis.SampleSize,
			Seed:       cfg.Analysis.Seed,
		},
		Detector: cfg.Analysis.Detector,
	}
	if cfg.Analysis.MergeSimilar {
		dc.Analyzer.MergeThreshold = palette.DefaultSimilarityThreshold
	}
	return dc
}

func pageInfo(ctx context.Context, pageURL, htmlPath string, fetch bool) (types.PageInfo, error) {
	if pageURL != "" {
		if err := page.ValidateURL(pageURL); err != nil {
			return types.PageInfo{}, err
		}
	}

	var info types.PageInfo
	switch {
	case htmlPath != "":
		f, err := os.Open(htmlPath)
		if err != nil {
			return types.PageInfo{}, fmt.Errorf("failed to open HTML: %w", err)
		}
		defer f.Close()
		if info, err = page.ParseHTML(f); err != nil {
			return types.PageInfo{}, err
		}
	case fetch && pageURL != "":
		var err error
		if info, err = page.Fetch(ctx, nil, pageURL); err != nil {
			return types.PageInfo{}, err
		}
	}

	info.URL = pageURL
	return info, nil
}

// newExtractor returns nil for "none" so the describer keeps its empty
// default. The returned func releases engine resources.
func newExtractor(cfg config.OCRConfig) (ocr.Extractor, func(), error) {
	noop := func() {}
	switch cfg.Engine {
	case "none":
		return nil, noop, nil
	case "tesseract":
		e, err := tesseract.New(cfg.Language)
		if err != nil {
			return nil, noop, err
		}
		return e, func() { e.Close() }, nil
	default:
		e, err := ocr.LoadResultFile(cfg.Engine)
		if err != nil {
			return nil, noop, err
		}
		return e, noop, nil
	}
}

func analyze(ctx context.Context, cfg config.LLMConfig, description string, logger *slog.Logger) (*llm.Analysis, error) {
	var textClient client.TextClient
	var err error

	switch cfg.Backend {
	case "ollama":
		textClient, err = ollama.NewClient(cfg.ServerURL)
	case "llamacpp":
		textClient, err = llamacpp.NewClient(cfg.ServerURL)
	default:
		return nil, fmt.Errorf("unknown backend: %s (use 'ollama' or 'llamacpp')", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Backend, err)
	}

	a := llm.NewAnalyzerWithConfig(textClient, llm.Config{
		Model:       cfg.Model,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  llm.DefaultConfig(cfg.Model).RetryDelay,
	})
	a.SetLogger(logger)

	log.Printf("analyzing description with %s (%s analysis)", cfg.Model, cfg.AnalysisType)
	return a.AnalyzeDescription(ctx, description, cfg.AnalysisType, cfg.CustomPrompt)
}
