package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/export"
	"github.com/joseph-ayodele/scope-mapper/internal/ingest"
	"github.com/joseph-ayodele/scope-mapper/internal/mapping"
	"github.com/joseph-ayodele/scope-mapper/internal/ocr"
	"github.com/joseph-ayodele/scope-mapper/internal/pipeline"
	"github.com/joseph-ayodele/scope-mapper/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		surveyDir = flag.String("survey", "", "survey directory holding scope.txt and photos or ocr.json")
		root      = flag.String("root", "", "map every survey directory found under this root")
		scopePath = flag.String("scope", "", "work scope text file")
		ocrPath   = flag.String("ocr", "", "OCR results JSON file (image_N keyed)")
		imagesDir = flag.String("images", "", "directory of survey photos to OCR")
		out       = flag.String("out", "", "output XLSX path (single survey; defaults under EXPORT_DIR)")
		noXLSX    = flag.Bool("no-xlsx", false, "skip the XLSX workbook")
		printJSON = flag.Bool("json", false, "print each mapping result as JSON on stdout")
		useDB     = flag.Bool("db", false, "record runs in the configured database")
	)
	flag.Parse()

	modes := 0
	for _, set := range []bool{*surveyDir != "", *root != "", *scopePath != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		printError("Error: exactly one of --survey, --root or --scope is required\n")
		flag.Usage()
		os.Exit(2)
	}
	if *root != "" && *out != "" {
		printError("Error: --out applies to a single survey; --root writes one workbook per survey under EXPORT_DIR\n")
		os.Exit(2)
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		printError("Error: load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	logger, err := common.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runs repository.RunRepository
	if *useDB {
		db, err := repository.Open(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		runs = repository.NewRunRepository(db, logger)
	}

	ocrSvc := ocr.NewService(ocr.ConfigFrom(cfg.OCR), logger)
	proc := pipeline.NewProcessor(logger, ocrSvc, mapping.NewMapper(logger), runs)
	exporter := export.NewService(runs, logger)

	surveys, err := collectSurveys(*surveyDir, *root, *scopePath, *ocrPath, *imagesDir)
	if err != nil {
		logger.Error("failed to load surveys", "error", err)
		os.Exit(1)
	}
	logger.Info("surveys loaded", "count", len(surveys))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	failures := 0
	for _, s := range surveys {
		run, err := proc.ProcessSurvey(ctx, s)
		if err != nil {
			logger.Error("failed to map survey", "source", s.Source, "error", err)
			failures++
			continue
		}
		if *printJSON {
			if err := enc.Encode(run.Result); err != nil {
				logger.Error("failed to print result", "source", s.Source, "error", err)
				failures++
			}
		}
		if *noXLSX {
			continue
		}
		path := *out
		if path == "" {
			path = filepath.Join(cfg.Export.OutputDir, workbookName(s.Source))
		}
		if err := writeWorkbook(exporter, run.Result, path); err != nil {
			logger.Error("failed to write workbook", "source", s.Source, "path", path, "error", err)
			failures++
			continue
		}
		logger.Info("workbook written", "source", s.Source, "path", path, "quality", run.QualityScore)
	}

	logger.Info("batch mapping complete", "surveys", len(surveys), "failures", failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func collectSurveys(surveyDir, root, scopePath, ocrPath, imagesDir string) ([]pipeline.Survey, error) {
	switch {
	case surveyDir != "":
		s, err := ingest.LoadSurveyDir(surveyDir)
		if err != nil {
			return nil, err
		}
		return []pipeline.Survey{s}, nil
	case root != "":
		dirs, err := ingest.FindSurveyDirs(root)
		if err != nil {
			return nil, err
		}
		surveys := make([]pipeline.Survey, 0, len(dirs))
		for _, dir := range dirs {
			s, err := ingest.LoadSurveyDir(dir)
			if err != nil {
				return nil, err
			}
			surveys = append(surveys, s)
		}
		return surveys, nil
	}

	text, err := os.ReadFile(scopePath)
	if err != nil {
		return nil, fmt.Errorf("read scope: %w", err)
	}
	s := pipeline.Survey{Source: scopePath, ScopeText: string(text)}
	if ocrPath != "" {
		if s.OCRResults, err = ingest.LoadOCRFile(ocrPath); err != nil {
			return nil, err
		}
	}
	if imagesDir != "" {
		if s.ImagePaths, err = ingest.ListImages(imagesDir); err != nil {
			return nil, err
		}
	}
	return []pipeline.Survey{s}, nil
}

func workbookName(source string) string {
	base := filepath.Base(filepath.Clean(source))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "survey"
	}
	return base + "-mapping.xlsx"
}

func writeWorkbook(exporter *export.Service, res *entity.MappingResult, path string) error {
	xlsx, err := exporter.MappingXLSX(res)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, xlsx, 0o644)
}
