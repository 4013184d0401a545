package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/ingest"
	"github.com/joseph-ayodele/scope-mapper/internal/measure"
	"github.com/joseph-ayodele/scope-mapper/internal/ocr"
	"github.com/joseph-ayodele/scope-mapper/internal/schema"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	out := flag.String("out", "", "write the results to this file (for example <survey>/ocr.json) instead of stdout")
	flag.Parse()
	if flag.NArg() == 0 {
		logger.Error("usage", "cmd", "runocr [-out ocr.json] <image-or-dir>...")
		os.Exit(2)
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	var paths []string
	for _, arg := range flag.Args() {
		info, err := os.Stat(arg)
		if err != nil {
			logger.Error("stat input", "path", arg, "error", err)
			os.Exit(2)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		images, err := ingest.ListImages(arg)
		if err != nil {
			logger.Error("list images", "dir", arg, "error", err)
			os.Exit(1)
		}
		paths = append(paths, images...)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	svc := ocr.NewService(ocr.ConfigFrom(cfg.OCR), logger)
	start := time.Now()
	results := svc.ProcessImages(ctx, paths)
	stats := measure.Statistics(results)

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		logger.Error("encode results", "error", err)
		os.Exit(1)
	}
	if err := schema.ValidateOCRResults(data); err != nil {
		logger.Error("results failed schema check", "error", err)
		os.Exit(1)
	}

	if *out != "" {
		err = os.WriteFile(*out, append(data, '\n'), 0o644)
	} else {
		_, err = os.Stdout.Write(append(data, '\n'))
	}
	if err != nil {
		logger.Error("write results", "error", err)
		os.Exit(1)
	}

	logger.Info("ocr complete",
		"images", stats.TotalImages,
		"failed", stats.FailedImages,
		"measurements", stats.TotalMeasurements,
		"avg_confidence", stats.AvgConfidence,
		"most_common_pattern", stats.MostCommonPattern,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if stats.FailedImages > 0 {
		os.Exit(1)
	}
}
