package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/measure"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrConversion        = errors.New("image conversion failed")
	ErrTesseract         = errors.New("tesseract failed")
)

type Config struct {
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
	TessdataDir   string
	PSM           int // 11 (sparse text) suits annotated photos

	HeicConverter    string
	ArtifactCacheDir string

	MinConfidence float64       // words below this (0..1) are dropped
	Timeout       time.Duration // per image; 0 = none
}

// Service recognizes words in survey photos and runs them through the measurement
// extractor.
type Service struct {
	cfg       Config
	runner    Runner
	extractor *measure.Extractor
	logger    *slog.Logger
}

type Option func(*Service)

// WithRunner replaces the command runner, mainly for tests.
func WithRunner(r Runner) Option {
	return func(s *Service) { s.runner = r }
}

func NewService(cfg Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.MinConfidence < 0 {
		cfg.MinConfidence = 0
	}
	s := &Service{cfg: cfg, runner: execRunner{}, extractor: measure.NewExtractor(logger), logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ExtractItems returns the words tesseract found in the image at path.
func (s *Service) ExtractItems(ctx context.Context, path string) ([]entity.OCRItem, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if constants.MapExtToFormat(ext) != constants.IMAGE {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if constants.IsHEICExt(ext) {
		out, cleanup, err := convertHEIC(ctx, s.runner, s.logger, s.cfg.HeicConverter, path, s.cfg.ArtifactCacheDir)
		if err != nil {
			s.logFor(ctx).Error("heic conversion failed", "path", path, "error", err)
			return nil, err
		}
		if cleanup != nil {
			defer cleanup()
		}
		path = out
	}

	args := []string{path, "stdout", "-l", s.cfg.TesseractLang}
	if s.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(s.cfg.PSM))
	}
	if s.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", s.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := s.runner.Run(ctx, s.cfg.Tesseract, s.logger, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrTesseract, err, truncate(string(errb), 512))
	}
	return parseTSV(out, s.cfg.MinConfidence), nil
}

// ProcessImage runs OCR and measurement extraction for one photo. Failures are
// reported in the result rather than returned.
func (s *Service) ProcessImage(ctx context.Context, path string) entity.ImageOCRResult {
	res := entity.ImageOCRResult{FilePath: path, FileName: filepath.Base(path)}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	start := time.Now()
	items, err := s.ExtractItems(ctx, path)
	if err != nil {
		res = entity.FailedImage(path, res.FileName, err, errorType(err))
		s.logFor(ctx).Warn("ocr failed", "path", path, "error_type", res.ErrorType, "error", err)
		return res
	}

	tokens := s.extractor.ExtractAll(items)
	summary := measure.Summarize(items, tokens)
	res.ExtractedData = items
	res.Measurements = tokens
	res.Summary = &summary
	s.logFor(ctx).Info("ocr done", "path", path, "texts", len(items), "measurements", summary.MeasurementCount,
		"duration_ms", time.Since(start).Milliseconds())
	return res
}

// ProcessImages handles paths in order and keys the results image_1..image_N. One bad
// image never stops the batch; a cancelled context marks the remaining images failed.
func (s *Service) ProcessImages(ctx context.Context, paths []string) map[string]entity.ImageOCRResult {
	results := make(map[string]entity.ImageOCRResult, len(paths))
	log := s.logFor(ctx)
	log.Info("batch ocr started", "images", len(paths))
	for i, p := range paths {
		key := "image_" + strconv.Itoa(i+1)
		if err := ctx.Err(); err != nil {
			results[key] = entity.FailedImage(p, filepath.Base(p), err, errorType(err))
			continue
		}
		log.Info("processing image", "index", i+1, "total", len(paths), "file", filepath.Base(p))
		results[key] = s.ProcessImage(ctx, p)
	}

	st := measure.Statistics(results)
	log.Info("batch ocr finished", "successful", st.SuccessfulImages, "failed", st.FailedImages,
		"measurements", st.TotalMeasurements)
	return results
}

// logFor tags the service logger with the run carried by ctx, if any.
func (s *Service) logFor(ctx context.Context) *slog.Logger {
	if id := common.RunIDFromContext(ctx); id != "" {
		return s.logger.With("run_id", id)
	}
	return s.logger
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return "UnsupportedFormat"
	case errors.Is(err, ErrConversion):
		return "ConversionError"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timeout"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	case errors.Is(err, ErrTesseract):
		return "OCRError"
	default:
		return "Error"
	}
}

// ConfigFrom maps the application OCR settings onto the service config.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		Tesseract:        c.TesseractBin,
		TesseractLang:    c.Languages,
		TessdataDir:      c.TessdataDir,
		PSM:              c.PSM,
		HeicConverter:    c.HeicConverter,
		ArtifactCacheDir: c.ArtifactCacheDir,
		MinConfidence:    c.MinConfidence,
		Timeout:          c.Timeout,
	}
}
