// Package pipeline runs a site survey through OCR and mapping and records the run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/mapping"
	"github.com/joseph-ayodele/scope-mapper/internal/repository"
)

// MaxScopeTextLen bounds the scope text accepted for one survey.
const MaxScopeTextLen = 64 << 10

// Survey is one unit of work: a scope text plus either photos to recognize or OCR
// results produced elsewhere. Scopes, when set, replaces parsing of ScopeText.
type Survey struct {
	Source     string
	ScopeText  string
	Scopes     []entity.WorkScope
	ImagePaths []string
	OCRResults map[string]entity.ImageOCRResult
}

// ImageRecognizer is the OCR step; *ocr.Service implements it.
type ImageRecognizer interface {
	ProcessImages(ctx context.Context, paths []string) map[string]entity.ImageOCRResult
}

// Processor coordinates OCR then mapping for a survey.
type Processor struct {
	logger *slog.Logger
	ocr    ImageRecognizer
	mapper *mapping.Mapper
	runs   repository.RunRepository
}

// NewProcessor wires the stages. ocr may be nil when every survey carries OCR results;
// runs may be nil to skip persistence.
func NewProcessor(logger *slog.Logger, ocr ImageRecognizer, mapper *mapping.Mapper, runs repository.RunRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if mapper == nil {
		mapper = mapping.NewMapper(logger)
	}
	return &Processor{logger: logger, ocr: ocr, mapper: mapper, runs: runs}
}

// ProcessSurvey runs the OCR stage and then the mapping stage.
// The returned run reflects the last state reached, even when a stage fails.
func (p *Processor) ProcessSurvey(ctx context.Context, s Survey) (*entity.Run, error) {
	if err := validateSurvey(s); err != nil {
		return nil, err
	}

	run, err := p.start(ctx, s)
	if err != nil {
		return nil, err
	}
	ctx = common.WithRunID(ctx, run.ID.String())
	log := p.logger.With("run_id", run.ID, "source", s.Source)

	results, err := p.runOCR(ctx, run, s)
	if err != nil {
		log.Error("processor.ocr.failed", "err", err)
		return run, p.fail(ctx, run, err)
	}
	log.Info("processor.ocr.ok", "images", len(results))

	if err := p.runMapping(ctx, run, s.Scopes, results); err != nil {
		log.Error("processor.mapping.failed", "err", err)
		return run, p.fail(ctx, run, err)
	}
	log.Info("processor.mapping.ok",
		"scopes", run.ScopeCount,
		"measurements", run.MeasurementCount,
		"quality", run.QualityScore,
	)
	return run, nil
}

func validateSurvey(s Survey) error {
	v := common.NewValidator()
	if len(s.Scopes) == 0 {
		v.Field("scope_text", s.ScopeText, common.Required, common.MaxLength(MaxScopeTextLen))
	} else {
		v.Field("scope_text", s.ScopeText, common.MaxLength(MaxScopeTextLen))
	}
	if len(s.ImagePaths) > 0 && s.OCRResults != nil {
		v.Field("image_paths", len(s.ImagePaths), func(field string, value any) *common.ValidationError {
			return &common.ValidationError{Field: field, Value: value, Message: "cannot be combined with ocr_results"}
		})
	}
	return v.Error()
}

func (p *Processor) start(ctx context.Context, s Survey) (*entity.Run, error) {
	if p.runs == nil {
		return &entity.Run{
			ID:        uuid.New(),
			Source:    s.Source,
			Status:    constants.RunStatusRunning,
			ScopeText: s.ScopeText,
			CreatedAt: time.Now().UTC(),
		}, nil
	}
	run, err := p.runs.Start(ctx, s.Source, s.ScopeText)
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	return run, nil
}

func (p *Processor) fail(ctx context.Context, run *entity.Run, cause error) error {
	msg := cause.Error()
	now := time.Now().UTC()
	run.Status = constants.RunStatusFailed
	run.ErrorMessage = &msg
	run.FinishedAt = &now
	if p.runs != nil {
		if err := p.runs.FinishFailure(context.WithoutCancel(ctx), run.ID, msg); err != nil {
			p.logger.Error("processor.finish_failure.failed", "run_id", run.ID, "err", err)
		}
	}
	return cause
}
