package pipeline

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
)

// runOCR recognizes the survey photos, or passes through the OCR results supplied
// with the survey, and records them on the run.
func (p *Processor) runOCR(ctx context.Context, run *entity.Run, s Survey) (map[string]entity.ImageOCRResult, error) {
	results := s.OCRResults
	if len(s.ImagePaths) > 0 {
		if p.ocr == nil {
			return nil, common.NewAppError("OCR_UNAVAILABLE", "survey has images but no OCR engine is configured", common.ErrOCR)
		}
		results = p.ocr.ProcessImages(ctx, s.ImagePaths)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ocr: %w", err)
		}
	}
	if results == nil {
		results = map[string]entity.ImageOCRResult{}
	}

	run.OCRResults = results
	run.Status = constants.RunStatusOCROK
	if p.runs != nil {
		if err := p.runs.FinishOCR(ctx, run.ID, results); err != nil {
			return nil, fmt.Errorf("store ocr results: %w", err)
		}
	}
	return results, nil
}
