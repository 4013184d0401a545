package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/schema"
)

// runMapping maps the work scopes onto the OCR measurements, checks the result
// against its schema and stores it. Without pre-parsed scopes the run's scope text
// is parsed.
func (p *Processor) runMapping(ctx context.Context, run *entity.Run, scopes []entity.WorkScope, results map[string]entity.ImageOCRResult) error {
	var res *entity.MappingResult
	if len(scopes) > 0 {
		res = p.mapper.MapScopeToMeasurements(scopes, p.mapper.ProcessMeasurements(results))
	} else {
		res = p.mapper.QuickMapping(run.ScopeText, results)
	}
	if err := schema.ValidateMappingResult(res); err != nil {
		return fmt.Errorf("mapping result: %w", err)
	}

	if p.runs != nil {
		if err := p.runs.FinishMapped(ctx, run.ID, res); err != nil {
			return fmt.Errorf("store mapping result: %w", err)
		}
	}
	now := time.Now().UTC()
	run.Result = res
	run.Status = constants.RunStatusMapped
	run.QualityScore = res.Summary.QualityScore
	run.ScopeCount = res.Summary.TotalWorkScopes
	run.MeasurementCount = res.Summary.TotalMeasurements
	run.FinishedAt = &now
	return nil
}
