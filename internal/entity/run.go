package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/scope-mapper/constants"
)

// Run is a persisted mapping run.
type Run struct {
	ID               uuid.UUID                 `json:"id"`
	Source           string                    `json:"source"`
	Status           constants.RunStatus       `json:"status"`
	ScopeText        string                    `json:"scope_text"`
	OCRResults       map[string]ImageOCRResult `json:"ocr_results,omitempty"`
	Result           *MappingResult            `json:"result,omitempty"`
	QualityScore     float64                   `json:"quality_score"`
	ScopeCount       int                       `json:"scope_count"`
	MeasurementCount int                       `json:"measurement_count"`
	ErrorMessage     *string                   `json:"error_message,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	FinishedAt       *time.Time                `json:"finished_at,omitempty"`
}
