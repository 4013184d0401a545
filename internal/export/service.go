package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/repository"
)

const (
	SheetSummary     = "Summary"
	SheetMappings    = "Mappings"
	SheetUnmatchedMs = "Unmatched Measurements"
	SheetUnmatchedWs = "Unmatched Scopes"
)

// CodeRunNotMapped marks an export request for a run that has no mapping result.
const CodeRunNotMapped = "RUN_NOT_MAPPED"

// Service produces XLSX workbooks for mapping results.
type Service struct {
	runs   repository.RunRepository
	logger *slog.Logger
}

// NewService builds an exporter. runs may be nil when only MappingXLSX is used.
func NewService(runs repository.RunRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{runs: runs, logger: logger}
}

// RunXLSX loads a stored run and exports its mapping result.
func (s *Service) RunXLSX(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("export run %s: no run repository", id)
	}
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Result == nil {
		return nil, common.NewAppError(CodeRunNotMapped, fmt.Sprintf("run %s has status %s", id, run.Status), common.ErrInvalidInput)
	}
	return s.MappingXLSX(run.Result)
}

// MappingXLSX returns the workbook bytes for one mapping result.
func (s *Service) MappingXLSX(res *entity.MappingResult) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetMappings, SheetUnmatchedMs, SheetUnmatchedWs} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, bold: bold}
	w.summary(res.Summary)
	w.mappings(res.Mappings)
	w.unmatchedGroups(res.UnmatchedMeasurements)
	w.unmatchedScopes(res.UnmatchedScopes)
	if w.err != nil {
		return nil, fmt.Errorf("xlsx fill: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"mappings", len(res.Mappings),
		"unmatched_scopes", len(res.UnmatchedScopes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so the fill code reads top to bottom.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (w *sheetWriter) row(sheet string, row int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *sheetWriter) header(sheet string, widths []float64, names ...string) {
	vals := make([]any, len(names))
	for i, n := range names {
		vals[i] = n
	}
	w.row(sheet, 1, vals...)
	if w.err != nil {
		return
	}
	w.err = w.f.SetRowStyle(sheet, 1, 1, w.bold)
	for i, width := range widths {
		if w.err != nil {
			return
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		w.err = w.f.SetColWidth(sheet, col, col, width)
	}
}

func (w *sheetWriter) summary(s entity.MappingSummary) {
	w.header(SheetSummary, []float64{28, 14}, "Metric", "Value")
	rows := [][]any{
		{"Total work scopes", s.TotalWorkScopes},
		{"Total measurements", s.TotalMeasurements},
		{"Successful mappings", s.SuccessfulMappings},
		{"Unmatched measurement groups", s.UnmatchedMeasurements},
		{"Unmatched scopes", s.UnmatchedScopes},
		{"Mapping success rate", s.MappingSuccessRate},
		{"Average match confidence", s.AverageMatchConfidence},
		{"Quality score", s.QualityScore},
	}
	for i, r := range rows {
		w.row(SheetSummary, i+2, r...)
	}
}

func (w *sheetWriter) mappings(ms []entity.Mapping) {
	w.header(SheetMappings, []float64{8, 22, 16, 36, 20, 18, 12, 18, 12},
		"Priority", "Room", "Room Type", "Work", "Work Types", "Room Identifier", "Confidence", "Match Method", "Measurements")
	for i, m := range ms {
		ws := m.WorkScope
		w.row(SheetMappings, i+2,
			ws.Priority, ws.RoomName, string(ws.RoomType), ws.WorkDescription, workTypes(ws),
			m.RoomIdentifier, m.MatchConfidence, string(m.MatchMethod), len(m.Measurements))
	}
}

func (w *sheetWriter) unmatchedGroups(gs []entity.UnmatchedGroup) {
	w.header(SheetUnmatchedMs, []float64{20, 16, 12, 10, 16, 40},
		"Room Identifier", "Type", "Value", "Unit", "Pattern", "Source Image")
	row := 2
	for _, g := range gs {
		for _, m := range g.Measurements {
			w.row(SheetUnmatchedMs, row,
				g.RoomIdentifier, string(m.MeasurementType), m.Value, string(m.Unit), string(m.PatternType), m.SourceImage)
			row++
		}
	}
}

func (w *sheetWriter) unmatchedScopes(ws []entity.WorkScope) {
	w.header(SheetUnmatchedWs, []float64{8, 22, 16, 36, 20, 20},
		"Priority", "Room", "Room Type", "Work", "Work Types", "Notes")
	for i, s := range ws {
		w.row(SheetUnmatchedWs, i+2, s.Priority, s.RoomName, string(s.RoomType), s.WorkDescription, workTypes(s), s.Notes)
	}
}

func workTypes(ws entity.WorkScope) string {
	parts := make([]string, len(ws.WorkTypes))
	for i, t := range ws.WorkTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
