package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/mapping"
	"github.com/joseph-ayodele/scope-mapper/internal/repository"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func sampleResult() *entity.MappingResult {
	m := mapping.NewMapper(quietLogger())
	scopes := m.ParseWorkScope("Kitchen - cabinet replacement\nasdf1234")
	ms := []entity.MeasurementData{
		{RoomIdentifier: "kitchen", MeasurementType: constants.MeasureLength, Value: 150, Unit: constants.UnitInches, PatternType: constants.PatternFeetInches},
		{RoomIdentifier: "garage", MeasurementType: constants.MeasureArea, Value: 100, Unit: constants.UnitSqFt, PatternType: constants.PatternAreaSqFt, SourceImage: "garage.jpg"},
	}
	return m.MapScopeToMeasurements(scopes, ms)
}

func TestMappingXLSX(t *testing.T) {
	b, err := NewService(nil, quietLogger()).MappingXLSX(sampleResult())
	if err != nil {
		t.Fatalf("MappingXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	want := []string{SheetSummary, SheetMappings, SheetUnmatchedMs, SheetUnmatchedWs}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", got, want)
		}
	}

	summary, _ := f.GetRows(SheetSummary)
	if summary[1][0] != "Total work scopes" || summary[1][1] != "2" {
		t.Fatalf("unexpected summary row: %v", summary[1])
	}

	rows, _ := f.GetRows(SheetMappings)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 mapping, got %v", rows)
	}
	if rows[1][1] != "Kitchen" || rows[1][5] != "kitchen" || rows[1][7] != string(constants.MatchExact) {
		t.Fatalf("unexpected mapping row: %v", rows[1])
	}

	groups, _ := f.GetRows(SheetUnmatchedMs)
	if len(groups) != 2 || groups[1][0] != "garage" || groups[1][5] != "garage.jpg" {
		t.Fatalf("unexpected unmatched measurements: %v", groups)
	}

	scopes, _ := f.GetRows(SheetUnmatchedWs)
	if len(scopes) != 2 || scopes[1][1] != "asdf1234" {
		t.Fatalf("unexpected unmatched scopes: %v", scopes)
	}
}

func TestRunXLSX(t *testing.T) {
	ctx := context.Background()
	db, err := repository.Open(ctx, common.DatabaseConfig{DSN: ":memory:"}, quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	runs := repository.NewRunRepository(db, quietLogger())
	svc := NewService(runs, quietLogger())

	run, err := runs.Start(ctx, "test", "Kitchen - paint")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	var appErr *common.AppError
	if _, err := svc.RunXLSX(ctx, run.ID); !errors.As(err, &appErr) || appErr.Code != "RUN_NOT_MAPPED" {
		t.Fatalf("expected RUN_NOT_MAPPED, got %v", err)
	}

	if err := runs.FinishMapped(ctx, run.ID, sampleResult()); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if b, err := svc.RunXLSX(ctx, run.ID); err != nil || len(b) == 0 {
		t.Fatalf("RunXLSX: %d bytes, %v", len(b), err)
	}

	if _, err := svc.RunXLSX(ctx, uuid.New()); !repository.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
