package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/repository"
)

type stubRecognizer struct {
	calls   int
	results map[string]entity.ImageOCRResult
}

func (s *stubRecognizer) ProcessImages(_ context.Context, paths []string) map[string]entity.ImageOCRResult {
	s.calls++
	return s.results
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func kitchenOCR() map[string]entity.ImageOCRResult {
	return map[string]entity.ImageOCRResult{
		"image_1": {
			FilePath: "photos/kitchen_01.jpg",
			Measurements: []entity.OCRToken{{
				Text:         `12' 6"`,
				OriginalText: `12' 6"`,
				PatternType:  constants.PatternFeetInches,
				RawMatch:     `12' 6"`,
				Confidence:   0.9,
				Reading:      entity.FeetInches{Feet: 12, Inches: 6},
			}},
		},
	}
}

func openRuns(t *testing.T) repository.RunRepository {
	t.Helper()
	db, err := repository.Open(context.Background(), common.DatabaseConfig{DSN: ":memory:"}, discardLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(db.Close)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewRunRepository(db, discardLogger())
}

func TestProcessSurveyWithImages(t *testing.T) {
	ctx := context.Background()
	rec := &stubRecognizer{results: kitchenOCR()}
	runs := openRuns(t)
	p := NewProcessor(discardLogger(), rec, nil, runs)

	run, err := p.ProcessSurvey(ctx, Survey{
		Source:     "cli",
		ScopeText:  "Kitchen - cabinet replacement",
		ImagePaths: []string{"photos/kitchen_01.jpg"},
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("recognizer calls = %d, want 1", rec.calls)
	}
	if run.Status != constants.RunStatusMapped || run.Result == nil {
		t.Fatalf("run = %+v", run)
	}
	if run.QualityScore != 1.0 || run.ScopeCount != 1 || run.MeasurementCount != 1 {
		t.Fatalf("run stats = quality %v scopes %d measurements %d", run.QualityScore, run.ScopeCount, run.MeasurementCount)
	}

	stored, err := runs.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != constants.RunStatusMapped || stored.Result == nil || len(stored.Result.Mappings) != 1 {
		t.Fatalf("stored run = %+v", stored)
	}
	if stored.Source != "cli" {
		t.Fatalf("source = %q", stored.Source)
	}
}

func TestProcessSurveyWithSuppliedOCR(t *testing.T) {
	p := NewProcessor(discardLogger(), nil, nil, nil)

	run, err := p.ProcessSurvey(context.Background(), Survey{
		ScopeText:  "Kitchen - paint\nGarage - epoxy floor",
		OCRResults: kitchenOCR(),
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if run.Status != constants.RunStatusMapped {
		t.Fatalf("status = %s", run.Status)
	}
	if len(run.Result.Mappings) != 1 || len(run.Result.UnmatchedScopes) != 1 {
		t.Fatalf("result = %+v", run.Result)
	}
	if run.FinishedAt == nil {
		t.Fatal("finished_at not set")
	}
}

func TestProcessSurveyWithParsedScopes(t *testing.T) {
	p := NewProcessor(discardLogger(), nil, nil, nil)
	scopes := []entity.WorkScope{
		{RoomName: "Kitchen", RoomType: constants.Kitchen, WorkDescription: "paint", Priority: 1},
		{RoomName: "Cook Space", RoomType: constants.Kitchen, WorkDescription: "tile", Priority: 2},
	}

	run, err := p.ProcessSurvey(context.Background(), Survey{Source: "grpc", Scopes: scopes, OCRResults: kitchenOCR()})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if run.ScopeCount != 2 || len(run.Result.Mappings) != 2 {
		t.Fatalf("result = %+v", run.Result)
	}
	if got := run.Result.Mappings[1].MatchMethod; got != constants.MatchRoomTypeMethod {
		t.Fatalf("second scope matched by %q, want room type", got)
	}
}

func TestProcessSurveyValidation(t *testing.T) {
	p := NewProcessor(discardLogger(), &stubRecognizer{}, nil, nil)
	tests := []struct {
		name   string
		survey Survey
	}{
		{name: "blank scope", survey: Survey{ScopeText: "   "}},
		{name: "images and ocr", survey: Survey{
			ScopeText:  "Kitchen - paint",
			ImagePaths: []string{"a.jpg"},
			OCRResults: kitchenOCR(),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := p.ProcessSurvey(context.Background(), tt.survey)
			if run != nil {
				t.Fatalf("expected no run, got %+v", run)
			}
			if !common.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestProcessSurveyWithoutRecognizer(t *testing.T) {
	ctx := context.Background()
	runs := openRuns(t)
	p := NewProcessor(discardLogger(), nil, nil, runs)

	run, err := p.ProcessSurvey(ctx, Survey{ScopeText: "Kitchen - paint", ImagePaths: []string{"a.jpg"}})
	if !errors.Is(err, common.ErrOCR) {
		t.Fatalf("expected ErrOCR, got %v", err)
	}
	if run == nil || run.Status != constants.RunStatusFailed || run.ErrorMessage == nil {
		t.Fatalf("run = %+v", run)
	}

	stored, err := runs.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != constants.RunStatusFailed {
		t.Fatalf("stored status = %s", stored.Status)
	}
}

func TestProcessSurveyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewProcessor(discardLogger(), &stubRecognizer{results: kitchenOCR()}, nil, nil)

	run, err := p.ProcessSurvey(ctx, Survey{ScopeText: "Kitchen - paint", ImagePaths: []string{"a.jpg"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if run.Status != constants.RunStatusFailed {
		t.Fatalf("status = %s", run.Status)
	}
}
