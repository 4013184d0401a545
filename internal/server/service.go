package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/scope-mapper/internal/async"
	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/export"
	"github.com/joseph-ayodele/scope-mapper/internal/ingest"
	"github.com/joseph-ayodele/scope-mapper/internal/mapping"
	"github.com/joseph-ayodele/scope-mapper/internal/pipeline"
	"github.com/joseph-ayodele/scope-mapper/internal/repository"
)

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

type MappingService struct {
	logger *slog.Logger
	mapper *mapping.Mapper
	proc   *pipeline.Processor
	runs   repository.RunRepository
	export *export.Service
	queue  async.Queue
}

var _ MappingServer = (*MappingService)(nil)

// NewMappingService builds the service. runs, exporter and queue may be nil; the
// RPCs that need them then fail with FailedPrecondition.
func NewMappingService(logger *slog.Logger, mapper *mapping.Mapper, proc *pipeline.Processor, runs repository.RunRepository, exporter *export.Service, queue async.Queue) *MappingService {
	if logger == nil {
		logger = slog.Default()
	}
	if mapper == nil {
		mapper = mapping.NewMapper(logger)
	}
	return &MappingService{logger: logger, mapper: mapper, proc: proc, runs: runs, export: exporter, queue: queue}
}

func (s *MappingService) ParseWorkScope(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text := stringField(req, "scope_text")
	v := common.NewValidator().Field("scope_text", text, common.Required, common.MaxLength(pipeline.MaxScopeTextLen))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	scopes := s.mapper.ParseScopeMaps(text)
	out, err := toStruct(map[string]any{"work_scopes": scopes, "count": len(scopes)})
	return out, common.ToStatus(err)
}

func (s *MappingService) MapMeasurements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.proc == nil {
		return nil, status.Error(codes.FailedPrecondition, "mapping pipeline not configured")
	}
	survey := pipeline.Survey{Source: "grpc", ScopeText: stringField(req, "scope_text")}

	items, err := mapList(req, "work_scopes")
	if err != nil {
		return nil, common.ToStatus(err)
	}
	if survey.Scopes, err = mapping.ScopesFromMaps(items); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "work_scopes: %v", err)
	}

	raw, err := jsonField(req, "ocr_results")
	if err != nil {
		return nil, common.ToStatus(err)
	}
	if raw != nil {
		if survey.OCRResults, err = ingest.DecodeOCRResults(raw); err != nil {
			return nil, common.ToStatus(err)
		}
	}
	if survey.ImagePaths, err = stringList(req, "image_paths"); err != nil {
		return nil, common.ToStatus(err)
	}

	run, err := s.proc.ProcessSurvey(ctx, survey)
	if err != nil {
		s.logger.Warn("map measurements failed", "error", err)
		return nil, common.ToStatus(err)
	}
	out, err := toStruct(map[string]any{"run": run})
	return out, common.ToStatus(err)
}

func (s *MappingService) GetRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.runs == nil {
		return nil, status.Error(codes.FailedPrecondition, "run store not configured")
	}
	id, err := runID(req)
	if err != nil {
		return nil, err
	}
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	out, err := toStruct(map[string]any{"run": run})
	return out, common.ToStatus(err)
}

// ListRuns returns run headers, newest first, without OCR input or mapping detail.
func (s *MappingService) ListRuns(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.runs == nil {
		return nil, status.Error(codes.FailedPrecondition, "run store not configured")
	}
	limit, err := intField(req, "limit", defaultListLimit)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	if err := common.ValidateAndReturnError(common.NewValidator().Field("limit", limit, common.IntRange(1, maxListLimit))); err != nil {
		return nil, err
	}

	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		s.logger.Warn("list runs failed", "error", err)
		return nil, common.ToStatus(err)
	}
	total, err := s.runs.Count(ctx)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	headers := make([]entity.Run, 0, len(runs))
	for _, r := range runs {
		h := *r
		h.OCRResults, h.Result = nil, nil
		headers = append(headers, h)
	}
	out, err := toStruct(map[string]any{"runs": headers, "total": total})
	return out, common.ToStatus(err)
}

// ExportRun returns the XLSX workbook for a mapped run, base64 encoded.
func (s *MappingService) ExportRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.export == nil {
		return nil, status.Error(codes.FailedPrecondition, "export not configured")
	}
	id, err := runID(req)
	if err != nil {
		return nil, err
	}
	xlsx, err := s.export.RunXLSX(ctx, id)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "run_id", id, "err", err)
		var appErr *common.AppError
		if errors.As(err, &appErr) && appErr.Code == export.CodeRunNotMapped {
			return nil, status.Error(codes.FailedPrecondition, appErr.Error())
		}
		return nil, common.ToStatus(err)
	}
	out, err := toStruct(map[string]any{
		"file_name":   fmt.Sprintf("run-%s.xlsx", id),
		"xlsx_base64": base64.StdEncoding.EncodeToString(xlsx),
	})
	return out, common.ToStatus(err)
}

// EnqueueSurvey checks that dir holds a loadable survey and queues it for mapping.
func (s *MappingService) EnqueueSurvey(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.queue == nil {
		return nil, status.Error(codes.FailedPrecondition, "survey queue not configured")
	}
	dir := strings.TrimSpace(stringField(req, "dir"))
	if _, err := ingest.LoadSurveyDir(dir); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "survey %q: %v", dir, err)
	}
	job := async.Job{Dir: dir, TraceID: common.RequestIDFromContext(ctx)}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return nil, status.Errorf(codes.Unavailable, "enqueue: %v", err)
	}
	s.logger.Info("survey enqueued", "dir", dir, "request_id", job.TraceID)
	out, err := toStruct(map[string]any{"queued": true, "dir": dir})
	return out, common.ToStatus(err)
}

func runID(req *structpb.Struct) (uuid.UUID, error) {
	raw := strings.TrimSpace(stringField(req, "run_id"))
	if err := common.ValidateAndReturnError(common.NewValidator().Field("run_id", raw, common.Required, common.UUID)); err != nil {
		return uuid.Nil, err
	}
	return uuid.MustParse(raw), nil
}
