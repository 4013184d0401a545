package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
)

// timestamps are stored as fixed-width UTC text so they sort the same in every dialect
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var runColumns = []string{
	"id", "source", "status", "scope_text", "ocr_results", "result", "quality_score",
	"scope_count", "measurement_count", "error_message", "created_at", "finished_at",
}

type RunRepository interface {
	Start(ctx context.Context, source, scopeText string) (*entity.Run, error)
	FinishOCR(ctx context.Context, id uuid.UUID, results map[string]entity.ImageOCRResult) error
	FinishMapped(ctx context.Context, id uuid.UUID, result *entity.MappingResult) error
	FinishFailure(ctx context.Context, id uuid.UUID, message string) error
	Get(ctx context.Context, id uuid.UUID) (*entity.Run, error)
	List(ctx context.Context, limit int) ([]*entity.Run, error)
	Count(ctx context.Context) (int, error)
}

type runRepo struct {
	db  *DB
	log *slog.Logger
	now func() time.Time
}

func NewRunRepository(db *DB, log *slog.Logger) RunRepository {
	if log == nil {
		log = slog.Default()
	}
	return &runRepo{db: db, log: log, now: time.Now}
}

func (r *runRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.Dialect())
}

func (r *runRepo) Start(ctx context.Context, source, scopeText string) (*entity.Run, error) {
	run := &entity.Run{
		ID:        uuid.New(),
		Source:    source,
		Status:    constants.RunStatusRunning,
		ScopeText: scopeText,
		CreatedAt: r.now().UTC(),
	}
	q, args := r.builder().Insert(runsTable).
		Columns("id", "source", "status", "scope_text", "created_at").
		Values(run.ID.String(), run.Source, string(run.Status), run.ScopeText, run.CreatedAt.Format(timeLayout)).
		Query()
	if err := r.db.drv.Exec(ctx, q, args, nil); err != nil {
		r.log.Error("mapping_run start failed", "source", source, "err", err)
		return nil, fmt.Errorf("%w: insert run: %v", common.ErrDatabase, err)
	}
	r.log.Info("mapping_run started", "run_id", run.ID, "source", source)
	return run, nil
}

func (r *runRepo) FinishOCR(ctx context.Context, id uuid.UUID, results map[string]entity.ImageOCRResult) error {
	b, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal ocr results: %w", err)
	}
	err = r.update(ctx, id, r.builder().Update(runsTable).
		Set("status", string(constants.RunStatusOCROK)).
		Set("ocr_results", string(b)))
	if err != nil {
		r.log.Error("mapping_run finish(OCR_OK) failed", "run_id", id, "err", err)
		return err
	}
	r.log.Info("mapping_run ocr stored", "run_id", id, "images", len(results))
	return nil
}

func (r *runRepo) FinishMapped(ctx context.Context, id uuid.UUID, result *entity.MappingResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal mapping result: %w", err)
	}
	err = r.update(ctx, id, r.builder().Update(runsTable).
		Set("status", string(constants.RunStatusMapped)).
		Set("result", string(b)).
		Set("quality_score", result.Summary.QualityScore).
		Set("scope_count", result.Summary.TotalWorkScopes).
		Set("measurement_count", result.Summary.TotalMeasurements).
		Set("finished_at", r.now().UTC().Format(timeLayout)))
	if err != nil {
		r.log.Error("mapping_run finish(MAPPED) failed", "run_id", id, "err", err)
		return err
	}
	r.log.Info("mapping_run finished (MAPPED)", "run_id", id, "quality", result.Summary.QualityScore)
	return nil
}

func (r *runRepo) FinishFailure(ctx context.Context, id uuid.UUID, message string) error {
	err := r.update(ctx, id, r.builder().Update(runsTable).
		Set("status", string(constants.RunStatusFailed)).
		Set("error_message", message).
		Set("finished_at", r.now().UTC().Format(timeLayout)))
	if err != nil {
		r.log.Error("mapping_run finish(FAILED) failed", "run_id", id, "err", err)
		return err
	}
	r.log.Warn("mapping_run finished (FAILED)", "run_id", id, "error", message)
	return nil
}

func (r *runRepo) update(ctx context.Context, id uuid.UUID, u *entsql.UpdateBuilder) error {
	q, args := u.Where(entsql.EQ("id", id.String())).Query()
	var res sql.Result
	if err := r.db.drv.Exec(ctx, q, args, &res); err != nil {
		return fmt.Errorf("%w: update run: %v", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *runRepo) Get(ctx context.Context, id uuid.UUID) (*entity.Run, error) {
	q, args := r.builder().Select(runColumns...).
		From(entsql.Table(runsTable)).
		Where(entsql.EQ("id", id.String())).
		Query()
	runs, err := r.query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	return runs[0], nil
}

// List returns the newest runs first.
func (r *runRepo) List(ctx context.Context, limit int) ([]*entity.Run, error) {
	sel := r.builder().Select(runColumns...).
		From(entsql.Table(runsTable)).
		OrderBy(entsql.Desc("created_at"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	q, args := sel.Query()
	return r.query(ctx, q, args)
}

func (r *runRepo) Count(ctx context.Context) (int, error) {
	q, args := r.builder().Select().Count().From(entsql.Table(runsTable)).Query()
	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, q, args, &rows); err != nil {
		return 0, fmt.Errorf("%w: count runs: %v", common.ErrDatabase, err)
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("%w: scan count: %v", common.ErrDatabase, err)
		}
	}
	return n, rows.Err()
}

func (r *runRepo) query(ctx context.Context, q string, args []any) ([]*entity.Run, error) {
	var rows entsql.Rows
	if err := r.db.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("%w: select runs: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var runs []*entity.Run
	for rows.Next() {
		run, err := scanRun(&rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate runs: %v", common.ErrDatabase, err)
	}
	return runs, nil
}

func scanRun(rows *entsql.Rows) (*entity.Run, error) {
	var (
		id, source, status, scopeText, createdAt string
		ocrJSON, resultJSON, errMsg, finishedAt  sql.NullString
		run                                      entity.Run
	)
	if err := rows.Scan(&id, &source, &status, &scopeText, &ocrJSON, &resultJSON, &run.QualityScore,
		&run.ScopeCount, &run.MeasurementCount, &errMsg, &createdAt, &finishedAt); err != nil {
		return nil, fmt.Errorf("%w: scan run: %v", common.ErrDatabase, err)
	}

	var err error
	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: run id %q: %v", common.ErrDatabase, id, err)
	}
	run.Source = source
	run.Status = constants.RunStatus(status)
	run.ScopeText = scopeText
	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("%w: created_at %q: %v", common.ErrDatabase, createdAt, err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(timeLayout, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("%w: finished_at %q: %v", common.ErrDatabase, finishedAt.String, err)
		}
		run.FinishedAt = &t
	}
	if errMsg.Valid {
		run.ErrorMessage = &errMsg.String
	}
	if ocrJSON.Valid && ocrJSON.String != "" {
		if err := json.Unmarshal([]byte(ocrJSON.String), &run.OCRResults); err != nil {
			return nil, fmt.Errorf("decode ocr_results: %w", err)
		}
	}
	if resultJSON.Valid && resultJSON.String != "" {
		run.Result = &entity.MappingResult{}
		if err := json.Unmarshal([]byte(resultJSON.String), run.Result); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
	}
	return &run, nil
}

// IsNotFound reports whether err means the run does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
