package async

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/pipeline"
)

type outcome struct {
	dir string
	run *entity.Run
	err error
}

type recorder struct {
	mu  sync.Mutex
	out []outcome
}

func (r *recorder) hook(job Job, run *entity.Run, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, outcome{dir: job.Dir, run: run, err: err})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSurvey(t *testing.T, dir, scope, ocr string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if scope != "" {
		if err := os.WriteFile(filepath.Join(dir, constants.ScopeFileName), []byte(scope), 0o644); err != nil {
			t.Fatalf("write scope: %v", err)
		}
	}
	if ocr != "" {
		if err := os.WriteFile(filepath.Join(dir, constants.OCRFileName), []byte(ocr), 0o644); err != nil {
			t.Fatalf("write ocr: %v", err)
		}
	}
}

func TestProcessorQueueMapsSurveys(t *testing.T) {
	root := t.TempDir()
	kitchen := filepath.Join(root, "kitchen")
	garage := filepath.Join(root, "garage")
	broken := filepath.Join(root, "broken")
	writeSurvey(t, kitchen, "Kitchen - paint", `{"image_1": {"file_path": "kitchen.jpg", "measurements": [
		{"pattern_type": "feet_only", "original_text": "12'", "confidence": 0.9, "feet": 12}]}}`)
	writeSurvey(t, garage, "Garage - epoxy floor", `{}`)
	writeSurvey(t, broken, "", "")

	rec := &recorder{}
	proc := pipeline.NewProcessor(discardLogger(), nil, nil, nil)
	q := NewProcessorQueue(proc, discardLogger(), WithWorkers(2), WithQueueSize(4), WithResultHook(rec.hook))

	ctx := context.Background()
	for _, dir := range []string{kitchen, garage, broken} {
		if err := q.Enqueue(ctx, Job{Dir: dir}); err != nil {
			t.Fatalf("enqueue %s: %v", dir, err)
		}
	}
	q.Shutdown(ctx)

	if len(rec.out) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(rec.out))
	}
	sort.Slice(rec.out, func(i, j int) bool { return rec.out[i].dir < rec.out[j].dir })

	if o := rec.out[0]; o.dir != broken || o.run != nil || !errors.Is(o.err, common.ErrInvalidInput) {
		t.Fatalf("broken outcome = %+v", o)
	}
	if o := rec.out[1]; o.dir != garage || o.err != nil || len(o.run.Result.UnmatchedScopes) != 1 {
		t.Fatalf("garage outcome = %+v", o)
	}
	if o := rec.out[2]; o.dir != kitchen || o.err != nil || len(o.run.Result.Mappings) != 1 {
		t.Fatalf("kitchen outcome = %+v", o)
	}
	if rec.out[2].run.Source != kitchen {
		t.Fatalf("source = %q", rec.out[2].run.Source)
	}
}

func TestProcessorQueueClosed(t *testing.T) {
	q := NewProcessorQueue(pipeline.NewProcessor(discardLogger(), nil, nil, nil), discardLogger())
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	if err := q.Enqueue(context.Background(), Job{Dir: "x"}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

func TestProcessorQueueBackpressure(t *testing.T) {
	started := make(chan struct{}, 4)
	release := make(chan struct{})
	load := func(dir string) (pipeline.Survey, error) {
		started <- struct{}{}
		<-release
		return pipeline.Survey{Source: dir, ScopeText: "Kitchen - paint", OCRResults: map[string]entity.ImageOCRResult{}}, nil
	}
	rec := &recorder{}
	q := NewProcessorQueue(pipeline.NewProcessor(discardLogger(), nil, nil, nil), discardLogger(),
		WithWorkers(1), WithQueueSize(1), WithLoader(load), WithResultHook(rec.hook))

	ctx := context.Background()
	if err := q.Enqueue(ctx, Job{Dir: "a"}); err != nil {
		t.Fatalf("enqueue a: %v", err)
	}
	<-started
	if err := q.Enqueue(ctx, Job{Dir: "b"}); err != nil {
		t.Fatalf("enqueue b: %v", err)
	}

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := q.Enqueue(short, Job{Dir: "c"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	close(release)
	q.Shutdown(ctx)
	if len(rec.out) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(rec.out))
	}
	for _, o := range rec.out {
		if o.err != nil || o.run.Status != constants.RunStatusMapped {
			t.Fatalf("outcome = %+v", o)
		}
	}
}

func TestProcessorQueueShutdownReleasesBlockedEnqueue(t *testing.T) {
	started := make(chan struct{}, 4)
	release := make(chan struct{})
	load := func(dir string) (pipeline.Survey, error) {
		started <- struct{}{}
		<-release
		return pipeline.Survey{Source: dir, ScopeText: "Kitchen - paint", OCRResults: map[string]entity.ImageOCRResult{}}, nil
	}
	q := NewProcessorQueue(pipeline.NewProcessor(discardLogger(), nil, nil, nil), discardLogger(),
		WithWorkers(1), WithQueueSize(1), WithLoader(load))
	defer close(release)

	ctx := context.Background()
	if err := q.Enqueue(ctx, Job{Dir: "a"}); err != nil {
		t.Fatalf("enqueue a: %v", err)
	}
	<-started
	if err := q.Enqueue(ctx, Job{Dir: "b"}); err != nil {
		t.Fatalf("enqueue b: %v", err)
	}

	blocked := make(chan error, 1)
	go func() { blocked <- q.Enqueue(ctx, Job{Dir: "c"}) }()
	time.Sleep(20 * time.Millisecond)

	short, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	finished := make(chan struct{})
	go func() { q.Shutdown(short); close(finished) }()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not honor its context while an enqueue was blocked")
	}
	select {
	case err := <-blocked:
		if !errors.Is(err, ErrQueueClosed) {
			t.Fatalf("blocked enqueue: expected ErrQueueClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("blocked enqueue was not released")
	}
}
