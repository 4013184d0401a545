package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/ingest"
	"github.com/joseph-ayodele/scope-mapper/internal/pipeline"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

// SurveyProcessor is satisfied by *pipeline.Processor.
type SurveyProcessor interface {
	ProcessSurvey(ctx context.Context, s pipeline.Survey) (*entity.Run, error)
}

// ResultHook observes every finished job. run is nil when the survey could not be loaded.
type ResultHook func(job Job, run *entity.Run, err error)

type ProcessorQueue struct {
	proc    SurveyProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration
	load    func(dir string) (pipeline.Survey, error)
	hook    ResultHook

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu      sync.Mutex
	closed  bool
	done    chan struct{}  // closed when Shutdown begins
	senders sync.WaitGroup // Enqueue calls past the closed check
}

var _ Queue = (*ProcessorQueue)(nil)

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}
func WithResultHook(h ResultHook) Option {
	return func(q *ProcessorQueue) {
		q.hook = h
	}
}

// WithLoader replaces the survey loader; the default is ingest.LoadSurveyDir.
func WithLoader(load func(dir string) (pipeline.Survey, error)) Option {
	return func(q *ProcessorQueue) {
		if load != nil {
			q.load = load
		}
	}
}

func NewProcessorQueue(proc SurveyProcessor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 2,
		timeout: 3 * time.Minute,
		load:    ingest.LoadSurveyDir,
		ch:      make(chan Job, 64),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					run, err := q.process(job)
					if err != nil {
						q.logger.Error("survey failed", "worker_id", workerID, "dir", job.Dir, "error", err)
					} else {
						q.logger.Info("survey mapped", "worker_id", workerID, "dir", job.Dir,
							"run_id", run.ID, "quality", run.QualityScore)
					}
					if q.hook != nil {
						q.hook(job, run, err)
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) process(job Job) (*entity.Run, error) {
	survey, err := q.load(job.Dir)
	if err != nil {
		return nil, fmt.Errorf("load survey: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	if job.TraceID != "" {
		ctx = common.WithRequestID(ctx, job.TraceID)
	}
	return q.proc.ProcessSurvey(ctx, survey)
}

// Enqueue blocks while the queue is full until ctx is done or Shutdown begins.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("cannot enqueue: queue is shutting down", "dir", job.Dir)
		return ErrQueueClosed
	}
	q.senders.Add(1)
	q.mu.Unlock()
	defer q.senders.Done()

	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now().UTC()
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued survey for processing", "dir", job.Dir)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "dir", job.Dir)
	select {
	case q.ch <- job:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops intake and waits for queued jobs to drain or ctx to end.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	// ch is closed only once no sender can still write to it.
	q.senders.Wait()
	close(q.ch)

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
