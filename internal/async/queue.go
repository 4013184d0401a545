package async

import (
	"context"
	"time"
)

// Job asks for one survey directory to be loaded and mapped.
type Job struct {
	Dir         string
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
