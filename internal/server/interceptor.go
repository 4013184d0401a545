package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/scope-mapper/internal/common"
)

const requestIDHeader = "x-request-id"

// RequestLogger tags each call with a request id (taken from x-request-id metadata
// when present) and logs its outcome.
func RequestLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(requestIDHeader); len(vals) > 0 {
				id = vals[0]
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		ctx = common.WithRequestID(ctx, id)

		start := time.Now()
		resp, err := handler(ctx, req)
		attrs := []any{"method", info.FullMethod, "request_id", id, "code", status.Code(err).String(), "elapsed", time.Since(start)}
		if err != nil {
			logger.Warn("grpc request failed", append(attrs, "error", err)...)
		} else {
			logger.Info("grpc request", attrs...)
		}
		return resp, err
	}
}
