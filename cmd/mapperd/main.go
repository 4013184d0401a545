package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/scope-mapper/internal/async"
	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/export"
	"github.com/joseph-ayodele/scope-mapper/internal/ingest"
	"github.com/joseph-ayodele/scope-mapper/internal/mapping"
	"github.com/joseph-ayodele/scope-mapper/internal/ocr"
	"github.com/joseph-ayodele/scope-mapper/internal/pipeline"
	repo "github.com/joseph-ayodele/scope-mapper/internal/repository"
	svc "github.com/joseph-ayodele/scope-mapper/internal/server"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	logger, err := common.NewLogger(cfg.Log, os.Stdout)
	if err != nil {
		slog.Error("invalid log config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repo.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.HealthCheck(ctx, 5*time.Second); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	runsRepo := repo.NewRunRepository(db, logger)
	mapper := mapping.NewMapper(logger)
	ocrSvc := ocr.NewService(ocr.ConfigFrom(cfg.OCR), logger)
	processor := pipeline.NewProcessor(logger, ocrSvc, mapper, runsRepo)

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
	)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(svc.RequestLogger(logger)))

	mappingService := svc.NewMappingService(logger, mapper, processor, runsRepo, export.NewService(runsRepo, logger), queue)
	svc.RegisterMappingServer(grpcServer, mappingService)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(svc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	if cfg.Watch.Enabled {
		if err := startWatch(ctx, cfg.Watch, queue, logger); err != nil {
			logger.Error("failed to start survey watcher", "root", cfg.Watch.Root, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("scope-mapper listening", "addr", cfg.Server.GRPCAddr, "watch", cfg.Watch.Enabled)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	healthServer.Shutdown()
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}

// startWatch feeds survey directories written under the watch root into the queue.
func startWatch(ctx context.Context, cfg common.WatchConfig, queue async.Queue, logger *slog.Logger) error {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.Root},
		InitialScan: true,
		Debounce:    cfg.Debounce,
	}, logger)
	if err != nil {
		return err
	}
	go func() {
		for {
			select {
			case dir, ok := <-events:
				if !ok {
					return
				}
				if err := queue.Enqueue(ctx, async.Job{Dir: dir}); err != nil {
					logger.Warn("failed to enqueue survey", "dir", dir, "error", err)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("survey watcher error", "error", err)
			}
		}
	}()
	logger.Info("watching for surveys", "root", cfg.Root, "debounce", cfg.Debounce)
	return nil
}
