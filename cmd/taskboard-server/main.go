package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc/pool"

	server "github.com/kazz187/taskboard/internal"
	"github.com/kazz187/taskboard/internal/config"
	"github.com/kazz187/taskboard/internal/task"
	taskrepo "github.com/kazz187/taskboard/internal/task/repositoryimpl"
	"github.com/kazz187/taskboard/pkg/clog"
	"github.com/kazz187/taskboard/pkg/panicerr"
	"github.com/kazz187/taskboard/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewHTTPTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	store, err := newStorage(context.Background(), config.StorageEnvFromEnv(env))
	if err != nil {
		slog.Error("failed to create storage", "type", env.StorageEnv.Type, "error", err)
		os.Exit(1)
	}

	taskServer := task.NewServer(taskrepo.NewYAMLRepository(store))
	srv := server.NewServer(env, taskServer)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(panicerr.SafeContext("http-server", func(ctx context.Context) error {
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}))
	p.Go(panicerr.SafeContext("shutdown", func(ctx context.Context) error {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	}))

	if err := p.Wait(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func newStorage(ctx context.Context, env *config.StorageEnv) (storage.Storage, error) {
	switch env.Type {
	case "s3":
		var opts []storage.S3Option
		if env.S3Endpoint != "" {
			opts = append(opts, storage.WithS3Endpoint(env.S3Endpoint))
		}
		return storage.NewS3Storage(ctx, env.S3Bucket, env.S3Prefix, env.S3Region, opts...)
	case "local", "":
		return storage.NewLocalStorage(env.BaseDir)
	default:
		return nil, fmt.Errorf("unknown storage type %q", env.Type)
	}
}
