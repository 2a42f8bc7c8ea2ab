package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"rds/internal/authz"
	"rds/internal/entity"
	"rds/internal/job"
	"rds/internal/logger"
	"rds/internal/output"
	"rds/internal/pubsub"
	"rds/internal/rpc"
	"rds/internal/runner"
	"rds/internal/s3"
	"rds/internal/server"
	"rds/internal/store"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Run the Data Owner's server: watch the mailbox and dispatch requests",
	Flags: []cli.Flag{
		baseDirFlag,
		&cli.StringFlag{
			Name:     "owner-email",
			Usage:    "The datasite owner's email; callers matching it get the admin role",
			Required: true,
			EnvVars:  []string{"RDS_OWNER_EMAIL"},
		},
		&cli.StringFlag{
			Name:    "sync-dir",
			Usage:   "Directory synced results are copied into for Data Scientists to read",
			EnvVars: []string{"RDS_SYNC_DIR"},
		},
		&cli.StringFlag{
			Name:    "s3-endpoint",
			Usage:   "Optional S3-compatible endpoint to mirror job output artifacts to",
			EnvVars: []string{"RDS_S3_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "s3-bucket",
			Usage:   "Bucket name for the S3 output mirror",
			Value:   "rds-job-output",
			EnvVars: []string{"RDS_S3_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "Optional Redis address for cross-process job/dataset event fan-out",
			EnvVars: []string{"RDS_REDIS_ADDR"},
		},
		&cli.StringFlag{
			Name:    "http",
			Usage:   "Optional address for a read-only health/debug HTTP listener, e.g. :8081",
			EnvVars: []string{"RDS_HTTP_ADDR"},
		},
	},
	Action: runServe,
}

func runServe(c *cli.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx, log := logger.PrepareLogger(ctx)
	log = log.With(zap.String("component", "rds-serve"))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutdown signal received")
		cancel()
	}()

	baseDir := c.String("base-dir")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return fmt.Errorf("rds: creating base dir: %w", err)
	}
	syncDir := c.String("sync-dir")
	if syncDir == "" {
		syncDir = filepath.Join(baseDir, "synced")
	}
	if err := os.MkdirAll(syncDir, 0o755); err != nil {
		return fmt.Errorf("rds: creating sync dir: %w", err)
	}

	datasets, err := store.NewFileStore[entity.Dataset](baseDir, "dataset")
	if err != nil {
		return err
	}
	runtimes, err := store.NewFileStore[entity.Runtime](baseDir, "runtime")
	if err != nil {
		return err
	}
	userCodes, err := store.NewFileStore[entity.UserCode](baseDir, "usercode")
	if err != nil {
		return err
	}
	customFunctions, err := store.NewFileStore[entity.CustomFunction](baseDir, "customfunction")
	if err != nil {
		return err
	}
	jobs, err := store.NewFileStore[entity.Job](baseDir, "job")
	if err != nil {
		return err
	}

	gate := authz.NewGate(c.String("owner-email"))
	factory := runner.NewFactory(baseDir)

	ps := choosePubSub(c, log)
	ownerEmail := c.String("owner-email")
	handlers := []output.Handler{
		output.NewFileHandler(baseDir),
		output.NewLogMirrorHandler(log),
		output.NewEventBusHandler(ps, ownerEmail),
	}
	if endpoint := c.String("s3-endpoint"); endpoint != "" {
		s3Client, err := s3.NewClient(&s3.Config{
			Endpoint: endpoint,
			Bucket:   c.String("s3-bucket"),
		})
		if err != nil {
			return fmt.Errorf("rds: configuring s3 mirror: %w", err)
		}
		handlers = append(handlers, output.NewS3MirrorHandler(s3Client, baseDir, log))
	}
	outputs := output.NewHandlerChain(handlers...)

	machine := job.New(jobs, userCodes, datasets, runtimes, gate, factory, outputs, syncDir)
	srv := server.New(datasets, runtimes, userCodes, customFunctions, jobs, gate, machine, baseDir, log)
	router := srv.Build()

	transport, err := rpc.NewFSTransport(baseDir, c.String("owner-email"))
	if err != nil {
		return fmt.Errorf("rds: preparing mailbox: %w", err)
	}

	if httpAddr := c.String("http"); httpAddr != "" {
		debugSrv := newDebugServer(httpAddr, jobs, log)
		go serveDebugHTTP(ctx, debugSrv, log)
	}

	log.Info("rds server ready",
		zap.String("base_dir", baseDir),
		zap.String("owner_email", c.String("owner-email")),
		zap.String("sync_dir", syncDir),
	)

	if err := transport.Serve(ctx, router); err != nil && ctx.Err() == nil {
		return fmt.Errorf("rds: serving mailbox: %w", err)
	}

	log.Info("rds server stopped")
	return nil
}

// choosePubSub wires a Redis-backed PubSub when --redis-addr is given,
// matching the multi-process deployment rpc.FSTransport already
// supports; otherwise every job/dataset event stays in-process.
func choosePubSub(c *cli.Context, log *zap.Logger) pubsub.PubSub {
	addr := c.String("redis-addr")
	if addr == "" {
		return pubsub.NewMemoryPubSub()
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	log.Info("using redis pubsub", zap.String("redis_addr", addr))
	return pubsub.NewRedisPubSub(client)
}
