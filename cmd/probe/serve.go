package main

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	apihttp "giwa/sdk-probe/internal/api/http"
	"giwa/sdk-probe/internal/config"
	"giwa/sdk-probe/internal/repository"
	"giwa/sdk-probe/internal/repository/kafka"
	"giwa/sdk-probe/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the control API and process queued run requests",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "override server.port"},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if port := c.String("port"); port != "" {
		cfg.Server.Port = port
	}

	log.Info("starting application",
		slog.String("env", cfg.Env),
		slog.String("agent", cfg.Agent.Name),
		slog.String("sdk_driver", cfg.SDK.Driver),
	)

	client, gateway, err := newSDKClient(cfg)
	if err != nil {
		return err
	}

	svcCfg, err := serviceConfig(cfg, "")
	if err != nil {
		return err
	}

	prefs := openPreferences(cfg, log)
	defer prefs.Close()

	taskRepo, resultRepo, closeKafka := newRepositories(cfg, log)
	defer closeKafka()

	probeService := service.NewProbeService(client, prefs, taskRepo, resultRepo, log, svcCfg)

	var ready apihttp.ReadinessCheck
	var hb *heartbeat
	if gateway != nil {
		hb = newHeartbeat(gateway, log)
		ready = hb.Ready
	}

	router := apihttp.NewRouter(
		apihttp.NewHealthController(probeService, cfg.Agent.Name, version, ready),
		apihttp.NewRunController(probeService),
		log,
	)

	httpServer := &nethttp.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return probeService.Start(gctx)
	})

	if hb != nil {
		g.Go(func() error {
			return hb.Run(gctx, heartbeatInterval)
		})
	}

	g.Go(func() error {
		log.Info("starting http server", slog.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down agent...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("agent stopped gracefully")
	return nil
}

// newRepositories wires kafka when enabled and falls back to logging only.
func newRepositories(cfg *config.Config, log *slog.Logger) (repository.TaskRepository, repository.ResultRepository, func()) {
	if !cfg.Kafka.Enabled {
		log.Info("kafka disabled, run requests are accepted over http only")
		return nil, repository.NewLogResultRepository(log), func() {}
	}

	log.Info("initializing kafka components", slog.Any("brokers", cfg.Kafka.Brokers))

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.Runs, cfg.Agent.Name, log)
	checkCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := consumer.CheckConnection(checkCtx); err != nil {
		log.Warn("kafka connection check failed", slog.String("error", err.Error()))
	}
	cancel()

	outcomes := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.Outcomes)
	logs := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.Logs)

	closeAll := func() {
		for _, c := range []interface{ Close() error }{consumer, outcomes, logs} {
			if err := c.Close(); err != nil {
				log.Warn("failed to close kafka client", slog.String("error", err.Error()))
			}
		}
	}

	return repository.NewKafkaTaskRepository(consumer, log),
		repository.NewKafkaResultRepository(outcomes, logs, log),
		closeAll
}
