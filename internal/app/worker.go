package app

import (
	"context"
	"errors"

	"github.com/dilinamewan/Employee-Directory/internal/bootstrap"
	"github.com/dilinamewan/Employee-Directory/internal/config"
	"github.com/dilinamewan/Employee-Directory/internal/messaging/kafka"
	"github.com/dilinamewan/Employee-Directory/internal/messaging/kafka/producer"
	"github.com/dilinamewan/Employee-Directory/internal/metrics"
	"github.com/dilinamewan/Employee-Directory/internal/shared/connection"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunWorker relays outbox events to Kafka until ctx is cancelled. It also
// serves /metrics on cfg.WorkerPort.
func RunWorker(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	workerLogger := logger.Named("app.worker")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB.DSN(), cfg.DB.MaxRetries, workerLogger)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DB.MaxRetries, workerLogger)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	m := metrics.New()
	worker := producer.NewWorker(kafka.NewOutboxRepository(sqlDB), kafkaWriter, logger, producer.Options{
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
		Published:    m.OutboxEvents,
		Backlog:      m.OutboxBacklog,
	})
	audit := bootstrap.NewZapAuditLogger(logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.Run(gctx)
		audit.Log(context.WithoutCancel(gctx), bootstrap.AuditLog{
			Action:  bootstrap.AuditWorkerStop,
			Message: "Outbox worker stopped",
		})
		return nil
	})
	g.Go(func() error {
		return bootstrap.StartHTTPServer(gctx, m.Handler(), bootstrap.DefaultServerConfig(cfg.WorkerPort), audit)
	})

	return g.Wait()
}
