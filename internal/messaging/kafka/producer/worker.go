package producer

import (
	"context"
	"time"

	"github.com/dilinamewan/Employee-Directory/internal/messaging/kafka"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultBatchSize    = 50
)

type Options struct {
	PollInterval time.Duration
	BatchSize    int
	// Published counts outbox events by result ("sent", "failed"). Optional.
	Published *prometheus.CounterVec
	// Backlog is set to the outbox row count per status after every pass. Optional.
	Backlog *prometheus.GaugeVec
}

type Worker struct {
	repo   kafka.OutboxRepository
	writer MessageWriter
	logger *zap.Logger
	opts   Options
}

func NewWorker(repo kafka.OutboxRepository, writer MessageWriter, logger *zap.Logger, opts Options) *Worker {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Worker{
		repo:   repo,
		writer: writer,
		logger: logger.Named("kafka.producer.worker"),
		opts:   opts,
	}
}

// Run polls the outbox until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	w.logger.Info("outbox worker started",
		zap.Duration("poll_interval", w.opts.PollInterval),
		zap.Int("batch_size", w.opts.BatchSize),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := w.ProcessPending(ctx); err != nil {
				w.logger.Error("process outbox events failed", zap.Error(err))
			}
			w.ReportBacklog(ctx)
		}
	}
}

// ProcessPending publishes one batch and returns how many events were sent.
// A failed publish marks the event for retry and moves on to the next one.
func (w *Worker) ProcessPending(ctx context.Context) (int, error) {
	events, err := w.repo.ListPending(ctx, w.opts.BatchSize)
	if err != nil {
		return 0, err
	}

	if len(events) == 0 {
		return 0, nil
	}

	w.logger.Debug("processing pending outbox events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		log := w.logger.With(
			zap.String("outbox_id", event.ID),
			zap.String("request_id", event.RequestID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)

		if err := publishEvent(ctx, w.writer, event); err != nil {
			log.Error("publish outbox event failed", zap.Error(err))
			if markErr := w.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error("mark outbox failed failed", zap.Error(markErr))
			}
			w.count("failed")
			continue
		}

		if err := w.repo.MarkSent(ctx, event.ID); err != nil {
			log.Error("mark outbox sent failed", zap.Error(err))
			continue
		}

		w.count("sent")
		sent++
		log.Info("outbox event sent")
	}

	return sent, nil
}

// ReportBacklog samples the outbox size per status into opts.Backlog.
func (w *Worker) ReportBacklog(ctx context.Context) {
	if w.opts.Backlog == nil {
		return
	}
	counts, err := w.repo.CountByStatus(ctx)
	if err != nil {
		w.logger.Warn("count outbox backlog failed", zap.Error(err))
		return
	}
	for _, status := range []string{kafka.OutboxStatusPending, kafka.OutboxStatusFailed, kafka.OutboxStatusDead} {
		w.opts.Backlog.WithLabelValues(status).Set(float64(counts[status]))
	}
	if dead := counts[kafka.OutboxStatusDead]; dead > 0 {
		w.logger.Warn("outbox has dead events", zap.Int64("dead", dead))
	}
}

func (w *Worker) count(result string) {
	if w.opts.Published != nil {
		w.opts.Published.WithLabelValues(result).Inc()
	}
}
