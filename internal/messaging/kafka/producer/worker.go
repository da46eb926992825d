package producer

import (
	"context"
	"time"

	"go-erp/internal/messaging/kafka"

	"go.uber.org/zap"
)

// RelayOptions tunes the outbox relay. Zero values fall back to defaults;
// a zero Retention keeps sent rows forever.
type RelayOptions struct {
	PollInterval  time.Duration
	BatchSize     int
	Retention     time.Duration
	PurgeInterval time.Duration
}

func (o RelayOptions) withDefaults() RelayOptions {
	if o.PollInterval <= 0 {
		o.PollInterval = 3 * time.Second
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.PurgeInterval <= 0 {
		o.PurgeInterval = time.Hour
	}
	return o
}

// ProcessOutboxEvents relays pending rows every PollInterval until ctx is
// cancelled.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	opts RelayOptions,
) {
	opts = opts.withDefaults()
	log := logger.Named("kafka.producer.worker")

	poll := time.NewTicker(opts.PollInterval)
	defer poll.Stop()

	var purge <-chan time.Time
	if opts.Retention > 0 {
		t := time.NewTicker(opts.PurgeInterval)
		defer t.Stop()
		purge = t.C
	}

	log.Info("outbox worker started",
		zap.Duration("poll_interval", opts.PollInterval),
		zap.Int("batch_size", opts.BatchSize),
		zap.Duration("retention", opts.Retention),
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-poll.C:
			if err := ProcessPending(ctx, repo, writer, log, opts.BatchSize); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		case now := <-purge:
			n, err := repo.PurgeSent(ctx, now.Add(-opts.Retention))
			if err != nil {
				log.Error("purge sent outbox events failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("purged sent outbox events", zap.Int64("count", n))
			}
		}
	}
}

// ProcessPending relays one batch. A publish failure only marks that row
// for retry; the rest of the batch still goes out.
func ProcessPending(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	batchSize int,
) error {
	batch, err := repo.ListPending(ctx, batchSize)
	if err != nil || len(batch) == 0 {
		return err
	}

	logger.Debug("relaying outbox batch", zap.Int("count", len(batch)))

	var sent, failed int
	for _, event := range batch {
		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		}

		if err := publishEvent(ctx, writer, event); err != nil {
			failed++
			logger.Warn("publish outbox event failed",
				append(fields, zap.Int("attempt", event.RetryCount+1), zap.Error(err))...)
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				logger.Error("mark outbox failed failed", append(fields, zap.Error(markErr))...)
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			// The row will be relayed again; consumers dedupe on aggregate state.
			logger.Error("mark outbox sent failed", append(fields, zap.Error(err))...)
			continue
		}
		sent++
	}

	logger.Info("outbox batch relayed", zap.Int("sent", sent), zap.Int("failed", failed))
	return nil
}
