package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-erp/internal/events"

	"go.uber.org/zap"
)

type StockLevelHandler interface {
	HandleStockLevel(ctx context.Context, event events.StockLevelChangedEvent) error
}

const fetchBackoff = 500 * time.Millisecond

// ConsumeStockLevel feeds stock level events to handler until ctx is done.
// Undecodable messages are committed and skipped; handler failures leave the
// message uncommitted.
func ConsumeStockLevel(
	ctx context.Context,
	reader MessageReader,
	handler StockLevelHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.stock_level")
	log.Info("stock level consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("stock level consumer stopped")
				return
			}
			log.Error("fetch stock level message failed", zap.Error(err))
			select {
			case <-ctx.Done():
				log.Info("stock level consumer stopped")
				return
			case <-time.After(fetchBackoff):
			}
			continue
		}

		var event events.StockLevelChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode stock_level_changed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := handler.HandleStockLevel(ctx, event); err != nil {
			log.Error("handle stock level event failed",
				zap.String("request_id", event.RequestID),
				zap.String("line_item_id", event.LineItemID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit stock level message failed", zap.Error(err))
			continue
		}

		log.Debug("stock level event handled",
			zap.String("line_item_id", event.LineItemID),
			zap.String("new_quantity", event.NewQuantity),
		)
	}
}
