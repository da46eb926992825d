package stock

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-erp/internal/events"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/reaction"
)

const AdjustReactionName = "stock.adjust"

// NewAdjustReaction applies a newly created movement to the line item of its
// (item, branch), creating the line item on first use. Edits of a movement
// are ignored. When outbox is set, a stock_level_changed event is queued in
// the same savepoint.
func NewAdjustReaction(repo Repository, outbox kafka.OutboxRepository, now func() time.Time) reaction.Reaction {
	if now == nil {
		now = time.Now
	}
	return reaction.Reaction{
		Name: AdjustReactionName,
		Fn: func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result {
			if !ev.Created {
				return reaction.Unchanged()
			}

			qtx := repo.WithTx(tx)
			m, err := qtx.FindMovementForAdjust(ctx, ev.ID)
			if err != nil {
				return reaction.Failed(fmt.Errorf("load movement %s: %w", ev.ID, err))
			}
			if m.MovementType == nil {
				return reaction.Failed(fmt.Errorf("movement %s has no movement type", m.ID))
			}

			li, _, err := qtx.LockOrCreateLineItem(ctx, m.CompanyID, m.ItemID, m.BranchID)
			if err != nil {
				return reaction.Failed(fmt.Errorf("resolve line item of movement %s: %w", m.ID, err))
			}

			next, clamped := Adjust(li.CurrentQuantity, m.Quantity, m.MovementType.IncreasesStock)
			reserved := li.ReservedQuantity
			if reserved.GreaterThan(next) {
				reserved = next
			}
			if err := qtx.SetQuantities(ctx, li.ID, next, reserved); err != nil {
				return reaction.Failed(fmt.Errorf("update line item %s: %w", li.ID, err))
			}

			if outbox != nil {
				event := events.StockLevelChangedEvent{
					EventType:   "stock_level_changed",
					RequestID:   ev.RequestID,
					CompanyID:   m.CompanyID.String(),
					LineItemID:  li.ID.String(),
					ItemID:      m.ItemID.String(),
					BranchID:    m.BranchID.String(),
					MovementID:  m.ID.String(),
					OldQuantity: li.CurrentQuantity.String(),
					NewQuantity: next.String(),
					Clamped:     clamped,
					OccurredAt:  now().UTC(),
				}
				if m.Item != nil {
					event.ItemCode = m.Item.Code
					event.ItemName = m.Item.Name
					event.MinStock = m.Item.MinStock.String()
				}
				row, err := kafka.NewOutboxEvent(ev.RequestID, "stock_line_item", event.LineItemID, event.EventType, events.StockLevelTopic, event)
				if err != nil {
					return reaction.Failed(err)
				}
				if err := outbox.WithTx(tx).Create(ctx, row); err != nil {
					return reaction.Failed(fmt.Errorf("queue stock level event: %w", err))
				}
			}

			return reaction.Changed()
		},
	}
}
