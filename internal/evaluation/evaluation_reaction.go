package evaluation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-erp/internal/reaction"
)

const StatusReactionName = "evaluation.status"

// NewStatusReaction recomputes status, overall score and rating of the
// evaluation touched by ev. Register it for both EntityEvaluation and
// EntityEvaluationCriterion.
func NewStatusReaction(repo Repository, now func() time.Time) reaction.Reaction {
	if now == nil {
		now = time.Now
	}
	return reaction.Reaction{
		Name: StatusReactionName,
		Fn: func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result {
			qtx := repo.WithTx(tx)

			evaluationID := ev.ID
			if ev.Entity == reaction.EntityEvaluationCriterion {
				c, err := qtx.FindCriterionByID(ctx, ev.ID)
				if err != nil {
					return reaction.Failed(fmt.Errorf("load criterion %s: %w", ev.ID, err))
				}
				evaluationID = c.EvaluationID
			}

			e, err := qtx.FindWithCriteria(ctx, evaluationID)
			if err != nil {
				return reaction.Failed(fmt.Errorf("load evaluation %s: %w", evaluationID, err))
			}

			if !Recompute(e, now()) {
				return reaction.Unchanged()
			}
			if err := qtx.UpdateDerived(ctx, e); err != nil {
				return reaction.Failed(fmt.Errorf("update evaluation %s: %w", e.ID, err))
			}
			return reaction.Changed()
		},
	}
}
