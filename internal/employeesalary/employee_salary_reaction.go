package employeesalary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-erp/internal/reaction"

	"gorm.io/gorm"
)

// NewConsistencyReaction reports an employee write that leaves
// employees.current_salary out of step with the active ledger record.
// It only reads.
func NewConsistencyReaction(repo Repository) reaction.Reaction {
	return reaction.Reaction{
		Name: "employeesalary.consistency",
		Fn: func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result {
			qtx := repo.WithTx(tx)
			empl, err := qtx.FindEmployee(ctx, ev.CompanyID.String(), ev.ID.String())
			if err != nil {
				return reaction.Failed(fmt.Errorf("load employee %s: %w", ev.ID, err))
			}

			active, err := qtx.FindActive(ctx, empl.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if empl.CurrentSalary.IsZero() {
					return reaction.Unchanged()
				}
				return reaction.Failed(fmt.Errorf("employee %s has salary %s but no active record",
					empl.ID, empl.CurrentSalary.StringFixed(2)))
			}
			if err != nil {
				return reaction.Failed(fmt.Errorf("load active salary of %s: %w", empl.ID, err))
			}

			if !active.Amount.Equal(empl.CurrentSalary) {
				return reaction.Failed(fmt.Errorf("employee %s salary %s differs from active record %s (%s)",
					empl.ID, empl.CurrentSalary.StringFixed(2), active.ID, active.Amount.StringFixed(2)))
			}
			return reaction.Unchanged()
		},
	}
}
