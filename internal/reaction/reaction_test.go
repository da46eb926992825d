package reaction_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-erp/internal/reaction"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEvent() reaction.Event {
	return reaction.Event{
		Entity:    reaction.EntityStockMovement,
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Created:   true,
	}
}

func TestDispatch_RunsInOrderAndIsolatesFailures(t *testing.T) {
	reg := reaction.NewRegistry(zap.NewNop())
	var order []string

	reg.Register(reaction.EntityStockMovement, reaction.Reaction{
		Name: "first",
		Fn: func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result {
			order = append(order, "first")
			return reaction.Failed(errors.New("boom"))
		},
	})
	reg.Register(reaction.EntityStockMovement, reaction.Reaction{
		Name: "second",
		Fn: func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result {
			order = append(order, "second")
			panic("unexpected")
		},
	})
	reg.Register(reaction.EntityStockMovement, reaction.Reaction{
		Name: "third",
		Fn: func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result {
			order = append(order, "third")
			return reaction.Changed()
		},
	})

	results := reg.Dispatch(context.Background(), nil, newEvent())

	require.Len(t, results, 3)
	assert.Equal(t, []string{"first", "second", "third"}, order)

	assert.False(t, results[0].OK())
	assert.EqualError(t, results[0].Err, "boom")
	assert.Equal(t, "first", results[0].Reaction)

	assert.False(t, results[1].OK())
	assert.Contains(t, results[1].Err.Error(), "panicked")

	assert.True(t, results[2].OK())
	assert.True(t, results[2].Changed)
	assert.Equal(t, reaction.EntityStockMovement, results[2].Entity)
}

func TestDispatch_NoReactions(t *testing.T) {
	reg := reaction.NewRegistry(zap.NewNop())
	assert.Nil(t, reg.Dispatch(context.Background(), nil, newEvent()))
}

func TestDispatch_OnlyMatchingEntity(t *testing.T) {
	reg := reaction.NewRegistry(zap.NewNop())
	called := false
	reg.Register(reaction.EntityEvaluation, reaction.Reaction{
		Name: "evaluation.status",
		Fn: func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result {
			called = true
			return reaction.Unchanged()
		},
	})

	results := reg.Dispatch(context.Background(), nil, newEvent())

	assert.Empty(t, results)
	assert.False(t, called)
}

func TestDispatch_SavepointPerReaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	reg := reaction.NewRegistry(zap.NewNop())
	reg.Register(reaction.EntityStockMovement, reaction.Reaction{
		Name: "fails",
		Fn: func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result {
			_, err := tx.ExecContext(ctx, "UPDATE stock_line_items SET current_quantity = 0")
			return reaction.Failed(err)
		},
	})
	reg.Register(reaction.EntityStockMovement, reaction.Reaction{
		Name: "succeeds",
		Fn: func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result {
			return reaction.Changed()
		},
	})

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT reaction_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE stock_line_items").WillReturnError(errors.New("constraint"))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT reaction_0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SAVEPOINT reaction_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RELEASE SAVEPOINT reaction_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	results := reg.Dispatch(context.Background(), tx, newEvent())
	require.NoError(t, tx.Commit())

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.True(t, results[1].OK())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatch_SavepointOpenFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	called := false
	reg := reaction.NewRegistry(zap.NewNop())
	reg.Register(reaction.EntityStockMovement, reaction.Reaction{
		Name: "never",
		Fn: func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result {
			called = true
			return reaction.Changed()
		},
	})

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT reaction_0").WillReturnError(errors.New("tx aborted"))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	results := reg.Dispatch(context.Background(), tx, newEvent())
	_ = tx.Rollback()

	require.Len(t, results, 1)
	assert.False(t, called)
	assert.ErrorContains(t, results[0].Err, "open savepoint")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_AfterSealPanics(t *testing.T) {
	reg := reaction.NewRegistry(zap.NewNop())
	reg.Seal()

	assert.Panics(t, func() {
		reg.Register(reaction.EntityEmployee, reaction.Reaction{
			Name: "late",
			Fn: func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result {
				return reaction.Unchanged()
			},
		})
	})
}

func TestRegister_IncompletePanics(t *testing.T) {
	reg := reaction.NewRegistry(zap.NewNop())
	assert.Panics(t, func() {
		reg.Register(reaction.EntityEmployee, reaction.Reaction{Name: "no-fn"})
	})
}

func TestEntities(t *testing.T) {
	reg := reaction.NewRegistry(zap.NewNop())
	noop := func(ctx context.Context, tx *sql.Tx, ev reaction.Event) reaction.Result { return reaction.Unchanged() }
	reg.Register(reaction.EntityEvaluation, reaction.Reaction{Name: "a", Fn: noop})
	reg.Register(reaction.EntityEvaluationCriterion, reaction.Reaction{Name: "b", Fn: noop})
	reg.Register(reaction.EntityEvaluationCriterion, reaction.Reaction{Name: "c", Fn: noop})

	got := reg.Entities()

	assert.Equal(t, []string{"a"}, got[reaction.EntityEvaluation])
	assert.Equal(t, []string{"b", "c"}, got[reaction.EntityEvaluationCriterion])
	reg.LogEntities()
}
