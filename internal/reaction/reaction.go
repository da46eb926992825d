// Package reaction holds the registry of side effects that run after an
// entity is written. Reactions run synchronously inside the writer's
// transaction; each one is isolated by a savepoint so a failing reaction
// never aborts the write that triggered it.
package reaction

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EntityType string

const (
	EntityEmployee            EntityType = "employee"
	EntityEvaluation          EntityType = "evaluation"
	EntityEvaluationCriterion EntityType = "evaluation_criterion"
	EntityStockMovement       EntityType = "stock_movement"
)

// Event describes one persisted write.
type Event struct {
	Entity     EntityType
	ID         uuid.UUID
	CompanyID  uuid.UUID
	Created    bool
	RequestID  string
	OccurredAt time.Time
}

type Result struct {
	Entity   EntityType
	Reaction string
	Changed  bool
	Err      error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func Changed() Result {
	return Result{Changed: true}
}

func Unchanged() Result {
	return Result{}
}

func Failed(err error) Result {
	return Result{Err: err}
}

type Func func(ctx context.Context, tx *sql.Tx, ev Event) Result

type Reaction struct {
	Name string
	Fn   Func
}

// Dispatcher is what services depend on.
//
//go:generate mockgen -source=reaction.go -destination=mock/reaction_mock.go -package=mock
type Dispatcher interface {
	Dispatch(ctx context.Context, tx *sql.Tx, ev Event) []Result
}

type Registry struct {
	mu        sync.RWMutex
	reactions map[EntityType][]Reaction
	sealed    bool
	logger    *zap.Logger
}

func NewRegistry(logger ...*zap.Logger) *Registry {
	l := zap.L().Named("reaction.registry")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reaction.registry")
	}
	return &Registry{
		reactions: make(map[EntityType][]Reaction),
		logger:    l,
	}
}

// Register appends r to the reactions of entity. It panics once the
// registry is sealed or when r is incomplete.
func (r *Registry) Register(entity EntityType, rc Reaction) {
	if rc.Name == "" || rc.Fn == nil {
		panic(fmt.Sprintf("reaction: incomplete reaction for %s", entity))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		panic(fmt.Sprintf("reaction: register %q for %s after seal", rc.Name, entity))
	}
	r.reactions[entity] = append(r.reactions[entity], rc)
}

func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Entities returns entity -> reaction names, sorted by entity.
func (r *Registry) Entities() map[EntityType][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[EntityType][]string, len(r.reactions))
	for entity, list := range r.reactions {
		names := make([]string, len(list))
		for i, rc := range list {
			names[i] = rc.Name
		}
		out[entity] = names
	}
	return out
}

func (r *Registry) LogEntities() {
	entities := r.Entities()
	keys := make([]string, 0, len(entities))
	for k := range entities {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.logger.Info("reactions registered",
			zap.String("entity", k),
			zap.Strings("reactions", entities[EntityType(k)]),
		)
	}
}

// Dispatch runs every reaction registered for ev.Entity in registration
// order. It never returns an error: failures are logged and reported in the
// returned results.
func (r *Registry) Dispatch(ctx context.Context, tx *sql.Tx, ev Event) []Result {
	r.mu.RLock()
	list := append([]Reaction(nil), r.reactions[ev.Entity]...)
	r.mu.RUnlock()

	if len(list) == 0 {
		return nil
	}

	results := make([]Result, 0, len(list))
	for i, rc := range list {
		res := r.runIsolated(ctx, tx, i, rc, ev)
		res.Entity = ev.Entity
		res.Reaction = rc.Name

		if res.Err != nil {
			r.logger.Error("reaction failed",
				zap.String("request_id", ev.RequestID),
				zap.String("entity", string(ev.Entity)),
				zap.String("entity_id", ev.ID.String()),
				zap.String("reaction", rc.Name),
				zap.Error(res.Err),
				zap.Stack("stacktrace"),
			)
		} else {
			r.logger.Debug("reaction done",
				zap.String("entity", string(ev.Entity)),
				zap.String("entity_id", ev.ID.String()),
				zap.String("reaction", rc.Name),
				zap.Bool("changed", res.Changed),
			)
		}
		results = append(results, res)
	}
	return results
}

func (r *Registry) runIsolated(ctx context.Context, tx *sql.Tx, idx int, rc Reaction, ev Event) Result {
	if tx == nil {
		return safeCall(ctx, nil, rc.Fn, ev)
	}

	sp := fmt.Sprintf("reaction_%d", idx)
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return Failed(fmt.Errorf("open savepoint: %w", err))
	}

	res := safeCall(ctx, tx, rc.Fn, ev)
	if res.Err != nil {
		if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+sp); err != nil {
			res.Err = fmt.Errorf("%w (rollback to savepoint: %v)", res.Err, err)
		}
		return res
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+sp); err != nil {
		return Failed(fmt.Errorf("release savepoint: %w", err))
	}
	return res
}

func safeCall(ctx context.Context, tx *sql.Tx, fn Func, ev Event) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Failed(fmt.Errorf("reaction panicked: %v", p))
		}
	}()
	return fn(ctx, tx, ev)
}
