package evaluation

import (
	"context"
	"database/sql"
	"time"

	"go-erp/internal/shared/dbtx"
	"go-erp/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=evaluation_repo.go -destination=mock/evaluation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, ev *Evaluation) error
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Evaluation, error)
	FindWithCriteria(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]Evaluation, error)
	ListIDs(ctx context.Context, companyID string) ([]uuid.UUID, error)
	Update(ctx context.Context, ev *Evaluation) error
	UpdateDerived(ctx context.Context, ev *Evaluation) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	CreateCriterion(ctx context.Context, c *Criterion) error
	FindCriterion(ctx context.Context, evaluationID uuid.UUID, criterionID string) (*Criterion, error)
	FindCriterionByID(ctx context.Context, id uuid.UUID) (*Criterion, error)
	UpdateCriterion(ctx context.Context, c *Criterion) error
	EmployeeExists(ctx context.Context, companyID string, employeeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, ev *Evaluation) error {
	return r.conn(ctx).Create(ev).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Evaluation, error) {
	var ev Evaluation
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&ev).Error
	return &ev, err
}

func (r *repository) FindWithCriteria(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	var ev Evaluation
	err := r.conn(ctx).
		Preload("Criteria").
		Where("id = ?", id).
		First(&ev).Error
	return &ev, err
}

func (r *repository) List(ctx context.Context, companyID string, filter ListFilter) ([]Evaluation, error) {
	var evs []Evaluation
	q := r.conn(ctx).Scopes(tenant.Scope(companyID))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	err := q.Order("created_at DESC").Find(&evs).Error
	return evs, err
}

func (r *repository) ListIDs(ctx context.Context, companyID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).
		Model(&Evaluation{}).
		Scopes(tenant.Optional(companyID)).
		Where("status <> ?", StatusCancelled).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) Update(ctx context.Context, ev *Evaluation) error {
	res := r.conn(ctx).
		Model(&Evaluation{}).
		Where("id = ? AND company_id = ?", ev.ID, ev.CompanyID).
		Updates(map[string]any{
			"kind":         ev.Kind,
			"period_start": ev.PeriodStart,
			"period_end":   ev.PeriodEnd,
			"notes":        ev.Notes,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateDerived writes the fields Recompute owns.
func (r *repository) UpdateDerived(ctx context.Context, ev *Evaluation) error {
	return r.conn(ctx).
		Model(&Evaluation{}).
		Where("id = ?", ev.ID).
		Updates(map[string]any{
			"status":        ev.Status,
			"overall_score": ev.OverallScore,
			"rating":        ev.Rating,
			"evaluated_on":  ev.EvaluatedOn,
			"updated_at":    time.Now().UTC(),
		}).Error
}

func (r *repository) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	res := r.conn(ctx).
		Model(&Evaluation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateCriterion(ctx context.Context, c *Criterion) error {
	return r.conn(ctx).Create(c).Error
}

func (r *repository) FindCriterion(ctx context.Context, evaluationID uuid.UUID, criterionID string) (*Criterion, error) {
	var c Criterion
	err := r.conn(ctx).
		Where("id = ? AND evaluation_id = ?", criterionID, evaluationID).
		First(&c).Error
	return &c, err
}

func (r *repository) FindCriterionByID(ctx context.Context, id uuid.UUID) (*Criterion, error) {
	var c Criterion
	err := r.conn(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *repository) UpdateCriterion(ctx context.Context, c *Criterion) error {
	return r.conn(ctx).
		Model(&Criterion{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"score":      c.Score,
			"notes":      c.Notes,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) EmployeeExists(ctx context.Context, companyID string, employeeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ? AND company_id = ? AND deleted_at IS NULL", employeeID, companyID).
		Count(&count).Error
	return count > 0, err
}
