package fleet

import (
	"context"
	"database/sql"

	"go-erp/internal/shared/dbtx"
	"go-erp/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=fleet_repo.go -destination=mock/fleet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, c *VehicleChecklist) error
	FindByID(ctx context.Context, companyID, id string) (*VehicleChecklist, error)
	List(ctx context.Context, companyID string, filter ChecklistFilter) ([]VehicleChecklist, error)
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

// Create writes every item column explicitly so a failed item is not
// replaced by the column default.
func (r *repository) Create(ctx context.Context, c *VehicleChecklist) error {
	return r.conn(ctx).Select("*").Create(c).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*VehicleChecklist, error) {
	var c VehicleChecklist
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, companyID string, filter ChecklistFilter) ([]VehicleChecklist, error) {
	var rows []VehicleChecklist
	q := r.conn(ctx).Scopes(tenant.Scope(companyID))
	if filter.VehicleID != "" {
		q = q.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.FinalStatus != "" {
		q = q.Where("final_status = ?", filter.FinalStatus)
	}
	err := q.Order("inspected_at DESC").Order("code DESC").Find(&rows).Error
	return rows, err
}
