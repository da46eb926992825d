package counter

import (
	"context"
	"database/sql"
	"fmt"

	"go-erp/internal/shared/dbtx"

	"gorm.io/gorm"
)

const (
	EmployeeCode  = "employee_code"
	MovementCode  = "stock_movement_code"
	ChecklistCode = "vehicle_checklist_code"
)

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	var nextValue int64

	// single upsert so concurrent callers of the same company/type never share a value
	err := dbtx.Bind(ctx, r.db, r.tx).Raw(`
		INSERT INTO company_counters (company_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (company_id, counter_type) DO UPDATE
		SET last_value = company_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, companyID, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

// Next formats the next counter value with prefix, e.g. EMP-000042.
func Next(ctx context.Context, repo Repository, companyID, counterType, prefix string) (string, error) {
	v, err := repo.GetNextValue(ctx, companyID, counterType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", prefix, v), nil
}
