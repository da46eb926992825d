package employeesalary

import (
	"context"
	"database/sql"
	"time"

	"go-erp/internal/shared/dbtx"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_salary_repo.go -destination=mock/employee_salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *SalaryRecord) error
	Close(ctx context.Context, id uuid.UUID, end time.Time) error
	Reopen(ctx context.Context, id uuid.UUID) error
	FindActive(ctx context.Context, employeeID uuid.UUID) (*SalaryRecord, error)
	FindPrevious(ctx context.Context, active SalaryRecord) (*SalaryRecord, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]SalaryRecord, error)
	FindEmployee(ctx context.Context, companyID string, employeeID string) (*EmployeeSalary, error)
	SetCurrentSalary(ctx context.Context, employeeID uuid.UUID, amount decimal.Decimal) error
	FindInconsistent(ctx context.Context, companyID string) ([]ConsistencyIssue, error)
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

func (r *repository) Create(ctx context.Context, record *SalaryRecord) error {
	return r.conn(ctx).Create(record).Error
}

func (r *repository) Close(ctx context.Context, id uuid.UUID, end time.Time) error {
	res := r.conn(ctx).
		Model(&SalaryRecord{}).
		Where("id = ? AND active", id).
		Updates(map[string]any{
			"active":     false,
			"end_date":   end,
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

func (r *repository) Reopen(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).
		Model(&SalaryRecord{}).
		Where("id = ? AND NOT active", id).
		Updates(map[string]any{
			"active":     true,
			"end_date":   gorm.Expr("NULL"),
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

func (r *repository) FindActive(ctx context.Context, employeeID uuid.UUID) (*SalaryRecord, error) {
	var record SalaryRecord
	err := r.conn(ctx).
		Where("employee_id = ? AND active", employeeID).
		First(&record).Error
	return &record, err
}

// FindPrevious returns the closed record that started last before active.
func (r *repository) FindPrevious(ctx context.Context, active SalaryRecord) (*SalaryRecord, error) {
	var record SalaryRecord
	err := r.conn(ctx).
		Where("employee_id = ? AND NOT active AND id <> ?", active.EmployeeID, active.ID).
		Where("(start_date < ? OR (start_date = ? AND created_at < ?))",
			active.StartDate, active.StartDate, active.CreatedAt).
		Order("start_date DESC").
		Order("created_at DESC").
		First(&record).Error
	return &record, err
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]SalaryRecord, error) {
	var records []SalaryRecord
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindEmployee(ctx context.Context, companyID string, employeeID string) (*EmployeeSalary, error) {
	var empl EmployeeSalary
	err := r.conn(ctx).
		Table("employees").
		Select("id, company_id, full_name, current_salary").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Take(&empl).Error
	return &empl, err
}

func (r *repository) SetCurrentSalary(ctx context.Context, employeeID uuid.UUID, amount decimal.Decimal) error {
	return r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Updates(map[string]any{
			"current_salary": amount,
			"updated_at":     time.Now().UTC(),
		}).Error
}

// FindInconsistent scans every company when companyID is empty.
func (r *repository) FindInconsistent(ctx context.Context, companyID string) ([]ConsistencyIssue, error) {
	query := `
SELECT
	e.id::text AS employee_id,
	e.full_name,
	e.current_salary,
	COUNT(r.id) FILTER (WHERE r.active) AS active_records,
	COALESCE(MAX(r.amount) FILTER (WHERE r.active), 0) AS active_amount
FROM employees e
LEFT JOIN salary_history_records r ON r.employee_id = e.id
WHERE (?::text = '' OR e.company_id::text = ?)
	AND e.deleted_at IS NULL
GROUP BY e.id, e.full_name, e.current_salary
HAVING COUNT(r.id) FILTER (WHERE r.active) > 1
	OR COALESCE(MAX(r.amount) FILTER (WHERE r.active), 0) <> e.current_salary
ORDER BY e.full_name ASC
`
	var issues []ConsistencyIssue
	err := r.conn(ctx).Raw(query, companyID, companyID).Scan(&issues).Error
	return issues, err
}
