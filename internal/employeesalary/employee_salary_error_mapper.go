package employeesalary

import (
	"errors"
	"strings"

	employeesalaryerrors "go-erp/internal/employeesalary/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const activeRecordConstraint = "uq_salary_record_active"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeesalaryerrors.ErrSalaryRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == activeRecordConstraint {
			return employeesalaryerrors.ErrActiveSalaryConflict
		}
		if pgErr.Code == "23503" {
			return employeesalaryerrors.ErrEmployeeNotFound
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, activeRecordConstraint) {
		return employeesalaryerrors.ErrActiveSalaryConflict
	}

	return err
}

func mapEmployeeError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeesalaryerrors.ErrEmployeeNotFound
	}
	return mapRepositoryError(err)
}
