package employee

import (
	"errors"
	"strings"

	employeeerrors "go-erp/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolations maps unique constraints from the employees migration.
var uniqueViolations = map[string]error{
	"uq_employee_code":  employeeerrors.ErrEmployeeCodeAlreadyExists,
	"uq_employee_email": employeeerrors.ErrEmployeeAlreadyExists,
}

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if mapped, ok := uniqueViolations[pgErr.ConstraintName]; ok {
				return mapped
			}
		case "22P02":
			return employeeerrors.ErrEmployeeNotFound
		}
		return err
	}

	// Drivers that do not surface *pgconn.PgError still name the constraint.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key value") {
		for constraint, mapped := range uniqueViolations {
			if strings.Contains(msg, constraint) {
				return mapped
			}
		}
	}
	return err
}
