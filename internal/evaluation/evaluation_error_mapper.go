package evaluation

import (
	"errors"

	evaluationerrors "go-erp/internal/evaluation/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const criterionNameConstraint = "uq_evaluation_criterion_name"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return evaluationerrors.ErrEvaluationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == criterionNameConstraint {
				return evaluationerrors.ErrCriterionAlreadyExists
			}
		case "23503":
			return evaluationerrors.ErrEmployeeNotFound
		case "22P02":
			return evaluationerrors.ErrInvalidID
		}
	}

	return err
}

func mapCriterionError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return evaluationerrors.ErrCriterionNotFound
	}
	return mapRepositoryError(err)
}
