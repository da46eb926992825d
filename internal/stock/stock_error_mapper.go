package stock

import (
	"errors"

	stockerrors "go-erp/internal/stock/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError maps gorm and postgres errors; notFound is returned for
// a missing row.
func mapRepositoryError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			switch pgErr.ConstraintName {
			case "uq_stock_item_code":
				return stockerrors.ErrItemCodeExists
			case "uq_stock_movement_type_code":
				return stockerrors.ErrMovementTypeCodeExists
			}
		case "23503":
			return notFound
		case "22P02":
			return notFound
		}
	}

	return err
}
