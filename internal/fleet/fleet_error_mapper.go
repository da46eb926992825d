package fleet

import (
	"errors"

	fleeterrors "go-erp/internal/fleet/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fleeterrors.ErrChecklistNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return fleeterrors.ErrChecklistNotFound
	}
	return err
}
