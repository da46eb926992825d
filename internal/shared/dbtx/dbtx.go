// Package dbtx lets gorm repositories join a transaction opened on the
// underlying *sql.DB by a service.
package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Bind returns a session on db that runs its statements on tx when tx is not nil.
// WithContext clones the statement, so the shared handle is never mutated.
func Bind(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	conn := db.WithContext(ctx)
	if tx != nil {
		conn.Statement.ConnPool = tx
	}
	return conn
}
