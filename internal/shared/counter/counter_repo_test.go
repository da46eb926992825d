package counter_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"go-erp/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestNext_FormatsValue(t *testing.T) {
	db, mock := newGormMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO company_counters")).
		WithArgs("company-1", counter.EmployeeCode).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(42))

	code, err := counter.Next(context.Background(), counter.NewRepository(db), "company-1", counter.EmployeeCode, "EMP")

	assert.NoError(t, err)
	assert.Equal(t, "EMP-000042", code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNext_RunsInsideTransaction(t *testing.T) {
	db, mock := newGormMock(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO company_counters")).
		WithArgs("company-1", counter.MovementCode).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(7))
	mock.ExpectCommit()

	tx, err := sqlDB.Begin()
	require.NoError(t, err)

	code, err := counter.Next(context.Background(), counter.NewRepository(db).WithTx(tx), "company-1", counter.MovementCode, "MOV")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, "MOV-000007", code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNext_PropagatesError(t *testing.T) {
	db, mock := newGormMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO company_counters")).
		WillReturnError(errors.New("db down"))

	code, err := counter.Next(context.Background(), counter.NewRepository(db), "company-1", counter.EmployeeCode, "EMP")

	assert.Error(t, err)
	assert.Empty(t, code)
}
