package database

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestHealthCheck_NilDB(t *testing.T) {
	err := HealthCheck(nil)
	assert.EqualError(t, err, "database instance is nil")
}

func TestHealthCheck_Ping(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()
	db, err := Open(newDialector(sqlDB))
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, HealthCheck(db))

	mock.ExpectPing().WillReturnError(errors.New("connection reset"))
	err = HealthCheck(db)
	assert.ErrorContains(t, err, "database ping failed")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck_UninitializedDB(t *testing.T) {
	err := HealthCheck(&gorm.DB{})
	assert.EqualError(t, err, "database is not properly initialized")
}

func TestNewMockDB(t *testing.T) {
	db, mock := NewMockDB(t)

	mock.ExpectQuery(`SELECT 1`).WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
	assert.NoError(t, mock.ExpectationsWereMet())
}
