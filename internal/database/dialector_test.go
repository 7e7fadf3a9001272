package database

import (
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDialector(sqlDB *sql.DB) gorm.Dialector {
	return postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true})
}
