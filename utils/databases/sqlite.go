package databases

import (
	"twitter-etl/models/constants"

	"github.com/glebarez/sqlite"
)

func NewSqlite(dsn string) SqlConnection {
	return &gormConnection{
		name:      constants.DriverSqlite,
		dialector: sqlite.Open(dsn),
	}
}
