package databases

import (
	"net"
	"net/url"
	"strconv"

	"twitter-etl/models/constants"

	"gorm.io/driver/postgres"
)

func NewPostgres(config PostgresConfig) SqlConnection {
	return &gormConnection{
		name:      constants.DriverPostgres,
		dialector: postgres.Open(config.DSN()),
	}
}

// DSN renders a postgres:// URL; credentials are escaped.
func (config PostgresConfig) DSN() string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(config.User, config.Password),
		Host:   net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Path:   "/" + config.Name,
	}
	if config.SSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": {config.SSLMode}}.Encode()
	}
	return dsn.String()
}
