package databases

import (
	"context"
	"fmt"

	"twitter-etl/models/constants"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New builds the connection selected by DB_DRIVER. Nothing is opened until Run.
func New() (SqlConnection, error) {
	driver := viper.GetString(constants.DatabaseDriver)
	switch driver {
	case constants.DriverPostgres:
		return NewPostgres(PostgresConfig{
			User:     viper.GetString(constants.DatabaseUser),
			Password: viper.GetString(constants.DatabasePassword),
			Host:     viper.GetString(constants.DatabaseHost),
			Port:     viper.GetInt(constants.DatabasePort),
			Name:     viper.GetString(constants.DatabaseName),
			SSLMode:  viper.GetString(constants.DatabaseSSLMode),
		}), nil
	case constants.DriverSqlite:
		return NewSqlite(viper.GetString(constants.SqliteURL)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// NewWithDialector wraps an already configured dialector, mostly for tests.
func NewWithDialector(name string, dialector gorm.Dialector) SqlConnection {
	return &gormConnection{name: name, dialector: dialector}
}

func (c *gormConnection) GetDB() *gorm.DB {
	return c.db
}

func (c *gormConnection) IsConnected() bool {
	if c.db == nil {
		return false
	}

	dbSQL, errSQL := c.db.DB()
	if errSQL != nil {
		return false
	}

	if errPing := dbSQL.Ping(); errPing != nil {
		return false
	}

	return true
}

func (c *gormConnection) Run() error {
	db, err := gorm.Open(c.dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return err
	}

	c.db = db
	log.Info().Str(constants.LogDriver, c.name).Msg("Connected to database")
	return nil
}

// Transaction runs fn inside one session: committed when fn succeeds, rolled back
// otherwise. The session is released on every path, including a failed commit.
func (c *gormConnection) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.db.WithContext(ctx).Transaction(fn)
}

func (c *gormConnection) Shutdown() {
	log.Info().Str(constants.LogDriver, c.name).Msg("Shutdown the connection to database")
	if c.db == nil {
		return
	}

	dbSQL, err := c.db.DB()
	if err != nil {
		log.Error().Err(err).Msgf("Failed to shutdown database connection")
		return
	}

	if errClose := dbSQL.Close(); errClose != nil {
		log.Error().Err(errClose).Msgf("Failed to shutdown database connection")
	}
}
