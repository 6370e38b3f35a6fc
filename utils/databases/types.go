package databases

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrUnknownDriver = errors.New("unknown database driver")

type SqlConnection interface {
	GetDB() *gorm.DB
	IsConnected() bool
	Run() error
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Shutdown()
}

type PostgresConfig struct {
	User     string
	Password string
	Host     string
	Port     int
	Name     string
	SSLMode  string
}

type gormConnection struct {
	name      string
	dialector gorm.Dialector
	db        *gorm.DB
}
