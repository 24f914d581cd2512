package infra

import (
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the SQL database behind the sqlite or postgres
// cache backends. Query logging is on in development only.
func NewDBConnection(
	cnf *config.Cache,
	appEnv string,
) (*gorm.DB, error) {
	if cnf == nil || cnf.DSN == "" {
		return nil, errors.New("CACHE_DSN is not set")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}

	var dialector gorm.Dialector
	switch cnf.Backend {
	case "sqlite":
		dialector = sqlite.Open(cnf.DSN)
	case "postgres":
		dialector = postgres.Open(cnf.DSN)
	default:
		return nil, fmt.Errorf("backend %q has no SQL database", cnf.Backend)
	}

	connection, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	if cnf.Backend == "sqlite" {
		// a single writer avoids "database is locked" errors
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
	}
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}
