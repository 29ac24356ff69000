// Package daemon wires configuration, database and web service together.
package daemon

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/greensocial/green/internal/config"
	"github.com/greensocial/green/internal/db/dsn"
	"github.com/greensocial/green/internal/db/models"
	"github.com/greensocial/green/internal/db/uow"
	"github.com/greensocial/green/internal/logger/adapter/gormlog"
	"github.com/greensocial/green/internal/web"
)

// ErrConfigNil is returned if no config is passed to New or Open.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// Open connects to the configured database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	dialector, err := dsn.Dialector(&cfg.DB)
	if err != nil {
		return nil, err
	}

	level, err := gormlog.ParseLevel(cfg.DB.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlog.New(gormlog.Config{
			Level:                level,
			SlowThreshold:        time.Duration(cfg.DB.SlowThreshold) * time.Millisecond,
			IgnoreRecordNotFound: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.Engine)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database pool")
	}

	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}

// New opens and migrates the database, seeds defaults and prepares the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	if err = seed(uow.New(db)); err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		db:         db,
		webService: web.New(cfg, db),
	}, nil
}

// Start runs the web service until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	done := make(chan error, 1)

	go func() {
		log.Info().Str("addr", addr).Msg("starting http server")
		done <- d.webService.Start(addr)
	}()

	go d.webService.WaitShutdown()

	err := <-done
	Close(d.db)

	return err
}

// Close releases the connection pool of db.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	if err = sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database")
	}
}
