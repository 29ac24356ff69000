// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/greensocial/green/internal/config"
)

// ErrUnsupportedEngine is returned for an unknown config.DB.Engine.
var ErrUnsupportedEngine = errors.New("unsupported database engine")

// Create builds the Data Source Name for the configured engine.
func Create(cfg *config.DB) (string, error) {
	switch cfg.Engine {
	case config.EngineMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
			cfg.Extras,
		), nil
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
		)
		if cfg.Extras != "" {
			out += " " + cfg.Extras
		}

		return out, nil
	case config.EngineSQLite:
		if cfg.Extras == "" {
			return cfg.Path, nil
		}

		sep := "?"
		if strings.Contains(cfg.Path, "?") {
			sep = "&"
		}

		return cfg.Path + sep + cfg.Extras, nil
	default:
		return "", errors.Wrap(ErrUnsupportedEngine, cfg.Engine)
	}
}

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg *config.DB) (gorm.Dialector, error) {
	source, err := Create(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Engine {
	case config.EngineMySQL:
		return mysql.Open(source), nil
	case config.EnginePostgres:
		return postgres.Open(source), nil
	default:
		return sqlite.Open(source), nil
	}
}
