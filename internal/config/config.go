// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultPath is the config directory used if none is given.
	DefaultPath = "./etc/"
	// MainFile is the name of the config file inside the config directory.
	MainFile = "main.toml"
)

// EnvConfigJSON names the environment variable holding a JSON config override.
const EnvConfigJSON = "GREEN_CONFIG_JSON"

const (
	defaultShutDownTime = 5
	defaultSQLitePath   = "green.db"
	defaultDBLogLevel   = "warn"
	defaultSlowQueryMs  = 200
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = DefaultPath
	}

	if _, err = toml.DecodeFile(filepath.Join(path, MainFile), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	err = validate(&c)

	return c, err
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate the config and fill in defaults for optional values.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if err := validateDB(&c.DB); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	return nil
}

func validateDB(db *DB) error {
	switch db.Engine {
	case "":
		db.Engine = EngineSQLite

		fallthrough
	case EngineSQLite:
		if db.Path == "" {
			db.Path = defaultSQLitePath
		}
	case EngineMySQL, EnginePostgres:
		if db.Name == "" {
			return ErrDBNameEmpty
		}
	default:
		return errors.Wrap(ErrUnsupportedDBEngine, db.Engine)
	}

	if db.LogLevel == "" {
		db.LogLevel = defaultDBLogLevel
	}

	if db.SlowThreshold == 0 {
		db.SlowThreshold = defaultSlowQueryMs
	}

	return nil
}
