package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnsupportedDBEngine error if config db.engine is unknown.
	ErrUnsupportedDBEngine = errors.New("toml config db.engine is not supported")

	// ErrDBNameEmpty error if a server based engine has no database name.
	ErrDBNameEmpty = errors.New("toml config db.name can not be empty")
)
