package config

// Supported database engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string // mysql, postgres or sqlite
	Extras   string // driver specific DSN options
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string // database file, sqlite only

	MaxOpenConns int
	MaxIdleConns int

	// LogLevel of the SQL statement logger: silent, error, warn or info.
	LogLevel string
	// SlowThreshold in milliseconds, queries above are logged as warnings.
	SlowThreshold int
}
