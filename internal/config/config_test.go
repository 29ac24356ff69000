package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func projectConfigPath(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(projectConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	// Test basic config fields
	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	// Test DB config
	if cfg.DB.Engine != EngineSQLite {
		t.Errorf("DB.Engine = %v, want %v", cfg.DB.Engine, EngineSQLite)
	}

	if cfg.DB.Path == "" {
		t.Error("DB.Path should not be empty")
	}

	if cfg.Log.ServiceName == "" {
		t.Error("Log.ServiceName should not be empty")
	}
}

func TestReadConfigReturnsDefaults(t *testing.T) {
	t.Setenv(EnvConfigJSON, "")

	dir := t.TempDir()
	main := "[Webserver]\nPort = 8080\nURL = \"http://localhost:8080\"\n"

	if err := os.WriteFile(filepath.Join(dir, MainFile), []byte(main), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Webserver.ShutDownTime != defaultShutDownTime {
		t.Errorf("ShutDownTime = %v, want %v", cfg.Webserver.ShutDownTime, defaultShutDownTime)
	}

	if cfg.DB.Engine != EngineSQLite || cfg.DB.Path != defaultSQLitePath {
		t.Errorf("DB = %+v, want sqlite defaults", cfg.DB)
	}

	if cfg.DB.LogLevel != defaultDBLogLevel {
		t.Errorf("DB.LogLevel = %v, want %v", cfg.DB.LogLevel, defaultDBLogLevel)
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	if err == nil {
		t.Fatal("ReadConfig() expected error for missing main.toml")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name: "valid config",
			config: Config{
				Webserver: Webserver{
					Port: 8080,
					URL:  "http://localhost:8080",
				},
			},
		},
		{
			name: "missing port",
			config: Config{
				Webserver: Webserver{
					Port: 0,
					URL:  "http://localhost:8080",
				},
			},
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "missing URL",
			config: Config{
				Webserver: Webserver{
					Port: 8080,
					URL:  "",
				},
			},
			wantErr: ErrEmptyURL,
		},
		{
			name: "unknown engine",
			config: Config{
				DB: DB{Engine: "oracle"},
				Webserver: Webserver{
					Port: 8080,
					URL:  "http://localhost:8080",
				},
			},
			wantErr: ErrUnsupportedDBEngine,
		},
		{
			name: "mysql without database name",
			config: Config{
				DB: DB{Engine: EngineMySQL, Host: "localhost"},
				Webserver: Webserver{
					Port: 8080,
					URL:  "http://localhost:8080",
				},
			},
			wantErr: ErrDBNameEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.config)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	if err := validate(&cfg); err != nil {
		t.Fatalf("validate() error = %v", err)
	}

	if cfg.Webserver.ShutDownTime != defaultShutDownTime {
		t.Errorf("ShutDownTime = %v, want %v", cfg.Webserver.ShutDownTime, defaultShutDownTime)
	}

	if cfg.DB.Engine != EngineSQLite || cfg.DB.Path != defaultSQLitePath {
		t.Errorf("DB = %+v, want sqlite engine with default path", cfg.DB)
	}

	if cfg.DB.LogLevel != defaultDBLogLevel {
		t.Errorf("DB.LogLevel = %v, want %v", cfg.DB.LogLevel, defaultDBLogLevel)
	}
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	// Set JSON override environment variable
	jsonOverride := `{"Title":"Test Override","Webserver":{"Port":9090},"DB":{"Path":"override.db"}}`
	t.Setenv(EnvConfigJSON, jsonOverride)

	cfg, err := ReadConfig(projectConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title != "Test Override" {
		t.Errorf("Title = %v, want %v", cfg.Title, "Test Override")
	}

	if cfg.Webserver.Port != 9090 {
		t.Errorf("Webserver.Port = %v, want %v", cfg.Webserver.Port, 9090)
	}

	// values not present in the override are kept
	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should survive the override")
	}

	if cfg.DB.Path != "override.db" {
		t.Errorf("DB.Path = %v, want %v", cfg.DB.Path, "override.db")
	}
}

func TestReadConfigWithBrokenJSONOverride(t *testing.T) {
	t.Setenv(EnvConfigJSON, `{"Title":`)

	if _, err := ReadConfig(projectConfigPath(t)); err == nil {
		t.Fatal("ReadConfig() expected error for broken JSON override")
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		DB:      DB{Engine: EngineSQLite, Path: "test.db"},
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	tomlStr, err := DumpConfig(&cfg)
	if err != nil {
		t.Fatalf("DumpConfig() error = %v", err)
	}

	if tomlStr == "" {
		t.Error("DumpConfig() returned empty string")
	}

	// Check if output contains expected values
	if !strings.Contains(tomlStr, "Test") || !strings.Contains(tomlStr, "test.db") {
		t.Error("DumpConfig() output should contain Title and DB.Path")
	}

	// the dump must be readable again
	dir := t.TempDir()
	if err = os.WriteFile(filepath.Join(dir, "main.toml"), []byte(tomlStr), 0o600); err != nil {
		t.Fatal(err)
	}

	reread, err := ReadConfig(dir + string(filepath.Separator))
	if err != nil {
		t.Fatalf("ReadConfig() of dumped config error = %v", err)
	}

	if reread.Title != cfg.Title || reread.DB.Path != cfg.DB.Path {
		t.Errorf("ReadConfig() = %+v, want %+v", reread, cfg)
	}
}

func TestDumpConfigJSON(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	jsonStr, err := DumpConfigJSON(&cfg)
	if err != nil {
		t.Fatalf("DumpConfigJSON() error = %v", err)
	}

	if jsonStr == "" {
		t.Error("DumpConfigJSON() returned empty string")
	}

	// Check if output is valid JSON by checking for expected fields
	if !strings.Contains(jsonStr, "Test") {
		t.Error("DumpConfigJSON() output should contain Title")
	}
}
