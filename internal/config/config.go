// Package config loads tool configuration from YAML files.
package config

// Config holds all tool settings.
type Config struct {
	Format   string   `yaml:"format"`
	Flatten  bool     `yaml:"flatten"`
	Workers  int      `yaml:"workers"`
	Database string   `yaml:"database"`
	Palette  []string `yaml:"palette"`
	Server   Server   `yaml:"server"`
	Logger   Logger   `yaml:"logger"`
}

// Server holds preview server settings.
type Server struct {
	Addr  string `yaml:"addr"`
	Scale int    `yaml:"scale"`
}

// Logger holds logging settings.
type Logger struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Format:   "hex",
		Workers:  10,
		Database: "sprites.db",
		Server: Server{
			Addr:  ":8080",
			Scale: 4,
		},
		Logger: Logger{
			Level:      "info",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
	}
}
