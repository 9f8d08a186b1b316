package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"square-mapper/models"
)

// Config holds the application's configuration values
type Config struct {
	MapName   string `env:"MAP_NAME" envDefault:"Map"`
	MapWidth  int    `env:"MAP_WIDTH" envDefault:"20"`
	MapHeight int    `env:"MAP_HEIGHT" envDefault:"20"`
	InvertRow bool   `env:"INVERT_ROW" envDefault:"false"`
	InvertCol bool   `env:"INVERT_COL" envDefault:"false"`

	StoreType   string `env:"STORE_TYPE" envDefault:"text"` // text, json, postgres, sqlite or redis
	DataDir     string `env:"DATA_DIR" envDefault:"."`
	DBFile      string `env:"DB_FILE" envDefault:"db.json"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"host=localhost user=mapper password=mapper dbname=square_mapper sslmode=disable"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"maps.db"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	Port        string `env:"PORT" envDefault:"8080"`
	GinMode     string `env:"GIN_MODE" envDefault:"release"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	ColorOutput bool   `env:"COLOR_OUTPUT" envDefault:"false"`
}

// Load reads an optional .env file and then the process environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from environment variables only
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Grid().Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Grid returns the grid dimensions and origin convention
func (c Config) Grid() models.GridConfig {
	return models.GridConfig{
		Width:     c.MapWidth,
		Height:    c.MapHeight,
		InvertRow: c.InvertRow,
		InvertCol: c.InvertCol,
	}
}
