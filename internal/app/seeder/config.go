package seeder

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds word-store build settings.
type Config struct {
	InputPath  string `yaml:"input_path"  env:"SEEDER_INPUT_PATH"`
	OutputPath string `yaml:"output_path" env:"SEEDER_OUTPUT_PATH" env-default:"data/mushaf.db"`
	Driver     string `yaml:"driver"      env:"SEEDER_DRIVER"      env-default:"sqlite"`
	DSN        string `yaml:"dsn"         env:"SEEDER_DSN"`
	EditionID  int    `yaml:"edition_id"  env:"SEEDER_EDITION_ID"  env-default:"1"`
	// Strict rejects the whole dump when any line is malformed.
	Strict bool `yaml:"strict"  env:"SEEDER_STRICT"`
	DryRun bool `yaml:"dry_run" env:"SEEDER_DRY_RUN"`
}

// LoadConfig reads seeder configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("seeder config: read %s: %w", path, err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("seeder config: file %s not found", path)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("seeder config: read env: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings needed before touching any file.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("seeder config: input path is required")
	}
	if c.EditionID <= 0 {
		return fmt.Errorf("seeder config: edition_id must be positive, got %d", c.EditionID)
	}
	switch c.Driver {
	case "sqlite":
		if c.OutputPath == "" && !c.DryRun {
			return fmt.Errorf("seeder config: output path is required for sqlite")
		}
	case "pgx":
		if c.DSN == "" && !c.DryRun {
			return fmt.Errorf("seeder config: dsn is required for pgx")
		}
	default:
		return fmt.Errorf("seeder config: unknown driver %q", c.Driver)
	}
	return nil
}
