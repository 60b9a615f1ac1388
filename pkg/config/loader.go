package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load populates a configuration struct of type T from environment
// variables using its `env` struct tags. Validation failures from
// required tags are wrapped in ErrParsingConfig.
func Load[T any]() (T, error) {
	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad is Load that panics on failure. Intended for application
// startup where a missing variable should abort the process.
func MustLoad[T any]() T {
	cfg, err := Load[T]()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

// LoadEnv reads the given dotenv files into the process environment
// before configuration structs are parsed. Missing files are skipped
// silently so the same binary runs with or without a local .env.
// Variables already present in the environment are not overridden.
func LoadEnv(filenames ...string) error {
	for _, name := range filenames {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return errors.Join(ErrLoadingEnvFile, fmt.Errorf("load %s: %w", name, err))
		}
	}
	return nil
}
