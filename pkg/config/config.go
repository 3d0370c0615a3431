package config

import (
	"errors"
	"os"
	"strconv"

	"slantcore/pkg/constants"
)

// Config holds runtime settings for the HTTP server, loaded from
// environment variables with sane fallbacks.
type Config struct {
	Port              string
	MaxGridDimension  int
	DefaultMaxTier    int
	ReductionPasses   int
}

// Load loads configuration from environment variables.
// Returns an error if a numeric override cannot be parsed.
func Load() (*Config, error) {
	maxDim, err := getEnvInt("SLANT_MAX_GRID_DIMENSION", 50)
	if err != nil {
		return nil, errors.New("invalid SLANT_MAX_GRID_DIMENSION: " + err.Error())
	}

	maxTier, err := getEnvInt("SLANT_DEFAULT_MAX_TIER", constants.MaxDefinedTier)
	if err != nil {
		return nil, errors.New("invalid SLANT_DEFAULT_MAX_TIER: " + err.Error())
	}

	passes, err := getEnvInt("SLANT_REDUCTION_PASSES", constants.DefaultReductionPasses)
	if err != nil {
		return nil, errors.New("invalid SLANT_REDUCTION_PASSES: " + err.Error())
	}

	return &Config{
		Port:             getEnv("PORT", constants.DefaultPort),
		MaxGridDimension: maxDim,
		DefaultMaxTier:   maxTier,
		ReductionPasses:  passes,
	}, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	return strconv.Atoi(val)
}
