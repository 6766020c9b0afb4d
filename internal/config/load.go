package config

import "github.com/spf13/pflag"

// LoadConfig holds configuration for the load command.
type LoadConfig struct {
	InDir     string
	PGDSN     string
	BatchSize int
	LogLevel  string
}

// LoadLoad merges config file, environment variables, and flags into
// LoadConfig.
func LoadLoad(cfgFile string, flags *pflag.FlagSet) (LoadConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"in-dir":     "./data",
		"batch-size": 1000,
		"log-level":  "info",
	})
	if err != nil {
		return LoadConfig{}, err
	}

	cfg := LoadConfig{
		InDir:     v.GetString("in-dir"),
		PGDSN:     v.GetString("pg-dsn"),
		BatchSize: v.GetInt("batch-size"),
		LogLevel:  v.GetString("log-level"),
	}

	return cfg, nil
}
