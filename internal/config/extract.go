package config

import "github.com/spf13/pflag"

// ExtractConfig holds configuration for the extract command.
type ExtractConfig struct {
	In       string
	OutDir   string
	Errors   string
	OnError  string
	LogLevel string
}

// LoadExtract merges config file, environment variables, and flags into
// ExtractConfig.
func LoadExtract(cfgFile string, flags *pflag.FlagSet) (ExtractConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out-dir":   "./data",
		"errors":    "./data/extract_errors.jsonl",
		"on-error":  "halt",
		"log-level": "info",
	})
	if err != nil {
		return ExtractConfig{}, err
	}

	cfg := ExtractConfig{
		In:       v.GetString("in"),
		OutDir:   v.GetString("out-dir"),
		Errors:   v.GetString("errors"),
		OnError:  v.GetString("on-error"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}
