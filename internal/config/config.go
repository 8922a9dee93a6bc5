// Package config loads the assembler's optional run configuration from an
// asm10.toml file. Defaults apply when the file is absent — nothing about
// the CLI depends on a config file existing.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the assembler's run configuration.
type Config struct {
	// OutputDir, if set, is where .am/.ob/.ent/.ext files are written
	// instead of alongside the input .as file.
	OutputDir string `toml:"output_dir"`

	// Verbose enables per-file progress printing beyond the default
	// one-line summary.
	Verbose bool `toml:"verbose"`

	// KeepAMOnError leaves the preprocessed .am file on disk even when a
	// file fails to assemble. Defaults to removing it.
	KeepAMOnError bool `toml:"keep_am_on_error"`
}

// Default returns the configuration used when no asm10.toml is found.
func Default() Config {
	return Config{}
}

// Load reads path as a TOML configuration file. If path does not exist,
// Load returns the default configuration and a nil error — a missing
// config file is not a fault.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
