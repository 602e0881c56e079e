package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds user defaults read from a TOML file. Flags set on the
// command line always win over config values; config values win over the
// built-in defaults.
//
// Example config:
//
//	width = 1600
//	height = 1200
//	layout_command = "sfdp"
//	seed = 42
type Config struct {
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
	LayoutCommand string `toml:"layout_command"`
	Seed          int    `toml:"seed"`
}

// loadConfig reads a config file. An empty path returns a zero config; a
// missing file at an explicit path is an error.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// pickInt resolves an integer setting: explicit flag > config > zero
// (letting the library apply its own default).
func pickInt(flagChanged bool, flagVal, cfgVal int) int {
	if flagChanged {
		return flagVal
	}
	if cfgVal != 0 {
		return cfgVal
	}
	return 0
}

// pickString resolves a string setting with the same precedence.
func pickString(flagChanged bool, flagVal, cfgVal string) string {
	if flagChanged {
		return flagVal
	}
	if cfgVal != "" {
		return cfgVal
	}
	return ""
}
