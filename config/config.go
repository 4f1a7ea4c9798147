// Package config loads monkey.yaml, the settings file shared by the CLI and
// the REPL.
package config

import "time"

// Config represents the complete Monkey configuration
type Config struct {
	BaseDir string       `yaml:"-"` // Directory containing config file, for resolving relative paths
	Path    string       `yaml:"-"` // Resolved config file, empty when running on defaults
	REPL    REPLConfig   `yaml:"repl"`
	Limits  LimitsConfig `yaml:"limits"`
	Watch   WatchConfig  `yaml:"watch"`
}

// REPLConfig holds interactive session settings
type REPLConfig struct {
	Prompt             string `yaml:"prompt"`              // Main prompt (default: ">> ")
	ContinuationPrompt string `yaml:"continuation_prompt"` // Shown while brackets are open (default: ".. ")
	HistoryFile        string `yaml:"history_file"`        // Empty disables history; "~/" expands to the home directory
	Banner             bool   `yaml:"banner"`              // Print the greeting on start (default: true)
}

// LimitsConfig bounds interpreter resources
type LimitsConfig struct {
	MaxCallDepth int `yaml:"max_call_depth"` // Nested function calls (default: 10000)
	MaxNesting   int `yaml:"max_nesting"`    // Nested expressions in the parser (default: 2000)
}

// WatchConfig holds --watch settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"` // Quiet period before re-running (default: 100ms)
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		REPL: REPLConfig{
			Prompt:             ">> ",
			ContinuationPrompt: ".. ",
			HistoryFile:        "~/.monkey_history",
			Banner:             true,
		},
		Limits: LimitsConfig{
			MaxCallDepth: 10000,
			MaxNesting:   2000,
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
	}
}
