package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the generator options an ictgen run can load from a TOML
// file. None of these options has a command-line flag; the config file is
// the only way to set them.
type Config struct {
	// Skip names the token classes (by their token-list names) the
	// tokenizer discards before the parser ever sees them, typically
	// whitespace and comments.
	Skip []string `toml:"skip"`

	// Alphabet, when non-empty, is the exact set of input bytes the DFA is
	// built over. When empty the alphabet is derived from the patterns
	// themselves.
	Alphabet string `toml:"alphabet"`

	// Start overrides the grammar's start symbol (by default the first
	// nonterminal the grammar source defines).
	Start string `toml:"start"`

	// MaxErrors bounds how many syntax errors a parse reports before
	// aborting. Zero means the parser's default.
	MaxErrors int `toml:"max_errors"`
}

// LoadConfig reads a Config from the TOML file at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %q: %w", path, err)
	}
	return cfg, nil
}
