package lox

import "github.com/caarlos0/env/v6"

// Config holds the ambient settings of the interpreter shell. None of its
// fields affect language semantics (spec §6 requires no environment
// variables for the core); they tune the CLI and the recursion guard that
// stands in for a real stack overflow.
type Config struct {
	Prompt       string `env:"LOXSCRIPT_PROMPT" envDefault:">> "`
	MaxCallDepth int    `env:"LOXSCRIPT_MAX_CALL_DEPTH" envDefault:"1000"`
}

// LoadConfig returns Config populated from LOXSCRIPT_* environment
// variables, falling back to its defaults when they're unset.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
