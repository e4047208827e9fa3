package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "RANKWATCH"

// DefaultEnvFile is the dotenv file read from the current directory.
const DefaultEnvFile = ".env"

// Env is the environment layer of the configuration. Variables are named
// RANKWATCH_<FIELD>; the API key fields also accept the unprefixed
// GEMINI_API_KEY and GOOGLE_API_KEY used by Google's own tools.
type Env struct {
	APIKey       string `envconfig:"GEMINI_API_KEY"`
	GoogleAPIKey string `envconfig:"GOOGLE_API_KEY"`

	Model        string
	Domain       string
	Location     string
	Keywords     []string
	RequestDelay *time.Duration `split_words:"true"`
	DataDir      string         `split_words:"true"`
	Schedule     string
	MetricsAddr  string `split_words:"true"`
}

// LoadEnv reads the given dotenv files, skipping missing ones, and then
// the process environment. Variables already set in the environment win
// over dotenv files.
func LoadEnv(dotenvFiles ...string) (*Env, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return &env, nil
}

// ApplyEnv copies the set fields of e into c.
func (c *Config) ApplyEnv(e *Env) {
	switch {
	case e.APIKey != "":
		c.APIKey = e.APIKey
	case e.GoogleAPIKey != "":
		c.APIKey = e.GoogleAPIKey
	}
	if e.Model != "" {
		c.Model = e.Model
	}
	if e.Domain != "" {
		c.Domain = e.Domain
	}
	if e.Location != "" {
		c.Location = e.Location
	}
	if len(e.Keywords) > 0 {
		c.Keywords = append([]string(nil), e.Keywords...)
	}
	if e.RequestDelay != nil {
		c.RequestDelay = *e.RequestDelay
	}
	if e.DataDir != "" {
		c.DBDir = e.DataDir
	}
	if e.Schedule != "" {
		c.Schedule = e.Schedule
	}
	if e.MetricsAddr != "" {
		c.MetricsAddr = e.MetricsAddr
	}
}
