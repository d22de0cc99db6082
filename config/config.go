// Package config loads the emojiprep run configuration.
//
// Values come from, in increasing priority: the defaults in the env tags, a
// .env file in the working directory, the process environment, and an
// optional JSON file. Command line flags are applied on top by the caller.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/nicksexton/emojitranslate/alphabet"
	"github.com/nicksexton/emojitranslate/generator"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full emojiprep run configuration. Field tags give the
// environment variable, its default and the JSON key.
type Config struct {
	// Data is a glob of tweet CSV files.
	Data        string `env:"EMOJIPREP_DATA,default=data/*.csv" json:"data" validate:"required"`
	TextColumn  string `env:"EMOJIPREP_TEXT_COLUMN,default=text" json:"text_column" validate:"required"`
	LabelColumn string `env:"EMOJIPREP_LABEL_COLUMN,default=emoji" json:"label_column" validate:"required"`
	// CachePath is the gob cache of the normalized corpus; empty disables it.
	CachePath string `env:"EMOJIPREP_CACHE" json:"cache_path"`
	// OutDir receives the charts.
	OutDir string `env:"EMOJIPREP_OUT,default=output" json:"out_dir"`

	KeepNewlines bool `env:"EMOJIPREP_KEEP_NEWLINES,default=false" json:"keep_newlines"`
	// MinCount drops labels with MinCount tweets or fewer.
	MinCount int   `env:"EMOJIPREP_MIN_COUNT,default=0" json:"min_count" validate:"gte=0"`
	Seed     int64 `env:"EMOJIPREP_SEED,default=1" json:"seed"`
	// Split is the training fraction; the rest is held out.
	Split float64 `env:"EMOJIPREP_SPLIT,default=1" json:"split" validate:"gt=0,lte=1"`

	BatchSize  int    `env:"EMOJIPREP_BATCH_SIZE,default=64" json:"batch_size" validate:"gt=0"`
	Length     int    `env:"EMOJIPREP_LENGTH,default=160" json:"length" validate:"gtfield=WindowSize"`
	WindowSize int    `env:"EMOJIPREP_WINDOW,default=40" json:"window_size" validate:"gt=0"`
	Stride     int    `env:"EMOJIPREP_STRIDE,default=3" json:"stride" validate:"gt=0"`
	Partial    string `env:"EMOJIPREP_PARTIAL,default=drop" json:"partial" validate:"oneof=drop pad"`
	// Labels adds the label tensor to every batch.
	Labels bool `env:"EMOJIPREP_LABELS,default=false" json:"labels"`

	// Batches is the number of batches the CLI pulls.
	Batches int `env:"EMOJIPREP_BATCHES,default=1" json:"batches" validate:"gte=0"`
	// Show is the number of decoded examples printed per batch.
	Show int `env:"EMOJIPREP_SHOW,default=3" json:"show" validate:"gte=0"`

	LogLevel string `env:"LOG_LEVEL,default=INFO" json:"log_level" validate:"oneof=DEBUG INFO WARN ERROR"`
}

var validate = validator.New()

// Load reads .env (when present) and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

// LoadJSON overlays the fields present in the JSON file at path onto c.
func (c Config) LoadJSON(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Validate normalizes the log level and checks every field.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToUpper(strings.TrimSpace(c.LogLevel))
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Generator builds the batch generator configuration. labels is used only
// when c.Labels is set.
func (c Config) Generator(labels *alphabet.Index[string], logger *slog.Logger) (generator.Config, error) {
	partial, err := generator.ParsePartialPolicy(c.Partial)
	if err != nil {
		return generator.Config{}, err
	}
	gc := generator.Config{
		BatchSize:  c.BatchSize,
		Length:     c.Length,
		WindowSize: c.WindowSize,
		Stride:     c.Stride,
		Partial:    partial,
		Logger:     logger,
	}
	if c.Labels {
		gc.Labels = labels
	}
	return gc, nil
}
