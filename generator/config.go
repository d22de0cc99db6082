package generator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/nicksexton/emojitranslate/alphabet"
)

// ErrInvalidConfig is returned by New when the configuration cannot produce a
// single batch.
var ErrInvalidConfig = errors.New("invalid generator config")

// Defaults used for zero Config fields.
const (
	DefaultBatchSize  = 64
	DefaultLength     = 160
	DefaultWindowSize = 40
	DefaultStride     = 3
)

// PartialPolicy decides what happens to the records left over after the last
// full batch.
type PartialPolicy int

const (
	// DropPartial skips the leftover records: the cycle restarts at the first
	// record after the last full batch.
	DropPartial PartialPolicy = iota
	// PadPartial emits the leftover records as a final batch whose unused
	// rows are all zero.
	PadPartial
)

func (p PartialPolicy) String() string {
	switch p {
	case DropPartial:
		return "drop"
	case PadPartial:
		return "pad"
	default:
		return fmt.Sprintf("PartialPolicy(%d)", int(p))
	}
}

// ParsePartialPolicy parses "drop" or "pad".
func ParsePartialPolicy(s string) (PartialPolicy, error) {
	switch s {
	case "drop", "":
		return DropPartial, nil
	case "pad":
		return PadPartial, nil
	default:
		return DropPartial, fmt.Errorf("%w: unknown partial batch policy %q", ErrInvalidConfig, s)
	}
}

// Config holds the batch generator parameters. Zero numeric fields take the
// Default* values.
type Config struct {
	// BatchSize is the number of records per batch.
	BatchSize int `validate:"gt=0"`
	// Length is the padded/truncated text length; it must exceed WindowSize.
	Length int `validate:"gtfield=WindowSize"`
	// WindowSize is the number of context characters per example.
	WindowSize int `validate:"gt=0"`
	// Stride is the step between window start offsets.
	Stride int `validate:"gt=0"`

	// Labels is the label vocabulary. When nil, batches carry no label
	// tensor.
	Labels *alphabet.Index[string] `validate:"-"`

	Partial PartialPolicy `validate:"oneof=0 1"`

	// Logger defaults to a discarding logger.
	Logger *slog.Logger `validate:"-"`
}

var validate = validator.New()

func (c Config) withDefaults() Config {
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Length == 0 {
		c.Length = DefaultLength
	}
	if c.WindowSize == 0 {
		c.WindowSize = DefaultWindowSize
	}
	if c.Stride == 0 {
		c.Stride = DefaultStride
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Validate checks the configuration after defaults are applied.
func (c Config) Validate() error {
	if err := validate.Struct(c.withDefaults()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
