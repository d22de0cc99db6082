// Package generator produces the training batches for the character model.
//
// A Generator walks a dataset in fixed-size slices of records. Every record
// is padded to a fixed length, cut into sliding windows and one-hot encoded;
// the windows of all records in the slice form one batch:
//
//	inputs  [BatchSize*M, WindowSize, |alphabet|]
//	targets [BatchSize*M, |alphabet|]
//	labels  [BatchSize*M, |labels|]   (only with a label vocabulary)
//
// where M = window.Count(Length, WindowSize, Stride) is the same for every
// record. The sequence of batches is infinite: after the last batch the
// generator starts over at the first record.
//
// A Generator reuses its tensors between calls to Next and is not safe for
// concurrent use. Build one generator per consumer; the alphabet indexes and
// the dataset can be shared.
package generator

import (
	"fmt"
	"log/slog"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/nicksexton/emojitranslate/alphabet"
	"github.com/nicksexton/emojitranslate/datasets"
	"github.com/nicksexton/emojitranslate/onehot"
	"github.com/nicksexton/emojitranslate/window"
)

// Source is the read-only dataset a Generator walks.
type Source interface {
	Len() int
	Record(i int) datasets.Record
}

// Batch is one step of the generator. Its tensors are owned by the
// generator and overwritten by the next call to Next; Clone it to keep it.
type Batch struct {
	// Index is the batch position within the cycle, starting at 0.
	Index int
	// Records is the number of dataset records encoded in the batch. It is
	// below the batch size only for a padded final batch.
	Records int

	Inputs  onehot.Tensor
	Targets onehot.Tensor
	// Labels is empty when the generator has no label vocabulary.
	Labels onehot.Tensor
}

// HasLabels reports whether the batch carries a label tensor.
func (b *Batch) HasLabels() bool {
	return len(b.Labels.Dims) > 0
}

// Clone returns a deep copy that survives further generator steps.
func (b *Batch) Clone() *Batch {
	out := &Batch{
		Index:   b.Index,
		Records: b.Records,
		Inputs:  b.Inputs.Clone(),
		Targets: b.Targets.Clone(),
	}
	if b.HasLabels() {
		out.Labels = b.Labels.Clone()
	}
	return out
}

// Gomlx converts the batch into gomlx tensors: inputs are [x] or [x, labels],
// labels are [y]. The tensors hold copies of the data.
func (b *Batch) Gomlx() (inputs []*tensors.Tensor, labels []*tensors.Tensor) {
	inputs = []*tensors.Tensor{b.Inputs.ToGomlx()}
	if b.HasLabels() {
		inputs = append(inputs, b.Labels.ToGomlx())
	}
	return inputs, []*tensors.Tensor{b.Targets.ToGomlx()}
}

// Decode reconstructs example i as context followed by its next character.
func (b *Batch) Decode(chars *alphabet.Index[rune], i int, separator bool) (string, error) {
	return onehot.DecodeExample(b.Inputs, b.Targets, chars, i, separator)
}

// Generator is the cyclic batch generator.
type Generator struct {
	src    Source
	chars  *alphabet.Index[rune]
	cfg    Config
	logger *slog.Logger

	perRecord  int
	numBatches int
	batchIndex int

	batch Batch
}

// New validates cfg against src and allocates the batch tensors. It fails
// with ErrInvalidConfig before any batch is produced when the parameters are
// inconsistent or src holds fewer records than one full batch under
// DropPartial.
func New(src Source, chars *alphabet.Index[rune], cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if src == nil || chars == nil {
		return nil, fmt.Errorf("%w: nil dataset or character index", ErrInvalidConfig)
	}

	n := src.Len()
	numBatches := n / cfg.BatchSize
	if cfg.Partial == PadPartial && n%cfg.BatchSize != 0 {
		numBatches++
	}
	if numBatches == 0 {
		return nil, fmt.Errorf("%w: dataset has %d records, fewer than one batch of %d", ErrInvalidConfig, n, cfg.BatchSize)
	}

	g := &Generator{
		src:        src,
		chars:      chars,
		cfg:        cfg,
		logger:     cfg.Logger,
		perRecord:  window.Count(cfg.Length, cfg.WindowSize, cfg.Stride),
		numBatches: numBatches,
	}

	examples := cfg.BatchSize * g.perRecord
	g.batch.Inputs = onehot.NewTensor(examples, cfg.WindowSize, chars.Len())
	g.batch.Targets = onehot.NewTensor(examples, chars.Len())
	if cfg.Labels != nil {
		g.batch.Labels = onehot.NewTensor(examples, cfg.Labels.Len())
	}

	g.logger.Debug("batch generator ready",
		slog.Int("records", n),
		slog.Int("batches", numBatches),
		slog.Int("examples_per_record", g.perRecord),
		slog.String("partial", cfg.Partial.String()),
		slog.Bool("labels", cfg.Labels != nil))
	return g, nil
}

// Config returns the effective configuration, defaults applied.
func (g *Generator) Config() Config {
	return g.cfg
}

// NumBatches returns the number of batches in one cycle over the dataset.
func (g *Generator) NumBatches() int {
	return g.numBatches
}

// ExamplesPerRecord returns the number of windows cut from every record.
func (g *Generator) ExamplesPerRecord() int {
	return g.perRecord
}

// BatchIndex returns the index of the batch the next call to Next produces.
func (g *Generator) BatchIndex() int {
	return g.batchIndex
}

// Next encodes the next batch into the generator's tensors and returns it.
// On an encoding error the position does not advance, so retrying fails the
// same way.
func (g *Generator) Next() (*Batch, error) {
	start := g.batchIndex * g.cfg.BatchSize
	records := min(g.cfg.BatchSize, g.src.Len()-start)

	for r := 0; r < records; r++ {
		if err := g.encodeRecord(r, start+r); err != nil {
			return nil, err
		}
	}
	if records < g.cfg.BatchSize {
		g.zeroFrom(records)
	}

	g.batch.Index = g.batchIndex
	g.batch.Records = records

	g.batchIndex = (g.batchIndex + 1) % g.numBatches
	if g.batchIndex == 0 {
		g.logger.Debug("batch generator cycle complete", slog.Int("batches", g.numBatches))
	}
	return &g.batch, nil
}

// encodeRecord writes dataset record i into batch row r.
func (g *Generator) encodeRecord(r, i int) error {
	rec := g.src.Record(i)
	padded := window.Pad(rec.Text, g.cfg.Length)
	windows, err := window.SampleLabelled(padded, rec.Label, g.cfg.WindowSize, g.cfg.Stride)
	if err != nil {
		return fmt.Errorf("record %d: %w", i, err)
	}

	for w, win := range windows {
		e := r*g.perRecord + w
		if err := onehot.PutContext(g.batch.Inputs, e, []rune(win.Context), g.chars); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if err := onehot.Put(g.batch.Targets, e, win.Next, g.chars); err != nil {
			return fmt.Errorf("record %d: next character: %w", i, err)
		}
		if g.cfg.Labels != nil {
			if err := onehot.Put(g.batch.Labels, e, win.Label, g.cfg.Labels); err != nil {
				return fmt.Errorf("record %d: label: %w", i, err)
			}
		}
	}
	return nil
}

// zeroFrom clears every batch row from record row r on.
func (g *Generator) zeroFrom(r int) {
	for _, t := range []onehot.Tensor{g.batch.Inputs, g.batch.Targets, g.batch.Labels} {
		if len(t.Dims) == 0 {
			continue
		}
		for e := r * g.perRecord; e < t.Dims[0]; e++ {
			clear(t.Row(e))
		}
	}
}

// Reset restarts the cycle at the first record.
func (g *Generator) Reset() {
	g.batchIndex = 0
}

// Name identifies the generator to gomlx training loops.
func (g *Generator) Name() string {
	return fmt.Sprintf("tweet-windows(L=%d,W=%d,S=%d)", g.cfg.Length, g.cfg.WindowSize, g.cfg.Stride)
}

// Yield returns the next batch as gomlx tensors, following gomlx's
// train.Dataset interface. The sequence never ends.
func (g *Generator) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	b, err := g.Next()
	if err != nil {
		return nil, nil, nil, err
	}
	inputs, labels = b.Gomlx()
	return nil, inputs, labels, nil
}

// Convert encodes the whole dataset as a single batch. It is the one-shot
// counterpart of Next for datasets small enough to fit in memory at once.
func Convert(src Source, chars *alphabet.Index[rune], cfg Config) (*Batch, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil dataset", ErrInvalidConfig)
	}
	cfg.BatchSize = src.Len()
	cfg.Partial = DropPartial
	g, err := New(src, chars, cfg)
	if err != nil {
		return nil, err
	}
	return g.Next()
}
