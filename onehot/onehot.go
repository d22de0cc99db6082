// Package onehot encodes windows, next characters and labels as dense one-hot
// float32 tensors, and decodes them back for debugging.
package onehot

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/nicksexton/emojitranslate/alphabet"
)

// ErrShape is returned when tensors or inputs do not have the expected shape.
var ErrShape = errors.New("shape mismatch")

// Put sets the category of sym in the k-th vector of dst. The vector is
// cleared first. dst's last axis must match the index size.
func Put[T cmp.Ordered](dst Tensor, k int, sym T, idx *alphabet.Index[T]) error {
	if dst.Width() != idx.Len() {
		return fmt.Errorf("%w: tensor width %d, index size %d", ErrShape, dst.Width(), idx.Len())
	}
	pos, err := idx.Lookup(sym)
	if err != nil {
		return err
	}
	vec := dst.Vector(k)
	clear(vec)
	vec[pos] = 1
	return nil
}

// PutContext encodes the runes of one context window into consecutive
// vectors of dst, starting at example*len(context).
func PutContext(dst Tensor, example int, context []rune, idx *alphabet.Index[rune]) error {
	base := example * len(context)
	for p, c := range context {
		if err := Put(dst, base+p, c, idx); err != nil {
			return fmt.Errorf("example %d position %d: %w", example, p, err)
		}
	}
	return nil
}

// EncodeContexts encodes n contexts of equal length W into a [n, W, |idx|]
// tensor.
func EncodeContexts(contexts []string, idx *alphabet.Index[rune]) (Tensor, error) {
	if len(contexts) == 0 {
		return NewTensor(0, 0, idx.Len()), nil
	}
	width := len([]rune(contexts[0]))
	out := NewTensor(len(contexts), width, idx.Len())
	for i, ctx := range contexts {
		runes := []rune(ctx)
		if len(runes) != width {
			return Tensor{}, fmt.Errorf("%w: context %d has %d characters, want %d", ErrShape, i, len(runes), width)
		}
		if err := PutContext(out, i, runes, idx); err != nil {
			return Tensor{}, err
		}
	}
	return out, nil
}

// EncodeTargets encodes next characters into a [n, |idx|] tensor.
func EncodeTargets(next []rune, idx *alphabet.Index[rune]) (Tensor, error) {
	return encodeVector(next, idx)
}

// EncodeLabels encodes labels into a [n, |idx|] tensor.
func EncodeLabels(labels []string, idx *alphabet.Index[string]) (Tensor, error) {
	return encodeVector(labels, idx)
}

func encodeVector[T cmp.Ordered](syms []T, idx *alphabet.Index[T]) (Tensor, error) {
	out := NewTensor(len(syms), idx.Len())
	for i, s := range syms {
		if err := Put(out, i, s, idx); err != nil {
			return Tensor{}, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return out, nil
}

// Argmax returns the position of the largest value in row, the first one on
// ties. It returns -1 for an empty row.
func Argmax(row []float32) int {
	best := -1
	for i, v := range row {
		if best < 0 || v > row[best] {
			best = i
		}
	}
	return best
}

// DecodeRow returns the symbol at the row's argmax. It is lossy: a row that
// is not one-hot still decodes to something. Use it for debugging only.
func DecodeRow[T cmp.Ordered](row []float32, idx *alphabet.Index[T]) (T, error) {
	var zero T
	if len(row) == 0 {
		return zero, fmt.Errorf("%w: empty row", ErrShape)
	}
	if len(row) != idx.Len() {
		return zero, fmt.Errorf("%w: row width %d, index size %d", ErrShape, len(row), idx.Len())
	}
	return idx.Symbol(Argmax(row)), nil
}

// DecodeExample rebuilds the text of one encoded example: the context from
// inputs[position] followed by the next character from targets[position],
// separated by ':' when separator is set.
func DecodeExample(inputs, targets Tensor, idx *alphabet.Index[rune], position int, separator bool) (string, error) {
	if len(inputs.Dims) != 3 || len(targets.Dims) != 2 {
		return "", fmt.Errorf("%w: inputs %v, targets %v", ErrShape, inputs.Dims, targets.Dims)
	}
	if inputs.Dims[0] != targets.Dims[0] {
		return "", fmt.Errorf("%w: %d input examples, %d target examples", ErrShape, inputs.Dims[0], targets.Dims[0])
	}
	if position < 0 || position >= inputs.Dims[0] {
		return "", fmt.Errorf("%w: position %d out of range [0, %d)", ErrShape, position, inputs.Dims[0])
	}

	var sb strings.Builder
	window := inputs.Dims[1]
	for p := 0; p < window; p++ {
		c, err := DecodeRow(inputs.Vector(position*window+p), idx)
		if err != nil {
			return "", err
		}
		sb.WriteRune(c)
	}
	if separator {
		sb.WriteByte(':')
	}
	next, err := DecodeRow(targets.Vector(position), idx)
	if err != nil {
		return "", err
	}
	sb.WriteRune(next)
	return sb.String(), nil
}
