// Package alphabet provides the ordered symbol indexes used to one-hot encode
// tweets: the character index over the universal alphabet and the label index
// over the emoji vocabulary of a dataset.
package alphabet

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownSymbol is returned when a symbol is looked up that the index does
// not contain. Encoders must propagate it rather than fall back to index 0.
var ErrUnknownSymbol = errors.New("symbol not in index")

// Universal is the set of characters recognised in tweets, newline included.
// Duplicates are harmless: Build removes them.
const Universal = "\n '\",.\\/|?:;@'~#[]{}-=_+!\"£$%^&*()abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ01234567890"

// UniversalNoNewline is Universal without the newline character. It is the
// default filter set applied to raw tweet text.
const UniversalNoNewline = " '\",.\\/|?:;@'~#[]{}-=_+!\"£$%^&*()abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ01234567890"

// Index is an immutable, ordered set of unique symbols together with the
// symbol -> position mapping. It is safe for concurrent reads.
type Index[T cmp.Ordered] struct {
	symbols   []T
	positions map[T]int
}

// Build de-duplicates and sorts items ascending and returns the index over
// them. The result only depends on the set of items, not their order.
func Build[T cmp.Ordered](items []T) *Index[T] {
	symbols := slices.Clone(items)
	slices.Sort(symbols)
	symbols = slices.Compact(symbols)

	positions := make(map[T]int, len(symbols))
	for i, s := range symbols {
		positions[s] = i
	}
	return &Index[T]{symbols: symbols, positions: positions}
}

// NewUniversal builds the character index over the Universal alphabet.
func NewUniversal() *Index[rune] {
	return Build([]rune(Universal))
}

// FromCorpus builds a character index from every character observed in
// texts. Space is always part of the result since padding inserts it.
func FromCorpus(texts []string) *Index[rune] {
	runes := []rune{' '}
	for _, t := range texts {
		runes = append(runes, []rune(t)...)
	}
	return Build(runes)
}

// Labels builds the label index over the distinct labels of a dataset.
func Labels(labels []string) *Index[string] {
	return Build(labels)
}

// Len returns the number of symbols.
func (x *Index[T]) Len() int {
	return len(x.symbols)
}

// Lookup returns the position of sym. The error wraps ErrUnknownSymbol when
// sym is absent.
func (x *Index[T]) Lookup(sym T) (int, error) {
	pos, ok := x.positions[sym]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, any(sym))
	}
	return pos, nil
}

// Contains reports whether sym is part of the index.
func (x *Index[T]) Contains(sym T) bool {
	_, ok := x.positions[sym]
	return ok
}

// Symbol returns the symbol at position i. It panics if i is out of range,
// like a slice access.
func (x *Index[T]) Symbol(i int) T {
	return x.symbols[i]
}

// Symbols returns a copy of the ordered symbols.
func (x *Index[T]) Symbols() []T {
	return slices.Clone(x.symbols)
}
