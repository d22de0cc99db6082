// Package textprep cleans raw tweet text before encoding: it removes user
// mentions and drops every character outside the recognised alphabet.
package textprep

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"

	"github.com/nicksexton/emojitranslate/alphabet"
)

// Normalizer maps raw text to text the encoder accepts.
type Normalizer interface {
	Normalize(text string) string
}

// Filter is the default Normalizer. The zero value is not usable, use
// NewFilter.
type Filter struct {
	allowed map[rune]struct{}
}

// Options configures NewFilter.
type Options struct {
	// Characters is the allowed set. Empty means alphabet.UniversalNoNewline.
	Characters string
	// KeepNewlines allows '\n' in addition to Characters.
	KeepNewlines bool
}

// NewFilter builds a Filter from opts.
func NewFilter(opts Options) *Filter {
	chars := opts.Characters
	if chars == "" {
		chars = alphabet.UniversalNoNewline
	}
	allowed := make(map[rune]struct{}, len(chars)+1)
	for _, r := range chars {
		allowed[r] = struct{}{}
	}
	if opts.KeepNewlines {
		allowed['\n'] = struct{}{}
	} else {
		delete(allowed, '\n')
	}
	return &Filter{allowed: allowed}
}

// Normalize composes the text to NFC, removes handles and filters characters.
func (f *Filter) Normalize(text string) string {
	return f.FilterChars(FilterHandles(norm.NFC.String(text)))
}

// FilterChars drops every rune not in the allowed set.
func (f *Filter) FilterChars(text string) string {
	return strings.Map(func(r rune) rune {
		if _, ok := f.allowed[r]; ok {
			return r
		}
		return -1
	}, text)
}

// FilterHandles removes every space-separated word starting with '@'.
// Splitting is on single spaces so the remaining spacing is preserved.
func FilterHandles(text string) string {
	words := lo.Reject(strings.Split(text, " "), func(w string, _ int) bool {
		return strings.HasPrefix(w, "@")
	})
	return strings.Join(words, " ")
}

// Apply runs n over every text and returns the results.
func Apply(n Normalizer, texts []string) []string {
	return lo.Map(texts, func(t string, _ int) string {
		return n.Normalize(t)
	})
}
