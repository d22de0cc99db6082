// Package window turns one tweet into fixed-length training windows: the text
// is padded or truncated to a fixed length, then a window of W characters
// slides over it with a fixed stride, each window paired with the character
// that follows it.
//
// All lengths are counted in runes.
package window

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidWindow is returned for a non-positive window size or stride.
var ErrInvalidWindow = errors.New("invalid window parameters")

// Window is one training example cut from a padded tweet.
type Window struct {
	// Offset is the rune position of the first context character.
	Offset  int
	Context string
	Next    rune
	// Label is the tweet's label, empty for unlabelled sampling.
	Label string
}

// Pad returns text normalised to exactly length runes: longer text keeps its
// first length runes, shorter text is left-padded with spaces.
func Pad(text string, length int) string {
	if length <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) > length {
		return string(runes[:length])
	}
	return strings.Repeat(" ", length-len(runes)) + text
}

// Count returns the number of windows Sample produces for a padded text of
// length runes: ceil((length-size)/stride), or 0 when length <= size.
func Count(length, size, stride int) int {
	if stride < 1 || length <= size {
		return 0
	}
	return (length - size + stride - 1) / stride
}

// Sample cuts padded into windows of size runes starting at offsets
// 0, stride, 2*stride, ... while offset < len(padded)-size.
func Sample(padded string, size, stride int) ([]Window, error) {
	return SampleLabelled(padded, "", size, stride)
}

// SampleLabelled is Sample with every window carrying the tweet label.
func SampleLabelled(padded, label string, size, stride int) ([]Window, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: window size must be >= 1, got %d", ErrInvalidWindow, size)
	}
	if stride < 1 {
		return nil, fmt.Errorf("%w: stride must be >= 1, got %d", ErrInvalidWindow, stride)
	}

	runes := []rune(padded)
	n := Count(len(runes), size, stride)
	windows := make([]Window, 0, n)
	for i := 0; i < len(runes)-size; i += stride {
		windows = append(windows, Window{
			Offset:  i,
			Context: string(runes[i : i+size]),
			Next:    runes[i+size],
			Label:   label,
		})
	}
	return windows, nil
}
