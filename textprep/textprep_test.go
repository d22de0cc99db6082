package textprep

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicksexton/emojitranslate/alphabet"
)

func TestFilterHandles(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trailing handle", input: "some text with a @handle", want: "some text with a"},
		{name: "inner handle", input: "more @text with handle", want: "more with handle"},
		{name: "no handle", input: "plain text", want: "plain text"},
		{name: "only handle", input: "@someone", want: ""},
		{name: "email is not a handle", input: "mail me@home.com", want: "mail me@home.com"},
		{name: "double space kept", input: "a  b @c", want: "a  b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FilterHandles(tt.input))
		})
	}
}

func TestFilterNormalize(t *testing.T) {
	req := require.New(t)
	f := NewFilter(Options{})

	req.Equal("caf costs £3!", f.Normalize("café costs £3!"))
	req.Equal("hi there", f.Normalize("hi @bob there"))
	req.Equal("line oneline two", f.Normalize("line one\nline two"))
	req.Equal("fire ", f.Normalize("fire 🔥"))
}

func TestFilterKeepNewlines(t *testing.T) {
	req := require.New(t)
	f := NewFilter(Options{KeepNewlines: true})
	req.Equal("line one\nline two", f.Normalize("line one\nline two"))
}

func TestFilterCustomCharacters(t *testing.T) {
	f := NewFilter(Options{Characters: "ab "})
	require.Equal(t, "ab ba", f.Normalize("abc bca"))
}

func TestNormalizedTextIsEncodable(t *testing.T) {
	req := require.New(t)
	idx := alphabet.NewUniversal()
	texts := Apply(NewFilter(Options{}), []string{"Ça va? @amy 🌈 ünïcödé ©2024", "tabs\tand\nnewlines"})
	for _, txt := range texts {
		for _, r := range txt {
			req.True(idx.Contains(r), "rune %q survived filtering", r)
		}
	}
}
