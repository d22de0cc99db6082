package datasets

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Count pairs a symbol with its number of occurrences.
type Count[T cmp.Ordered] struct {
	Symbol T
	N      int
}

// Stats summarises a dataset before encoding.
type Stats struct {
	Records int
	// Labels is sorted by descending count, then symbol.
	Labels []Count[string]
	// Chars is sorted by descending count, then symbol.
	Chars []Count[rune]
	// MaxLength and MeanLength are in runes.
	MaxLength  int
	MeanLength float64
	// Truncated counts texts longer than the length passed to ComputeStats.
	Truncated int
}

// ComputeStats walks the dataset once. length is the padding length the
// generator will use, to report how many texts get truncated.
func ComputeStats(ds Dataset, length int) Stats {
	labels := make(map[string]int)
	chars := make(map[rune]int)
	st := Stats{Records: ds.Len()}

	total := 0
	for i := 0; i < ds.Len(); i++ {
		r := ds.Record(i)
		labels[r.Label]++
		for _, c := range r.Text {
			chars[c]++
		}
		n := utf8.RuneCountInString(r.Text)
		total += n
		st.MaxLength = max(st.MaxLength, n)
		if n > length {
			st.Truncated++
		}
	}
	if st.Records > 0 {
		st.MeanLength = float64(total) / float64(st.Records)
	}
	st.Labels = sortedCounts(labels)
	st.Chars = sortedCounts(chars)
	return st
}

func sortedCounts[T cmp.Ordered](m map[T]int) []Count[T] {
	out := lo.MapToSlice(m, func(k T, v int) Count[T] { return Count[T]{Symbol: k, N: v} })
	slices.SortFunc(out, func(a, b Count[T]) int {
		if c := cmp.Compare(b.N, a.N); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
	return out
}
