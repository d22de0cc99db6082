package datasets

// This file provides the in-memory tweet dataset that feeds the batch
// generator.
//
// Layout and intended usage:
//
// TweetDataset
//   - Loads one or more CSV files with a "text" column and a label column
//     (the emoji, "emoji" by default) into memory.
//   - Drops rows that repeat the header (artifacts of concatenated exports).
//   - Can drop rare labels (FilterMinCount), clean text with a
//     textprep.Normalizer, shuffle deterministically and split off a dev set.
//   - Can be cached to disk with encoding/gob so cleaning runs once.
//
// Filtering steps return a new dataset. Shuffle is the only in-place
// operation and must run before a batch generator is built on the dataset.

// Record is one (text, label) pair.
type Record struct {
	Text  string
	Label string
}

// Dataset is the read-only view the batch generator and the reports need.
type Dataset interface {
	Len() int
	Record(i int) Record
}
