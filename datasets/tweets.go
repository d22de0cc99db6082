package datasets

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"slices"

	"github.com/samber/lo"

	"github.com/nicksexton/emojitranslate/alphabet"
	"github.com/nicksexton/emojitranslate/textprep"
)

// Default column names of the tweet CSV exports.
const (
	DefaultTextColumn  = "text"
	DefaultLabelColumn = "emoji"
)

// ReadOptions selects the columns read from each CSV.
type ReadOptions struct {
	// TextColumn defaults to DefaultTextColumn.
	TextColumn string
	// LabelColumn defaults to DefaultLabelColumn.
	LabelColumn string
}

func (o ReadOptions) withDefaults() ReadOptions {
	if o.TextColumn == "" {
		o.TextColumn = DefaultTextColumn
	}
	if o.LabelColumn == "" {
		o.LabelColumn = DefaultLabelColumn
	}
	return o
}

// TweetDataset is an in-memory table of tweets and their labels.
type TweetDataset struct {
	records []Record
}

// NewTweetDataset wraps records. The slice is copied.
func NewTweetDataset(records []Record) *TweetDataset {
	return &TweetDataset{records: slices.Clone(records)}
}

// Load reads every CSV file matching pattern, in lexical order, into one
// dataset.
func Load(pattern string, opts ReadOptions) (*TweetDataset, error) {
	csvPaths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
	}
	if len(csvPaths) == 0 {
		return nil, fmt.Errorf("no CSV files found matching pattern: %s", pattern)
	}
	slices.Sort(csvPaths)

	var records []Record
	for _, path := range csvPaths {
		ds, err := ReadCSV(path, opts)
		if err != nil {
			return nil, err
		}
		records = append(records, ds.records...)
	}
	return &TweetDataset{records: records}, nil
}

// ReadCSV loads a single CSV file.
func ReadCSV(path string, opts ReadOptions) (*TweetDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV %s: %w", path, err)
	}
	defer file.Close()

	ds, err := Read(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Read loads tweets from CSV data. Rows whose text and label both equal the
// header names are dropped.
func Read(r io.Reader, opts ReadOptions) (*TweetDataset, error) {
	opts = opts.withDefaults()
	reader := newCSVReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := requireColumns(columnIndex(header), opts.TextColumn, opts.LabelColumn)
	if err != nil {
		return nil, err
	}
	textIdx, labelIdx := cols[0], cols[1]
	textName, labelName := header[textIdx], header[labelIdx]

	var records []Record
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}
		if textIdx >= len(record) || labelIdx >= len(record) {
			return nil, fmt.Errorf("row %d has %d fields, want at least %d", row, len(record), max(textIdx, labelIdx)+1)
		}

		text, label := record[textIdx], record[labelIdx]
		if text == textName && label == labelName {
			continue
		}
		records = append(records, Record{Text: text, Label: label})
	}
	return &TweetDataset{records: records}, nil
}

// Len returns the number of records.
func (d *TweetDataset) Len() int {
	return len(d.records)
}

// Record returns the i-th record.
func (d *TweetDataset) Record(i int) Record {
	return d.records[i]
}

// Records returns a copy of all records.
func (d *TweetDataset) Records() []Record {
	return slices.Clone(d.records)
}

// Texts returns the text column.
func (d *TweetDataset) Texts() []string {
	return lo.Map(d.records, func(r Record, _ int) string { return r.Text })
}

// Labels returns the distinct labels, sorted.
func (d *TweetDataset) Labels() []string {
	return alphabet.Labels(lo.Map(d.records, func(r Record, _ int) string { return r.Label })).Symbols()
}

// LabelIndex builds the label index over the dataset's labels.
func (d *TweetDataset) LabelIndex() *alphabet.Index[string] {
	return alphabet.Labels(d.Labels())
}

// FilterMinCount keeps only records whose label occurs more than minCount
// times.
func (d *TweetDataset) FilterMinCount(minCount int) *TweetDataset {
	counts := lo.CountValuesBy(d.records, func(r Record) string { return r.Label })
	kept := lo.Filter(d.records, func(r Record, _ int) bool {
		return counts[r.Label] > minCount
	})
	return &TweetDataset{records: kept}
}

// Normalize returns a dataset with every text passed through n.
func (d *TweetDataset) Normalize(n textprep.Normalizer) *TweetDataset {
	return &TweetDataset{records: lo.Map(d.records, func(r Record, _ int) Record {
		return Record{Text: n.Normalize(r.Text), Label: r.Label}
	})}
}

// Repeat returns a dataset with the records repeated until it holds n
// records. It is mostly useful to build fixed-size fixtures.
func (d *TweetDataset) Repeat(n int) *TweetDataset {
	if len(d.records) == 0 || n <= 0 {
		return &TweetDataset{}
	}
	records := make([]Record, n)
	for i := range records {
		records[i] = d.records[i%len(d.records)]
	}
	return &TweetDataset{records: records}
}

// Shuffle shuffles the records in place with a deterministic seed. The batch
// generator never reorders data, so shuffle before constructing one.
func (d *TweetDataset) Shuffle(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(d.records), func(i, j int) {
		d.records[i], d.records[j] = d.records[j], d.records[i]
	})
}

// Split returns the first frac of the records and the remainder.
func (d *TweetDataset) Split(frac float64) (*TweetDataset, *TweetDataset, error) {
	if frac < 0 || frac > 1 {
		return nil, nil, fmt.Errorf("split fraction must be in [0, 1], got %v", frac)
	}
	cut := int(float64(len(d.records)) * frac)
	return &TweetDataset{records: slices.Clone(d.records[:cut])},
		&TweetDataset{records: slices.Clone(d.records[cut:])}, nil
}
