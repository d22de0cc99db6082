package datasets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicksexton/emojitranslate/textprep"
)

// writeCSV writes a CSV file with the given header and rows to path.
func writeCSV(t *testing.T, path, header string, rows []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create csv %s: %v", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(header + "\n"); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	for _, r := range rows {
		if _, err := f.WriteString(r + "\n"); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}
}

func TestReadCSVDropsRepeatedHeaders(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "tweets.csv")
	writeCSV(t, path, ",text,emoji", []string{
		`0,"red and yellow, pink",:rainbow:`,
		`1,text,emoji`,
		`2,sunny day,:sun:`,
		`3,text,:sun:`,
	})

	ds, err := ReadCSV(path, ReadOptions{})
	req.NoError(err)
	req.Equal(3, ds.Len())
	req.Equal(Record{Text: "red and yellow, pink", Label: ":rainbow:"}, ds.Record(0))
	req.Equal(Record{Text: "sunny day", Label: ":sun:"}, ds.Record(1))
	// only rows where both fields repeat the header are artifacts
	req.Equal(Record{Text: "text", Label: ":sun:"}, ds.Record(2))
}

func TestReadCustomColumns(t *testing.T) {
	req := require.New(t)
	in := "Tweet,Label\nhello,:wave:\n"
	ds, err := Read(strings.NewReader(in), ReadOptions{TextColumn: "tweet", LabelColumn: "label"})
	req.NoError(err)
	req.Equal([]Record{{Text: "hello", Label: ":wave:"}}, ds.Records())
}

func TestReadMissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("text,label\nhello,:wave:\n"), ReadOptions{})
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadShortRow(t *testing.T) {
	_, err := Read(strings.NewReader("id,text,emoji\n1,hello\n"), ReadOptions{})
	require.Error(t, err)
}

func TestLoadPattern(t *testing.T) {
	req := require.New(t)
	tmp := t.TempDir()
	writeCSV(t, filepath.Join(tmp, "b.csv"), "text,emoji", []string{"second,:b:"})
	writeCSV(t, filepath.Join(tmp, "a.csv"), "text,emoji", []string{"first,:a:", "text,emoji"})

	ds, err := Load(filepath.Join(tmp, "*.csv"), ReadOptions{})
	req.NoError(err)
	req.Equal([]string{"first", "second"}, ds.Texts())

	pattern, err := FindCSVInAssets(tmp)
	req.NoError(err)
	req.Equal(filepath.Join(tmp, "*.csv"), pattern)

	_, err = Load(filepath.Join(tmp, "*.tsv"), ReadOptions{})
	req.Error(err)

	writeCSV(t, filepath.Join(tmp, "c.csv"), "body,emoji", []string{"third,:c:"})
	_, err = Load(filepath.Join(tmp, "*.csv"), ReadOptions{})
	req.ErrorIs(err, ErrMissingColumn)
	_, err = FindCSVInAssets(filepath.Join(tmp, "nothing"))
	req.Error(err)
}

func TestFilterMinCount(t *testing.T) {
	req := require.New(t)
	ds := NewTweetDataset([]Record{
		{"a", ":x:"}, {"b", ":x:"}, {"c", ":x:"},
		{"d", ":y:"}, {"e", ":y:"},
		{"f", ":z:"},
	})

	kept := ds.FilterMinCount(1)
	req.Equal([]string{":x:", ":y:"}, kept.Labels())
	req.Equal(5, kept.Len())

	// strictly more than the threshold
	req.Equal([]string{":x:"}, ds.FilterMinCount(2).Labels())
	req.Equal(6, ds.Len())
}

func TestNormalize(t *testing.T) {
	req := require.New(t)
	ds := NewTweetDataset([]Record{{Text: "hi @bob 🌈 there", Label: ":rainbow:"}})
	clean := ds.Normalize(textprep.NewFilter(textprep.Options{}))
	req.Equal("hi  there", clean.Record(0).Text)
	req.Equal(":rainbow:", clean.Record(0).Label)
	req.Equal("hi @bob 🌈 there", ds.Record(0).Text)
}

func TestShuffleIsDeterministic(t *testing.T) {
	req := require.New(t)
	var records []Record
	for _, s := range strings.Split("a b c d e f g h i j", " ") {
		records = append(records, Record{Text: s, Label: ":l:"})
	}
	a, b := NewTweetDataset(records), NewTweetDataset(records)
	a.Shuffle(7)
	b.Shuffle(7)
	req.Equal(a.Records(), b.Records())
	req.ElementsMatch(records, a.Records())
}

func TestRepeatAndSplit(t *testing.T) {
	req := require.New(t)
	ds := NewTweetDataset([]Record{{"one", ":1:"}, {"two", ":2:"}}).Repeat(5)
	req.Equal([]string{"one", "two", "one", "two", "one"}, ds.Texts())
	req.Equal(0, NewTweetDataset(nil).Repeat(3).Len())

	train, dev, err := ds.Split(0.6)
	req.NoError(err)
	req.Equal(3, train.Len())
	req.Equal(2, dev.Len())

	_, _, err = ds.Split(1.5)
	req.Error(err)
}

func TestLabelIndex(t *testing.T) {
	req := require.New(t)
	ds := NewTweetDataset([]Record{{"a", ":smile:"}, {"b", ":fire:"}, {"c", ":smile:"}})
	idx := ds.LabelIndex()
	req.Equal(2, idx.Len())
	pos, err := idx.Lookup(":smile:")
	req.NoError(err)
	req.Equal(1, pos)
}
