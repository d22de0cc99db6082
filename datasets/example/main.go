package main

// Example command that loads a tweet CSV directory, normalizes it, encodes
// the first few records in one shot with generator.Convert and converts the
// result into gomlx tensors.
//
// Usage:
//   go run ./datasets/example -dir ../assets/tweets
//
// If no CSV is found the example prints an error and exits.

import (
	"flag"
	"fmt"
	"log"

	"github.com/nicksexton/emojitranslate/alphabet"
	"github.com/nicksexton/emojitranslate/datasets"
	"github.com/nicksexton/emojitranslate/generator"
	"github.com/nicksexton/emojitranslate/textprep"
)

func main() {
	dir := flag.String("dir", "../assets/tweets", "directory holding tweet CSV files")
	n := flag.Int("n", 4, "number of records to encode")
	flag.Parse()

	pattern, err := datasets.FindCSVInAssets(*dir)
	if err != nil {
		log.Fatalf("failed to find tweet CSVs: %v", err)
	}
	raw, err := datasets.Load(pattern, datasets.ReadOptions{})
	if err != nil {
		log.Fatalf("failed to load tweets: %v", err)
	}
	ds := raw.Normalize(textprep.NewFilter(textprep.Options{}))
	fmt.Printf("Using tweet CSV pattern: %s\n", pattern)
	fmt.Printf("Total tweets available: %d (%d labels)\n", ds.Len(), len(ds.Labels()))

	head := datasets.NewTweetDataset(ds.Records()[:min(*n, ds.Len())])
	chars := alphabet.NewUniversal()
	batch, err := generator.Convert(head, chars, generator.Config{Labels: ds.LabelIndex()})
	if err != nil {
		log.Fatalf("failed to encode tweets: %v", err)
	}

	inputs, labels := batch.Gomlx()
	fmt.Printf("Created tensors for %d tweets:\n", batch.Records)
	for i, t := range inputs {
		fmt.Printf("  input %d shape: %v\n", i, t.Shape().Dimensions)
	}
	fmt.Printf("  target shape: %v\n", labels[0].Shape().Dimensions)

	// Show the first example of the first tweet
	if batch.Records > 0 {
		s, err := batch.Decode(chars, 0, true)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("  First example: %q\n", s)
		fmt.Printf("  First label: %s\n", head.Record(0).Label)
	}
}
