// Command emojiprep loads a tweet corpus, reports on it and pulls encoded
// training batches from the batch generator, printing a few decoded examples
// from each batch.
//
// Usage:
//
//	go run ./cmd/emojiprep -data 'data/*.csv' -batches 2 -show 5
//
// Settings come from the environment (EMOJIPREP_*), an optional JSON file
// given with -config, then explicit flags.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"

	"github.com/nicksexton/emojitranslate/alphabet"
	"github.com/nicksexton/emojitranslate/config"
	"github.com/nicksexton/emojitranslate/datasets"
	"github.com/nicksexton/emojitranslate/generator"
	"github.com/nicksexton/emojitranslate/onehot"
	"github.com/nicksexton/emojitranslate/report"
	"github.com/nicksexton/emojitranslate/textprep"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file (optional)")
	data := flag.String("data", "", "glob pattern for tweet CSV files")
	cachePath := flag.String("cache", "", "path to the gob cache of the normalized corpus")
	force := flag.Bool("force", false, "rebuild the cache even if it exists")
	outDir := flag.String("out", "", "output directory for charts")
	minCount := flag.Int("min-count", 0, "drop labels with this many tweets or fewer")
	seed := flag.Int64("seed", 0, "shuffle seed")
	batchSize := flag.Int("batch-size", 0, "records per batch")
	length := flag.Int("length", 0, "padded text length")
	windowSize := flag.Int("window", 0, "context window size")
	stride := flag.Int("stride", 0, "step between windows")
	partial := flag.String("partial", "", "final partial batch policy: drop or pad")
	labels := flag.Bool("labels", false, "add the label tensor to batches")
	keepNewlines := flag.Bool("keep-newlines", false, "keep newlines in tweet text")
	batches := flag.Int("batches", 0, "number of batches to pull")
	show := flag.Int("show", 0, "decoded examples to print per batch")
	top := flag.Int("top", 20, "labels and characters shown in the report")
	noPlots := flag.Bool("no-plots", false, "skip the charts")
	noColour := flag.Bool("no-colour", false, "print decoded examples without colour")
	printEffectiveConfig := flag.Bool("print-effective-config", false, "print the effective configuration and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}
	if *configPath != "" {
		if cfg, err = cfg.LoadJSON(*configPath); err != nil {
			log.Fatalf("%v", err)
		}
	}

	// explicit flags override environment and JSON
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.Data = *data
		case "cache":
			cfg.CachePath = *cachePath
		case "out":
			cfg.OutDir = *outDir
		case "min-count":
			cfg.MinCount = *minCount
		case "seed":
			cfg.Seed = *seed
		case "batch-size":
			cfg.BatchSize = *batchSize
		case "length":
			cfg.Length = *length
		case "window":
			cfg.WindowSize = *windowSize
		case "stride":
			cfg.Stride = *stride
		case "partial":
			cfg.Partial = *partial
		case "labels":
			cfg.Labels = *labels
		case "keep-newlines":
			cfg.KeepNewlines = *keepNewlines
		case "batches":
			cfg.Batches = *batches
		case "show":
			cfg.Show = *show
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}
	if *printEffectiveConfig {
		fmt.Printf("%+v\n", cfg)
		return
	}

	logger := logs.GetLoggerFromString(cfg.LogLevel).With(slog.String("run_id", uuid.NewString()))

	corpus, err := loadCorpus(cfg, *force, logger)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}
	corpus.Shuffle(cfg.Seed)
	train, held, err := corpus.Split(cfg.Split)
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger.Info("corpus ready", slog.Int("train", train.Len()), slog.Int("held_out", held.Len()))

	st := datasets.ComputeStats(train, cfg.Length)
	report.WriteSummary(os.Stdout, st, *top)
	if !*noPlots {
		writePlots(cfg.OutDir, st, *top, logger)
	}

	chars := alphabet.NewUniversal()
	labelIndex := corpus.LabelIndex()
	gc, err := cfg.Generator(labelIndex, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	gen, err := generator.New(train, chars, gc)
	if err != nil {
		log.Fatalf("failed to create batch generator: %v", err)
	}
	logger.Info("pulling batches",
		slog.String("generator", gen.Name()),
		slog.Int("per_cycle", gen.NumBatches()),
		slog.Int("examples_per_record", gen.ExamplesPerRecord()))

	for i := 0; i < cfg.Batches; i++ {
		b, err := gen.Next()
		if err != nil {
			log.Fatalf("batch %d: %v", i, err)
		}
		logger.Info("batch",
			slog.Int("index", b.Index),
			slog.Int("records", b.Records),
			slog.Any("inputs", b.Inputs.Dims),
			slog.Any("targets", b.Targets.Dims),
			slog.Any("labels", b.Labels.Dims))
		if err := printExamples(os.Stdout, b, chars, labelIndex, gen.ExamplesPerRecord(), cfg.Show, !*noColour); err != nil {
			log.Fatalf("batch %d: %v", i, err)
		}
	}
}

// loadCorpus reads the normalized corpus from the cache when it was built
// with the same settings, and otherwise from the CSV files, refreshing the cache.
func loadCorpus(cfg config.Config, force bool, logger *slog.Logger) (*datasets.TweetDataset, error) {
	source := cacheSource(cfg)
	if cfg.CachePath != "" && !force {
		ds, err := datasets.LoadCache(cfg.CachePath, source)
		switch {
		case err == nil:
			logger.Info("loaded corpus from cache", slog.String("path", cfg.CachePath), slog.Int("records", ds.Len()))
			return ds, nil
		case errors.Is(err, os.ErrNotExist):
		default:
			logger.Warn("ignoring corpus cache", slog.String("path", cfg.CachePath), slog.Any("error", err))
		}
	}

	raw, err := datasets.Load(cfg.Data, datasets.ReadOptions{TextColumn: cfg.TextColumn, LabelColumn: cfg.LabelColumn})
	if err != nil {
		return nil, err
	}
	filter := textprep.NewFilter(textprep.Options{KeepNewlines: cfg.KeepNewlines})
	ds := raw.Normalize(filter).FilterMinCount(cfg.MinCount)
	logger.Info("loaded corpus",
		slog.String("pattern", cfg.Data),
		slog.Int("read", raw.Len()),
		slog.Int("kept", ds.Len()),
		slog.Int("labels", len(ds.Labels())))

	if cfg.CachePath != "" {
		if err := ds.SaveCache(cfg.CachePath, source); err != nil {
			logger.Warn("failed to save corpus cache", slog.String("path", cfg.CachePath), slog.Any("error", err))
		}
	}
	return ds, nil
}

// cacheSource identifies the settings a cached corpus was built with.
func cacheSource(cfg config.Config) string {
	return fmt.Sprintf("%s|text=%s|label=%s|newlines=%t|min=%d",
		cfg.Data, cfg.TextColumn, cfg.LabelColumn, cfg.KeepNewlines, cfg.MinCount)
}

func writePlots(outDir string, st datasets.Stats, top int, logger *slog.Logger) {
	plots := map[string]func(string, datasets.Stats, int) error{
		"labels.png": report.PlotLabels,
		"chars.png":  report.PlotChars,
	}
	for name, plot := range plots {
		path := filepath.Join(outDir, name)
		if err := plot(path, st, top); err != nil {
			logger.Warn("plot failed", slog.String("path", path), slog.Any("error", err))
			continue
		}
		logger.Info("wrote plot", slog.String("path", path))
	}
}

// printExamples prints the last window of the first n records in b, with the
// target character highlighted. labels may be nil.
func printExamples(w io.Writer, b *generator.Batch, chars *alphabet.Index[rune], labels *alphabet.Index[string], perRecord, n int, colour bool) error {
	for r := 0; r < min(n, b.Records); r++ {
		e := (r+1)*perRecord - 1
		s, err := b.Decode(chars, e, false)
		if err != nil {
			return err
		}
		runes := []rune(s)
		context, next := string(runes[:len(runes)-1]), string(runes[len(runes)-1:])
		if colour {
			context = color.New(color.FgCyan).Render(context)
			next = color.New(color.BgYellow, color.FgBlack).Render(next)
		}
		label := ""
		if labels != nil && b.HasLabels() {
			if label, err = onehot.DecodeRow(b.Labels.Row(e), labels); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%6d  %s%s  %s\n", e, context, next, label)
	}
	return nil
}
