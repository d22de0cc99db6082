package datasets

import (
	"encoding/gob"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// cacheVersion is incremented when the on-disk cache format changes.
const cacheVersion = 1

// ErrCacheVersion is returned when a cache was written by another format
// version.
var ErrCacheVersion = errors.New("cache version mismatch")

type cacheFormat struct {
	Version   int
	CreatedAt int64 // unix timestamp when cache was created
	Source    string
	Records   []Record
}

// SaveCache writes the dataset to path using encoding/gob. It performs an
// atomic write (create temp file then rename). source is stored alongside
// so LoadCache can refuse a cache built from other inputs.
func (d *TweetDataset) SaveCache(path, source string) error {
	if path == "" {
		return fmt.Errorf("empty cache path")
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		_ = os.Remove(tmpName)
	}()

	pc := cacheFormat{
		Version:   cacheVersion,
		CreatedAt: time.Now().Unix(),
		Source:    source,
		Records:   d.records,
	}
	if err := gob.NewEncoder(tmpFile).Encode(&pc); err != nil {
		return fmt.Errorf("encode cache to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		log.Printf("warning: sync temp cache file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp cache to target: %w", err)
	}
	return nil
}

// LoadCache reads a dataset written by SaveCache. An empty source skips the
// source check.
func LoadCache(path, source string) (*TweetDataset, error) {
	if path == "" {
		return nil, fmt.Errorf("empty cache path")
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache file %s: %w", path, err)
	}
	defer fh.Close()

	var pc cacheFormat
	if err := gob.NewDecoder(fh).Decode(&pc); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", path, err)
	}
	if pc.Version != cacheVersion {
		return nil, fmt.Errorf("%w: cache=%d expected=%d", ErrCacheVersion, pc.Version, cacheVersion)
	}
	if source != "" && pc.Source != source {
		return nil, fmt.Errorf("cache source mismatch: cache=%q expected=%q", pc.Source, source)
	}
	return &TweetDataset{records: pc.Records}, nil
}
