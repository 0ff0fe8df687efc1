package wav2phh

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/samplemaker/wav2phh/internal/histogram"
)

// DefaultOutputFile is the histogram file written when no name is given.
const DefaultOutputFile = "_hist_output_.csv"

// Summary describes a histogram.
type Summary = histogram.Summary

// ErrMalformedCSV is returned when a histogram file cannot be parsed.
var ErrMalformedCSV = histogram.ErrMalformedCSV

// AnalyzeSamples builds a histogram from in-memory samples with a preset
// and the default histogram resolution.
func AnalyzeSamples(samples []float64, preset Preset) ([]uint64, error) {
	a, err := New(&Config{Detection: DetectionSpec{Preset: preset}})
	if err != nil {
		return nil, err
	}
	res, err := a.Run(context.Background(), NewSliceSource(samples, 0), nil)
	if err != nil {
		return nil, err
	}
	return res.Counts, nil
}

// AnalyzeFile runs the analyzer over a WAV file.
func AnalyzeFile(ctx context.Context, path string, config *Config, hooks *Hooks) (*Result, error) {
	a, err := New(config)
	if err != nil {
		return nil, err
	}

	src, err := OpenWAV(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	return a.Run(ctx, src, hooks)
}

// WriteHistogram writes counts as "Channel;Counts" CSV.
func WriteHistogram(w io.Writer, counts []uint64) error {
	return histogram.WriteCSV(w, counts)
}

// ReadHistogram parses a histogram written by WriteHistogram.
func ReadHistogram(r io.Reader) ([]uint64, error) {
	return histogram.ReadCSV(r)
}

// SaveHistogram writes counts to path, replacing any existing file.
func SaveHistogram(path string, counts []uint64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := WriteHistogram(f, counts); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Summarize computes the total, weighted mean, standard deviation and
// peak channel of a histogram.
func Summarize(counts []uint64) Summary {
	return histogram.Summarize(counts)
}
