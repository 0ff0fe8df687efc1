package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/samplemaker/wav2phh"
	"github.com/samplemaker/wav2phh/internal/filter"
)

const (
	progressInterval = 10 // Print progress every N%
	percentScale     = 100

	pulseFields    = 4 // -p trigthresh glitchmin glitchmax samplesfrompast
	baselineFields = 2 // -b diffthresh absthresh
)

// options holds the parsed command line.
type options struct {
	input      string
	output     string
	preset     string
	pulse      string
	baseline   string
	verbose    bool
	pulses     bool
	cpuprofile string

	gain      float64
	trig      float64
	minGlitch int
	maxGlitch int
	past      int
	diff      float64
	abs       float64
	navg      int
	factor    int
	half      int

	bins          int
	low           int
	high          int
	taper         string
	beta          float64
	fullPrecision bool
}

func newOptions() *options {
	def := wav2phh.GetPresetSpec(wav2phh.PresetDefault)
	return &options{
		output:    wav2phh.DefaultOutputFile,
		preset:    wav2phh.PresetDefault.String(),
		gain:      def.SoftGain,
		trig:      def.TriggerThresh,
		minGlitch: def.MinGlitchWidth,
		maxGlitch: def.MaxGlitchWidth,
		past:      def.NumPast,
		diff:      def.BaselineDiffThresh,
		abs:       def.BaselineRelThresh,
		navg:      def.MovingAverageLength,
		factor:    def.UpsampleFactor,
		half:      def.WindowHalfSize,
		bins:      wav2phh.DefaultBins,
		low:       wav2phh.DefaultWindowLow,
		high:      wav2phh.DefaultWindowHigh,
		taper:     filter.TaperRectangular.String(),
	}
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.input, "f", o.input, "Input WAV file (mono PCM, 96kHz or more recommended)")
	fs.StringVar(&o.output, "o", o.output, "Output histogram CSV file")
	fs.StringVar(&o.preset, "preset", o.preset, "Preset: 6spp, 6spp-hisupr, 6spp-higain, 10spp")
	fs.StringVar(&o.pulse, "p", "", "Pulse settings \"trigthresh glitchmin glitchmax samplesfrompast\"")
	fs.StringVar(&o.baseline, "b", "", "Baseline settings \"diffthresh absthresh\"")
	fs.Float64Var(&o.gain, "m", o.gain, "Software gain for signals with poor magnitude")

	fs.Float64Var(&o.trig, "trig", o.trig, "Trigger threshold above baseline")
	fs.IntVar(&o.minGlitch, "min-glitch", o.minGlitch, "Reject pulses this wide or narrower")
	fs.IntVar(&o.maxGlitch, "max-glitch", o.maxGlitch, "Reject pulses this wide or wider")
	fs.IntVar(&o.past, "past", o.past, "Samples taken from the past")
	fs.Float64Var(&o.diff, "diff", o.diff, "Baseline differential threshold")
	fs.Float64Var(&o.abs, "abs", o.abs, "Baseline absolute threshold")
	fs.IntVar(&o.navg, "navg", o.navg, "Baseline moving average length")
	fs.IntVar(&o.factor, "k", o.factor, "Upsampling factor")
	fs.IntVar(&o.half, "half", o.half, "Sinc kernel half size in samples")

	fs.IntVar(&o.bins, "bins", o.bins, "Histogram channels")
	fs.IntVar(&o.low, "low", o.low, "Fresh samples per window refill")
	fs.IntVar(&o.high, "high", o.high, "Samples carried over between refills")
	fs.StringVar(&o.taper, "taper", o.taper, "Kernel taper: rectangular, kaiser")
	fs.Float64Var(&o.beta, "beta", o.beta, "Kaiser beta (0 for default)")
	fs.BoolVar(&o.fullPrecision, "full-precision", o.fullPrecision, "Round amplitudes in float64")

	fs.BoolVar(&o.verbose, "v", o.verbose, "Verbose output")
	fs.BoolVar(&o.pulses, "pulses", o.pulses, "Log every accepted pulse")
	fs.StringVar(&o.cpuprofile, "cpuprofile", o.cpuprofile, "Write CPU profile to file")
}

// config builds the analyzer configuration. Detection flags listed in set
// override the preset and turn it into a custom configuration.
func (o *options) config(set map[string]bool) (*wav2phh.Config, error) {
	preset, err := wav2phh.ParsePreset(o.preset)
	if err != nil {
		return nil, err
	}
	taper, err := filter.ParseTaper(o.taper)
	if err != nil {
		return nil, err
	}

	cfg := wav2phh.DefaultConfig()
	cfg.Detection = wav2phh.GetPresetSpec(preset)
	cfg.Bins = o.bins
	cfg.WindowLow = o.low
	cfg.WindowHigh = o.high
	cfg.Taper = taper
	cfg.KaiserBeta = o.beta
	if o.fullPrecision {
		cfg.Rounding = wav2phh.RoundingFullPrecision
	}

	d := &cfg.Detection
	custom := false

	if set["p"] {
		if err := parsePulse(o.pulse, d); err != nil {
			return nil, err
		}
		custom = true
	}
	if set["b"] {
		if err := parseBaseline(o.baseline, d); err != nil {
			return nil, err
		}
		custom = true
	}

	overrides := []struct {
		name  string
		apply func()
	}{
		{"m", func() { d.SoftGain = o.gain }},
		{"trig", func() { d.TriggerThresh = o.trig }},
		{"min-glitch", func() { d.MinGlitchWidth = o.minGlitch }},
		{"max-glitch", func() { d.MaxGlitchWidth = o.maxGlitch }},
		{"past", func() { d.NumPast = o.past }},
		{"diff", func() { d.BaselineDiffThresh = o.diff }},
		{"abs", func() { d.BaselineRelThresh = o.abs }},
		{"navg", func() { d.MovingAverageLength = o.navg }},
		{"k", func() { d.UpsampleFactor = o.factor }},
		{"half", func() { d.WindowHalfSize = o.half }},
	}
	for _, ov := range overrides {
		if set[ov.name] {
			ov.apply()
			custom = true
		}
	}
	if custom {
		d.Preset = wav2phh.PresetCustom
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parsePulse reads "trigthresh glitchmin glitchmax samplesfrompast".
// Fields may be separated by spaces or commas.
func parsePulse(s string, d *wav2phh.DetectionSpec) error {
	fields, err := splitFields(s, pulseFields)
	if err != nil {
		return fmt.Errorf("-p: %w", err)
	}
	trig, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("-p: trigger threshold: %w", err)
	}
	ints := make([]int, pulseFields-1)
	for i, f := range fields[1:] {
		if ints[i], err = strconv.Atoi(f); err != nil {
			return fmt.Errorf("-p: field %d: %w", i+2, err)
		}
	}
	d.TriggerThresh = trig
	d.MinGlitchWidth, d.MaxGlitchWidth, d.NumPast = ints[0], ints[1], ints[2]
	return nil
}

// parseBaseline reads "diffthresh absthresh".
func parseBaseline(s string, d *wav2phh.DetectionSpec) error {
	fields, err := splitFields(s, baselineFields)
	if err != nil {
		return fmt.Errorf("-b: %w", err)
	}
	diff, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("-b: differential threshold: %w", err)
	}
	abs, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("-b: absolute threshold: %w", err)
	}
	d.BaselineDiffThresh, d.BaselineRelThresh = diff, abs
	return nil
}

func splitFields(s string, want int) ([]string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) != want {
		return nil, fmt.Errorf("expected %d values, got %d in %q", want, len(fields), s)
	}
	return fields, nil
}

// progressTracker handles progress reporting.
type progressTracker struct {
	logger       *log.Logger
	lastProgress int
	verbose      bool
}

// newProgressTracker creates a new progress tracker.
func newProgressTracker(verbose bool) *progressTracker {
	return &progressTracker{logger: log.Default(), verbose: verbose}
}

// report logs progress if the threshold was crossed.
func (p *progressTracker) report(pr wav2phh.Progress) {
	if !p.verbose {
		return
	}

	progress := int(pr.Percent)
	if progress >= p.lastProgress+progressInterval || (progress == percentScale && p.lastProgress < percentScale) {
		p.logger.Printf("Progress: %d%% (%d events)", progress, wav2phh.Summarize(pr.Counts).Total)
		p.lastProgress = progress
	}
}

// pulseLogger returns a hook that logs each pulse with its timestamp.
func pulseLogger(sampleRate int) func(wav2phh.Pulse) {
	return func(p wav2phh.Pulse) {
		var at float64
		if sampleRate > 0 {
			at = float64(p.Peak) / float64(sampleRate)
		}
		log.Printf("event at %.6fs: start %d, stop %d, width %d, height %.4f, channel %d",
			at, p.Start, p.Stop, p.Width, p.Amplitude, p.Channel)
	}
}

// printSettings writes the settings used for the run.
func printSettings(w io.Writer, cfg wav2phh.Config) {
	d := cfg.Detection
	fmt.Fprintf(w, "\nfilter settings (%s):\n", d.Preset)
	fmt.Fprintf(w, "  pulse trigger threshold      %0.3f\n", d.TriggerThresh)
	fmt.Fprintf(w, "  pulse glitch filter (min)    %d\n", d.MinGlitchWidth)
	fmt.Fprintf(w, "  pulse glitch filter (max)    %d\n", d.MaxGlitchWidth)
	fmt.Fprintf(w, "  taken from past              %d\n", d.NumPast)
	fmt.Fprintf(w, "  baseline diff. threshold     %0.3f\n", d.BaselineDiffThresh)
	fmt.Fprintf(w, "  baseline trigger threshold   %0.3f\n", d.BaselineRelThresh)
	fmt.Fprintf(w, "  moving average               %d\n", d.MovingAverageLength)
	fmt.Fprintf(w, "  upsampling                   %d\n", d.UpsampleFactor)
	fmt.Fprintf(w, "  software gain                %0.1f\n", d.SoftGain)
	fmt.Fprintf(w, "  window size                  %d\n", 2*d.WindowHalfSize)
	fmt.Fprintf(w, "  kernel taper                 %s\n", cfg.Taper)
	fmt.Fprintf(w, "  histogram channels           %d\n", cfg.Bins)
	fmt.Fprintf(w, "  rounding                     %s\n", cfg.Rounding)
}
