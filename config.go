package wav2phh

import (
	"errors"
	"fmt"
	"math"

	"github.com/samplemaker/wav2phh/internal/engine"
	"github.com/samplemaker/wav2phh/internal/filter"
	"github.com/samplemaker/wav2phh/internal/source"
)

// Common errors returned by the analyzer.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid analyzer configuration")

	// ErrWindowOverrun indicates that a pulse candidate reached past the
	// resident window. The window overlap is too small for the signal.
	ErrWindowOverrun = engine.ErrWindowOverrun

	// ErrUnsupportedFormat indicates an input file the analyzer cannot read.
	ErrUnsupportedFormat = source.ErrUnsupportedFormat

	// ErrInvalidWAV indicates that the input is not a WAV file.
	ErrInvalidWAV = source.ErrInvalidWAV
)

// OverrunError carries the bound and stream index of an ErrWindowOverrun.
type OverrunError = engine.OverrunError

// Taper selects the window applied to the reconstruction kernel.
type Taper = filter.Taper

// Kernel tapers.
const (
	TaperRectangular = filter.TaperRectangular
	TaperKaiser      = filter.TaperKaiser
)

// Rounding selects how amplitudes are mapped to histogram channels.
type Rounding = engine.Rounding

// Rounding modes.
const (
	// RoundingCompatible narrows to float32 before rounding half away from
	// zero, reproducing histograms recorded by earlier tools bit for bit.
	RoundingCompatible = engine.RoundingCompatible

	// RoundingFullPrecision rounds in float64.
	RoundingFullPrecision = engine.RoundingFullPrecision
)

// Config holds analyzer configuration.
type Config struct {
	// Detection controls triggering, glitch filtering and reconstruction.
	Detection DetectionSpec

	// Bins is the histogram resolution. An amplitude a lands in channel
	// round(Bins·a). Set to 0 for DefaultBins.
	Bins int

	// WindowLow is the number of fresh samples loaded per refill.
	// Set to 0 for DefaultWindowLow.
	WindowLow int

	// WindowHigh is the number of samples carried over between refills.
	// Half of it must cover the look-back plus the widest accepted pulse.
	// Set to 0 for DefaultWindowHigh.
	WindowHigh int

	// Taper weights the reconstruction kernel. The zero value leaves the
	// kernel truncated without weighting.
	Taper Taper

	// KaiserBeta is the β of a Kaiser taper. Set to 0 for DefaultKaiserBeta.
	KaiserBeta float64

	// Rounding selects the channel rounding mode.
	Rounding Rounding
}

// DetectionSpec defines the pulse detection parameters.
// Users can either use a preset or customize individual parameters.
type DetectionSpec struct {
	// Preset selects a predefined parameter set. Any preset other than
	// PresetCustom overrides the remaining fields.
	Preset Preset

	// BaselineDiffThresh is the largest step |n0-n1| that still counts as
	// quiet baseline.
	BaselineDiffThresh float64

	// BaselineRelThresh is the level below which a quiet sample may update
	// the baseline.
	BaselineRelThresh float64

	// MovingAverageLength is the number of quiet samples averaged into the
	// baseline.
	MovingAverageLength int

	// TriggerThresh is the rise above baseline that starts a pulse.
	TriggerThresh float64

	// NumPast is the number of samples kept before the trigger.
	NumPast int

	// MinGlitchWidth and MaxGlitchWidth bound the accepted pulse width,
	// exclusive on both ends.
	MinGlitchWidth int
	MaxGlitchWidth int

	// UpsampleFactor is the integer reconstruction ratio k.
	UpsampleFactor int

	// WindowHalfSize is the number of source samples the sinc kernel
	// reaches on each side, center included.
	WindowHalfSize int

	// SoftGain scales every sample as it is loaded.
	SoftGain float64
}

// Preset enumerates predefined detection settings.
type Preset int

const (
	// PresetDefault suits pulses about six samples wide.
	PresetDefault Preset = iota

	// PresetHighSuppression additionally rejects two-sample pulses.
	PresetHighSuppression

	// PresetHighGain triples thresholds and soft gain for weak front ends.
	PresetHighGain

	// PresetTenSamples suits pulses about ten samples wide.
	PresetTenSamples

	// PresetCustom indicates manual configuration of parameters.
	PresetCustom
)

// String returns the preset name used on the command line.
func (p Preset) String() string {
	switch p {
	case PresetDefault:
		return "6spp"
	case PresetHighSuppression:
		return "6spp-hisupr"
	case PresetHighGain:
		return "6spp-higain"
	case PresetTenSamples:
		return "10spp"
	case PresetCustom:
		return "custom"
	default:
		return fmt.Sprintf("preset(%d)", int(p))
	}
}

// ParsePreset maps a name produced by Preset.String back to the preset.
func ParsePreset(name string) (Preset, error) {
	for p := PresetDefault; p <= PresetCustom; p++ {
		if p.String() == name {
			return p, nil
		}
	}
	if name == "default" {
		return PresetDefault, nil
	}
	return PresetDefault, fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, name)
}

// GetPresetSpec returns the detection specification for a preset.
func GetPresetSpec(preset Preset) DetectionSpec {
	spec := DetectionSpec{
		Preset:              preset,
		BaselineDiffThresh:  defaultBaselineDiffThresh,
		BaselineRelThresh:   defaultBaselineRelThresh,
		MovingAverageLength: defaultMovingAverageLength,
		TriggerThresh:       defaultTriggerThresh,
		NumPast:             defaultNumPast,
		MinGlitchWidth:      defaultMinGlitchWidth,
		MaxGlitchWidth:      defaultMaxGlitchWidth,
		UpsampleFactor:      defaultUpsampleFactor,
		WindowHalfSize:      defaultWindowHalfSize,
		SoftGain:            defaultSoftGain,
	}

	switch preset {
	case PresetHighSuppression:
		spec.MinGlitchWidth = highSuppressionMinGlitch

	case PresetHighGain:
		spec.BaselineDiffThresh *= highGainFactor
		spec.BaselineRelThresh *= highGainFactor
		spec.TriggerThresh *= highGainFactor
		spec.SoftGain = highGainFactor

	case PresetTenSamples:
		spec.NumPast = tenSamplesNumPast
		spec.MaxGlitchWidth = tenSamplesMaxGlitch
		spec.WindowHalfSize = tenSamplesHalfSize

	case PresetDefault, PresetCustom:
	default:
		spec.Preset = PresetDefault
	}

	return spec
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Detection:  GetPresetSpec(PresetDefault),
		Bins:       DefaultBins,
		WindowLow:  DefaultWindowLow,
		WindowHigh: DefaultWindowHigh,
	}
}

// resolved returns a copy with the preset expanded and zero values
// replaced by defaults.
func (c *Config) resolved() Config {
	r := *c
	if r.Detection.Preset != PresetCustom {
		r.Detection = GetPresetSpec(r.Detection.Preset)
	}
	if r.Bins == 0 {
		r.Bins = DefaultBins
	}
	if r.WindowLow == 0 {
		r.WindowLow = DefaultWindowLow
	}
	if r.WindowHigh == 0 {
		r.WindowHigh = DefaultWindowHigh
	}
	if r.Taper == TaperKaiser && r.KaiserBeta == 0 {
		r.KaiserBeta = DefaultKaiserBeta
	}
	return r
}

// lookBehind is the first cursor position of a run.
func (d *DetectionSpec) lookBehind() int {
	return d.NumPast + d.WindowHalfSize
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Detection.Preset < PresetDefault || c.Detection.Preset > PresetCustom {
		return fmt.Errorf("%w: unknown preset %d", ErrInvalidConfig, int(c.Detection.Preset))
	}
	r := c.resolved()

	if err := r.Detection.Validate(); err != nil {
		return err
	}

	if r.Bins < 1 || r.Bins > maxBins {
		return fmt.Errorf("%w: bins must be 1-%d", ErrInvalidConfig, maxBins)
	}

	if r.WindowLow < 1 || r.WindowHigh < 2 {
		return fmt.Errorf("%w: window sizes must be positive (low=%d, high=%d)", ErrInvalidConfig, r.WindowLow, r.WindowHigh)
	}

	margin := r.WindowHigh / 2
	d := &r.Detection
	if margin < d.lookBehind() {
		return fmt.Errorf("%w: window high/2=%d shorter than look-back %d", ErrInvalidConfig, margin, d.lookBehind())
	}
	if margin < d.MaxGlitchWidth+d.NumPast {
		return fmt.Errorf("%w: window high/2=%d shorter than widest pulse %d", ErrInvalidConfig, margin, d.MaxGlitchWidth+d.NumPast)
	}

	if r.Taper != TaperRectangular && r.Taper != TaperKaiser {
		return fmt.Errorf("%w: unknown taper %d", ErrInvalidConfig, int(r.Taper))
	}
	if r.Rounding != RoundingCompatible && r.Rounding != RoundingFullPrecision {
		return fmt.Errorf("%w: unknown rounding mode %d", ErrInvalidConfig, int(r.Rounding))
	}

	return nil
}

// Validate checks if the detection parameters are valid.
func (d *DetectionSpec) Validate() error {
	if d.Preset < PresetDefault || d.Preset > PresetCustom {
		return fmt.Errorf("%w: unknown preset %d", ErrInvalidConfig, int(d.Preset))
	}
	if d.Preset != PresetCustom {
		return nil
	}

	for _, th := range []struct {
		name  string
		value float64
	}{
		{"baseline differential threshold", d.BaselineDiffThresh},
		{"baseline absolute threshold", d.BaselineRelThresh},
		{"trigger threshold", d.TriggerThresh},
	} {
		if math.IsNaN(th.value) || th.value < 0 || th.value > maxThreshold {
			return fmt.Errorf("%w: %s must be in [0, %g]", ErrInvalidConfig, th.name, maxThreshold)
		}
	}

	if d.MovingAverageLength < 1 || d.MovingAverageLength > maxMovingAverageLength {
		return fmt.Errorf("%w: moving average length must be 1-%d", ErrInvalidConfig, maxMovingAverageLength)
	}

	if d.NumPast < 0 {
		return fmt.Errorf("%w: look-back count must be non-negative", ErrInvalidConfig)
	}

	if d.MinGlitchWidth < 0 || d.MaxGlitchWidth <= d.MinGlitchWidth+1 {
		return fmt.Errorf("%w: glitch widths (%d, %d) admit no pulse", ErrInvalidConfig, d.MinGlitchWidth, d.MaxGlitchWidth)
	}

	if d.UpsampleFactor < 1 || d.UpsampleFactor > maxUpsampleFactor {
		return fmt.Errorf("%w: upsample factor must be 1-%d", ErrInvalidConfig, maxUpsampleFactor)
	}

	if d.WindowHalfSize < 1 || d.WindowHalfSize > maxWindowHalfSize {
		return fmt.Errorf("%w: kernel half size must be 1-%d", ErrInvalidConfig, maxWindowHalfSize)
	}

	if math.IsNaN(d.SoftGain) || math.IsInf(d.SoftGain, 0) || d.SoftGain <= 0 {
		return fmt.Errorf("%w: soft gain must be positive", ErrInvalidConfig)
	}

	return nil
}
