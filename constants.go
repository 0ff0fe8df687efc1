package wav2phh

// Detection defaults, six samples per pulse
const (
	defaultBaselineDiffThresh  = 0.005
	defaultBaselineRelThresh   = 0.01
	defaultMovingAverageLength = 20
	defaultTriggerThresh       = 0.015
	defaultNumPast             = 5
	defaultMinGlitchWidth      = 1
	defaultMaxGlitchWidth      = 10
	defaultUpsampleFactor      = 7
	defaultWindowHalfSize      = 15
	defaultSoftGain            = 1.0
)

// Preset deviations from the defaults
const (
	highSuppressionMinGlitch = 2   // Rejects two-sample pulses as well
	highGainFactor           = 3.0 // Thresholds and soft gain scale together

	tenSamplesNumPast   = 8
	tenSamplesMaxGlitch = 25
	tenSamplesHalfSize  = 22
)

// Histogram and window defaults
const (
	// DefaultBins is the histogram resolution.
	DefaultBins = 1024

	// DefaultWindowLow is the number of fresh samples per window refill.
	DefaultWindowLow = 4096

	// DefaultWindowHigh is the number of samples carried over between refills.
	DefaultWindowHigh = 1024

	// DefaultKaiserBeta is used when a Kaiser taper is requested without β.
	DefaultKaiserBeta = 8.0
)

// Validation limits
const (
	maxBins                = 1 << 24
	maxMovingAverageLength = 1 << 20
	maxUpsampleFactor      = 64
	maxWindowHalfSize      = 512
	maxThreshold           = 1e3
)

const (
	percentComplete = 100.0
)
