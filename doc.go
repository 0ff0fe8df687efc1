// Package wav2phh builds pulse-height histograms from recorded detector
// signals.
//
// A scintillation or semiconductor detector wired to a sound card leaves a
// short pulse in the recording for every absorbed particle. The height of
// each pulse is proportional to the deposited energy, so a histogram of
// pulse heights is an energy spectrum.
//
// # Features
//
//   - Streaming analysis of arbitrarily long recordings in a fixed window
//   - Baseline tracking with a gated moving average
//   - Edge trigger with a width based glitch filter
//   - Band-limited sinc reconstruction recovering peaks between samples
//   - Optional Kaiser taper for the reconstruction kernel
//   - Optional SIMD acceleration (AVX2/NEON) via github.com/tphakala/simd
//   - Mono PCM WAV input at 16, 24 or 32 bits
//   - CSV histogram output compatible with common spectrum viewers
//
// # Quick Start
//
// For one-shot analysis of samples held in memory:
//
//	counts, err := wav2phh.AnalyzeSamples(samples, wav2phh.PresetDefault)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For a recording on disk with progress reports:
//
//	config := wav2phh.DefaultConfig()
//	config.Detection.Preset = wav2phh.PresetTenSamples
//
//	res, err := wav2phh.AnalyzeFile(ctx, "capture.wav", config, &wav2phh.Hooks{
//	    OnProgress: func(p wav2phh.Progress) { log.Printf("%.0f%%", p.Percent) },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = wav2phh.SaveHistogram(wav2phh.DefaultOutputFile, res.Counts)
//
// # Presets
//
// Four presets cover common front ends:
//
//   - PresetDefault: pulses about six samples wide
//   - PresetHighSuppression: as default, but two-sample pulses are rejected
//   - PresetHighGain: thresholds and soft gain tripled for weak signals
//   - PresetTenSamples: pulses about ten samples wide
//
// Set Detection.Preset to PresetCustom to supply every parameter by hand.
//
// # Detection
//
// The analyzer walks the signal one sample at a time. A pulse is triggered
// by a rising pair whose upper sample exceeds the baseline by more than
// the trigger threshold. The rising edge is followed to its peak and the
// segment is mirrored around it, so a pulse spans
//
//	[trigger - NumPast, 2·peak - (trigger - NumPast))
//
// Pulses narrower than MinGlitchWidth or wider than MaxGlitchWidth are
// discarded. Accepted segments are upsampled by UpsampleFactor and their
// peak-to-peak amplitude a is counted into channel round(Bins·a).
//
// # Windowing
//
// Samples are held in a window of WindowLow+WindowHigh samples. When the
// scan position passes WindowLow+WindowHigh/2 the trailing WindowHigh
// samples move to the front and WindowLow fresh samples are read. Pulses
// are never split across refills; the histogram does not depend on the
// window size.
//
// # Thread Safety
//
// An Analyzer is NOT safe for concurrent use. Create one Analyzer per
// goroutine; each holds its own window and histogram.
package wav2phh
