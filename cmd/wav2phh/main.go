// Command wav2phh converts a recorded detector signal into a pulse-height
// histogram.
//
// Usage:
//
//	wav2phh -f capture.wav
//	wav2phh -m 2.0 -f capture.wav
//	wav2phh -f capture.wav -b "0.005 0.01" -p "0.015 2 10 5"
//	wav2phh -preset 10spp -o spectrum.csv capture.wav
//
// The histogram is written as "Channel;Counts" CSV, by default to
// _hist_output_.csv in the working directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/samplemaker/wav2phh"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	opts := newOptions()
	opts.register(flag.CommandLine)
	flag.Usage = usage
	flag.Parse()

	if opts.input == "" && flag.NArg() > 0 {
		opts.input = flag.Arg(0)
	}
	if opts.input == "" {
		usage()
		return fmt.Errorf("no input file")
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	config, err := opts.config(set)
	if err != nil {
		return err
	}

	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	analyzer, err := wav2phh.New(config)
	if err != nil {
		return err
	}

	src, err := wav2phh.OpenWAV(opts.input)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	if opts.verbose {
		info := analyzer.GetInfo()
		log.Printf("Input: %s", opts.input)
		log.Printf("Output: %s", opts.output)
		log.Printf("Frames: %d, sample rate: %d Hz, %d-bit", src.Frames(), src.SampleRate(), src.BitDepth())
		log.Printf("Preset: %s", info.Preset)
		log.Printf("Window: %d samples, kernel: %d taps (%s)", info.WindowLen, info.KernelTaps, info.Taper)
		log.Printf("SIMD: %s", info.SIMDType)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := newProgressTracker(opts.verbose)
	hooks := &wav2phh.Hooks{OnProgress: progress.report}
	if opts.pulses {
		hooks.OnPulse = pulseLogger(src.SampleRate())
	}

	start := time.Now()
	res, err := analyzer.Run(ctx, src, hooks)
	if err != nil {
		if res != nil && res.Consumed > 0 {
			log.Printf("Stopped after %d samples", res.Consumed)
		}
		return err
	}
	elapsed := time.Since(start)

	if err := wav2phh.SaveHistogram(opts.output, res.Counts); err != nil {
		return err
	}

	summary := wav2phh.Summarize(res.Counts)
	fmt.Printf("Analyzed %s -> %s\n", filepath.Base(opts.input), opts.output)
	fmt.Printf("  %d samples, %d events (%d triggers, %d glitches, %d out of range)\n",
		res.Consumed, summary.Total, res.Stats.Triggers, res.Stats.Glitches, res.Stats.Dropped)
	if summary.Total > 0 {
		fmt.Printf("  Peak channel %d, mean %.1f, std dev %.1f\n", summary.Peak, summary.Mean, summary.StdDev)
	}
	if rate := src.SampleRate(); rate > 0 && elapsed > 0 {
		fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
			elapsed.Seconds(), float64(res.Consumed)/float64(rate)/elapsed.Seconds())
	}

	printSettings(os.Stdout, analyzer.Config())
	return nil
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [options] -f input.wav\n\n", os.Args[0])
	fmt.Fprintf(out, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(out, "\nExamples:\n")
	fmt.Fprintf(out, "  %s -f capture.wav                                  # Default settings\n", os.Args[0])
	fmt.Fprintf(out, "  %s -m 2.0 -f capture.wav                           # Soft gain for weak signals\n", os.Args[0])
	fmt.Fprintf(out, "  %s -f capture.wav -b \"0.005 0.01\" -p \"0.015 2 10 5\"\n", os.Args[0])
}
