// Package source decodes recorded pulse streams into normalized samples.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV format constraints
const (
	monoChannels  = 1
	wavFormatPCM  = 1
	readChunkSize = 8192 // Samples decoded per PCMBuffer call at most

	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32
	bitsPerByte     = 8

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0
)

var (
	// ErrInvalidWAV is returned when the input is not a readable WAV file.
	ErrInvalidWAV = errors.New("invalid WAV file")

	// ErrUnsupportedFormat is returned for WAV files that are not mono
	// integer PCM at 16, 24 or 32 bits.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// WAV reads mono PCM samples from a WAV stream and scales them to
// [-1, 1] by the positive full-scale value of the bit depth.
type WAV struct {
	closer   io.Closer
	decoder  *wav.Decoder
	buf      *audio.IntBuffer
	data     []int
	scale    float64
	rate     int
	bitDepth int
	frames   int64
}

// OpenWAV opens and validates a WAV file. The caller must Close it.
func OpenWAV(path string) (*WAV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	w, err := NewWAV(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	w.closer = f
	return w, nil
}

// NewWAV validates the header of r and prepares it for reading.
func NewWAV(r io.ReadSeeker) (*WAV, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: audio format %d, want PCM", ErrUnsupportedFormat, decoder.WavAudioFormat)
	}
	if decoder.NumChans != monoChannels {
		return nil, fmt.Errorf("%w: %d channels, want mono", ErrUnsupportedFormat, decoder.NumChans)
	}

	bitDepth := int(decoder.BitDepth)
	var fullScale float64
	switch bitDepth {
	case bitsPerSample16:
		fullScale = maxInt16
	case bitsPerSample24:
		fullScale = maxInt24
	case bitsPerSample32:
		fullScale = maxInt32
	default:
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}

	// Frames come from the data chunk size; Duration counts header bytes.
	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}
	frames := decoder.PCMLen() / int64(bitDepth/bitsPerByte)

	format := decoder.Format()

	data := make([]int, readChunkSize)
	return &WAV{
		decoder:  decoder,
		buf:      &audio.IntBuffer{Data: data, Format: format, SourceBitDepth: bitDepth},
		data:     data,
		scale:    1.0 / fullScale,
		rate:     format.SampleRate,
		bitDepth: bitDepth,
		frames:   frames,
	}, nil
}

// Read decodes up to len(dst) samples. It returns io.EOF once the data
// chunk is exhausted.
func (w *WAV) Read(dst []float64) (int, error) {
	want := min(len(dst), len(w.data))
	if want == 0 {
		return 0, nil
	}

	w.buf.Data = w.data[:want]
	n, err := w.decoder.PCMBuffer(w.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to read audio data: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i, v := range w.buf.Data[:n] {
		dst[i] = float64(v) * w.scale
	}
	return n, nil
}

// Frames returns the number of samples declared by the header.
func (w *WAV) Frames() int64 { return w.frames }

// SampleRate returns the sample rate in Hz.
func (w *WAV) SampleRate() int { return w.rate }

// BitDepth returns the PCM sample width.
func (w *WAV) BitDepth() int { return w.bitDepth }

// Close releases the underlying file when the WAV was opened by path.
func (w *WAV) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
