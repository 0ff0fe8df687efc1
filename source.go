package wav2phh

import (
	"io"

	"github.com/samplemaker/wav2phh/internal/source"
)

// Source supplies normalized samples. Read fills dst with up to len(dst)
// samples and returns io.EOF once the stream is exhausted; a read may
// return fewer samples than requested. Frames returns the total length
// when known, or a value <= 0 otherwise.
type Source interface {
	Read(dst []float64) (int, error)
	Frames() int64
}

// WAVSource reads a mono PCM WAV file. Samples are scaled to [-1, 1].
type WAVSource = source.WAV

// OpenWAV opens a WAV file as a Source. The caller must Close it.
func OpenWAV(path string) (*WAVSource, error) {
	return source.OpenWAV(path)
}

// NewWAVSource reads WAV data from r.
func NewWAVSource(r io.ReadSeeker) (*WAVSource, error) {
	return source.NewWAV(r)
}

// SliceSource serves samples from memory.
type SliceSource struct {
	samples []float64
	chunk   int
	pos     int
}

// NewSliceSource returns a Source over samples. Each Read returns at most
// chunk samples; chunk <= 0 leaves reads unlimited.
func NewSliceSource(samples []float64, chunk int) *SliceSource {
	return &SliceSource{samples: samples, chunk: chunk}
}

// Read copies the next samples into dst.
func (s *SliceSource) Read(dst []float64) (int, error) {
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}
	n := min(len(dst), len(s.samples)-s.pos)
	if s.chunk > 0 {
		n = min(n, s.chunk)
	}
	copy(dst, s.samples[s.pos:s.pos+n])
	s.pos += n
	return n, nil
}

// Frames returns the number of samples.
func (s *SliceSource) Frames() int64 { return int64(len(s.samples)) }
