package testutil

import "io"

// SliceReader serves samples from memory in reads of at most Chunk samples
// (unlimited when Chunk is 0).
type SliceReader struct {
	Data  []float64
	Chunk int
	pos   int
}

// Read copies the next samples into dst and returns io.EOF at the end.
func (r *SliceReader) Read(dst []float64) (int, error) {
	if r.pos >= len(r.Data) {
		return 0, io.EOF
	}
	n := min(len(dst), len(r.Data)-r.pos)
	if r.Chunk > 0 {
		n = min(n, r.Chunk)
	}
	copy(dst, r.Data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

// Frames returns the total number of samples.
func (r *SliceReader) Frames() int64 { return int64(len(r.Data)) }
