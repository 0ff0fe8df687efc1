package pipeline

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samplemaker/wav2phh/internal/testutil"
)

// chunkReader serves a slice in reads of at most chunk samples.
type chunkReader struct {
	data  []float64
	pos   int
	chunk int
	err   error // returned once data is exhausted, io.EOF when nil
}

func (r *chunkReader) Read(dst []float64) (int, error) {
	if r.pos >= len(r.data) {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := min(len(dst), r.chunk, len(r.data)-r.pos)
	copy(dst, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

func (r *chunkReader) Frames() int64 { return int64(len(r.data)) }

type stuckReader struct{}

func (stuckReader) Read([]float64) (int, error) { return 0, nil }
func (stuckReader) Frames() int64               { return 0 }

func newTestWindow(t *testing.T, low, high int, gain float64) *Window {
	t.Helper()
	w, err := NewWindow(WindowParams{Low: low, High: high, Gain: gain})
	require.NoError(t, err)
	return w
}

func TestWindowParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  WindowParams
		wantErr bool
	}{
		{"valid", WindowParams{Low: 4096, High: 1024, Gain: 1}, false},
		{"zero_low", WindowParams{Low: 0, High: 1024, Gain: 1}, true},
		{"tiny_high", WindowParams{Low: 16, High: 1, Gain: 1}, true},
		{"zero_gain", WindowParams{Low: 16, High: 16, Gain: 0}, true},
		{"too_large", WindowParams{Low: maxTotal, High: 16, Gain: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestWindow_Continuity walks a cursor across many refills and checks that
// every stream sample is seen exactly once at its absolute index.
func TestWindow_Continuity(t *testing.T) {
	const (
		low    = 24
		high   = 16
		length = 1000
	)

	for _, chunk := range []int{1, 7, 40, 4096} {
		w := newTestWindow(t, low, high, 1.0)
		w.Reset(&chunkReader{data: testutil.Ramp(length), chunk: chunk})
		require.NoError(t, w.Fill())

		next := 0.0
		cursor := 0
		for {
			if w.NeedsRefill(cursor) {
				shift, err := w.Refill()
				require.NoError(t, err)
				cursor -= shift
			}
			s := w.Samples()
			if cursor >= len(s) {
				break
			}
			// Every resident sample sits at its absolute index.
			require.Equal(t, float64(w.Offset())+float64(cursor), s[cursor])
			require.Equal(t, next, s[cursor], "skipped or repeated sample (chunk=%d)", chunk)
			next++
			cursor++
		}

		assert.Equal(t, float64(length), next, "chunk=%d", chunk)
		assert.True(t, w.EOF())
		assert.Equal(t, int64(length), w.Consumed())
		assert.InDelta(t, 100.0, w.Percent(), 1e-12)
	}
}

func TestWindow_RefillKeepsCarryOver(t *testing.T) {
	w := newTestWindow(t, 8, 4, 1.0)
	w.Reset(&chunkReader{data: testutil.Ramp(40), chunk: 3})
	require.NoError(t, w.Fill())

	assert.Equal(t, testutil.Ramp(12), w.Samples())
	assert.Equal(t, 10, w.Threshold())
	assert.False(t, w.NeedsRefill(9))
	assert.True(t, w.NeedsRefill(10))

	shift, err := w.Refill()
	require.NoError(t, err)
	assert.Equal(t, 8, shift)
	assert.Equal(t, int64(8), w.Offset())
	assert.Equal(t, []float64{8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, w.Samples())
	assert.InDelta(t, 50.0, w.Percent(), 1e-12)
}

func TestWindow_ShortStream(t *testing.T) {
	w := newTestWindow(t, 64, 32, 1.0)
	w.Reset(&chunkReader{data: testutil.Ramp(10), chunk: 4})
	require.NoError(t, w.Fill())

	assert.Len(t, w.Samples(), 10)
	assert.True(t, w.EOF())
	assert.False(t, w.NeedsRefill(1000), "no refill once the stream ended")

	shift, err := w.Refill()
	require.NoError(t, err)
	assert.Zero(t, shift)
}

func TestWindow_SoftGain(t *testing.T) {
	w := newTestWindow(t, 4, 2, 3.0)
	w.Reset(&chunkReader{data: []float64{0.1, -0.2, 0.3, 0.0, 0.05, 0.2, 0.1, 0.1}, chunk: 8})
	require.NoError(t, w.Fill())

	want := []float64{0.3, -0.6, 0.9, 0.0, 0.15, 0.6}
	for i, v := range w.Samples() {
		assert.InDelta(t, want[i], v, testutil.DefaultTolerance)
	}

	_, err := w.Refill()
	require.NoError(t, err)
	assert.InDelta(t, 0.3, w.Samples()[2], testutil.DefaultTolerance)
	assert.InDelta(t, 0.3, w.Samples()[3], testutil.DefaultTolerance)
}

func TestWindow_SourceErrors(t *testing.T) {
	boom := errors.New("device unplugged")

	t.Run("read_error", func(t *testing.T) {
		w := newTestWindow(t, 8, 4, 1.0)
		w.Reset(&chunkReader{data: testutil.Ramp(5), chunk: 5, err: boom})
		err := w.Fill()
		require.ErrorIs(t, err, boom)
		assert.Len(t, w.Samples(), 5)
	})

	t.Run("no_progress", func(t *testing.T) {
		w := newTestWindow(t, 8, 4, 1.0)
		w.Reset(stuckReader{})
		require.ErrorIs(t, w.Fill(), io.ErrNoProgress)
		assert.Zero(t, w.Percent(), "unknown length reports no progress")
	})

	t.Run("no_source", func(t *testing.T) {
		w := newTestWindow(t, 8, 4, 1.0)
		assert.Error(t, w.Fill())
	})
}
