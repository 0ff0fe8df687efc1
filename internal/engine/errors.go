package engine

import (
	"errors"
	"fmt"
)

// ErrWindowOverrun is returned when a pulse candidate reaches past the
// resident window while more stream data exists. The window margins are too
// small for the observed pulse.
var ErrWindowOverrun = errors.New("window overrun")

// Bound names the window limit that a candidate crossed.
type Bound string

// Window limits checked during a scan.
const (
	BoundLookBehind Bound = "look-behind"
	BoundPeak       Bound = "peak search"
	BoundStop       Bound = "stop position"
)

// OverrunError reports which limit a pulse candidate crossed and where.
type OverrunError struct {
	Bound    Bound
	Index    int64 // stream index that fell outside the window
	Trigger  int64 // stream index of the trigger sample
	Resident int   // samples resident in the window at the time
}

func (e *OverrunError) Error() string {
	return fmt.Sprintf("%s: %s reached stream index %d (trigger at %d, %d samples resident)",
		ErrWindowOverrun, e.Bound, e.Index, e.Trigger, e.Resident)
}

// Unwrap returns ErrWindowOverrun.
func (e *OverrunError) Unwrap() error { return ErrWindowOverrun }
