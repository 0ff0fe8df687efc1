package pipeline

// Window sizing limits
const (
	minLow   = 1
	minHigh  = 2
	maxTotal = 1 << 26 // 64 Mi samples
)

// Source behavior
const (
	// Consecutive (0, nil) reads tolerated before giving up, as in bufio
	maxEmptyReads = 100
)

const percentScale = 100.0
