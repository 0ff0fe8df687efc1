package histogram

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// CSV layout: a header line, then one "channel;count" line per channel in
// ascending order.
const (
	csvSeparator   = ';'
	csvHeaderIndex = "Channel"
	csvHeaderCount = "Counts"
)

// ErrMalformedCSV is returned by ReadCSV for input not in the histogram layout.
var ErrMalformedCSV = errors.New("malformed histogram csv")

// WriteCSV writes counts as "Channel;Counts" followed by one line per channel.
func WriteCSV(w io.Writer, counts []uint64) error {
	cw := csv.NewWriter(w)
	cw.Comma = csvSeparator

	if err := cw.Write([]string{csvHeaderIndex, csvHeaderCount}); err != nil {
		return err
	}
	record := make([]string, 2)
	for i, c := range counts {
		record[0] = strconv.Itoa(i)
		record[1] = strconv.FormatUint(c, 10)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a histogram written by WriteCSV.
func ReadCSV(r io.Reader) ([]uint64, error) {
	cr := csv.NewReader(r)
	cr.Comma = csvSeparator
	cr.FieldsPerRecord = 2
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrMalformedCSV, err)
	}
	if header[0] != csvHeaderIndex || header[1] != csvHeaderCount {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrMalformedCSV, header)
	}

	var counts []uint64
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
		}
		index, err := strconv.Atoi(record[0])
		if err != nil || index != len(counts) {
			return nil, fmt.Errorf("%w: channel %q out of sequence at line %d", ErrMalformedCSV, record[0], len(counts)+2)
		}
		count, err := strconv.ParseUint(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: count %q at channel %d", ErrMalformedCSV, record[1], index)
		}
		counts = append(counts, count)
	}
	return counts, nil
}
