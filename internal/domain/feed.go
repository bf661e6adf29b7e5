package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseFeed decodes FIRMS CSV text into detections in file order.
//
// Columns are located by header name so the VIIRS and MODIS layouts both
// parse; absent columns leave the zero value. Rows that cannot be read, or
// whose latitude or longitude is missing, unparseable or exactly 0, are
// skipped. An error is returned only when the header itself cannot be read.
func ParseFeed(r io.Reader) ([]Detection, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read feed header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}

	var detections []Detection
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return detections, fmt.Errorf("read feed: %w", err)
		}

		row := feedRow{cols: cols, rec: rec}
		lat := parseFloatOrZero(row.get("latitude"))
		lon := parseFloatOrZero(row.get("longitude"))
		if lat == 0 || lon == 0 {
			continue
		}

		detections = append(detections, Detection{
			Latitude:   lat,
			Longitude:  lon,
			Brightness: row.float("brightness"),
			Scan:       row.float("scan"),
			Track:      row.float("track"),
			AcqDate:    row.get("acq_date"),
			AcqTime:    row.get("acq_time"),
			Satellite:  row.get("satellite"),
			Instrument: row.get("instrument"),
			Confidence: row.get("confidence"),
			Version:    row.get("version"),
			BrightTI4:  row.float("bright_ti4"),
			BrightTI5:  row.float("bright_ti5"),
			FRP:        row.float("frp"),
			DayNight:   row.get("daynight"),
			Type:       int(row.float("type")),
		})
	}
	return detections, nil
}

// feedRow resolves named columns against one CSV record.
type feedRow struct {
	cols map[string]int
	rec  []string
}

func (r feedRow) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

// float returns the first of names that holds a parseable number, or 0.
func (r feedRow) float(names ...string) float64 {
	for _, name := range names {
		if v := parseFloatOrZero(r.get(name)); v != 0 {
			return v
		}
	}
	return 0
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
