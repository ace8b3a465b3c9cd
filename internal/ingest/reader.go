// Package ingest turns the raw transmitter-site CSV into database rows. It
// is the only place where Lambert 93 planar coordinates enter the system; at
// request time the geocoding provider already speaks WGS84.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RustySU/network-coverage/internal/domain"
)

// SiteRecord is one validated CSV row, still in planar coordinates.
type SiteRecord struct {
	Operator domain.Operator
	X        float64
	Y        float64
	Has2G    bool
	Has3G    bool
	Has4G    bool
}

// Report counts what happened to the input rows.
type Report struct {
	Accepted int
	Skipped  int // blank rows
	Rejected int // rows failing validation
}

var expectedHeader = []string{"Operateur", "x", "y", "2G", "3G", "4G"}

// ReadCSV parses and validates the site inventory. Invalid rows are counted
// and dropped, they never abort the whole file.
func ReadCSV(r io.Reader) ([]SiteRecord, *Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, nil, err
	}

	var (
		records []SiteRecord
		report  Report
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		if isBlank(row) {
			report.Skipped++
			continue
		}

		rec, ok := parseRow(row)
		if !ok {
			report.Rejected++
			continue
		}

		records = append(records, rec)
		report.Accepted++
	}

	return records, &report, nil
}

func checkHeader(header []string) error {
	if len(header) < len(expectedHeader) {
		return fmt.Errorf("unexpected CSV header: %v", header)
	}
	for i, want := range expectedHeader {
		if strings.TrimSpace(header[i]) != want {
			return fmt.Errorf("unexpected CSV header column %d: got %q, want %q", i, header[i], want)
		}
	}
	return nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string) (SiteRecord, bool) {
	if len(row) < 6 {
		return SiteRecord{}, false
	}

	op, err := domain.ParseOperator(strings.TrimSpace(row[0]))
	if err != nil {
		return SiteRecord{}, false
	}

	x, errX := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if errX != nil || errY != nil {
		return SiteRecord{}, false
	}

	has2g, ok2 := parseFlag(row[3])
	has3g, ok3 := parseFlag(row[4])
	has4g, ok4 := parseFlag(row[5])
	if !ok2 || !ok3 || !ok4 {
		return SiteRecord{}, false
	}

	return SiteRecord{
		Operator: op,
		X:        x,
		Y:        y,
		Has2G:    has2g,
		Has3G:    has3g,
		Has4G:    has4g,
	}, true
}

// parseFlag accepts exactly "0" or "1", matching the source file format.
func parseFlag(s string) (bool, bool) {
	switch strings.TrimSpace(s) {
	case "0":
		return false, true
	case "1":
		return true, true
	default:
		return false, false
	}
}
