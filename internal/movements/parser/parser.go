// Package parser extracts aircraft movements from raw tower log files.
//
// The input is a fixed-position ".dat" export: one movement per line, with the
// registration and aircraft type at fixed byte offsets and the rest anchored
// around the flight-rule marker (IV = IFR, VV = VFR). Malformed fields never
// drop a line; whatever could be extracted is kept and the rest stays at its
// default value.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/aeromov/movements-backend/internal/movements/domain"
)

const (
	// Lines shorter than this carry headers or separators, not movements.
	minLineLength = 50
	// Station self-report prefix, never a movement.
	stationPrefix = "SBIZAIZ0"

	// Longest line the scanner accepts. Equal to the HTTP upload size cap;
	// a single line can never legitimately exceed the whole file bound.
	maxLineBytes = 32 << 20

	regStart  = 15
	regEnd    = 22
	typeStart = 22
	typeEnd   = 27
	dateStart = 9
	dateEnd   = 15
	destStart = 27
)

var (
	reOperator = regexp.MustCompile(`\S+$`)
	reRule     = regexp.MustCompile(`IV|VV`)
	reRunway   = regexp.MustCompile(`\d{2}`)
	reTime     = regexp.MustCompile(`\d{4}`)
)

// Parse reads a movement log line by line and returns every extracted record.
// An empty slice is a valid result; the only error is a read failure.
func Parse(r io.Reader) ([]domain.Movement, error) {
	records := []domain.Movement{}

	scanner := bufio.NewScanner(r)
	// The line cap matches the HTTP upload size bound, so no accepted file
	// can fail the scan on line length alone.
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if rec, ok := ParseLine(scanner.Text()); ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read movement log: %w", err)
	}

	return records, nil
}

// ParseLine extracts a single movement. The second return value is false when
// the line is a header, separator or station self-report and carries no record.
func ParseLine(line string) (domain.Movement, bool) {
	line = strings.TrimSpace(line)
	if len(line) <= minLineLength || strings.HasPrefix(line, stationPrefix) {
		return domain.Movement{}, false
	}

	rec := domain.Movement{
		Registration: domain.FieldAbsent,
		AircraftType: domain.FieldAbsent,
		Destination:  domain.FieldAbsent,
		FlightRule:   domain.FieldAbsent,
		Runway:       "",
		Operator:     domain.FieldAbsent,
	}

	if op := reOperator.FindString(line); op != "" {
		rec.Operator = op
	}

	rec.Registration = sliceField(line, regStart, regEnd)
	rec.AircraftType = sliceField(line, typeStart, typeEnd)

	loc := reRule.FindStringIndex(line)
	if loc == nil {
		return rec, true
	}

	switch line[loc[0]:loc[1]] {
	case "IV":
		rec.FlightRule = domain.RuleIFR
	case "VV":
		rec.FlightRule = domain.RuleVFR
	}

	afterRule := line[loc[1]:]
	rec.Runway = reRunway.FindString(afterRule)

	beforeRule := line[:loc[0]]
	times := reTime.FindAllString(beforeRule, -1)
	if len(times) == 0 {
		return rec, true
	}

	depTime := times[len(times)-1]
	timeIndex := strings.LastIndex(beforeRule, depTime)

	if timeIndex > destStart {
		if dest := strings.TrimSpace(line[destStart:timeIndex]); dest != "" {
			rec.Destination = dest
		}
	}

	// Date at a fixed offset (ddmmyy) plus the departure time (HHMM). A bad
	// date leaves the timestamp nil without discarding the record.
	if ts, err := time.Parse("0201061504", line[dateStart:dateEnd]+depTime); err == nil {
		utc := ts.UTC()
		rec.Timestamp = &utc
	}

	return rec, true
}

func sliceField(line string, start, end int) string {
	if len(line) < end {
		end = len(line)
	}
	if start >= end {
		return ""
	}
	return strings.TrimSpace(line[start:end])
}
