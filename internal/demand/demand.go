// Package demand loads, writes and generates rider demand scenarios. A
// scenario is a CSV file with a header row followed by one
// timestamp,source_floor,destination_floor row per rider.
package demand

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidRequest wraps every validation failure reported by Parse.
var ErrInvalidRequest = errors.New("invalid request")

// ErrUnknownKind is returned by Generate for a generator name outside Kinds.
var ErrUnknownKind = errors.New("unknown scenario kind")

// Header is the first row of every scenario file.
var Header = []string{"timestamp", "source_floor", "destination_floor"}

// Request is one rider calling the elevator. Riders are numbered in file
// order starting at 0.
type Request struct {
	Rider       int     `json:"rider"`
	TS          float64 `json:"ts"`
	Source      int     `json:"source_floor"`
	Destination int     `json:"destination_floor"`
}

// Load reads and validates the scenario at path. See Parse.
func Load(path string, maxFloor int) ([]Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()

	reqs, err := Parse(f, maxFloor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reqs, nil
}

// Parse reads a scenario. Floors must be at least 1 and, when maxFloor is
// positive, no higher than maxFloor. Timestamps must be non-negative and
// must not go backwards.
func Parse(r io.Reader, maxFloor int) ([]Request, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrInvalidRequest)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var reqs []Request
	lastTS := 0.0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		line, _ := cr.FieldPos(0)

		req, err := parseRow(row, len(reqs))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRequest, line, err)
		}

		switch {
		case req.TS < 0:
			return nil, fmt.Errorf("%w: line %d: timestamp %v is negative", ErrInvalidRequest, line, req.TS)
		case req.TS < lastTS:
			return nil, fmt.Errorf("%w: line %d: timestamp %v is before previous %v", ErrInvalidRequest, line, req.TS, lastTS)
		case req.Source < 1 || req.Destination < 1:
			return nil, fmt.Errorf("%w: line %d: floors must be at least 1", ErrInvalidRequest, line)
		case maxFloor > 0 && (req.Source > maxFloor || req.Destination > maxFloor):
			return nil, fmt.Errorf("%w: line %d: floor exceeds max floor %d", ErrInvalidRequest, line, maxFloor)
		}

		lastTS = req.TS
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func parseRow(row []string, rider int) (Request, error) {
	ts, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
	if err != nil {
		return Request{}, fmt.Errorf("bad timestamp %q", row[0])
	}
	src, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return Request{}, fmt.Errorf("bad source floor %q", row[1])
	}
	dst, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return Request{}, fmt.Errorf("bad destination floor %q", row[2])
	}
	return Request{Rider: rider, TS: ts, Source: src, Destination: dst}, nil
}

// MaxFloor returns the highest floor any request touches, or 0.
func MaxFloor(reqs []Request) int {
	m := 0
	for _, r := range reqs {
		m = max(m, r.Source, r.Destination)
	}
	return m
}

// Write emits reqs in scenario format, header included.
func Write(w io.Writer, reqs []Request) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range reqs {
		row := []string{
			strconv.FormatFloat(r.TS, 'f', -1, 64),
			strconv.Itoa(r.Source),
			strconv.Itoa(r.Destination),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes reqs to path, creating or truncating it.
func WriteFile(path string, reqs []Request) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating scenario: %w", err)
	}
	if err := Write(f, reqs); err != nil {
		f.Close()
		return fmt.Errorf("writing scenario: %w", err)
	}
	return f.Close()
}
