package ratings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Level is the categorical strength adjustment attached to each team line.
type Level string

const (
	LevelHigh       Level = "H"
	LevelMediumHigh Level = "MH"
	LevelMedium     Level = "M"
	LevelLow        Level = "L"
)

var (
	// ErrNoGroup is returned for a team line that appears before any group header.
	ErrNoGroup = errors.New("team listed before a group header")
	// ErrMalformedLine is returned for a line that is neither a header nor a team line.
	ErrMalformedLine = errors.New("expected <name> <scored> <conceded> <matches> <level>")
	// ErrNoMatches is returned when a team has played no matches.
	ErrNoMatches = errors.New("matches must be positive")
)

// ParseError pinpoints the input line that failed to parse.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Record is one team's raw results, before rescaling.
type Record struct {
	Name     string
	Group    string
	Scored   float64
	Conceded float64
	Matches  float64
	Level    Level
}

// Parse reads the raw results format: paragraphs headed "Group X", each followed by
// team lines "<name words...> <scored> <conceded> <matches> <level>".
func Parse(r io.Reader) ([]Record, error) {
	var (
		records []Record
		group   string
		lineNo  int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) == 2 && strings.EqualFold(fields[0], "group") {
			group = fields[1]
			continue
		}
		if len(fields) < 5 {
			return nil, &ParseError{Line: lineNo, Text: text, Err: ErrMalformedLine}
		}
		if group == "" {
			return nil, &ParseError{Line: lineNo, Text: text, Err: ErrNoGroup}
		}

		n := len(fields)
		nums := make([]float64, 3)
		for i, raw := range fields[n-4 : n-1] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ParseError{Line: lineNo, Text: text, Err: ErrMalformedLine}
			}
			nums[i] = v
		}
		if nums[2] == 0 {
			return nil, &ParseError{Line: lineNo, Text: text, Err: ErrNoMatches}
		}

		records = append(records, Record{
			Name:     strings.Join(fields[:n-4], " "),
			Group:    group,
			Scored:   nums[0],
			Conceded: nums[1],
			Matches:  nums[2],
			Level:    Level(strings.ToUpper(fields[n-1])),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return records, nil
}
