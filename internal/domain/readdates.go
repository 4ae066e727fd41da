package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ReadDates is the ordered list of days (YYYY-MM-DD) a book was read.
//
// Older documents store a single date string instead of a list, so decoding
// accepts a scalar, a sequence or null. Encoding always produces a sequence.
type ReadDates []string

// Contains reports whether date is already recorded.
func (d ReadDates) Contains(date string) bool {
	for _, v := range d {
		if v == date {
			return true
		}
	}
	return false
}

// Add appends date unless it is already present. It returns false for duplicates.
func (d *ReadDates) Add(date string) bool {
	if d.Contains(date) {
		return false
	}
	*d = append(*d, date)
	return true
}

// Display flattens the dates for a table cell.
func (d ReadDates) Display() string {
	if len(d) == 0 {
		return "-"
	}
	return strings.Join(d, ", ")
}

// AnyWithin reports whether at least one date lies in [from, to].
// Malformed entries never match.
func (d ReadDates) AnyWithin(from, to time.Time) bool {
	for _, raw := range d {
		day, err := ParseDate(raw)
		if err != nil {
			continue
		}
		if !day.Before(from) && !day.After(to) {
			return true
		}
	}
	return false
}

func (d ReadDates) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(d))
}

func (d *ReadDates) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*d = ReadDates{}
		return nil
	case data[0] == '"':
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return fmt.Errorf("failed to decode read date: %w", err)
		}
		*d = fromScalar(single)
		return nil
	default:
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("failed to decode read dates: %w", err)
		}
		*d = ReadDates(list)
		return nil
	}
}

func (d *ReadDates) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			*d = ReadDates{}
			return nil
		}
		*d = fromScalar(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("failed to decode read dates: %w", err)
		}
		*d = ReadDates(list)
		return nil
	default:
		return fmt.Errorf("read dates: unexpected yaml node kind %d at line %d", node.Kind, node.Line)
	}
}

func fromScalar(s string) ReadDates {
	s = strings.TrimSpace(s)
	if s == "" {
		return ReadDates{}
	}
	return ReadDates{s}
}
