package domain

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestReadDatesUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "sequence", input: `["2024-01-05","2024-06-01"]`, expected: []string{"2024-01-05", "2024-06-01"}},
		{name: "single string", input: `"2024-01-05"`, expected: []string{"2024-01-05"}},
		{name: "empty string", input: `""`, expected: []string{}},
		{name: "null", input: `null`, expected: []string{}},
		{name: "empty sequence", input: `[]`, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				ReadDates ReadDates `json:"readDates"`
			}
			if err := json.Unmarshal([]byte(`{"readDates":`+tt.input+`}`), &doc); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(doc.ReadDates) != len(tt.expected) {
				t.Fatalf("got %v, want %v", doc.ReadDates, tt.expected)
			}
			for i := range tt.expected {
				if doc.ReadDates[i] != tt.expected[i] {
					t.Errorf("ReadDates[%d] = %q, want %q", i, doc.ReadDates[i], tt.expected[i])
				}
			}
		})
	}
}

func TestReadDatesUnmarshalJSONRejectsObjects(t *testing.T) {
	var d ReadDates
	if err := json.Unmarshal([]byte(`{"a":1}`), &d); err == nil {
		t.Error("expected error for object input")
	}
}

func TestReadDatesMarshalNilAsEmptyList(t *testing.T) {
	data, err := json.Marshal(struct {
		ReadDates ReadDates `json:"readDates"`
	}{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"readDates":[]}` {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestReadDatesUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "sequence", input: "readDates:\n  - 2024-01-05\n  - \"2024-06-01\"\n", expected: []string{"2024-01-05", "2024-06-01"}},
		{name: "scalar", input: "readDates: 2024-01-05\n", expected: []string{"2024-01-05"}},
		{name: "null", input: "readDates: ~\n", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				ReadDates ReadDates `yaml:"readDates"`
			}
			if err := yaml.Unmarshal([]byte(tt.input), &doc); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(doc.ReadDates) != len(tt.expected) {
				t.Fatalf("got %v, want %v", doc.ReadDates, tt.expected)
			}
			for i := range tt.expected {
				if doc.ReadDates[i] != tt.expected[i] {
					t.Errorf("ReadDates[%d] = %q, want %q", i, doc.ReadDates[i], tt.expected[i])
				}
			}
		})
	}
}

func TestReadDatesAddDeduplicates(t *testing.T) {
	var d ReadDates
	if !d.Add("2024-01-05") {
		t.Fatal("first Add() should report true")
	}
	if d.Add("2024-01-05") {
		t.Error("second Add() of the same date should report false")
	}
	if len(d) != 1 {
		t.Errorf("len = %d, want 1", len(d))
	}
}

func TestReadDatesAnyWithin(t *testing.T) {
	day := func(s string) time.Time {
		t.Helper()
		v, err := ParseDate(s)
		if err != nil {
			t.Fatalf("ParseDate(%q) error = %v", s, err)
		}
		return v
	}

	dates := ReadDates{"2024-01-05", "2024-06-01"}

	tests := []struct {
		name     string
		dates    ReadDates
		from, to string
		expected bool
	}{
		{name: "january covers first read", dates: dates, from: "2024-01-01", to: "2024-01-31", expected: true},
		{name: "february covers nothing", dates: dates, from: "2024-02-01", to: "2024-02-28", expected: false},
		{name: "bounds are inclusive", dates: dates, from: "2024-06-01", to: "2024-06-01", expected: true},
		{name: "malformed entries are skipped", dates: ReadDates{"05.01.2024", "garbage", "2024-01-05"}, from: "2024-01-01", to: "2024-01-31", expected: true},
		{name: "only malformed entries", dates: ReadDates{"garbage"}, from: "2000-01-01", to: "2100-01-01", expected: false},
		{name: "no dates", dates: nil, from: "2000-01-01", to: "2100-01-01", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dates.AnyWithin(day(tt.from), day(tt.to)); got != tt.expected {
				t.Errorf("AnyWithin() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestReadDatesDisplay(t *testing.T) {
	if got := (ReadDates{}).Display(); got != "-" {
		t.Errorf("Display() of empty = %q, want \"-\"", got)
	}
	if got := (ReadDates{"2024-01-05", "2024-06-01"}).Display(); got != "2024-01-05, 2024-06-01" {
		t.Errorf("Display() = %q", got)
	}
}
