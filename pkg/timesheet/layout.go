package timesheet

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Columns maps the timesheet fields to their header names in the source.
type Columns struct {
	Date   string `yaml:"date"`
	Client string `yaml:"client"`
	Hours  string `yaml:"hours"`
	Rate   string `yaml:"rate"`
}

// Layout describes how a timesheet source is laid out: which sheet to
// read, which headers carry which field, and the accepted date formats.
type Layout struct {
	Sheet       string   `yaml:"sheet"`
	Columns     Columns  `yaml:"columns"`
	DateFormats []string `yaml:"date_formats"`
}

// DefaultLayout returns the layout used when no mapping file is configured.
func DefaultLayout() *Layout {
	return &Layout{
		Sheet: "Sheet1",
		Columns: Columns{
			Date:   "Date",
			Client: "Client",
			Hours:  "Hours",
			Rate:   "Rate",
		},
		DateFormats: []string{"2006-01-02"},
	}
}

// LoadLayout loads a column mapping from a YAML configuration file.
// Missing fields fall back to the defaults.
func LoadLayout(configPath string) (*Layout, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	layout := DefaultLayout()
	if err := yaml.Unmarshal(data, layout); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(layout.DateFormats) == 0 {
		layout.DateFormats = DefaultLayout().DateFormats
	}

	return layout, nil
}

// columnIndexes resolves the header row into field positions.
// Header matching is case-insensitive and ignores surrounding whitespace.
// The rate column is optional; every other column is required.
func (l *Layout) columnIndexes(header []string) (map[string]int, error) {
	idx := make(map[string]int)
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	fields := map[string]string{
		fieldDate:   l.Columns.Date,
		fieldClient: l.Columns.Client,
		fieldHours:  l.Columns.Hours,
		fieldRate:   l.Columns.Rate,
	}

	result := make(map[string]int, len(fields))
	for field, headerName := range fields {
		i, ok := idx[strings.ToLower(headerName)]
		if !ok {
			if field == fieldRate {
				continue
			}
			return nil, fmt.Errorf("missing required column %q in header", headerName)
		}
		result[field] = i
	}

	return result, nil
}

const (
	fieldDate   = "date"
	fieldClient = "client"
	fieldHours  = "hours"
	fieldRate   = "rate"
)
