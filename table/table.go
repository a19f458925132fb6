/*
Package table assembles the payload handed to the grid widget.

PURPOSE:
  The grid widget owns sorting, pagination and rendering. It only needs
  column descriptors (accessor key + header label) and the rows. This package
  defines the fixed column set, lets deployments relabel headers from a YAML
  file, and packs columns and rows into one Table value.

COLUMNS FILE:
  headers:
    person: Mitarbeiter
    netEarningsPrevMonth: Netto Vormonat

  Only labels change. Keys must be known columns and the order is fixed.

SEE ALSO:
  - workforce/transform.go: Produces the rows
  - api/handlers.go: Serves the Table as JSON
*/
package table

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/warp/utilisation-board/workforce"
	"gopkg.in/yaml.v3"
)

// ErrUnknownColumn is returned when a columns file names a key the board does not have.
var ErrUnknownColumn = errors.New("unknown column")

// Column describes one grid column.
type Column struct {
	AccessorKey string `json:"accessorKey" yaml:"accessorKey"`
	Header      string `json:"header" yaml:"header"`
}

// DefaultColumns returns the board's columns in display order.
func DefaultColumns() []Column {
	return []Column{
		{AccessorKey: "person", Header: "Person"},
		{AccessorKey: "past12Months", Header: "Past 12 Months"},
		{AccessorKey: "y2d", Header: "Y2D"},
		{AccessorKey: "may", Header: "May"},
		{AccessorKey: "june", Header: "June"},
		{AccessorKey: "july", Header: "July"},
		{AccessorKey: "netEarningsPrevMonth", Header: "Net Earnings Prev Month"},
	}
}

type columnsFile struct {
	Headers map[string]string `yaml:"headers"`
}

// ParseColumns applies a YAML header override to the default columns.
func ParseColumns(data []byte) ([]Column, error) {
	var f columnsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse columns: %w", err)
	}

	cols := DefaultColumns()
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c.AccessorKey] = i
	}
	for key, header := range f.Headers {
		i, ok := index[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
		}
		if header != "" {
			cols[i].Header = header
		}
	}
	return cols, nil
}

// LoadColumns reads a columns file. An empty path yields DefaultColumns.
func LoadColumns(path string) ([]Column, error) {
	if path == "" {
		return DefaultColumns(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns file: %w", err)
	}
	cols, err := ParseColumns(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cols, nil
}

// =============================================================================
// TABLE PAYLOAD
// =============================================================================

// Table is what the grid widget is constructed from.
type Table struct {
	Dataset       string                 `json:"dataset"`
	Columns       []Column               `json:"columns"`
	Rows          []workforce.DisplayRow `json:"rows"`
	PreviousMonth string                 `json:"previousMonth"`
	GeneratedAt   time.Time              `json:"generatedAt"`
	Dropped       int                    `json:"dropped"`
}

// Build packs a transformation report into a Table.
func Build(name string, columns []Column, report workforce.Report, now time.Time) Table {
	rows := report.Rows
	if rows == nil {
		rows = []workforce.DisplayRow{}
	}
	return Table{
		Dataset:       name,
		Columns:       columns,
		Rows:          rows,
		PreviousMonth: report.PreviousMonth,
		GeneratedAt:   now.UTC(),
		Dropped:       len(report.Skipped),
	}
}
