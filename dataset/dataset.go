/*
Package dataset decodes source documents into workforce records.

PURPOSE:
  The board is fed a JSON array of person records, each wrapped in an
  "employees" or "externals" envelope. This package turns such documents
  into []workforce.SourceRecord and back, and ships a bundled sample
  document so the server has something to show out of the box.

JSON SCHEMA:
  [
    {"employees": {
        "firstname": "Ada", "lastname": "Lovelace",
        "statusAggregation": {"status": "Aktiv"},
        "workforceUtilisation": {
          "utilisationRateOverall": "0.82",
          "utilisationRateYearToDate": "0.78",
          "lastThreeMonthsIndividually": [{"month": "May", "utilisationRate": "0.75"}]
        },
        "costsByMonth": {"potentialEarningsByMonth": [{"month": "2026-09", "costs": "11200.50"}]}
    }},
    {"externals": {
        "firstname": "Grace", "lastname": "Hopper", "status": "active",
        "workforceUtilisation": {...},
        "costsByMonth": {"costsByMonth": [{"month": "2026-09", "costs": "8700"}]}
    }}
  ]

  Unknown fields (ids, departments, ...) are ignored.

SEE ALSO:
  - workforce/types.go: Record types
  - store/sqlite/sqlite.go: Stores records encoded by Encode
*/
package dataset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/warp/utilisation-board/workforce"
)

// ErrInvalidDocument is returned when a document is not a JSON array of records.
var ErrInvalidDocument = errors.New("invalid source document")

//go:embed sample.json
var sample []byte

// DecodeBytes parses a source document.
func DecodeBytes(data []byte) ([]workforce.SourceRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrInvalidDocument)
	}

	var records []workforce.SourceRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if records == nil {
		records = []workforce.SourceRecord{}
	}
	return records, nil
}

// Decode reads a whole source document from r.
func Decode(r io.Reader) ([]workforce.SourceRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return DecodeBytes(data)
}

// LoadFile decodes the document at path.
func LoadFile(path string) ([]workforce.SourceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	records, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Sample returns the bundled sample records.
func Sample() []workforce.SourceRecord {
	records, err := DecodeBytes(sample)
	if err != nil {
		// sample.json is compiled in; a decode failure is a build defect.
		panic(fmt.Sprintf("dataset: bundled sample is invalid: %v", err))
	}
	return records
}

// Encode serializes records in the source document shape.
func Encode(records []workforce.SourceRecord) ([]byte, error) {
	if records == nil {
		records = []workforce.SourceRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return data, nil
}

// EncodeRecord serializes a single record.
func EncodeRecord(record workforce.SourceRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a single record produced by EncodeRecord.
func DecodeRecord(data []byte) (workforce.SourceRecord, error) {
	var record workforce.SourceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return workforce.SourceRecord{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return record, nil
}
