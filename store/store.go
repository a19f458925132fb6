/*
Package store defines persistence for named source datasets.

PURPOSE:
  The board renders a dataset: an ordered list of source records under a
  name ("default", "q3-externals", ...). Datasets are imported whole and
  replaced whole; single records are never edited in place.

CONTRACT:
  - Replace(): create or overwrite a dataset atomically
  - Records(): read a dataset back in insertion order
  - List():    dataset metadata sorted by name
  - Delete():  drop a dataset

NAMES:
  1-64 characters of [a-z0-9_-]. Anything else is ErrInvalidName.

IMPLEMENTATIONS:
  - store/sqlite: SQLite (file or ":memory:")
  - store/memory: In-memory, for tests and ephemeral runs

SEE ALSO:
  - dataset/dataset.go: Decoding documents before Replace
  - api/handlers.go: HTTP import/delete endpoints
*/
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/warp/utilisation-board/workforce"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDatasetNotFound is returned when the named dataset does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrInvalidName is returned for dataset names outside [a-z0-9_-]{1,64}.
	ErrInvalidName = errors.New("invalid dataset name")
)

// DefaultDataset is the dataset the board shows when none is requested.
const DefaultDataset = "default"

// =============================================================================
// STORE
// =============================================================================

// Store persists named datasets.
type Store interface {
	// Replace stores records under name, overwriting any previous content.
	Replace(ctx context.Context, name string, records []workforce.SourceRecord) error

	// Records returns the records of name in insertion order.
	Records(ctx context.Context, name string) ([]workforce.SourceRecord, error)

	// List returns metadata for all datasets, sorted by name.
	List(ctx context.Context) ([]DatasetInfo, error)

	// Delete removes name.
	Delete(ctx context.Context, name string) error

	Close() error
}

// DatasetInfo describes a stored dataset.
type DatasetInfo struct {
	Name      string
	Records   int
	UpdatedAt time.Time
}

var namePattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidateName checks a dataset name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
