/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The table payload
  itself is table.Table (columns + rows) since the grid widget consumes it
  as-is; everything else is wrapped here so store types stay internal.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Small response wrappers

SEE ALSO:
  - handlers.go: Uses these types
  - table/table.go: Table payload
*/
package api

import (
	"time"

	"github.com/warp/utilisation-board/store"
)

// DatasetDTO represents a stored dataset in API responses.
type DatasetDTO struct {
	Name      string `json:"name"`
	Records   int    `json:"records"`
	UpdatedAt string `json:"updated_at"`
}

func toDatasetDTO(info store.DatasetInfo) DatasetDTO {
	return DatasetDTO{
		Name:      info.Name,
		Records:   info.Records,
		UpdatedAt: info.UpdatedAt.Format(time.RFC3339),
	}
}

// ImportResponse is returned after a dataset has been replaced.
type ImportResponse struct {
	Dataset DatasetDTO `json:"dataset"`
	Kept    int        `json:"kept"`
	Dropped int        `json:"dropped"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
