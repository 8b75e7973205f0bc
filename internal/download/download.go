// Package download ties the catalog, the e-Stat client and the CSV writer
// together for front-ends.
package download

import (
	"context"
	"time"

	"kakeistat/internal/platform/estat"
)

// StatsClient is the subset of *estat.Client the service needs.
type StatsClient interface {
	Count(ctx context.Context, statsDataID string, f estat.Filter) (int, error)
	Fetch(ctx context.Context, statsDataID string, f estat.Filter) ([]estat.Record, error)
}

// Result reports one item download. Path is empty when nothing was written.
type Result struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name,omitempty"`
	Rows        int    `json:"rows"`
	Path        string `json:"path,omitempty"`
	Empty       bool   `json:"empty"`
	Error       string `json:"error,omitempty"`
}

// Batch is the outcome of downloading a selection of items.
type Batch struct {
	ID         string    `json:"id"`
	Results    []Result  `json:"results"`
	Saved      int       `json:"saved"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
