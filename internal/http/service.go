package http

import (
	"context"

	"kakeistat/internal/catalog"
	"kakeistat/internal/download"
	"kakeistat/internal/stats"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// DownloadService is implemented by *download.Service.
type DownloadService interface {
	Search(keyword string) []catalog.Item
	Item(code string) (catalog.Item, error)
	Count(ctx context.Context, code string) (int, error)
	Table(ctx context.Context, code string) (catalog.Item, stats.Table, error)
	DownloadSelection(ctx context.Context, codes []string) download.Batch
}
