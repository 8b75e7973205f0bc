package download

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"kakeistat/internal/catalog"
	"kakeistat/internal/export"
	"kakeistat/internal/observability"
	"kakeistat/internal/platform/estat"
	"kakeistat/internal/stats"
)

type Service struct {
	client  StatsClient
	catalog *catalog.Catalog
	saveDir string
}

func NewService(client StatsClient, cat *catalog.Catalog, saveDir string) *Service {
	return &Service{
		client:  client,
		catalog: cat,
		saveDir: saveDir,
	}
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Search returns catalog items whose display name contains keyword.
func (s *Service) Search(keyword string) []catalog.Item {
	return s.catalog.Search(keyword)
}

func (s *Service) Item(code string) (catalog.Item, error) {
	return s.catalog.Item(code)
}

// Filter selects item together with the default household and area.
func (s *Service) Filter(item catalog.Item) estat.Filter {
	f := estat.Filter{"item": item.Code}
	if h, ok := s.catalog.DefaultHousehold(); ok {
		f["household"] = h.Code
	}
	if a, ok := s.catalog.DefaultArea(); ok {
		f["area"] = a.Code
	}
	return f
}

// Count returns the number of rows a download of code would produce.
func (s *Service) Count(ctx context.Context, code string) (int, error) {
	item, err := s.catalog.Item(code)
	if err != nil {
		return 0, err
	}
	return s.client.Count(ctx, s.catalog.StatsDataID, s.Filter(item))
}

// Table fetches, normalizes and labels the data for one item.
func (s *Service) Table(ctx context.Context, code string) (catalog.Item, stats.Table, error) {
	item, err := s.catalog.Item(code)
	if err != nil {
		return catalog.Item{}, stats.Table{}, err
	}
	records, err := s.client.Fetch(ctx, s.catalog.StatsDataID, s.Filter(item))
	if err != nil {
		return item, stats.Table{}, err
	}
	table := stats.Normalize(records)
	if table.Empty() {
		return item, table, nil
	}
	return item, stats.Translate(table, s.catalog.LabelSpecs(item)...), nil
}

// Download saves one item as CSV. An item without data is reported as
// Empty and no file is written.
func (s *Service) Download(ctx context.Context, code string) (Result, error) {
	res := Result{Code: code}

	item, table, err := s.Table(ctx, code)
	res.DisplayName = item.Label()
	if err != nil {
		observability.DownloadsTotal.WithLabelValues("failed").Inc()
		return res, err
	}
	if table.Empty() {
		res.Empty = true
		observability.DownloadsTotal.WithLabelValues("empty").Inc()
		return res, nil
	}

	path, err := export.SaveCSV(s.saveDir, item.Label(), table)
	if err != nil {
		observability.DownloadsTotal.WithLabelValues("failed").Inc()
		return res, err
	}
	res.Rows = table.Len()
	res.Path = path
	observability.DownloadsTotal.WithLabelValues("saved").Inc()
	return res, nil
}

// DownloadSelection downloads each code in order. A failing item is
// recorded in its Result and does not stop the rest of the batch.
func (s *Service) DownloadSelection(ctx context.Context, codes []string) Batch {
	batch := Batch{
		ID:        uuid.NewString(),
		Results:   make([]Result, 0, len(codes)),
		StartedAt: time.Now(),
	}

	for _, code := range codes {
		if ctx.Err() != nil {
			batch.Results = append(batch.Results, Result{Code: code, Error: ctx.Err().Error()})
			batch.Failed++
			continue
		}

		res, err := s.Download(ctx, code)
		switch {
		case err != nil:
			res.Error = err.Error()
			batch.Failed++
			log.Printf("download batch=%s code=%s error=%v", batch.ID, code, err)
		case res.Empty:
			log.Printf("download batch=%s code=%s empty", batch.ID, code)
		default:
			batch.Saved++
			log.Printf("download batch=%s code=%s rows=%d path=%s", batch.ID, code, res.Rows, res.Path)
		}
		batch.Results = append(batch.Results, res)
	}

	batch.FinishedAt = time.Now()
	return batch
}
