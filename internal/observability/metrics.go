package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estat_requests_total",
			Help: "getStatsData requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	RecordsFetchedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "estat_records_fetched_total",
			Help: "Records accumulated from getStatsData pages",
		},
	)
	DownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kakei_downloads_total",
			Help: "Item downloads by outcome (saved, empty, failed)",
		},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(APIRequestsTotal, RecordsFetchedTotal, DownloadsTotal)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
