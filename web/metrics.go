package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placetiles_requests_total",
		Help: "Total number of tile requests by tiling scheme and response status",
	}, []string{"scheme", "status"})
	requestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "placetiles_request_duration_ms",
		Help:    "Tile request duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 20, 50, 100, 200, 500},
	}, []string{"scheme"})
	emptyTilesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placetiles_empty_tiles_total",
		Help: "Total number of tile responses without any point",
	})
	pointsPerTile = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "placetiles_points_per_tile",
		Help:    "Number of points returned per tile",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
	})
	cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placetiles_cache_hits_total",
		Help: "Total tile cache hits",
	})
	cacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placetiles_cache_misses_total",
		Help: "Total tile cache misses",
	})
	cacheErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placetiles_cache_errors_total",
		Help: "Total failed tile cache reads and writes",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDurationMs)
	prometheus.MustRegister(emptyTilesTotal)
	prometheus.MustRegister(pointsPerTile)
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(cacheMissesTotal)
	prometheus.MustRegister(cacheErrorsTotal)
}

func metricsHandler() http.Handler { return promhttp.Handler() }
