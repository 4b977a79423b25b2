package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestDuration observes HTTP handling time per route pattern and status.
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bikeflow_http_request_duration_seconds",
		Help:    "Time spent serving HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})

	// AggregationDuration observes one filter+aggregate pass.
	AggregationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bikeflow_aggregation_duration_seconds",
		Help:    "Time spent filtering trips and aggregating station traffic",
		Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"filtered"})

	// MarkerCache counts marker cache lookups by result.
	MarkerCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bikeflow_marker_cache_total",
		Help: "Marker cache lookups",
	}, []string{"result"})

	// LoadDuration observes fetch+parse time per dataset source.
	LoadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bikeflow_source_load_duration_seconds",
		Help:    "Time spent fetching and parsing a dataset source",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"source"})

	// DatasetStations is the number of stations currently served.
	DatasetStations = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bikeflow_dataset_stations",
		Help: "Stations in the loaded dataset",
	})

	// DatasetTrips is the number of trips currently served.
	DatasetTrips = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bikeflow_dataset_trips",
		Help: "Trips in the loaded dataset",
	})
)

func init() {
	prometheus.MustRegister(
		RequestDuration,
		AggregationDuration,
		MarkerCache,
		LoadDuration,
		DatasetStations,
		DatasetTrips,
	)
}
