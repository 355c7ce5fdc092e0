// Package metrics exposes the prometheus collectors for uploads and saves.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	// Uploads counts individual image uploads by result (ok|error).
	Uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "productadder",
		Name:      "image_uploads_total",
		Help:      "Image uploads by result.",
	}, []string{"result"})

	// Saves counts save attempts by outcome (ok|validation|codec|upload|build|store).
	Saves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "productadder",
		Name:      "product_saves_total",
		Help:      "Product save attempts by outcome.",
	}, []string{"outcome"})

	SaveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "productadder",
		Name:      "product_save_seconds",
		Help:      "Duration of save attempts that passed validation, whatever their outcome.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})
)

func init() {
	Registry.MustRegister(
		Uploads, Saves, SaveDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
