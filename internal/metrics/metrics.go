// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Package metrics exposes Prometheus instrumentation for the HTTP API,
// the analytics engines and the loaded dataset.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storesight_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storesight_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Analytics engine metrics
	AnalyticsCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storesight_analytics_calls_total",
			Help: "Total analytics engine invocations",
		},
		[]string{"engine", "outcome"}, // outcome: "success", "error"
	)

	AnalyticsCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storesight_analytics_call_duration_seconds",
			Help:    "Analytics engine call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	ForecastModelSelected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storesight_forecast_model_selected_total",
			Help: "Forecast model chosen by holdout validation",
		},
		[]string{"model"},
	)

	// Dataset metrics
	DatasetRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storesight_dataset_records",
			Help: "Transaction rows in the current dataset snapshot",
		},
	)

	DatasetLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storesight_dataset_loads_total",
			Help: "Dataset load attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAnalyticsCall records one analytics engine invocation.
func RecordAnalyticsCall(engine string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	AnalyticsCallsTotal.WithLabelValues(engine, outcome).Inc()
	AnalyticsCallDuration.WithLabelValues(engine).Observe(duration.Seconds())
}
