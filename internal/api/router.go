// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Package api provides HTTP routing for the analytics service using
// the chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storesight/storesight/internal/config"
	"github.com/storesight/storesight/internal/dataset"
)

// Router assembles middleware and handlers into the service's HTTP
// surface.
type Router struct {
	cfg     *config.Config
	handler *Handler
}

// NewRouter builds the router for the given configuration and dataset
// repository.
func NewRouter(cfg *config.Config, repo *dataset.Repository) *Router {
	return &Router{
		cfg:     cfg,
		handler: NewHandler(cfg, repo),
	}
}

// Setup wires all routes and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(router.cfg.Security))
	r.Use(RequestLogging)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(router.cfg.Security))
		r.Use(PrometheusMetrics)

		r.Get("/health", router.handler.Health)

		r.Route("/data", func(r chi.Router) {
			r.Post("/load", router.handler.DataLoad)
			r.Post("/upload", router.handler.DataUpload)
			r.Get("/overview", router.handler.DataOverview)
		})

		r.Post("/recommendations", router.handler.Recommendations)
		r.Post("/promotions", router.handler.Promotions)
		r.Post("/promotions/associations", router.handler.Associations)
		r.Post("/forecast", router.handler.Forecast)
		r.Post("/clusters", router.handler.Clusters)
		r.Post("/export", router.handler.Export)
	})

	// Prometheus scrape endpoint, outside the API rate limits.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
