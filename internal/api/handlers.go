// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/storesight/storesight/internal/analytics/cluster"
	"github.com/storesight/storesight/internal/analytics/forecast"
	"github.com/storesight/storesight/internal/analytics/promotion"
	"github.com/storesight/storesight/internal/analytics/recommend"
	"github.com/storesight/storesight/internal/config"
	"github.com/storesight/storesight/internal/dataset"
	"github.com/storesight/storesight/internal/logging"
	"github.com/storesight/storesight/internal/metrics"
	"github.com/storesight/storesight/internal/models"
)

// Handler serves every API endpoint. It owns the analytics engines and
// reads dataset snapshots through the repository, so concurrent
// requests and dataset reloads never block each other.
type Handler struct {
	cfg  *config.Config
	repo *dataset.Repository

	recommender *recommend.Engine
	promotions  *promotion.Engine
	forecaster  *forecast.Engine
	clusterer   *cluster.Engine
}

// NewHandler wires the engines to the shared dataset repository.
func NewHandler(cfg *config.Config, repo *dataset.Repository) *Handler {
	return &Handler{
		cfg:         cfg,
		repo:        repo,
		recommender: recommend.New(),
		promotions:  promotion.New(),
		forecaster:  forecast.New(),
		clusterer:   cluster.New(),
	}
}

// Health reports liveness and whether a dataset is loaded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	payload := map[string]interface{}{
		"status":         "ok",
		"dataset_loaded": h.repo.Loaded(),
	}
	if snap, err := h.repo.Current(); err == nil {
		payload["records"] = len(snap.Transactions())
	}
	respondData(w, http.StatusOK, payload, start)
}

// DataLoad loads a sales CSV from a server-side path. An empty path
// selects the configured default file.
func (h *Handler) DataLoad(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.LoadRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	path := req.Path
	if path == "" {
		path = h.cfg.Data.DefaultCSV
	}
	if path == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "no path given and no default CSV configured", nil)
		return
	}

	snap, err := h.repo.LoadFile(path)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("path", sanitizeLogValue(path)).
		Int("records", len(snap.Transactions())).
		Msg("dataset loaded")
	respondData(w, http.StatusOK, snap.Overview(), start)
}

// DataUpload accepts a multipart CSV upload, persists it under the
// configured data directory and loads it as the current dataset.
func (h *Handler) DataUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Data.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "multipart upload requires a 'file' part", err)
		return
	}
	defer file.Close()

	name := sanitizeFilename(header.Filename)
	if name == "" {
		name = "upload.csv"
	}
	if err := os.MkdirAll(h.cfg.Data.Dir, 0o750); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "cannot create data directory", err)
		return
	}
	dest := filepath.Join(h.cfg.Data.Dir, fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), name))

	out, err := os.Create(dest)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "cannot store uploaded file", err)
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(dest)
		respondError(w, http.StatusBadRequest, codeBadRequest, "upload interrupted", err)
		return
	}
	if err := out.Close(); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "cannot store uploaded file", err)
		return
	}

	snap, err := h.repo.LoadFile(dest)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("file", sanitizeLogValue(name)).
		Int("records", len(snap.Transactions())).
		Msg("dataset uploaded")
	respondData(w, http.StatusOK, snap.Overview(), start)
}

// DataOverview summarizes the current dataset.
func (h *Handler) DataOverview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap, err := h.repo.Current()
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondData(w, http.StatusOK, snap.Overview(), start)
}

// Recommendations suggests products for one customer.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.RecommendRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	snap, err := h.repo.Current()
	if err != nil {
		respondEngineError(w, err)
		return
	}
	topN := req.TopN
	if topN == 0 {
		topN = h.cfg.Analytics.TopN
	}

	recs, err := h.recommender.Recommend(snap, req.CustomerID, topN)
	metrics.RecordAnalyticsCall("recommend", err, time.Since(start))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"customer_id":     req.CustomerID,
		"recommendations": recs,
	}, start)
}

// Promotions filters products through the promotion rule. Unset
// request thresholds fall back to the configured defaults.
func (h *Handler) Promotions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.PromotionFilterRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	snap, err := h.repo.Current()
	if err != nil {
		respondEngineError(w, err)
		return
	}

	rule := h.promotionRule(req)
	candidates := h.promotions.SelectCandidates(snap, rule)
	metrics.RecordAnalyticsCall("promotion", nil, time.Since(start))
	respondData(w, http.StatusOK, map[string]interface{}{
		"rule":       rule,
		"candidates": candidates,
	}, start)
}

func (h *Handler) promotionRule(req models.PromotionFilterRequest) promotion.Rule {
	defaults := h.cfg.Analytics.Promotion
	rule := promotion.Rule{
		MinQuantity:   defaults.MinQuantity,
		MaxQuantity:   defaults.MaxQuantity,
		MinProfitRate: defaults.MinProfitRate,
		MaxDiscount:   defaults.MaxDiscount,
	}
	if req.MinQuantity != nil {
		rule.MinQuantity = *req.MinQuantity
	}
	if req.MaxQuantity != nil {
		rule.MaxQuantity = *req.MaxQuantity
	}
	if req.MinProfitRate != nil {
		rule.MinProfitRate = *req.MinProfitRate
	}
	if req.MaxDiscount != nil {
		rule.MaxDiscount = *req.MaxDiscount
	}
	return rule
}

// Associations mines market-basket rules.
func (h *Handler) Associations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.AssociationRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	snap, err := h.repo.Current()
	if err != nil {
		respondEngineError(w, err)
		return
	}

	params := promotion.MiningParams{
		MinSupport:    req.MinSupport,
		MinConfidence: req.MinConfidence,
		Metric:        req.Metric,
	}
	if params.MinSupport == 0 {
		params.MinSupport = h.cfg.Analytics.MinSupport
	}
	if params.MinConfidence == 0 {
		params.MinConfidence = h.cfg.Analytics.MinConfidence
	}

	rules, err := h.promotions.MineRules(snap, params)
	metrics.RecordAnalyticsCall("association", err, time.Since(start))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"params": params,
		"rules":  rules,
	}, start)
}

// Forecast projects monthly sales and profit.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.ForecastRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	snap, err := h.repo.Current()
	if err != nil {
		respondEngineError(w, err)
		return
	}
	months := req.Months
	if months == 0 {
		months = h.cfg.Analytics.ForecastMonths
	}

	res, err := h.forecaster.Forecast(snap, months)
	metrics.RecordAnalyticsCall("forecast", err, time.Since(start))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	metrics.ForecastModelSelected.WithLabelValues(res.Model.Name).Inc()
	respondData(w, http.StatusOK, res, start)
}

// Clusters segments customers by RFM profile.
func (h *Handler) Clusters(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.ClusterRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	snap, err := h.repo.Current()
	if err != nil {
		respondEngineError(w, err)
		return
	}
	k := req.K
	if k == 0 {
		k = h.cfg.Analytics.ClusterK
	}

	res, err := h.clusterer.Cluster(snap, k)
	metrics.RecordAnalyticsCall("cluster", err, time.Since(start))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondData(w, http.StatusOK, res, start)
}

// sanitizeFilename keeps the base name and strips path separators and
// control characters from an uploaded file name.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7F:
		case r == '/' || r == '\\':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
