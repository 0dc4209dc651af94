// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/storesight/storesight/internal/export"
	"github.com/storesight/storesight/internal/logging"
	"github.com/storesight/storesight/internal/models"
)

// Export runs the selected analysis and streams the result as a CSV
// attachment. The analysis parameters mirror the JSON endpoints, with
// the same configured defaults for unset fields.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req models.ExportRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	snap, err := h.repo.Current()
	if err != nil {
		respondEngineError(w, err)
		return
	}

	var buf bytes.Buffer
	switch req.Target {
	case models.ExportRecommendation:
		topN := req.TopN
		if topN == 0 {
			topN = h.cfg.Analytics.TopN
		}
		recs, rerr := h.recommender.Recommend(snap, req.CustomerID, topN)
		if rerr != nil {
			respondEngineError(w, rerr)
			return
		}
		err = export.WriteRecommendations(&buf, recs)

	case models.ExportPromotion:
		rule := h.promotionRule(models.PromotionFilterRequest{})
		err = export.WritePromotions(&buf, h.promotions.SelectCandidates(snap, rule))

	case models.ExportCluster:
		k := req.K
		if k == 0 {
			k = h.cfg.Analytics.ClusterK
		}
		res, cerr := h.clusterer.Cluster(snap, k)
		if cerr != nil {
			respondEngineError(w, cerr)
			return
		}
		err = export.WriteClusters(&buf, res)

	case models.ExportForecast:
		months := req.Months
		if months == 0 {
			months = h.cfg.Analytics.ForecastMonths
		}
		res, ferr := h.forecaster.Forecast(snap, months)
		if ferr != nil {
			respondEngineError(w, ferr)
			return
		}
		err = export.WriteForecast(&buf, res)

	default:
		// Unreachable behind request validation.
		respondError(w, http.StatusBadRequest, codeValidation, "unknown export target", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "export failed", err)
		return
	}

	filename := export.Filename(req.Target, time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, werr := w.Write(buf.Bytes()); werr != nil {
		logging.Ctx(r.Context()).Error().Err(werr).Msg("failed to write export")
	}
}
