// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Package export renders analysis results as CSV for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/storesight/storesight/internal/analytics/cluster"
	"github.com/storesight/storesight/internal/analytics/forecast"
	"github.com/storesight/storesight/internal/models"
)

// Filename builds the attachment name for an export target, stamped so
// repeated downloads do not collide.
func Filename(target string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", target, now.Format("20060102_150405"))
}

// WriteRecommendations streams product suggestions as CSV.
func WriteRecommendations(w io.Writer, recs []models.Recommendation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"product_id", "product_name", "score", "reason"}); err != nil {
		return err
	}
	for _, r := range recs {
		record := []string{r.ProductID, r.ProductName, formatFloat(r.Score), r.Reason}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePromotions streams promotion candidates as CSV.
func WritePromotions(w io.Writer, candidates []models.PromotionCandidate) error {
	cw := csv.NewWriter(w)
	header := []string{"product_id", "product_name", "quantity", "sales", "profit", "profit_rate", "discount", "reason"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, c := range candidates {
		record := []string{
			c.ProductID,
			c.ProductName,
			formatFloat(c.Quantity),
			formatFloat(c.Sales),
			formatFloat(c.Profit),
			formatFloat(c.ProfitRate),
			formatFloat(c.Discount),
			c.Reason,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteClusters streams one row per customer with its RFM features and
// assigned segment label.
func WriteClusters(w io.Writer, res *cluster.Result) error {
	labels := make(map[int]string, len(res.Summaries))
	for _, s := range res.Summaries {
		labels[s.Cluster] = s.Label
	}

	cw := csv.NewWriter(w)
	header := []string{"customer_id", "recency_days", "frequency", "monetary", "cluster", "label"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range res.Assignments {
		record := []string{
			a.CustomerID,
			strconv.Itoa(a.Recency),
			strconv.Itoa(a.Frequency),
			formatFloat(a.Monetary),
			strconv.Itoa(a.Cluster),
			labels[a.Cluster],
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteForecast streams the history followed by the projection. History
// rows carry an empty model column.
func WriteForecast(w io.Writer, res *forecast.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "sales", "profit", "model"}); err != nil {
		return err
	}
	for _, p := range res.History {
		if err := cw.Write(forecastRow(p)); err != nil {
			return err
		}
	}
	for _, p := range res.Forecast {
		if err := cw.Write(forecastRow(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func forecastRow(p models.ForecastPoint) []string {
	return []string{p.Period, formatFloat(p.Sales), formatFloat(p.Profit), p.Model}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
