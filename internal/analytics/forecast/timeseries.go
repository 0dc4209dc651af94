// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package forecast

import (
	"time"

	"github.com/storesight/storesight/internal/analytics"
	"github.com/storesight/storesight/internal/dataset"
	"github.com/storesight/storesight/internal/models"
)

// periodLayout renders a calendar month as YYYY-MM.
const periodLayout = "2006-01"

// buildSeries aggregates transactions into a monthly sales/profit
// series. Months with no transactions between the earliest and latest
// observed periods are filled with zeros: a series with silent gaps
// would bias both model fits. The result is in chronological order
// with every month appearing exactly once.
func buildSeries(snap *dataset.Snapshot) ([]models.ForecastPoint, error) {
	type bucket struct{ sales, profit float64 }
	buckets := make(map[time.Time]*bucket)

	var first, last time.Time
	for _, tx := range snap.Transactions() {
		if !tx.HasDate() {
			continue
		}
		month := monthOf(tx.OrderDate)
		b, ok := buckets[month]
		if !ok {
			b = &bucket{}
			buckets[month] = b
		}
		b.sales += tx.Sales
		b.profit += tx.Profit
		if first.IsZero() || month.Before(first) {
			first = month
		}
		if month.After(last) {
			last = month
		}
	}
	if len(buckets) == 0 {
		return nil, analytics.Dataf("dataset has no order dates to aggregate")
	}

	var series []models.ForecastPoint
	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		point := models.ForecastPoint{Period: month.Format(periodLayout)}
		if b, ok := buckets[month]; ok {
			point.Sales = b.sales
			point.Profit = b.profit
		}
		series = append(series, point)
	}
	return series, nil
}

// futurePeriods labels the next n months after the last history point.
func futurePeriods(lastPeriod string, n int) []string {
	last, err := time.Parse(periodLayout, lastPeriod)
	if err != nil {
		// History periods are always produced by periodLayout; an
		// unparseable one indicates a programming error upstream.
		panic("forecast: malformed period label " + lastPeriod)
	}
	periods := make([]string, n)
	for i := 0; i < n; i++ {
		last = last.AddDate(0, 1, 0)
		periods[i] = last.Format(periodLayout)
	}
	return periods
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
