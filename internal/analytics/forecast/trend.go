// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package forecast

import "github.com/storesight/storesight/internal/models"

// trendModel is an ordinary least squares line fitted independently to
// the sales and profit series against a 1-based time index. It is the
// always-available baseline: any non-empty history yields a fit.
type trendModel struct {
	sales  line
	profit line
}

type line struct {
	slope     float64
	intercept float64
}

func (l line) at(t float64) float64 { return l.intercept + l.slope*t }

// fitTrend fits both lines over history indexed t = 1..n. A single
// observation degenerates to a flat line through that observation.
func fitTrend(history []models.ForecastPoint) trendModel {
	n := len(history)
	sales := make([]float64, n)
	profit := make([]float64, n)
	for i, p := range history {
		sales[i] = p.Sales
		profit[i] = p.Profit
	}
	return trendModel{sales: fitLine(sales), profit: fitLine(profit)}
}

func fitLine(values []float64) line {
	n := float64(len(values))
	if len(values) == 1 {
		return line{intercept: values[0]}
	}
	var sumT, sumV, sumTV, sumTT float64
	for i, v := range values {
		t := float64(i + 1)
		sumT += t
		sumV += v
		sumTV += t * v
		sumTT += t * t
	}
	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return line{intercept: sumV / n}
	}
	slope := (n*sumTV - sumT*sumV) / denom
	return line{slope: slope, intercept: (sumV - slope*sumT) / n}
}

// predict returns forecasts for the n index positions following
// fitted history of length histLen.
func (m trendModel) predict(histLen, n int) ([]float64, []float64) {
	sales := make([]float64, n)
	profit := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(histLen + i + 1)
		sales[i] = m.sales.at(t)
		profit[i] = m.profit.at(t)
	}
	return sales, profit
}
