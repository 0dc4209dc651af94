// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package forecast

import (
	"errors"
	"math"

	"github.com/storesight/storesight/internal/models"
)

// arOrder is the number of lagged differences in the autoregressive
// model. With first differencing this is an ARI(2,1) specification.
const arOrder = 2

// minAutoregHistory is the shortest series the autoregressive model
// accepts. Below this the regression has too few rows to be meaningful.
const minAutoregHistory = 6

// errModelFit reports a degenerate autoregressive fit, for example a
// constant series whose differenced design matrix is singular. It never
// escapes the package: callers fall back to the trend model instead.
var errModelFit = errors.New("forecast: autoregressive model fit failed")

// autoregModel forecasts by regressing first differences on their own
// two most recent lags, then integrating the predicted differences back
// onto the last observed level.
type autoregModel struct {
	sales  arFit
	profit arFit
}

type arFit struct {
	intercept float64
	coeffs    [arOrder]float64
	lastDiffs [arOrder]float64 // most recent first
	lastLevel float64
}

func fitAutoreg(history []models.ForecastPoint) (*autoregModel, error) {
	if len(history) < minAutoregHistory {
		return nil, errModelFit
	}
	n := len(history)
	sales := make([]float64, n)
	profit := make([]float64, n)
	for i, p := range history {
		sales[i] = p.Sales
		profit[i] = p.Profit
	}
	sf, err := fitARSeries(sales)
	if err != nil {
		return nil, err
	}
	pf, err := fitARSeries(profit)
	if err != nil {
		return nil, err
	}
	return &autoregModel{sales: sf, profit: pf}, nil
}

func fitARSeries(values []float64) (arFit, error) {
	diffs := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		diffs[i-1] = values[i] - values[i-1]
	}
	rows := len(diffs) - arOrder
	if rows < 1 {
		return arFit{}, errModelFit
	}

	// Normal equations for d_t = c + phi1*d_{t-1} + phi2*d_{t-2}.
	var xtx [arOrder + 1][arOrder + 1]float64
	var xty [arOrder + 1]float64
	for t := arOrder; t < len(diffs); t++ {
		row := [arOrder + 1]float64{1, diffs[t-1], diffs[t-2]}
		for i := 0; i <= arOrder; i++ {
			for j := 0; j <= arOrder; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xty[i] += row[i] * diffs[t]
		}
	}
	coeffs, err := solveLinear(xtx, xty)
	if err != nil {
		return arFit{}, err
	}

	fit := arFit{
		intercept: coeffs[0],
		lastLevel: values[len(values)-1],
	}
	fit.coeffs[0] = coeffs[1]
	fit.coeffs[1] = coeffs[2]
	fit.lastDiffs[0] = diffs[len(diffs)-1]
	fit.lastDiffs[1] = diffs[len(diffs)-2]
	return fit, nil
}

// solveLinear solves a small symmetric system by Gaussian elimination
// with partial pivoting. A near-zero pivot means the regressors are
// collinear and the fit is rejected.
func solveLinear(a [arOrder + 1][arOrder + 1]float64, b [arOrder + 1]float64) ([arOrder + 1]float64, error) {
	const dim = arOrder + 1
	for col := 0; col < dim; col++ {
		pivot := col
		for r := col + 1; r < dim; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return [dim]float64{}, errModelFit
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]
		for r := col + 1; r < dim; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < dim; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}
	var x [dim]float64
	for row := dim - 1; row >= 0; row-- {
		sum := b[row]
		for c := row + 1; c < dim; c++ {
			sum -= a[row][c] * x[c]
		}
		x[row] = sum / a[row][row]
	}
	return x, nil
}

// predict integrates n predicted differences forward from the last
// observed level of each series.
func (m *autoregModel) predict(n int) ([]float64, []float64) {
	return m.sales.forecast(n), m.profit.forecast(n)
}

func (f arFit) forecast(n int) []float64 {
	out := make([]float64, n)
	level := f.lastLevel
	d1, d2 := f.lastDiffs[0], f.lastDiffs[1]
	for i := 0; i < n; i++ {
		next := f.intercept + f.coeffs[0]*d1 + f.coeffs[1]*d2
		level += next
		out[i] = level
		d2, d1 = d1, next
	}
	return out
}
