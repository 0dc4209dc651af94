// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Package forecast projects monthly sales and profit totals.
//
// Two competing models are fitted: a least-squares trend line and an
// autoregressive model on first differences. When the history is long
// enough, the last few months are held out and the model with the
// lower sales error on that holdout wins; otherwise the autoregressive
// model is preferred with the trend line as fallback.
package forecast

import (
	"fmt"
	"math"

	"github.com/storesight/storesight/internal/analytics"
	"github.com/storesight/storesight/internal/dataset"
	"github.com/storesight/storesight/internal/models"
)

// Names of the candidate models as they appear in API responses.
const (
	ModelTrend          = "trend"
	ModelAutoregressive = "autoregressive"
)

// longHorizonMonths is the fixed length of the supplementary long-range
// projection included with every forecast.
const longHorizonMonths = 12

// Policy tunes model selection. The zero value is not usable; callers
// go through DefaultPolicy.
type Policy struct {
	// HoldoutMax caps the holdout window length.
	HoldoutMax int
	// HoldoutDivisor sizes the window as history length over this value.
	HoldoutDivisor int
	// MinHoldoutHistory is the shortest history that gets a holdout
	// comparison at all.
	MinHoldoutHistory int
}

func DefaultPolicy() Policy {
	return Policy{HoldoutMax: 3, HoldoutDivisor: 4, MinHoldoutHistory: 4}
}

// Result carries everything the forecast endpoint returns.
type Result struct {
	History  []models.ForecastPoint   `json:"history"`
	Forecast []models.ForecastPoint   `json:"forecast"`
	Model    models.ForecastModelInfo `json:"model"`
	Summary  string                   `json:"summary"`
	// LongTerm is a twelve month projection from the selected model,
	// regardless of the requested horizon.
	LongTerm []models.ForecastPoint `json:"long_term"`
}

type Engine struct {
	policy Policy
}

func New() *Engine { return &Engine{policy: DefaultPolicy()} }

func NewWithPolicy(p Policy) *Engine { return &Engine{policy: p} }

// Forecast aggregates the snapshot into a monthly series and projects
// it the requested number of months ahead.
func (e *Engine) Forecast(snap *dataset.Snapshot, months int) (*Result, error) {
	if months < 1 {
		return nil, analytics.Validationf("forecast months must be at least 1, got %d", months)
	}
	history, err := buildSeries(snap)
	if err != nil {
		return nil, err
	}

	choice := e.selectModel(history)

	salesF, profitF := choice.predict(history, months)
	periods := futurePeriods(history[len(history)-1].Period, months)
	forecast := make([]models.ForecastPoint, months)
	for i := range forecast {
		forecast[i] = models.ForecastPoint{
			Period: periods[i],
			Sales:  salesF[i],
			Profit: profitF[i],
			Model:  choice.info.Name,
		}
	}

	longSales, longProfit := choice.predict(history, longHorizonMonths)
	longPeriods := futurePeriods(history[len(history)-1].Period, longHorizonMonths)
	longTerm := make([]models.ForecastPoint, longHorizonMonths)
	for i := range longTerm {
		longTerm[i] = models.ForecastPoint{
			Period: longPeriods[i],
			Sales:  longSales[i],
			Profit: longProfit[i],
			Model:  choice.info.Name,
		}
	}

	return &Result{
		History:  history,
		Forecast: forecast,
		Model:    choice.info,
		Summary:  summarize(forecast[0], choice.info.Name),
		LongTerm: longTerm,
	}, nil
}

// selection is the winning model plus how it was chosen.
type selection struct {
	info    models.ForecastModelInfo
	trend   *trendModel
	autoreg *autoregModel
}

// predict refits nothing: the winner was already fitted on the full
// history by selectModel.
func (s *selection) predict(history []models.ForecastPoint, n int) ([]float64, []float64) {
	if s.autoreg != nil {
		return s.autoreg.predict(n)
	}
	return s.trend.predict(len(history), n)
}

// selectModel fits both candidates and picks one. Short histories skip
// the holdout and prefer the autoregressive model when it fits at all;
// otherwise the last holdout months are scored by mean absolute
// percentage error on sales and the lower error wins, with ties going
// to the simpler trend line.
func (e *Engine) selectModel(history []models.ForecastPoint) selection {
	n := len(history)

	if n < e.policy.MinHoldoutHistory {
		if ar, err := fitAutoreg(history); err == nil {
			return selection{
				autoreg: ar,
				info: models.ForecastModelInfo{
					Name:   ModelAutoregressive,
					Reason: fmt.Sprintf("history of %d months is too short for holdout evaluation", n),
				},
			}
		}
		tm := fitTrend(history)
		return selection{
			trend: &tm,
			info: models.ForecastModelInfo{
				Name:   ModelTrend,
				Reason: fmt.Sprintf("history of %d months is too short for holdout evaluation and the autoregressive fit failed", n),
			},
		}
	}

	testLen := n / e.policy.HoldoutDivisor
	if testLen < 1 {
		testLen = 1
	}
	if testLen > e.policy.HoldoutMax {
		testLen = e.policy.HoldoutMax
	}
	train := history[:n-testLen]
	actual := history[n-testLen:]

	trendTrain := fitTrend(train)
	trendPred, _ := trendTrain.predict(len(train), testLen)
	trendMAPE := mape(actual, trendPred)

	autoregMAPE := math.Inf(1)
	arTrain, arErr := fitAutoreg(train)
	if arErr == nil {
		arPred, _ := arTrain.predict(testLen)
		autoregMAPE = mape(actual, arPred)
	}

	info := models.ForecastModelInfo{Holdout: true}
	info.TrendMAPE = &trendMAPE
	if arErr == nil {
		v := autoregMAPE
		info.AutoregMAPE = &v
	}

	if autoregMAPE < trendMAPE {
		ar, err := fitAutoreg(history)
		if err == nil {
			info.Name = ModelAutoregressive
			info.Reason = fmt.Sprintf("autoregressive holdout error %.4f beat trend %.4f over %d months", autoregMAPE, trendMAPE, testLen)
			return selection{autoreg: ar, info: info}
		}
		// Full-history refit can fail where the truncated fit did not.
	}

	tm := fitTrend(history)
	info.Name = ModelTrend
	if arErr != nil {
		info.Reason = fmt.Sprintf("autoregressive fit failed on %d month holdout comparison", testLen)
	} else {
		info.Reason = fmt.Sprintf("trend holdout error %.4f at or below autoregressive %.4f over %d months", trendMAPE, autoregMAPE, testLen)
	}
	return selection{trend: &tm, info: info}
}

// mape scores predictions against the sales column of the holdout. A
// floor on the denominator keeps zero-sales months from producing an
// infinite score.
func mape(actual []models.ForecastPoint, predicted []float64) float64 {
	var sum float64
	for i, a := range actual {
		denom := math.Abs(a.Sales)
		if denom < 1e-6 {
			denom = 1e-6
		}
		sum += math.Abs(a.Sales-predicted[i]) / denom
	}
	return sum / float64(len(actual))
}

func summarize(next models.ForecastPoint, model string) string {
	return fmt.Sprintf("%s model projects %s sales around %.2f with profit around %.2f",
		model, next.Period, next.Sales, next.Profit)
}
