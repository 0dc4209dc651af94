// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Package promotion selects promotion candidates two ways: a rule
// filter over per-product metrics, and market-basket association
// mining over the order/product purchase matrix.
package promotion

import (
	"fmt"
	"sort"

	"github.com/storesight/storesight/internal/dataset"
	"github.com/storesight/storesight/internal/models"
)

// Rule holds the promotion filter thresholds. The API layer fills
// unset request fields from configuration before calling the engine.
type Rule struct {
	MinQuantity   float64
	MaxQuantity   float64
	MinProfitRate float64
	MaxDiscount   float64
}

// Engine runs promotion analysis over a dataset snapshot.
type Engine struct{}

// New returns a promotion engine.
func New() *Engine { return &Engine{} }

// SelectCandidates filters the snapshot's product metrics by the rule
// and orders survivors by ascending profit rate, then descending
// quantity. High-volume, low-margin items surface first: they are the
// ones that most need a margin-protecting promotion.
func (e *Engine) SelectCandidates(snap *dataset.Snapshot, rule Rule) []models.PromotionCandidate {
	var candidates []models.PromotionCandidate
	for _, p := range snap.Products() {
		if p.Quantity < rule.MinQuantity || p.Quantity > rule.MaxQuantity {
			continue
		}
		if p.ProfitRate < rule.MinProfitRate {
			continue
		}
		if p.Discount > rule.MaxDiscount {
			continue
		}
		candidates = append(candidates, models.PromotionCandidate{
			ProductMetric: p,
			Reason: fmt.Sprintf("sold %.0f units, profit rate %.2f, mean discount %.2f",
				p.Quantity, p.ProfitRate, p.Discount),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ProfitRate != candidates[j].ProfitRate {
			return candidates[i].ProfitRate < candidates[j].ProfitRate
		}
		if candidates[i].Quantity != candidates[j].Quantity {
			return candidates[i].Quantity > candidates[j].Quantity
		}
		return candidates[i].ProductID < candidates[j].ProductID
	})
	return candidates
}
