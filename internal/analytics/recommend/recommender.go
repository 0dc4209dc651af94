// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Package recommend scores products for a customer from per-order
// co-occurrence: products that frequently appear in the same orders as
// the customer's past purchases rank highest. Customers whose history
// never co-occurs with anything fall back to globally top-selling
// products; an unknown customer id is an error, never an anonymous
// recommendation.
package recommend

import (
	"sort"
	"strings"

	"github.com/storesight/storesight/internal/analytics"
	"github.com/storesight/storesight/internal/dataset"
	"github.com/storesight/storesight/internal/models"
)

const (
	reasonCoPurchase = "frequently bought together with this customer's purchases"
	reasonPopularity = "recommended by global popularity"
)

// Engine generates customer product recommendations. It is stateless;
// every call builds its model from the snapshot it is handed.
type Engine struct{}

// New returns a recommendation engine.
func New() *Engine { return &Engine{} }

// Recommend returns up to topN products for the given customer, ranked
// by descending co-occurrence score.
//
// A blank customer id is a validation error. A customer with no
// transactions at all is a not-found error: returning unrelated items
// for an unknown id would hide a caller mistake, so there is no
// anonymous fallback. A known customer whose purchases co-occur with
// nothing gets the global popularity fallback instead.
func (e *Engine) Recommend(snap *dataset.Snapshot, customerID string, topN int) ([]models.Recommendation, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, analytics.Validationf("customer id must not be blank")
	}
	if topN < 1 {
		return nil, analytics.Validationf("top_n must be positive, got %d", topN)
	}

	purchased := purchasedSet(snap, customerID)
	if len(purchased) == 0 {
		return nil, analytics.NotFoundf("customer %s has no transaction history", customerID)
	}

	counts := buildCoOccurrence(snap)

	scores := make(map[string]float64)
	for productID := range purchased {
		for neighbor, weight := range counts.neighbors(productID) {
			if _, owned := purchased[neighbor]; owned {
				continue
			}
			scores[neighbor] += weight
		}
	}

	if len(scores) == 0 {
		return e.globalTop(snap, topN)
	}

	recs := make([]models.Recommendation, 0, len(scores))
	for productID, score := range scores {
		recs = append(recs, models.Recommendation{
			ProductID:   productID,
			ProductName: snap.ProductName(productID),
			Score:       score,
			Reason:      reasonCoPurchase,
		})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ProductID < recs[j].ProductID
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs, nil
}

// globalTop ranks products by total quantity sold. Used when a known
// customer's purchases are isolated singleton orders.
func (e *Engine) globalTop(snap *dataset.Snapshot, topN int) ([]models.Recommendation, error) {
	products := snap.Products()
	if len(products) == 0 {
		return nil, analytics.Dataf("dataset has no product metrics")
	}

	ranked := make([]models.ProductMetric, len(products))
	copy(ranked, products)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	recs := make([]models.Recommendation, len(ranked))
	for i, p := range ranked {
		recs[i] = models.Recommendation{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Score:       p.Quantity,
			Reason:      reasonPopularity,
		}
	}
	return recs, nil
}

func purchasedSet(snap *dataset.Snapshot, customerID string) map[string]struct{} {
	purchased := make(map[string]struct{})
	for _, tx := range snap.Transactions() {
		if tx.CustomerID == customerID {
			purchased[tx.ProductID] = struct{}{}
		}
	}
	return purchased
}
