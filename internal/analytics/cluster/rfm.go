// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package cluster

import (
	"github.com/storesight/storesight/internal/analytics"
	"github.com/storesight/storesight/internal/dataset"
	"github.com/storesight/storesight/internal/models"
)

// ComputeRFM derives Recency/Frequency/Monetary features for every
// customer with at least one dated order. Recency is anchored to the
// dataset's own latest order date rather than the wall clock, so the
// same snapshot always yields the same features.
func ComputeRFM(snap *dataset.Snapshot) ([]models.RFMRecord, error) {
	latest, ok := snap.LatestOrderDate()
	if !ok {
		return nil, analytics.Dataf("dataset has no order dates for recency calculation")
	}

	var records []models.RFMRecord
	for _, c := range snap.Customers() {
		if c.LastOrderDate.IsZero() {
			continue
		}
		records = append(records, models.RFMRecord{
			CustomerID: c.CustomerID,
			Recency:    int(latest.Sub(c.LastOrderDate).Hours() / 24),
			Frequency:  c.OrderCount,
			Monetary:   c.TotalSales,
		})
	}
	if len(records) == 0 {
		return nil, analytics.Dataf("no customers have dated orders")
	}
	return records, nil
}
