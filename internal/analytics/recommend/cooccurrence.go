// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package recommend

import (
	"github.com/storesight/storesight/internal/dataset"
)

// coOccurrence counts how often two products appear in the same order:
//
//	counts[a][b] = number of orders containing both a and b
//
// Both directions are incremented within the same order traversal, so
// the matrix is symmetric in value. The diagonal is excluded. The
// matrix is a per-call local value, never cached across requests: the
// dataset may be replaced between calls.
type coOccurrence map[string]map[string]float64

// buildCoOccurrence scans all orders in the snapshot.
func buildCoOccurrence(snap *dataset.Snapshot) coOccurrence {
	orderProducts := make(map[string][]string)
	seen := make(map[string]map[string]struct{})
	for _, tx := range snap.Transactions() {
		if seen[tx.OrderID] == nil {
			seen[tx.OrderID] = make(map[string]struct{})
		}
		if _, dup := seen[tx.OrderID][tx.ProductID]; dup {
			continue
		}
		seen[tx.OrderID][tx.ProductID] = struct{}{}
		orderProducts[tx.OrderID] = append(orderProducts[tx.OrderID], tx.ProductID)
	}

	counts := make(coOccurrence)
	for _, products := range orderProducts {
		for i, a := range products {
			for j, b := range products {
				if i == j {
					continue
				}
				if counts[a] == nil {
					counts[a] = make(map[string]float64)
				}
				counts[a][b]++
			}
		}
	}
	return counts
}

// neighbors returns the co-purchase counts for one product.
func (c coOccurrence) neighbors(productID string) map[string]float64 {
	return c[productID]
}
