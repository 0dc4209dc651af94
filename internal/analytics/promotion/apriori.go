// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package promotion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/storesight/storesight/internal/analytics"
	"github.com/storesight/storesight/internal/dataset"
	"github.com/storesight/storesight/internal/logging"
	"github.com/storesight/storesight/internal/models"
)

// Metric names accepted by MiningParams.
const (
	MetricLift       = "lift"
	MetricConfidence = "confidence"
	MetricSupport    = "support"
)

// Relaxation constants for the one-shot retry when the caller's
// thresholds produce no rules.
const (
	relaxSupportFactor    = 0.5
	relaxSupportFloor     = 0.001
	relaxConfidenceFactor = 0.8
	relaxConfidenceFloor  = 0.1
)

// maxItemsetSize bounds Apriori candidate growth. Retail baskets are
// shallow; rules from pairs and triples are what gets surfaced.
const maxItemsetSize = 3

// MiningParams holds association mining thresholds.
type MiningParams struct {
	MinSupport    float64
	MinConfidence float64
	Metric        string // lift, confidence or support; empty means lift
}

// MineRules mines association rules from the snapshot's purchase
// matrix using Apriori frequent-itemset search.
//
// If the caller's thresholds yield nothing, mining retries exactly once
// at relaxed thresholds (support halved, confidence scaled by 0.8, both
// floored). A sparse dataset that still yields nothing returns an empty
// list: that is a valid outcome, not an error.
func (e *Engine) MineRules(snap *dataset.Snapshot, params MiningParams) ([]models.AssociationRule, error) {
	if params.MinSupport <= 0 || params.MinSupport > 1 {
		return nil, analytics.Validationf("min_support must be in (0, 1], got %g", params.MinSupport)
	}
	if params.MinConfidence <= 0 || params.MinConfidence > 1 {
		return nil, analytics.Validationf("min_confidence must be in (0, 1], got %g", params.MinConfidence)
	}
	metric := params.Metric
	if metric == "" {
		metric = MetricLift
	}
	switch metric {
	case MetricLift, MetricConfidence, MetricSupport:
	default:
		return nil, analytics.Validationf("metric must be lift, confidence or support, got %q", params.Metric)
	}

	baskets := buildBaskets(snap)
	if len(baskets) == 0 {
		return nil, analytics.Dataf("dataset has no order/product pairs to mine")
	}

	rules := mineAt(baskets, params.MinSupport, params.MinConfidence, metric)
	if len(rules) == 0 {
		relaxedSupport := max(params.MinSupport*relaxSupportFactor, relaxSupportFloor)
		relaxedConfidence := max(params.MinConfidence*relaxConfidenceFactor, relaxConfidenceFloor)
		logging.Info().
			Float64("min_support", relaxedSupport).
			Float64("min_confidence", relaxedConfidence).
			Msg("no rules at requested thresholds, retrying relaxed")
		rules = mineAt(baskets, relaxedSupport, relaxedConfidence, metric)
	}

	result := make([]models.AssociationRule, 0, len(rules))
	for _, r := range rules {
		result = append(result, r.toModel(snap, metric))
	}
	return result, nil
}

// buildBaskets derives the boolean purchase matrix: one product set per
// order, a product present iff some line in the order has quantity > 0.
func buildBaskets(snap *dataset.Snapshot) []map[string]struct{} {
	byOrder := make(map[string]map[string]struct{})
	for _, tx := range snap.Transactions() {
		if tx.Quantity <= 0 {
			continue
		}
		if byOrder[tx.OrderID] == nil {
			byOrder[tx.OrderID] = make(map[string]struct{})
		}
		byOrder[tx.OrderID][tx.ProductID] = struct{}{}
	}

	baskets := make([]map[string]struct{}, 0, len(byOrder))
	for _, basket := range byOrder {
		baskets = append(baskets, basket)
	}
	return baskets
}

// minedRule is an internal rule before name translation.
type minedRule struct {
	antecedent []string
	consequent []string
	support    float64
	confidence float64
	lift       float64
}

func (r minedRule) metricValue(metric string) float64 {
	switch metric {
	case MetricConfidence:
		return r.confidence
	case MetricSupport:
		return r.support
	default:
		return r.lift
	}
}

func (r minedRule) toModel(snap *dataset.Snapshot, metric string) models.AssociationRule {
	names := func(ids []string) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = snap.ProductName(id)
		}
		return out
	}
	return models.AssociationRule{
		Antecedents: names(r.antecedent),
		Consequents: names(r.consequent),
		Support:     r.support,
		Confidence:  r.confidence,
		Lift:        r.lift,
		Reason: fmt.Sprintf("%.1f%% of orders with %s also contain %s (support %.1f%%, %s %.2f)",
			r.confidence*100,
			strings.Join(names(r.antecedent), " + "),
			strings.Join(names(r.consequent), " + "),
			r.support*100,
			metric, r.metricValue(metric)),
	}
}

// mineAt runs one full Apriori pass at fixed thresholds.
func mineAt(baskets []map[string]struct{}, minSupport, minConfidence float64, metric string) []minedRule {
	supports := frequentItemsets(baskets, minSupport)

	var rules []minedRule
	for key, support := range supports {
		items := strings.Split(key, "\x1f")
		if len(items) < 2 {
			continue
		}
		rules = append(rules, generateRules(items, support, supports, minConfidence, metric)...)
	}

	sort.Slice(rules, func(i, j int) bool {
		vi, vj := rules[i].metricValue(metric), rules[j].metricValue(metric)
		if vi != vj {
			return vi > vj
		}
		if rules[i].confidence != rules[j].confidence {
			return rules[i].confidence > rules[j].confidence
		}
		return strings.Join(rules[i].antecedent, ",") < strings.Join(rules[j].antecedent, ",")
	})
	return rules
}

// frequentItemsets returns support per itemset, keyed by the sorted
// item ids joined with a unit separator. Itemset size is capped at
// maxItemsetSize.
func frequentItemsets(baskets []map[string]struct{}, minSupport float64) map[string]float64 {
	total := float64(len(baskets))
	supports := make(map[string]float64)

	// Level 1: single items.
	counts := make(map[string]int)
	for _, basket := range baskets {
		for item := range basket {
			counts[item]++
		}
	}
	var current [][]string
	for item, count := range counts {
		if support := float64(count) / total; support >= minSupport {
			supports[item] = support
			current = append(current, []string{item})
		}
	}
	sort.Slice(current, func(i, j int) bool { return current[i][0] < current[j][0] })

	// Levels 2..maxItemsetSize: join, prune, count.
	for size := 2; size <= maxItemsetSize && len(current) > 1; size++ {
		candidates := joinItemsets(current, supports)
		current = current[:0]
		for _, candidate := range candidates {
			count := 0
			for _, basket := range baskets {
				if containsAll(basket, candidate) {
					count++
				}
			}
			if support := float64(count) / total; support >= minSupport {
				supports[itemsetKey(candidate)] = support
				current = append(current, candidate)
			}
		}
	}
	return supports
}

// joinItemsets builds size k+1 candidates from sorted size-k frequent
// itemsets sharing a k-1 prefix, pruning candidates with an infrequent
// subset (downward closure).
func joinItemsets(frequent [][]string, supports map[string]float64) [][]string {
	var candidates [][]string
	for i := 0; i < len(frequent); i++ {
		for j := i + 1; j < len(frequent); j++ {
			a, b := frequent[i], frequent[j]
			k := len(a)
			if !samePrefix(a, b, k-1) {
				continue
			}
			candidate := make([]string, k+1)
			copy(candidate, a)
			candidate[k] = b[k-1]
			sort.Strings(candidate)
			if allSubsetsFrequent(candidate, supports) {
				candidates = append(candidates, candidate)
			}
		}
	}
	return candidates
}

func samePrefix(a, b []string, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allSubsetsFrequent(candidate []string, supports map[string]float64) bool {
	for drop := range candidate {
		subset := make([]string, 0, len(candidate)-1)
		subset = append(subset, candidate[:drop]...)
		subset = append(subset, candidate[drop+1:]...)
		if _, ok := supports[itemsetKey(subset)]; !ok {
			return false
		}
	}
	return true
}

func containsAll(basket map[string]struct{}, items []string) bool {
	for _, item := range items {
		if _, ok := basket[item]; !ok {
			return false
		}
	}
	return true
}

func itemsetKey(items []string) string {
	return strings.Join(items, "\x1f")
}

// generateRules emits every antecedent/consequent split of one
// frequent itemset that meets the confidence threshold. Splits with an
// empty side are never produced; under the lift metric, rules with
// lift <= 1 are excluded even when confidence passes, since they show
// no positive association.
func generateRules(items []string, support float64, supports map[string]float64, minConfidence float64, metric string) []minedRule {
	var rules []minedRule

	// Iterate non-empty proper subsets of the itemset as antecedents.
	n := len(items)
	for mask := 1; mask < (1<<n)-1; mask++ {
		var antecedent, consequent []string
		for bit := 0; bit < n; bit++ {
			if mask&(1<<bit) != 0 {
				antecedent = append(antecedent, items[bit])
			} else {
				consequent = append(consequent, items[bit])
			}
		}

		antSupport, ok := supports[itemsetKey(antecedent)]
		if !ok || antSupport == 0 {
			continue
		}
		conSupport, ok := supports[itemsetKey(consequent)]
		if !ok || conSupport == 0 {
			continue
		}

		confidence := support / antSupport
		if confidence < minConfidence {
			continue
		}
		lift := confidence / conSupport
		if metric == MetricLift && lift <= 1 {
			continue
		}

		rules = append(rules, minedRule{
			antecedent: antecedent,
			consequent: consequent,
			support:    support,
			confidence: confidence,
			lift:       lift,
		})
	}
	return rules
}
