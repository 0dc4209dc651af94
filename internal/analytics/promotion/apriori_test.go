// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package promotion

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/storesight/storesight/internal/analytics"
	"github.com/storesight/storesight/internal/dataset"
)

// basketSnapshot builds a snapshot where each inner slice is one order.
func basketSnapshot(t *testing.T, baskets [][]string) *dataset.Snapshot {
	t.Helper()
	var b strings.Builder
	b.WriteString("Order ID,Customer ID,Product ID,Product Name,Quantity,Sales,Profit,Discount,Order Date\n")
	for i, basket := range baskets {
		for _, product := range basket {
			fmt.Fprintf(&b, "O-%d,C-%d,%s,%s item,1,10,1,0,2024-01-01\n", i, i, product, product)
		}
	}
	snap, err := dataset.LoadReader(strings.NewReader(b.String()), "test.csv")
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	return snap
}

// eightBaskets: A and B positively associated, C independent.
// support(A)=5/8, support(B)=4/8, support(A,B)=3/8.
func eightBaskets(t *testing.T) *dataset.Snapshot {
	return basketSnapshot(t, [][]string{
		{"P-A", "P-B"}, {"P-A", "P-B"}, {"P-A", "P-B"},
		{"P-A"}, {"P-A"},
		{"P-B"},
		{"P-C"}, {"P-C"},
	})
}

func TestMineRules_PositiveAssociation(t *testing.T) {
	snap := eightBaskets(t)

	rules, err := New().MineRules(snap, MiningParams{MinSupport: 0.3, MinConfidence: 0.5, Metric: MetricLift})
	if err != nil {
		t.Fatalf("MineRules() error = %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("rules = %d, want 2 (A->B and B->A)", len(rules))
	}

	for _, r := range rules {
		if len(r.Antecedents) == 0 || len(r.Consequents) == 0 {
			t.Error("rule with empty antecedent or consequent returned")
		}
		if r.Lift <= 1 {
			t.Errorf("lift metric returned rule with lift %g <= 1", r.Lift)
		}
		if diff := r.Support - 0.375; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("support = %g, want 0.375", r.Support)
		}
		if r.Reason == "" {
			t.Error("rule missing reason string")
		}
	}

	// Equal lift: the higher-confidence rule (B -> A, 0.75) sorts first.
	if got := rules[0].Antecedents[0]; got != "P-B item" {
		t.Errorf("top rule antecedent = %q, want product name of P-B", got)
	}
	if diff := rules[0].Confidence - 0.75; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("top rule confidence = %g, want 0.75", rules[0].Confidence)
	}
}

func TestMineRules_LiftFilterExcludesNegativeAssociation(t *testing.T) {
	// A and B nearly always bought apart: lift well below 1.
	snap := basketSnapshot(t, [][]string{
		{"P-A", "P-B"},
		{"P-A"}, {"P-A"}, {"P-A"}, {"P-A"},
		{"P-B"}, {"P-B"}, {"P-B"}, {"P-B"},
	})

	params := MiningParams{MinSupport: 0.1, MinConfidence: 0.1, Metric: MetricLift}
	rules, err := New().MineRules(snap, params)
	if err != nil {
		t.Fatalf("MineRules() error = %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("lift metric returned %d rules for a negative association, want 0", len(rules))
	}

	// Under the confidence metric the same rule is allowed through.
	params.Metric = MetricConfidence
	rules, err = New().MineRules(snap, params)
	if err != nil {
		t.Fatalf("MineRules(confidence) error = %v", err)
	}
	if len(rules) == 0 {
		t.Error("confidence metric should keep the low-lift rule")
	}
}

func TestMineRules_ThresholdValidation(t *testing.T) {
	snap := eightBaskets(t)

	tests := []struct {
		name   string
		params MiningParams
	}{
		{name: "zero support", params: MiningParams{MinSupport: 0, MinConfidence: 0.5}},
		{name: "support above one", params: MiningParams{MinSupport: 1.5, MinConfidence: 0.5}},
		{name: "zero confidence", params: MiningParams{MinSupport: 0.1, MinConfidence: 0}},
		{name: "confidence above one", params: MiningParams{MinSupport: 0.1, MinConfidence: 2}},
		{name: "unknown metric", params: MiningParams{MinSupport: 0.1, MinConfidence: 0.5, Metric: "accuracy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().MineRules(snap, tt.params)
			if !errors.Is(err, analytics.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestMineRules_EmptyDataset(t *testing.T) {
	snap := basketSnapshot(t, nil)

	_, err := New().MineRules(snap, MiningParams{MinSupport: 0.1, MinConfidence: 0.5})
	if !errors.Is(err, analytics.ErrData) {
		t.Errorf("error = %v, want ErrData", err)
	}
}

func TestMineRules_RelaxationRecoversRules(t *testing.T) {
	snap := eightBaskets(t)

	// support(A,B)=0.375 fails at 0.6 but passes the relaxed 0.3.
	rules, err := New().MineRules(snap, MiningParams{MinSupport: 0.6, MinConfidence: 0.5, Metric: MetricLift})
	if err != nil {
		t.Fatalf("MineRules() error = %v", err)
	}
	if len(rules) == 0 {
		t.Error("relaxed retry should have recovered rules")
	}
}

func TestMineRules_SparseDataReturnsEmptyNotError(t *testing.T) {
	snap := eightBaskets(t)

	// Even the relaxed support of 0.45 exceeds the pair support, so
	// both passes yield nothing. That is a valid empty result.
	rules, err := New().MineRules(snap, MiningParams{MinSupport: 0.9, MinConfidence: 0.9, Metric: MetricLift})
	if err != nil {
		t.Fatalf("MineRules() error = %v, want nil for sparse data", err)
	}
	if len(rules) != 0 {
		t.Errorf("rules = %d, want empty list", len(rules))
	}
}

func TestMineRules_TripleItemsets(t *testing.T) {
	// A, B and C always together in half the orders.
	baskets := [][]string{
		{"P-A", "P-B", "P-C"}, {"P-A", "P-B", "P-C"},
		{"P-A", "P-B", "P-C"}, {"P-A", "P-B", "P-C"},
		{"P-D"}, {"P-D"}, {"P-D"}, {"P-D"},
	}
	snap := basketSnapshot(t, baskets)

	rules, err := New().MineRules(snap, MiningParams{MinSupport: 0.4, MinConfidence: 0.9, Metric: MetricLift})
	if err != nil {
		t.Fatalf("MineRules() error = %v", err)
	}

	// Splits of {A,B,C} with confidence 1.0 and lift 2.0, in both
	// one-to-two and two-to-one forms, plus the pairwise rules.
	var sawTwoToOne bool
	for _, r := range rules {
		if len(r.Antecedents)+len(r.Consequents) == 3 && len(r.Antecedents) == 2 {
			sawTwoToOne = true
		}
		if r.Confidence < 0.9 {
			t.Errorf("rule confidence %g below threshold", r.Confidence)
		}
	}
	if !sawTwoToOne {
		t.Error("expected a two-antecedent rule from the {A,B,C} itemset")
	}
}

func TestFrequentItemsets_Support(t *testing.T) {
	snap := eightBaskets(t)
	baskets := buildBaskets(snap)

	supports := frequentItemsets(baskets, 0.3)
	if diff := supports["P-A"] - 0.625; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("support(A) = %g, want 0.625", supports["P-A"])
	}
	pair := itemsetKey([]string{"P-A", "P-B"})
	if diff := supports[pair] - 0.375; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("support(A,B) = %g, want 0.375", supports[pair])
	}
	if _, ok := supports["P-C"]; ok {
		t.Error("support(C)=0.25 is below the 0.3 threshold and must be filtered")
	}
}
