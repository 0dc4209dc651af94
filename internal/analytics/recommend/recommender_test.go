// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package recommend

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/storesight/storesight/internal/analytics"
	"github.com/storesight/storesight/internal/dataset"
)

// row is one transaction line for building test snapshots.
type row struct {
	order    string
	customer string
	product  string
	quantity float64
}

func buildSnapshot(t *testing.T, rows []row) *dataset.Snapshot {
	t.Helper()
	var b strings.Builder
	b.WriteString("Order ID,Customer ID,Product ID,Product Name,Quantity,Sales,Profit,Discount,Order Date\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,%s,%s,%s item,%g,10,1,0,2024-01-01\n",
			r.order, r.customer, r.product, r.product, r.quantity)
	}
	snap, err := dataset.LoadReader(strings.NewReader(b.String()), "test.csv")
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	return snap
}

func TestRecommend_CoOccurrenceScenario(t *testing.T) {
	// Orders: O1:{A,B}, O2:{A,C}, O3:{B,C}. The target customer bought
	// only A, in an order of its own.
	snap := buildSnapshot(t, []row{
		{"O-0", "C-target", "P-A", 1},
		{"O-1", "C-2", "P-A", 1},
		{"O-1", "C-2", "P-B", 1},
		{"O-2", "C-3", "P-A", 1},
		{"O-2", "C-3", "P-C", 1},
		{"O-3", "C-4", "P-B", 1},
		{"O-3", "C-4", "P-C", 1},
	})

	recs, err := New().Recommend(snap, "C-target", 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2 (B and C)", len(recs))
	}
	for _, rec := range recs {
		if rec.ProductID == "P-A" {
			t.Error("already purchased product P-A must not be recommended")
		}
		if rec.Score != 1 {
			t.Errorf("%s score = %g, want 1", rec.ProductID, rec.Score)
		}
		if rec.Reason != reasonCoPurchase {
			t.Errorf("%s reason = %q, want co-purchase reason", rec.ProductID, rec.Reason)
		}
	}
	// Equal scores break ties by product id for determinism.
	if recs[0].ProductID != "P-B" || recs[1].ProductID != "P-C" {
		t.Errorf("order = [%s %s], want [P-B P-C]", recs[0].ProductID, recs[1].ProductID)
	}
}

func TestRecommend_ScoresAccumulateAcrossHistory(t *testing.T) {
	// Customer owns A and B; C co-occurs with both, D only with A.
	snap := buildSnapshot(t, []row{
		{"O-1", "C-t", "P-A", 1},
		{"O-1", "C-t", "P-B", 1},
		{"O-2", "C-x", "P-A", 1},
		{"O-2", "C-x", "P-C", 1},
		{"O-3", "C-y", "P-B", 1},
		{"O-3", "C-y", "P-C", 1},
		{"O-4", "C-z", "P-A", 1},
		{"O-4", "C-z", "P-D", 1},
	})

	recs, err := New().Recommend(snap, "C-t", 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].ProductID != "P-C" || recs[0].Score != 2 {
		t.Errorf("top = %s score %g, want P-C with score 2", recs[0].ProductID, recs[0].Score)
	}
	if recs[1].ProductID != "P-D" || recs[1].Score != 1 {
		t.Errorf("second = %s score %g, want P-D with score 1", recs[1].ProductID, recs[1].Score)
	}
}

func TestRecommend_UnknownCustomer(t *testing.T) {
	snap := buildSnapshot(t, []row{
		{"O-1", "C-1", "P-A", 1},
	})

	recs, err := New().Recommend(snap, "C-nobody", 5)
	if !errors.Is(err, analytics.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if recs != nil {
		t.Error("unknown customer must not receive recommendations")
	}
}

func TestRecommend_BlankCustomerID(t *testing.T) {
	snap := buildSnapshot(t, []row{{"O-1", "C-1", "P-A", 1}})

	for _, id := range []string{"", "   ", "\t"} {
		_, err := New().Recommend(snap, id, 5)
		if !errors.Is(err, analytics.ErrValidation) {
			t.Errorf("Recommend(%q) error = %v, want ErrValidation", id, err)
		}
	}
}

func TestRecommend_ColdStartFallsBackToPopularity(t *testing.T) {
	// Every order is a singleton, so nothing co-occurs with anything.
	snap := buildSnapshot(t, []row{
		{"O-1", "C-t", "P-A", 1},
		{"O-2", "C-x", "P-B", 7},
		{"O-3", "C-y", "P-C", 3},
	})

	recs, err := New().Recommend(snap, "C-t", 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].ProductID != "P-B" || recs[1].ProductID != "P-C" {
		t.Errorf("fallback order = [%s %s], want quantity-ranked [P-B P-C]",
			recs[0].ProductID, recs[1].ProductID)
	}
	for _, rec := range recs {
		if rec.Reason != reasonPopularity {
			t.Errorf("fallback reason = %q, want %q", rec.Reason, reasonPopularity)
		}
	}
}

func TestRecommend_TopNTruncates(t *testing.T) {
	rows := []row{{"O-base", "C-t", "P-base", 1}}
	// Five products co-occurring with P-base at different strengths.
	for i := 1; i <= 5; i++ {
		for j := 0; j < i; j++ {
			order := fmt.Sprintf("O-%d-%d", i, j)
			rows = append(rows,
				row{order, "C-other", "P-base", 1},
				row{order, "C-other", fmt.Sprintf("P-%d", i), 1},
			)
		}
	}
	snap := buildSnapshot(t, rows)

	recs, err := New().Recommend(snap, "C-t", 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}
	// Highest co-occurrence counts first: P-5, P-4, P-3.
	want := []string{"P-5", "P-4", "P-3"}
	for i, w := range want {
		if recs[i].ProductID != w {
			t.Errorf("recs[%d] = %s, want %s", i, recs[i].ProductID, w)
		}
	}
}

func TestBuildCoOccurrence_SymmetricExcludesDiagonal(t *testing.T) {
	snap := buildSnapshot(t, []row{
		{"O-1", "C-1", "P-A", 1},
		{"O-1", "C-1", "P-B", 1},
		{"O-2", "C-2", "P-A", 1},
		{"O-2", "C-2", "P-B", 1},
	})

	counts := buildCoOccurrence(snap)
	if counts["P-A"]["P-B"] != 2 || counts["P-B"]["P-A"] != 2 {
		t.Errorf("A-B counts = %g/%g, want symmetric 2/2",
			counts["P-A"]["P-B"], counts["P-B"]["P-A"])
	}
	if _, ok := counts["P-A"]["P-A"]; ok {
		t.Error("diagonal must be excluded")
	}
}
