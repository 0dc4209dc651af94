// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package cluster

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/storesight/storesight/internal/analytics"
	"github.com/storesight/storesight/internal/dataset"
)

type orderRow struct {
	order    string
	customer string
	sales    float64
	date     string
}

func buildSnapshot(t *testing.T, rows []orderRow) *dataset.Snapshot {
	t.Helper()
	var b strings.Builder
	b.WriteString("Order ID,Customer ID,Product ID,Product Name,Quantity,Sales,Profit,Discount,Order Date\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,%s,P-1,Widget,1,%g,%g,0,%s\n", r.order, r.customer, r.sales, r.sales/10, r.date)
	}
	snap, err := dataset.LoadReader(strings.NewReader(b.String()), "test.csv")
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	return snap
}

// segmentedRows builds three active high-spend customers and three
// dormant low-spend ones. The dataset's latest order date is 2024-03-03.
func segmentedRows() []orderRow {
	var rows []orderRow
	for i := 1; i <= 3; i++ {
		c := fmt.Sprintf("C-active-%d", i)
		for d := 1; d <= 3; d++ {
			rows = append(rows, orderRow{
				order:    fmt.Sprintf("O-%s-%d", c, d),
				customer: c,
				sales:    1000,
				date:     fmt.Sprintf("2024-03-%02d", d),
			})
		}
	}
	for i := 1; i <= 3; i++ {
		c := fmt.Sprintf("C-dormant-%d", i)
		rows = append(rows, orderRow{
			order:    fmt.Sprintf("O-%s-1", c),
			customer: c,
			sales:    20,
			date:     "2023-06-01",
		})
	}
	return rows
}

func TestComputeRFM(t *testing.T) {
	snap := buildSnapshot(t, []orderRow{
		{"O-1", "C-A", 100, "2024-03-10"},
		{"O-2", "C-A", 200, "2024-03-15"},
		{"O-3", "C-B", 50, "2024-01-15"},
	})

	records, err := ComputeRFM(snap)
	if err != nil {
		t.Fatalf("ComputeRFM() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	byID := map[string]int{}
	for i, r := range records {
		byID[r.CustomerID] = i
	}

	a := records[byID["C-A"]]
	if a.Recency != 0 || a.Frequency != 2 || a.Monetary != 300 {
		t.Errorf("C-A RFM = (%d, %d, %v), want (0, 2, 300)", a.Recency, a.Frequency, a.Monetary)
	}
	b := records[byID["C-B"]]
	if b.Recency != 60 || b.Frequency != 1 || b.Monetary != 50 {
		t.Errorf("C-B RFM = (%d, %d, %v), want (60, 1, 50)", b.Recency, b.Frequency, b.Monetary)
	}
}

func TestCluster_SeparatesSegments(t *testing.T) {
	snap := buildSnapshot(t, segmentedRows())

	res, err := New().Cluster(snap, 2)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if len(res.Assignments) != 6 {
		t.Fatalf("got %d assignments, want 6", len(res.Assignments))
	}

	clusters := map[string]int{}
	for _, a := range res.Assignments {
		clusters[a.CustomerID] = a.Cluster
	}
	activeCluster := clusters["C-active-1"]
	dormantCluster := clusters["C-dormant-1"]
	if activeCluster == dormantCluster {
		t.Fatal("active and dormant customers landed in the same cluster")
	}
	for i := 2; i <= 3; i++ {
		if got := clusters[fmt.Sprintf("C-active-%d", i)]; got != activeCluster {
			t.Errorf("C-active-%d in cluster %d, want %d", i, got, activeCluster)
		}
		if got := clusters[fmt.Sprintf("C-dormant-%d", i)]; got != dormantCluster {
			t.Errorf("C-dormant-%d in cluster %d, want %d", i, got, dormantCluster)
		}
	}

	labels := map[int]string{}
	for _, s := range res.Summaries {
		labels[s.Cluster] = s.Label
	}
	if labels[activeCluster] != LabelHighValueLoyal {
		t.Errorf("active segment label = %q, want %q", labels[activeCluster], LabelHighValueLoyal)
	}
	if labels[dormantCluster] != LabelDormant {
		t.Errorf("dormant segment label = %q, want %q", labels[dormantCluster], LabelDormant)
	}
}

func TestCluster_Deterministic(t *testing.T) {
	snap := buildSnapshot(t, segmentedRows())

	first, err := New().Cluster(snap, 3)
	if err != nil {
		t.Fatalf("first Cluster() error = %v", err)
	}
	second, err := New().Cluster(snap, 3)
	if err != nil {
		t.Fatalf("second Cluster() error = %v", err)
	}
	for i := range first.Assignments {
		if first.Assignments[i].Cluster != second.Assignments[i].Cluster {
			t.Fatalf("assignment %d differs between runs: %d vs %d",
				i, first.Assignments[i].Cluster, second.Assignments[i].Cluster)
		}
	}
}

func TestCluster_SingleCluster(t *testing.T) {
	snap := buildSnapshot(t, segmentedRows())
	res, err := New().Cluster(snap, 1)
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	for _, a := range res.Assignments {
		if a.Cluster != 0 {
			t.Errorf("customer %s in cluster %d, want 0", a.CustomerID, a.Cluster)
		}
	}
	if len(res.Summaries) != 1 || res.Summaries[0].Count != 6 {
		t.Errorf("summaries = %+v, want one cluster of 6", res.Summaries)
	}
}

func TestCluster_KValidation(t *testing.T) {
	snap := buildSnapshot(t, segmentedRows())
	for _, k := range []int{0, -1, 7} {
		if _, err := New().Cluster(snap, k); !errors.Is(err, analytics.ErrValidation) {
			t.Errorf("Cluster(k=%d) error = %v, want ErrValidation", k, err)
		}
	}
}

func TestCluster_NoDates(t *testing.T) {
	var b strings.Builder
	b.WriteString("Order ID,Customer ID,Product ID,Product Name,Quantity,Sales,Profit,Discount,Order Date\n")
	b.WriteString("O-1,C-1,P-1,Widget,1,100,10,0,\n")
	snap, err := dataset.LoadReader(strings.NewReader(b.String()), "test.csv")
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	if _, err := New().Cluster(snap, 2); !errors.Is(err, analytics.ErrData) {
		t.Errorf("Cluster() error = %v, want ErrData", err)
	}
}

func TestLabelCluster(t *testing.T) {
	// Medians fixed at R=100, F=5, M=1000.
	tests := []struct {
		name    string
		r, f, m float64
		want    string
	}{
		{"recent frequent high spend", 10, 8, 5000, LabelHighValueLoyal},
		{"recent high spend low frequency", 10, 2, 5000, LabelHighPotential},
		{"stale and infrequent", 200, 2, 5000, LabelDormant},
		{"frequent but cheap", 10, 8, 100, LabelFrequentLowSpend},
		{"stale but frequent and high spend", 200, 8, 5000, LabelStable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := labelCluster(tc.r, tc.f, tc.m, 100, 5, 1000)
			if got != tc.want {
				t.Errorf("labelCluster(%v, %v, %v) = %q, want %q", tc.r, tc.f, tc.m, got, tc.want)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
		{[]float64{7}, 7},
		{nil, 0},
	}
	for _, tc := range tests {
		if got := median(append([]float64(nil), tc.values...)); got != tc.want {
			t.Errorf("median(%v) = %v, want %v", tc.values, got, tc.want)
		}
	}
}

func TestStandardize(t *testing.T) {
	scaled := standardize([][]float64{{1, 10}, {2, 10}, {3, 10}})

	for d := 0; d < 2; d++ {
		var sum float64
		for _, row := range scaled {
			sum += row[d]
		}
		if math.Abs(sum) > 1e-9 {
			t.Errorf("column %d mean = %v, want 0", d, sum/3)
		}
	}
	// First column has variance and must hit unit scale.
	if math.Abs(scaled[0][0]-(-math.Sqrt(1.5))) > 1e-9 {
		t.Errorf("scaled[0][0] = %v, want %v", scaled[0][0], -math.Sqrt(1.5))
	}
	// Constant column stays at zero.
	for i, row := range scaled {
		if row[1] != 0 {
			t.Errorf("constant column row %d = %v, want 0", i, row[1])
		}
	}
}
