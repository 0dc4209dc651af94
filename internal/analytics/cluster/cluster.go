// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Package cluster segments customers by their Recency/Frequency/
// Monetary profile using k-means over standardized features, then
// attaches a qualitative marketing label to each segment.
package cluster

import (
	"sort"

	"github.com/storesight/storesight/internal/analytics"
	"github.com/storesight/storesight/internal/dataset"
	"github.com/storesight/storesight/internal/models"
)

// Labels assigned to segments by comparing cluster means against the
// population medians. The checks run in this order; the first match
// wins.
const (
	LabelHighValueLoyal   = "high-value loyal"
	LabelHighPotential    = "high-potential growth"
	LabelDormant          = "dormant/win-back"
	LabelFrequentLowSpend = "frequent low-spend"
	LabelStable           = "stable/average"
)

// Result is the full clustering output for the API.
type Result struct {
	K           int                        `json:"k"`
	Assignments []models.ClusterAssignment `json:"assignments"`
	Summaries   []models.ClusterSummary    `json:"summaries"`
}

type Engine struct{}

func New() *Engine { return &Engine{} }

// Cluster computes RFM features and partitions customers into k
// segments. k must be between 1 and the number of eligible customers.
func (e *Engine) Cluster(snap *dataset.Snapshot, k int) (*Result, error) {
	records, err := ComputeRFM(snap)
	if err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, analytics.Validationf("cluster count must be at least 1, got %d", k)
	}
	if k > len(records) {
		return nil, analytics.Validationf("cluster count %d exceeds the %d customers available", k, len(records))
	}

	points := make([][]float64, len(records))
	for i, r := range records {
		points[i] = []float64{float64(r.Recency), float64(r.Frequency), r.Monetary}
	}
	assign := runKMeans(standardize(points), k)

	assignments := make([]models.ClusterAssignment, len(records))
	for i, r := range records {
		assignments[i] = models.ClusterAssignment{RFMRecord: r, Cluster: assign[i]}
	}

	return &Result{
		K:           k,
		Assignments: assignments,
		Summaries:   summarizeClusters(assignments, k),
	}, nil
}

// summarizeClusters aggregates each segment and labels it against the
// population medians of the raw feature values.
func summarizeClusters(assignments []models.ClusterAssignment, k int) []models.ClusterSummary {
	recency := make([]float64, len(assignments))
	frequency := make([]float64, len(assignments))
	monetary := make([]float64, len(assignments))

	summaries := make([]models.ClusterSummary, k)
	for c := range summaries {
		summaries[c].Cluster = c
	}
	for i, a := range assignments {
		recency[i] = float64(a.Recency)
		frequency[i] = float64(a.Frequency)
		monetary[i] = a.Monetary

		s := &summaries[a.Cluster]
		s.Count++
		s.MeanRecency += float64(a.Recency)
		s.MeanFrequency += float64(a.Frequency)
		s.MeanMonetary += a.Monetary
	}

	medR := median(recency)
	medF := median(frequency)
	medM := median(monetary)

	for c := range summaries {
		s := &summaries[c]
		if s.Count > 0 {
			n := float64(s.Count)
			s.MeanRecency /= n
			s.MeanFrequency /= n
			s.MeanMonetary /= n
		}
		s.Label = labelCluster(s.MeanRecency, s.MeanFrequency, s.MeanMonetary, medR, medF, medM)
	}
	return summaries
}

// labelCluster maps a segment's mean RFM position to a marketing label.
// Low recency means recently active.
func labelCluster(meanR, meanF, meanM, medR, medF, medM float64) string {
	recent := meanR <= medR
	highFreq := meanF >= medF
	highValue := meanM >= medM

	switch {
	case recent && highFreq && highValue:
		return LabelHighValueLoyal
	case recent && highValue:
		return LabelHighPotential
	case !recent && !highFreq:
		return LabelDormant
	case highFreq && !highValue:
		return LabelFrequentLowSpend
	default:
		return LabelStable
	}
}

// median of values; the mean of the two middle elements for even
// counts. The input slice is reordered.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}
