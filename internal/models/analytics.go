// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package models

// Recommendation is one scored product suggestion for a customer.
type Recommendation struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason"`
}

// PromotionCandidate is a product that passed the promotion rule filter,
// with a generated explanation of why it qualified.
type PromotionCandidate struct {
	ProductMetric
	Reason string `json:"reason"`
}

// AssociationRule is one mined market-basket rule. Antecedents and
// consequents carry product names (ids verbatim when no name is known).
type AssociationRule struct {
	Antecedents []string `json:"antecedents"`
	Consequents []string `json:"consequents"`
	Support     float64  `json:"support"`
	Confidence  float64  `json:"confidence"`
	Lift        float64  `json:"lift"`
	Reason      string   `json:"reason"`
}

// ForecastPoint is one monthly observation or projection. History
// points carry no model tag; forecast points name the model that
// produced them.
type ForecastPoint struct {
	Period string  `json:"period"` // YYYY-MM
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
	Model  string  `json:"model,omitempty"`
}

// ForecastModelInfo describes the winning forecast model and why it was
// chosen.
type ForecastModelInfo struct {
	// Name is the selected model: "trend" or "autoregressive".
	Name string `json:"name"`

	// Reason is a human-readable justification: the holdout MAPE
	// comparison, or the fallback rationale for short series.
	Reason string `json:"reason"`

	// Holdout reports whether holdout validation ran. When false the
	// series was too short and the selection fell back to policy.
	Holdout bool `json:"holdout"`

	// TrendMAPE and AutoregMAPE are the holdout errors, present only
	// when Holdout is true and the model was available.
	TrendMAPE   *float64 `json:"trend_mape,omitempty"`
	AutoregMAPE *float64 `json:"autoregressive_mape,omitempty"`
}

// RFMRecord holds the Recency/Frequency/Monetary features for one
// customer. Recency is days since the customer's last order relative to
// the dataset's latest order date, keeping results deterministic.
type RFMRecord struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency_days"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
}

// ClusterAssignment is an RFMRecord with its model-assigned cluster.
type ClusterAssignment struct {
	RFMRecord
	Cluster int `json:"cluster"`
}

// ClusterSummary aggregates one cluster with a qualitative label
// derived from its mean R/F/M relative to the population medians.
type ClusterSummary struct {
	Cluster       int     `json:"cluster"`
	Count         int     `json:"count"`
	MeanRecency   float64 `json:"mean_recency"`
	MeanFrequency float64 `json:"mean_frequency"`
	MeanMonetary  float64 `json:"mean_monetary"`
	Label         string  `json:"label"`
}
