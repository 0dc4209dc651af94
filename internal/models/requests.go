// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package models

// LoadRequest asks the server to load a sales CSV from disk.
// An empty path selects the configured default file.
type LoadRequest struct {
	Path string `json:"path"`
}

// RecommendRequest asks for product recommendations for one customer.
// TopN of 0 selects the configured default.
type RecommendRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	TopN       int    `json:"top_n" validate:"omitempty,gte=1,lte=100"`
}

// PromotionFilterRequest overrides the promotion rule thresholds.
// Nil fields fall back to the configured defaults.
type PromotionFilterRequest struct {
	MinQuantity   *float64 `json:"min_quantity" validate:"omitempty,gte=0"`
	MaxQuantity   *float64 `json:"max_quantity" validate:"omitempty,gte=0"`
	MinProfitRate *float64 `json:"min_profit_rate" validate:"omitempty,gte=0,lte=1"`
	MaxDiscount   *float64 `json:"max_discount" validate:"omitempty,gte=0,lte=1"`
}

// AssociationRequest holds market-basket mining parameters. Zero
// thresholds select the configured defaults; the engine itself rejects
// values outside (0, 1].
type AssociationRequest struct {
	MinSupport    float64 `json:"min_support" validate:"omitempty,gt=0,lte=1"`
	MinConfidence float64 `json:"min_confidence" validate:"omitempty,gt=0,lte=1"`
	Metric        string  `json:"metric" validate:"omitempty,oneof=lift confidence support"`
}

// ForecastRequest asks for a sales/profit projection. Months of 0
// selects the configured default horizon.
type ForecastRequest struct {
	Months int `json:"months" validate:"omitempty,gte=1,lte=60"`
}

// ClusterRequest asks for RFM customer clustering. K of 0 selects the
// configured default.
type ClusterRequest struct {
	K int `json:"k" validate:"omitempty,gte=1,lte=50"`
}

// Export targets accepted by ExportRequest.
const (
	ExportRecommendation = "recommendation"
	ExportPromotion      = "promotion"
	ExportCluster        = "cluster"
	ExportForecast       = "forecast"
)

// ExportRequest selects an analysis to stream as a CSV attachment.
type ExportRequest struct {
	Target     string `json:"target" validate:"required,oneof=recommendation promotion cluster forecast"`
	CustomerID string `json:"customer_id"`
	TopN       int    `json:"top_n" validate:"omitempty,gte=1,lte=100"`
	Months     int    `json:"months" validate:"omitempty,gte=1,lte=60"`
	K          int    `json:"k" validate:"omitempty,gte=1,lte=50"`
}
