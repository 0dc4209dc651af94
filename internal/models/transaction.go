// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Package models defines the domain records shared by the dataset
// collaborator, the analytics engines and the HTTP API.
package models

import "time"

// Transaction is one cleaned sales line item. Quantity, sales, profit
// and discount are non-negative after cleaning; missing discount
// defaults to 0 and missing quantity to 1. Immutable once loaded.
type Transaction struct {
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    float64   `json:"quantity"`
	Sales       float64   `json:"sales"`
	Profit      float64   `json:"profit"`
	Discount    float64   `json:"discount"`
	OrderDate   time.Time `json:"order_date"`
	Category    string    `json:"category,omitempty"`
	SubCategory string    `json:"sub_category,omitempty"`
}

// HasDate reports whether the source row carried a parseable order date.
func (t Transaction) HasDate() bool { return !t.OrderDate.IsZero() }

// OrderAggregate summarizes one distinct order: first seen customer and
// date, summed sales and profit, mean discount across line items.
type OrderAggregate struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	OrderDate  time.Time `json:"order_date"`
	Sales      float64   `json:"sales"`
	Profit     float64   `json:"profit"`
	Discount   float64   `json:"discount"`
}

// CustomerAggregate summarizes one customer's purchase history.
type CustomerAggregate struct {
	CustomerID     string    `json:"customer_id"`
	OrderCount     int       `json:"order_count"`
	TotalSales     float64   `json:"total_sales"`
	TotalProfit    float64   `json:"total_profit"`
	FirstOrderDate time.Time `json:"first_order_date"`
	LastOrderDate  time.Time `json:"last_order_date"`
}

// ProductMetric summarizes one product across all transactions.
// ProfitRate is profit/sales, or 0 when the product has no sales.
type ProductMetric struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Sales       float64 `json:"sales"`
	Profit      float64 `json:"profit"`
	Discount    float64 `json:"discount"`
	ProfitRate  float64 `json:"profit_rate"`
}

// DatasetOverview holds snapshot statistics for the data management UI.
type DatasetOverview struct {
	Records    int    `json:"records"`
	Orders     int    `json:"orders"`
	Customers  int    `json:"customers"`
	Products   int    `json:"products"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	SourcePath string `json:"source_path,omitempty"`
}
