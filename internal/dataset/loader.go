// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Package dataset loads and cleans per-line sales transactions and
// exposes them as immutable snapshots. A snapshot owns the raw rows
// plus per-order, per-customer and per-product aggregates; the
// analytics engines only read it. Reload replaces the snapshot
// reference atomically so in-flight analytics calls keep a consistent
// view.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/storesight/storesight/internal/logging"
	"github.com/storesight/storesight/internal/models"
)

// headerAliases maps known source column headings to canonical names.
// Unknown headings fall through to a lower_snake_case conversion.
var headerAliases = map[string]string{
	"Order ID":     "order_id",
	"OrderID":      "order_id",
	"Customer ID":  "customer_id",
	"CustomerID":   "customer_id",
	"Product ID":   "product_id",
	"ProductID":    "product_id",
	"Product Name": "product_name",
	"Quantity":     "quantity",
	"Sales":        "sales",
	"Profit":       "profit",
	"Discount":     "discount",
	"Order Date":   "order_date",
	"Category":     "category",
	"Sub-Category": "sub_category",
}

// dateLayouts are tried in order when parsing order dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// LoadFile reads and cleans a sales CSV from disk.
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	return LoadReader(f, path)
}

// LoadReader reads and cleans a sales CSV from r. The source string is
// recorded in the snapshot for the overview endpoint.
func LoadReader(r io.Reader, source string) (*Snapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, validated per field below
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[normalizeHeader(h)] = i
	}
	for _, required := range []string{"order_id", "customer_id", "product_id", "sales"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("dataset is missing required column %q", required)
		}
	}

	var (
		transactions []models.Transaction
		dropped      int
		line         = 1
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("parse dataset line %d: %w", line, err)
		}

		tx, ok := parseRow(record, cols)
		if !ok {
			dropped++
			continue
		}
		transactions = append(transactions, tx)
	}

	if dropped > 0 {
		logging.Warn().Int("dropped", dropped).Str("source", source).
			Msg("dropped rows missing order, customer or product id")
	}
	logging.Info().Int("records", len(transactions)).Str("source", source).
		Msg("dataset loaded")

	return newSnapshot(transactions, source), nil
}

// parseRow converts one CSV record into a cleaned Transaction. Rows
// without all three identifiers are dropped.
func parseRow(record []string, cols map[string]int) (models.Transaction, bool) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	tx := models.Transaction{
		OrderID:     field("order_id"),
		CustomerID:  field("customer_id"),
		ProductID:   field("product_id"),
		ProductName: field("product_name"),
		Category:    field("category"),
		SubCategory: field("sub_category"),
	}
	if tx.OrderID == "" || tx.CustomerID == "" || tx.ProductID == "" {
		return models.Transaction{}, false
	}

	tx.Quantity = parseNumber(field("quantity"), 1)
	tx.Sales = parseNumber(field("sales"), 0)
	tx.Profit = parseNumber(field("profit"), 0)
	tx.Discount = parseNumber(field("discount"), 0)

	if raw := field("order_date"); raw != "" {
		tx.OrderDate = parseDate(raw)
	}
	return tx, true
}

// parseNumber coerces a numeric field, substituting def when missing or
// unparseable and flooring negatives at zero.
func parseNumber(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	if v < 0 {
		return 0
	}
	return v
}

func parseDate(raw string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// normalizeHeader resolves a source heading to its canonical name.
func normalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	if canonical, ok := headerAliases[h]; ok {
		return canonical
	}
	lower := strings.ToLower(h)
	lower = strings.ReplaceAll(lower, " ", "_")
	lower = strings.ReplaceAll(lower, "-", "_")
	return lower
}
