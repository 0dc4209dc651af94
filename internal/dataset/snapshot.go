// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package dataset

import (
	"sort"
	"time"

	"github.com/storesight/storesight/internal/models"
)

// Snapshot is one immutable view of the loaded dataset. It is built
// once by the loader and then only read; reloading produces a new
// Snapshot rather than mutating this one.
type Snapshot struct {
	transactions []models.Transaction
	orders       []models.OrderAggregate
	customers    []models.CustomerAggregate
	products     []models.ProductMetric

	productByID  map[string]int
	customerByID map[string]int

	latestDate time.Time
	sourcePath string
	loadedAt   time.Time
}

// newSnapshot derives all aggregate views from cleaned transactions.
func newSnapshot(transactions []models.Transaction, source string) *Snapshot {
	s := &Snapshot{
		transactions: transactions,
		sourcePath:   source,
		loadedAt:     time.Now(),
	}
	s.buildOrders()
	s.buildCustomers()
	s.buildProducts()
	return s
}

func (s *Snapshot) buildOrders() {
	type orderAcc struct {
		agg           models.OrderAggregate
		discountTotal float64
		lines         int
	}
	accs := make(map[string]*orderAcc)
	for _, tx := range s.transactions {
		acc, ok := accs[tx.OrderID]
		if !ok {
			acc = &orderAcc{agg: models.OrderAggregate{
				OrderID:    tx.OrderID,
				CustomerID: tx.CustomerID,
				OrderDate:  tx.OrderDate,
			}}
			accs[tx.OrderID] = acc
		}
		acc.agg.Sales += tx.Sales
		acc.agg.Profit += tx.Profit
		acc.discountTotal += tx.Discount
		acc.lines++
	}

	s.orders = make([]models.OrderAggregate, 0, len(accs))
	for _, acc := range accs {
		acc.agg.Discount = acc.discountTotal / float64(acc.lines)
		s.orders = append(s.orders, acc.agg)
		if acc.agg.OrderDate.After(s.latestDate) {
			s.latestDate = acc.agg.OrderDate
		}
	}
	sort.Slice(s.orders, func(i, j int) bool { return s.orders[i].OrderID < s.orders[j].OrderID })
}

func (s *Snapshot) buildCustomers() {
	accs := make(map[string]*models.CustomerAggregate)
	orderSeen := make(map[string]map[string]struct{})
	for _, tx := range s.transactions {
		acc, ok := accs[tx.CustomerID]
		if !ok {
			acc = &models.CustomerAggregate{CustomerID: tx.CustomerID}
			accs[tx.CustomerID] = acc
			orderSeen[tx.CustomerID] = make(map[string]struct{})
		}
		acc.TotalSales += tx.Sales
		acc.TotalProfit += tx.Profit
		orderSeen[tx.CustomerID][tx.OrderID] = struct{}{}
		if tx.HasDate() {
			if acc.FirstOrderDate.IsZero() || tx.OrderDate.Before(acc.FirstOrderDate) {
				acc.FirstOrderDate = tx.OrderDate
			}
			if tx.OrderDate.After(acc.LastOrderDate) {
				acc.LastOrderDate = tx.OrderDate
			}
		}
	}

	s.customers = make([]models.CustomerAggregate, 0, len(accs))
	for id, acc := range accs {
		acc.OrderCount = len(orderSeen[id])
		s.customers = append(s.customers, *acc)
	}
	sort.Slice(s.customers, func(i, j int) bool {
		return s.customers[i].CustomerID < s.customers[j].CustomerID
	})
	s.customerByID = make(map[string]int, len(s.customers))
	for i, c := range s.customers {
		s.customerByID[c.CustomerID] = i
	}
}

func (s *Snapshot) buildProducts() {
	type productAcc struct {
		metric        models.ProductMetric
		discountTotal float64
		lines         int
	}
	accs := make(map[string]*productAcc)
	for _, tx := range s.transactions {
		acc, ok := accs[tx.ProductID]
		if !ok {
			acc = &productAcc{metric: models.ProductMetric{
				ProductID:   tx.ProductID,
				ProductName: tx.ProductName,
			}}
			accs[tx.ProductID] = acc
		}
		if acc.metric.ProductName == "" {
			acc.metric.ProductName = tx.ProductName
		}
		acc.metric.Quantity += tx.Quantity
		acc.metric.Sales += tx.Sales
		acc.metric.Profit += tx.Profit
		acc.discountTotal += tx.Discount
		acc.lines++
	}

	s.products = make([]models.ProductMetric, 0, len(accs))
	for _, acc := range accs {
		acc.metric.Discount = acc.discountTotal / float64(acc.lines)
		if acc.metric.Sales > 0 {
			acc.metric.ProfitRate = acc.metric.Profit / acc.metric.Sales
		}
		s.products = append(s.products, acc.metric)
	}
	sort.Slice(s.products, func(i, j int) bool {
		return s.products[i].ProductID < s.products[j].ProductID
	})
	s.productByID = make(map[string]int, len(s.products))
	for i, p := range s.products {
		s.productByID[p.ProductID] = i
	}
}

// Transactions returns the cleaned transaction rows. Callers must not
// modify the returned slice.
func (s *Snapshot) Transactions() []models.Transaction { return s.transactions }

// Orders returns the per-order aggregates, sorted by order id.
func (s *Snapshot) Orders() []models.OrderAggregate { return s.orders }

// Customers returns the per-customer aggregates, sorted by customer id.
func (s *Snapshot) Customers() []models.CustomerAggregate { return s.customers }

// Products returns the per-product metrics, sorted by product id.
func (s *Snapshot) Products() []models.ProductMetric { return s.products }

// Product looks up one product's metrics by id.
func (s *Snapshot) Product(id string) (models.ProductMetric, bool) {
	idx, ok := s.productByID[id]
	if !ok {
		return models.ProductMetric{}, false
	}
	return s.products[idx], true
}

// Customer looks up one customer's aggregate by id.
func (s *Snapshot) Customer(id string) (models.CustomerAggregate, bool) {
	idx, ok := s.customerByID[id]
	if !ok {
		return models.CustomerAggregate{}, false
	}
	return s.customers[idx], true
}

// ProductName resolves a product id to its name, returning the id
// verbatim when no name is known.
func (s *Snapshot) ProductName(id string) string {
	if p, ok := s.Product(id); ok && p.ProductName != "" {
		return p.ProductName
	}
	return id
}

// LatestOrderDate returns the most recent order date in the dataset.
// ok is false when no row carried a parseable date.
func (s *Snapshot) LatestOrderDate() (time.Time, bool) {
	return s.latestDate, !s.latestDate.IsZero()
}

// SourcePath returns where the snapshot was loaded from.
func (s *Snapshot) SourcePath() string { return s.sourcePath }

// Overview summarizes the snapshot for the data management endpoints.
func (s *Snapshot) Overview() models.DatasetOverview {
	ov := models.DatasetOverview{
		Records:    len(s.transactions),
		Orders:     len(s.orders),
		Customers:  len(s.customers),
		Products:   len(s.products),
		SourcePath: s.sourcePath,
	}
	var earliest time.Time
	for _, tx := range s.transactions {
		if !tx.HasDate() {
			continue
		}
		if earliest.IsZero() || tx.OrderDate.Before(earliest) {
			earliest = tx.OrderDate
		}
	}
	if !earliest.IsZero() {
		ov.StartDate = earliest.Format("2006-01-02")
	}
	if !s.latestDate.IsZero() {
		ov.EndDate = s.latestDate.Format("2006-01-02")
	}
	return ov
}
