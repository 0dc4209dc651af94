// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package dataset

import (
	"errors"
	"io"
	"sync/atomic"

	"github.com/storesight/storesight/internal/metrics"
)

// ErrNotLoaded is returned by Current before any dataset has been
// loaded.
var ErrNotLoaded = errors.New("no dataset loaded")

// Repository holds the current dataset snapshot. Reload swaps the
// snapshot reference atomically, so analytics calls that grabbed the
// previous snapshot keep reading a consistent view; nothing is mutated
// in place.
type Repository struct {
	current atomic.Pointer[Snapshot]
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Current returns the active snapshot, or ErrNotLoaded.
func (r *Repository) Current() (*Snapshot, error) {
	s := r.current.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s, nil
}

// Loaded reports whether a snapshot is available.
func (r *Repository) Loaded() bool {
	return r.current.Load() != nil
}

// Replace installs a new snapshot as the current one.
func (r *Repository) Replace(s *Snapshot) {
	r.current.Store(s)
	metrics.DatasetRecords.Set(float64(len(s.transactions)))
}

// LoadFile loads a CSV from disk and installs the resulting snapshot.
func (r *Repository) LoadFile(path string) (*Snapshot, error) {
	s, err := LoadFile(path)
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	r.Replace(s)
	metrics.DatasetLoadsTotal.WithLabelValues("success").Inc()
	return s, nil
}

// LoadReader loads a CSV from r and installs the resulting snapshot.
func (r *Repository) LoadReader(reader io.Reader, source string) (*Snapshot, error) {
	s, err := LoadReader(reader, source)
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	r.Replace(s)
	metrics.DatasetLoadsTotal.WithLabelValues("success").Inc()
	return s, nil
}
