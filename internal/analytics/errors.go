// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Package analytics defines the error taxonomy shared by the four
// analytics engines.
//
// Three error kinds are surfaced to callers:
//
//   - ErrValidation: a caller-supplied parameter is out of range
//     (blank customer id, thresholds outside (0,1], empty RFM set).
//     Never retried.
//   - ErrNotFound: the referenced entity has no data (unknown customer
//     with no transaction history). Not an empty success.
//   - ErrData: the dataset lacks a required derived structure (no order
//     dates, no products). The caller must load or reload data.
//
// Model fit failures inside the forecast engine are recovered locally
// and never surface; see the forecast package.
//
// An empty result set is a valid success outcome (association mining on
// sparse data) and is distinct from every error kind.
package analytics

import (
	"errors"
	"fmt"
)

// Sentinel kinds, matched with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrData       = errors.New("data error")
)

// kindError attaches a message to a sentinel kind so that errors.Is
// works against the sentinel while the message stays actionable.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Validationf returns an ErrValidation with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns an ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Dataf returns an ErrData with a formatted message.
func Dataf(format string, args ...interface{}) error {
	return &kindError{kind: ErrData, msg: fmt.Sprintf(format, args...)}
}
