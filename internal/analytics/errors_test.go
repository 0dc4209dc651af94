// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package analytics

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "validation", err: Validationf("customer id must not be blank"), kind: ErrValidation},
		{name: "not found", err: NotFoundf("customer %s has no transactions", "CU-1"), kind: ErrNotFound},
		{name: "data", err: Dataf("dataset has no order dates"), kind: ErrData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, kind) = false, want true", tt.err)
			}
			for _, other := range []error{ErrValidation, ErrNotFound, ErrData} {
				if other != tt.kind && errors.Is(tt.err, other) {
					t.Errorf("%v unexpectedly matches %v", tt.err, other)
				}
			}
		})
	}
}

func TestErrorKinds_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("recommend: %w", NotFoundf("customer CU-9 has no transactions"))
	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped NotFound error lost its kind")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("wrapped error matched the wrong kind")
	}
}

func TestErrorMessages(t *testing.T) {
	err := Validationf("min_support must be in (0, 1], got %g", 1.5)
	want := "min_support must be in (0, 1], got 1.5"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
