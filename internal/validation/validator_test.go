// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	CustomerID string  `validate:"required"`
	TopN       int     `validate:"gte=1,lte=100"`
	Metric     string  `validate:"oneof=lift confidence support"`
	MinSupport float64 `validate:"gt=0,lte=1"`
}

func validSample() sampleRequest {
	return sampleRequest{
		CustomerID: "CU-1001",
		TopN:       5,
		Metric:     "lift",
		MinSupport: 0.01,
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*sampleRequest)
		wantErr   bool
		wantField string
	}{
		{name: "valid request", mutate: func(*sampleRequest) {}, wantErr: false},
		{
			name:      "missing customer id",
			mutate:    func(r *sampleRequest) { r.CustomerID = "" },
			wantErr:   true,
			wantField: "CustomerID",
		},
		{
			name:      "top_n too small",
			mutate:    func(r *sampleRequest) { r.TopN = 0 },
			wantErr:   true,
			wantField: "TopN",
		},
		{
			name:      "unknown metric",
			mutate:    func(r *sampleRequest) { r.Metric = "accuracy" },
			wantErr:   true,
			wantField: "Metric",
		},
		{
			name:      "support out of range",
			mutate:    func(r *sampleRequest) { r.MinSupport = 1.2 },
			wantErr:   true,
			wantField: "MinSupport",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSample()
			tt.mutate(&req)

			verr := ValidateStruct(&req)
			if (verr != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", verr, tt.wantErr)
			}
			if verr == nil {
				return
			}
			if len(verr.Errors()) == 0 {
				t.Fatal("expected field errors, got none")
			}
			if got := verr.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("failed field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestToAPIError_MultipleFields(t *testing.T) {
	req := sampleRequest{} // every field invalid
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation failure")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "CustomerID") {
		t.Errorf("message %q does not mention CustomerID", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-field error should carry a fields detail list")
	}
}
