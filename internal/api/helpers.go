// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/storesight/storesight/internal/analytics"
	"github.com/storesight/storesight/internal/dataset"
	"github.com/storesight/storesight/internal/logging"
	"github.com/storesight/storesight/internal/models"
	"github.com/storesight/storesight/internal/validation"
)

// Error codes returned in APIError.Code.
const (
	codeBadRequest       = "BAD_REQUEST"
	codeValidation       = "VALIDATION_ERROR"
	codeNotFound         = "NOT_FOUND"
	codeDataError        = "DATA_ERROR"
	codeDatasetNotLoaded = "DATASET_NOT_LOADED"
	codeInternal         = "INTERNAL_ERROR"
)

// sanitizeLogValue strips control characters so request-supplied
// strings cannot forge log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondData wraps payload in the success envelope, stamping the
// elapsed handler time.
func respondData(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondEngineError maps dataset and analytics errors onto HTTP
// statuses and stable error codes.
func respondEngineError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, codeInternal
	switch {
	case errors.Is(err, dataset.ErrNotLoaded):
		status, code = http.StatusBadRequest, codeDatasetNotLoaded
	case errors.Is(err, analytics.ErrValidation):
		status, code = http.StatusBadRequest, codeValidation
	case errors.Is(err, analytics.ErrNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.Is(err, analytics.ErrData):
		status, code = http.StatusBadRequest, codeDataError
	}
	respondError(w, status, code, err.Error(), err)
}

// decodeRequest parses a JSON body into v and validates it. An empty
// body is accepted as the zero request so every parameter can fall back
// to configured defaults. Returns false after writing the error
// response when the request is unusable.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, codeBadRequest, "request body is not valid JSON", err)
			return false
		}
	}
	if validationErr := validation.ValidateStruct(v); validationErr != nil {
		apiErr := validationErr.ToAPIError()
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error: &models.APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		})
		return false
	}
	return true
}
