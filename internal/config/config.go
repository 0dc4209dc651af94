// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Package config provides layered configuration for Storesight using
// Koanf v2. Settings are resolved with the precedence
//
//	environment variables > config file (YAML) > built-in defaults
//
// Environment variables use the STORESIGHT_ prefix with underscores
// mapping to nesting, e.g. STORESIGHT_SERVER_PORT -> server.port.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	Security  SecurityConfig  `koanf:"security"`
	Analytics AnalyticsConfig `koanf:"analytics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DataConfig holds dataset ingestion settings.
type DataConfig struct {
	// Dir is where uploaded CSV files are stored.
	Dir string `koanf:"dir"`

	// DefaultCSV is loaded at startup when Autoload is set and the file
	// exists. A missing file is not an error.
	DefaultCSV string `koanf:"default_csv"`
	Autoload   bool   `koanf:"autoload"`

	// MaxUploadBytes caps multipart CSV uploads.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// AnalyticsConfig holds default parameters for the four analytics
// engines. Request parameters override these per call.
type AnalyticsConfig struct {
	// TopN is the default recommendation count.
	TopN int `koanf:"top_n"`

	// Promotion is the default rule used when a filter request leaves
	// thresholds unset.
	Promotion PromotionRuleConfig `koanf:"promotion"`

	// ForecastMonths is the default forecast horizon.
	ForecastMonths int `koanf:"forecast_months"`

	// ClusterK is the default number of RFM clusters.
	ClusterK int `koanf:"cluster_k"`

	// MinSupport and MinConfidence are the default association mining
	// thresholds.
	MinSupport    float64 `koanf:"min_support"`
	MinConfidence float64 `koanf:"min_confidence"`
}

// PromotionRuleConfig holds the default promotion rule thresholds.
type PromotionRuleConfig struct {
	MinQuantity   float64 `koanf:"min_quantity"`
	MaxQuantity   float64 `koanf:"max_quantity"`
	MinProfitRate float64 `koanf:"min_profit_rate"`
	MaxDiscount   float64 `koanf:"max_discount"`
}

// defaultConfig returns a Config with all default values. These are
// applied first and then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8086,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Data: DataConfig{
			Dir:            "data",
			DefaultCSV:     "data/sales_data.csv",
			Autoload:       true,
			MaxUploadBytes: 64 << 20, // 64MB
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Analytics: AnalyticsConfig{
			TopN: 5,
			Promotion: PromotionRuleConfig{
				MinQuantity:   50,
				MaxQuantity:   1000,
				MinProfitRate: 0.05,
				MaxDiscount:   0.5,
			},
			ForecastMonths: 3,
			ClusterK:       4,
			MinSupport:     0.01,
			MinConfidence:  0.5,
		},
	}
}

// Default returns the built-in configuration without consulting config
// files or the environment. Tests and embedding callers use it as a
// known-good starting point.
func Default() *Config {
	return defaultConfig()
}

// Validate checks the configuration for values that would prevent the
// server from operating.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Data.MaxUploadBytes <= 0 {
		return fmt.Errorf("data.max_upload_bytes must be positive, got %d", c.Data.MaxUploadBytes)
	}
	if c.Analytics.TopN < 1 {
		return fmt.Errorf("analytics.top_n must be positive, got %d", c.Analytics.TopN)
	}
	if c.Analytics.ForecastMonths < 1 {
		return fmt.Errorf("analytics.forecast_months must be positive, got %d", c.Analytics.ForecastMonths)
	}
	if c.Analytics.ClusterK < 1 {
		return fmt.Errorf("analytics.cluster_k must be positive, got %d", c.Analytics.ClusterK)
	}
	if c.Analytics.MinSupport <= 0 || c.Analytics.MinSupport > 1 {
		return fmt.Errorf("analytics.min_support must be in (0, 1], got %g", c.Analytics.MinSupport)
	}
	if c.Analytics.MinConfidence <= 0 || c.Analytics.MinConfidence > 1 {
		return fmt.Errorf("analytics.min_confidence must be in (0, 1], got %g", c.Analytics.MinConfidence)
	}
	if c.Analytics.Promotion.MinQuantity > c.Analytics.Promotion.MaxQuantity {
		return fmt.Errorf("analytics.promotion: min_quantity %g exceeds max_quantity %g",
			c.Analytics.Promotion.MinQuantity, c.Analytics.Promotion.MaxQuantity)
	}
	return nil
}
