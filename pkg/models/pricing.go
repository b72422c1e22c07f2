package models

import (
	"errors"
	"fmt"
)

// ModelType classifies what a model produces.
type ModelType string

const (
	ModelText       ModelType = "text"
	ModelImage      ModelType = "image"
	ModelVideo      ModelType = "video"
	ModelMultimodal ModelType = "multimodal"
	ModelEmbedding  ModelType = "embedding"
	ModelAudio      ModelType = "audio"
)

// PriceSheet holds per-unit prices for a model in USD. Optional prices are nil
// when the model does not bill for that dimension.
type PriceSheet struct {
	InputPricePerMillion          float64  `json:"input_price_per_million" yaml:"input_price_per_million" toml:"input_price_per_million"`
	OutputPricePerMillion         float64  `json:"output_price_per_million" yaml:"output_price_per_million" toml:"output_price_per_million"`
	CachedInputPricePerMillion    *float64 `json:"cached_input_price_per_million,omitempty" yaml:"cached_input_price_per_million,omitempty" toml:"cached_input_price_per_million,omitempty"`
	CacheStoragePerMillionPerHour *float64 `json:"cache_storage_per_million_per_hour,omitempty" yaml:"cache_storage_per_million_per_hour,omitempty" toml:"cache_storage_per_million_per_hour,omitempty"`
	PricePerImage                 *float64 `json:"price_per_image,omitempty" yaml:"price_per_image,omitempty" toml:"price_per_image,omitempty"`
	PricePerSecondVideo           *float64 `json:"price_per_second_video,omitempty" yaml:"price_per_second_video,omitempty" toml:"price_per_second_video,omitempty"`
	PricePerSecondAudio           *float64 `json:"price_per_second_audio,omitempty" yaml:"price_per_second_audio,omitempty" toml:"price_per_second_audio,omitempty"`
}

// ErrNegativePrice is returned for a price sheet with a price below zero.
var ErrNegativePrice = errors.New("price must not be negative")

// Validate checks that every price present in the sheet is at least zero.
// Absent optional prices are valid.
func (p PriceSheet) Validate() error {
	prices := []struct {
		name  string
		value *float64
	}{
		{"input_price_per_million", &p.InputPricePerMillion},
		{"output_price_per_million", &p.OutputPricePerMillion},
		{"cached_input_price_per_million", p.CachedInputPricePerMillion},
		{"cache_storage_per_million_per_hour", p.CacheStoragePerMillionPerHour},
		{"price_per_image", p.PricePerImage},
		{"price_per_second_video", p.PricePerSecondVideo},
		{"price_per_second_audio", p.PricePerSecondAudio},
	}
	for _, pr := range prices {
		if pr.value != nil && *pr.value < 0 {
			return fmt.Errorf("%s %v: %w", pr.name, *pr.value, ErrNegativePrice)
		}
	}
	return nil
}

// Price returns a pointer to v for populating optional PriceSheet fields.
func Price(v float64) *float64 {
	return &v
}

// ModelInfo describes a model and its price sheet.
type ModelInfo struct {
	ID            string     `json:"id" yaml:"id" toml:"id"`
	Name          string     `json:"name" yaml:"name" toml:"name"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	ContextWindow int        `json:"context_window" yaml:"context_window" toml:"context_window"`
	ReleaseDate   string     `json:"release_date,omitempty" yaml:"release_date,omitempty" toml:"release_date,omitempty"`
	Type          ModelType  `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Pricing       PriceSheet `json:"pricing" yaml:"pricing" toml:"pricing"`
	Custom        bool       `json:"custom,omitempty" yaml:"custom,omitempty" toml:"custom,omitempty"`
}

// UsageProfile describes the workload to price. Units are token equivalents.
type UsageProfile struct {
	InputUnits        int64   `json:"input_units"`
	OutputUnits       int64   `json:"output_units"`
	AudioMinutes      float64 `json:"audio_minutes"`
	VideoMinutes      float64 `json:"video_minutes"`
	GeneratedImages   int64   `json:"generated_images"`
	RequestCount      int64   `json:"request_count"`
	CachingEnabled    bool    `json:"caching_enabled"`
	CacheStorageHours float64 `json:"cache_storage_hours"`
}

// ErrInvalidUsage is returned for a usage profile the cost engine cannot price.
var ErrInvalidUsage = errors.New("invalid usage")

// Validate checks the minimums the cost engine relies on: at least one
// request and no negative quantities.
func (u UsageProfile) Validate() error {
	switch {
	case u.RequestCount < 1:
		return fmt.Errorf("%w: request count must be at least 1, got %d", ErrInvalidUsage, u.RequestCount)
	case u.InputUnits < 0:
		return fmt.Errorf("%w: input units must not be negative, got %d", ErrInvalidUsage, u.InputUnits)
	case u.OutputUnits < 0:
		return fmt.Errorf("%w: output units must not be negative, got %d", ErrInvalidUsage, u.OutputUnits)
	case u.AudioMinutes < 0:
		return fmt.Errorf("%w: audio minutes must not be negative, got %v", ErrInvalidUsage, u.AudioMinutes)
	case u.VideoMinutes < 0:
		return fmt.Errorf("%w: video minutes must not be negative, got %v", ErrInvalidUsage, u.VideoMinutes)
	case u.GeneratedImages < 0:
		return fmt.Errorf("%w: generated images must not be negative, got %d", ErrInvalidUsage, u.GeneratedImages)
	case u.CacheStorageHours < 0:
		return fmt.Errorf("%w: cache storage hours must not be negative, got %v", ErrInvalidUsage, u.CacheStorageHours)
	}
	return nil
}

// CostBreakdown is the priced result of a UsageProfile. Line items are already
// scaled by the request count; StorageCost is not.
type CostBreakdown struct {
	InputCost           float64 `json:"input_cost"`
	OutputCost          float64 `json:"output_cost"`
	ImageGenerationCost float64 `json:"image_generation_cost"`
	VideoGenerationCost float64 `json:"video_generation_cost"`
	StorageCost         float64 `json:"storage_cost"`
	TotalCost           float64 `json:"total_cost"`
}

// ModelCost pairs a model with the breakdown computed for it.
type ModelCost struct {
	Model     ModelInfo     `json:"model"`
	Breakdown CostBreakdown `json:"breakdown"`
}
