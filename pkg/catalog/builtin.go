package catalog

import "github.com/pario-ai/costscope/pkg/models"

// Shared price points per model family, USD per 1M units.
var (
	proPrices = models.PriceSheet{
		InputPricePerMillion:          3.50,
		OutputPricePerMillion:         10.50,
		CachedInputPricePerMillion:    models.Price(0.875),
		CacheStoragePerMillionPerHour: models.Price(4.50),
	}
	flashPrices = models.PriceSheet{
		InputPricePerMillion:          0.075,
		OutputPricePerMillion:         0.30,
		CachedInputPricePerMillion:    models.Price(0.01875),
		CacheStoragePerMillionPerHour: models.Price(1.00),
	}
	flashLitePrices = models.PriceSheet{
		InputPricePerMillion:          0.0375,
		OutputPricePerMillion:         0.15,
		CachedInputPricePerMillion:    models.Price(0.01),
		CacheStoragePerMillionPerHour: models.Price(1.00),
	}
)

// Builtin returns the static model catalog. The returned slice is a fresh copy.
func Builtin() []models.ModelInfo {
	return []models.ModelInfo{
		{
			ID:            "gemini-3-pro-preview",
			Name:          "Gemini 3 Pro (Preview)",
			Description:   "Latest model with advanced reasoning and complex logic.",
			ContextWindow: 2097152,
			ReleaseDate:   "2025-02",
			Type:          models.ModelMultimodal,
			Pricing:       proPrices,
		},
		{
			ID:            "gemini-3-pro-image-preview",
			Name:          "Gemini 3 Pro Image",
			Description:   "Image understanding and generation.",
			ContextWindow: 1000000,
			ReleaseDate:   "2025-02",
			Type:          models.ModelMultimodal,
			Pricing: models.PriceSheet{
				InputPricePerMillion:  proPrices.InputPricePerMillion,
				OutputPricePerMillion: proPrices.OutputPricePerMillion,
				PricePerImage:         models.Price(0.04),
			},
		},
		{
			ID:            "gemini-2.5-pro",
			Name:          "Gemini 2.5 Pro",
			Description:   "Balanced performance and cost for complex tasks.",
			ContextWindow: 2000000,
			ReleaseDate:   "2025-01",
			Type:          models.ModelMultimodal,
			Pricing:       proPrices,
		},
		{
			ID:            "gemini-2.5-flash",
			Name:          "Gemini 2.5 Flash",
			Description:   "Fast and efficient for everyday tasks.",
			ContextWindow: 1000000,
			ReleaseDate:   "2025-01",
			Type:          models.ModelMultimodal,
			Pricing:       flashPrices,
		},
		{
			ID:            "gemini-2.5-flash-lite",
			Name:          "Gemini 2.5 Flash Lite",
			Description:   "Lightweight Flash at lower cost.",
			ContextWindow: 1000000,
			ReleaseDate:   "2025-01",
			Type:          models.ModelMultimodal,
			Pricing:       flashLitePrices,
		},
		{
			ID:            "gemini-2.5-flash-image",
			Name:          "Gemini 2.5 Flash Image",
			Description:   "Fast image processing.",
			ContextWindow: 1000000,
			ReleaseDate:   "2025-01",
			Type:          models.ModelImage,
			Pricing: models.PriceSheet{
				InputPricePerMillion:  flashPrices.InputPricePerMillion,
				OutputPricePerMillion: flashPrices.OutputPricePerMillion,
				PricePerImage:         models.Price(0.035),
			},
		},
		{
			ID:            "gemini-2.5-flash-native-audio-preview-09-2025",
			Name:          "Gemini 2.5 Flash Audio",
			Description:   "Native audio processing.",
			ContextWindow: 1000000,
			ReleaseDate:   "2025-09 (Preview)",
			Type:          models.ModelAudio,
			Pricing: models.PriceSheet{
				InputPricePerMillion:  flashPrices.InputPricePerMillion,
				OutputPricePerMillion: flashPrices.OutputPricePerMillion,
				PricePerSecondAudio:   models.Price(0.002),
			},
		},
		{
			ID:            "gemini-2.0-pro-exp-02-05",
			Name:          "Gemini 2.0 Pro Exp",
			Description:   "Experimental second-generation Pro.",
			ContextWindow: 2000000,
			ReleaseDate:   "2025-02",
			Type:          models.ModelMultimodal,
			Pricing: models.PriceSheet{
				InputPricePerMillion:       proPrices.InputPricePerMillion,
				OutputPricePerMillion:      proPrices.OutputPricePerMillion,
				CachedInputPricePerMillion: models.Price(0.875),
			},
		},
		{
			ID:            "gemini-2.0-flash-001",
			Name:          "Gemini 2.0 Flash",
			Description:   "Second-generation Flash.",
			ContextWindow: 1000000,
			ReleaseDate:   "2024-12",
			Type:          models.ModelMultimodal,
			Pricing: models.PriceSheet{
				InputPricePerMillion:       flashPrices.InputPricePerMillion,
				OutputPricePerMillion:      flashPrices.OutputPricePerMillion,
				CachedInputPricePerMillion: models.Price(0.01875),
			},
		},
		{
			ID:            "gemma-3-27b-it",
			Name:          "Gemma 3 27B IT",
			Description:   "High-performance open-weights model.",
			ContextWindow: 8192,
			ReleaseDate:   "2025",
			Type:          models.ModelText,
			Pricing:       models.PriceSheet{InputPricePerMillion: 0.06, OutputPricePerMillion: 0.06},
		},
		{
			ID:            "gemma-3-12b-it",
			Name:          "Gemma 3 12B IT",
			Description:   "Balance between size and performance.",
			ContextWindow: 8192,
			ReleaseDate:   "2025",
			Type:          models.ModelText,
			Pricing:       models.PriceSheet{InputPricePerMillion: 0.06, OutputPricePerMillion: 0.06},
		},
		{
			ID:            "gemma-3-4b-it",
			Name:          "Gemma 3 4B IT",
			Description:   "Small, fast model for constrained devices.",
			ContextWindow: 8192,
			ReleaseDate:   "2025",
			Type:          models.ModelText,
			Pricing:       models.PriceSheet{InputPricePerMillion: 0.04, OutputPricePerMillion: 0.04},
		},
		{
			ID:          "imagen-4.0-generate-001",
			Name:        "Imagen 4.0",
			Description: "Latest image generation.",
			ReleaseDate: "2025",
			Type:        models.ModelImage,
			Pricing:     models.PriceSheet{PricePerImage: models.Price(0.045)},
		},
		{
			ID:          "imagen-4.0-fast-generate-001",
			Name:        "Imagen 4.0 Fast",
			Description: "Faster, cheaper image generation.",
			ReleaseDate: "2025",
			Type:        models.ModelImage,
			Pricing:     models.PriceSheet{PricePerImage: models.Price(0.025)},
		},
		{
			ID:          "veo-3.1-generate-preview",
			Name:        "Veo 3.1",
			Description: "High-fidelity video generation.",
			ReleaseDate: "2025",
			Type:        models.ModelVideo,
			Pricing:     models.PriceSheet{PricePerSecondVideo: models.Price(0.15)},
		},
		{
			ID:          "veo-3.1-fast-generate-preview",
			Name:        "Veo 3.1 Fast",
			Description: "Fast video generation.",
			ReleaseDate: "2025",
			Type:        models.ModelVideo,
			Pricing:     models.PriceSheet{PricePerSecondVideo: models.Price(0.08)},
		},
		{
			ID:            "text-embedding-004",
			Name:          "Text Embedding 004",
			Description:   "Text to vector embeddings.",
			ContextWindow: 2048,
			ReleaseDate:   "2024",
			Type:          models.ModelEmbedding,
			Pricing:       models.PriceSheet{InputPricePerMillion: 0.025},
		},
		{
			ID:            "gemini-embedding-exp-03-07",
			Name:          "Gemini Embedding Exp",
			Description:   "Experimental Gemini embeddings.",
			ContextWindow: 32768,
			ReleaseDate:   "2025-03",
			Type:          models.ModelEmbedding,
			Pricing:       models.PriceSheet{InputPricePerMillion: 0.025},
		},
	}
}
