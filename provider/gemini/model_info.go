package gemini

import "github.com/lumora-ai/imageflow"

// Gemini3ProImageInfo is the model info for Gemini 3 Pro Image (nano-banana-2).
//
// Gemini 3 Pro Image is Google DeepMind's image generation and editing
// model, built on Gemini 3 Pro.
var Gemini3ProImageInfo = imageflow.ModelInfo{
	Name:         "gemini-3-pro-image",
	Provider:     imageflow.ProviderGeminiAPI,
	APIModelName: APIModelGemini3ProImage,

	Capabilities: imageflow.ModelCapabilities{
		SupportsTextToImage:  true,
		SupportsImageEditing: true,
		SupportsMultiImage:   true,
		SupportsConversation: true,
		SupportsStreaming:    false,
		SupportsGrounding:    true,
		SupportsThinking:     true,
		MaxInputImages:       14,
		MaxOutputImages:      4,
	},

	ContextLength: 1048576, // 1M tokens

	ImageConstraints: imageflow.ImageConstraints{
		SupportedAspectRatios: []imageflow.AspectRatio{
			imageflow.AspectRatio1x1,
			imageflow.AspectRatio16x9,
			imageflow.AspectRatio9x16,
			imageflow.AspectRatio4x3,
			imageflow.AspectRatio3x4,
			imageflow.AspectRatio2x3,
			imageflow.AspectRatio3x2,
			imageflow.AspectRatio4x5,
			imageflow.AspectRatio5x4,
			imageflow.AspectRatio21x9,
		},
		SupportedSizes: []imageflow.ImageSize{
			imageflow.ImageSize1K,
			imageflow.ImageSize2K,
			imageflow.ImageSize4K,
		},
		DefaultSize: imageflow.ImageSize1K,
		SupportedInputMIMETypes: []string{
			"image/png",
			"image/jpeg",
			"image/webp",
		},
	},

	RateLimits: imageflow.RateLimits{
		TokensPerMinute:   4000000,
		RequestsPerMinute: 360,
		TokensPerDay:      1000000000,
	},

	// Pricing as of November 2025 for prompts ≤200K tokens.
	// For prompts >200K tokens, prices double ($4/$24 per million).
	// Image output is priced at ~$120/million tokens ($0.039 per 1024x1024 image).
	// Approximate costs: 4K image ~$0.24, 1K/2K image ~$0.134.
	Pricing: imageflow.Pricing{
		InputTokensPerMillion:  2.00,
		OutputTokensPerMillion: 12.00,
	},
}

var Gemini25FlashImageInfo = imageflow.ModelInfo{
	Name:         "gemini-2.5-flash-image",
	Provider:     imageflow.ProviderGeminiAPI,
	APIModelName: APIModelGemini25FlashImage,

	Capabilities: imageflow.ModelCapabilities{
		SupportsTextToImage:  true,
		SupportsImageEditing: true,
		SupportsMultiImage:   true,
		SupportsConversation: true,
		SupportsStreaming:    false,
		SupportsGrounding:    true,
		SupportsThinking:     true,
		MaxInputImages:       14, // Practical limit
		MaxOutputImages:      4,
	},

	ContextLength: 1048576, // 1M tokens

	ImageConstraints: imageflow.ImageConstraints{
		SupportedAspectRatios: []imageflow.AspectRatio{
			imageflow.AspectRatio1x1,
			imageflow.AspectRatio16x9,
			imageflow.AspectRatio9x16,
			imageflow.AspectRatio4x3,
			imageflow.AspectRatio3x4,
			imageflow.AspectRatio2x3,
			imageflow.AspectRatio3x2,
			imageflow.AspectRatio4x5,
			imageflow.AspectRatio5x4,
			imageflow.AspectRatio21x9,
		},

		// Flash Image only supports ~1024px output (1K)
		SupportedSizes: []imageflow.ImageSize{
			imageflow.ImageSize1K,
		},
		DefaultSize: imageflow.ImageSize1K,
		SupportedInputMIMETypes: []string{
			"image/png",
			"image/jpeg",
			"image/webp",
		},
	},

	RateLimits: imageflow.RateLimits{
		TokensPerMinute:   4000000,
		RequestsPerMinute: 500, // ~500 RPM for Tier 1
		TokensPerDay:      1000000000,
	},

	Pricing: imageflow.Pricing{
		InputTokensPerMillion:  0.15,
		OutputTokensPerMillion: 0.60,
	},
}
