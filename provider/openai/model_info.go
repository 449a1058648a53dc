package openai

import "github.com/lumora-ai/imageflow"

// GPTImage1Info is the model info for gpt-image-1, OpenAI's natively
// multimodal image model. It accepts up to 16 reference images for edits
// and always returns base64 payloads.
var GPTImage1Info = imageflow.ModelInfo{
	Name:         "gpt-image-1",
	Provider:     imageflow.ProviderOpenAI,
	APIModelName: APIModelGPTImage1,

	Capabilities: imageflow.ModelCapabilities{
		SupportsTextToImage:  true,
		SupportsImageEditing: true,
		SupportsMultiImage:   true,
		MaxInputImages:       16,
		MaxOutputImages:      10,
	},

	ImageConstraints: imageflow.ImageConstraints{
		SupportedSizes: []imageflow.ImageSize{
			imageflow.ImageSize1024x1024,
			imageflow.ImageSize1536x1024,
			imageflow.ImageSize1024x1536,
		},
		// Empty default: the size field is omitted and the API picks
		// the best fit for the prompt.
		DefaultSize: imageflow.ImageSizeAuto,
		SupportedInputMIMETypes: []string{
			"image/png",
			"image/jpeg",
			"image/webp",
		},
	},

	RateLimits: imageflow.RateLimits{
		TokensPerMinute:   100000,
		RequestsPerMinute: 15,
	},

	// Token-based pricing; a medium-quality 1024x1024 image is roughly
	// $0.04 of output tokens.
	Pricing: imageflow.Pricing{
		InputTokensPerMillion:  5.00,
		OutputTokensPerMillion: 40.00,
	},
}

// DallE3Info is the model info for DALL-E 3. Generation only (no edits
// endpoint) and a single image per request.
var DallE3Info = imageflow.ModelInfo{
	Name:         "dall-e-3",
	Provider:     imageflow.ProviderOpenAI,
	APIModelName: APIModelDallE3,

	Capabilities: imageflow.ModelCapabilities{
		SupportsTextToImage: true,
		MaxOutputImages:     1,
	},

	ImageConstraints: imageflow.ImageConstraints{
		SupportedSizes: []imageflow.ImageSize{
			imageflow.ImageSize1024x1024,
			imageflow.ImageSize1792x1024,
			imageflow.ImageSize1024x1792,
		},
		DefaultSize: imageflow.ImageSize1024x1024,
	},

	RateLimits: imageflow.RateLimits{
		RequestsPerMinute: 7,
	},

	Pricing: imageflow.Pricing{
		ImageGenerationCost: 0.04,
	},
}

// DallE2Info is the model info for DALL-E 2. Edits take a single square
// PNG reference image; batches go up to 10.
var DallE2Info = imageflow.ModelInfo{
	Name:         "dall-e-2",
	Provider:     imageflow.ProviderOpenAI,
	APIModelName: APIModelDallE2,

	Capabilities: imageflow.ModelCapabilities{
		SupportsTextToImage:  true,
		SupportsImageEditing: true,
		MaxInputImages:       1,
		MaxOutputImages:      10,
	},

	ImageConstraints: imageflow.ImageConstraints{
		SupportedSizes: []imageflow.ImageSize{
			imageflow.ImageSize256x256,
			imageflow.ImageSize512x512,
			imageflow.ImageSize1024x1024,
		},
		DefaultSize: imageflow.ImageSize1024x1024,
		SupportedInputMIMETypes: []string{
			"image/png",
		},
	},

	RateLimits: imageflow.RateLimits{
		RequestsPerMinute: 50,
	},

	Pricing: imageflow.Pricing{
		ImageGenerationCost: 0.02,
	},
}
