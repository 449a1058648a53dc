package imageflow

import (
	"time"
)

// Model represents a specific image generation model.
type Model string

// ImageSize represents the output resolution for generated images.
// Providers use either named tiers ("1K", "2K") or pixel dimensions
// ("1024x1024"); capability tables declare which a model accepts.
type ImageSize string

const (
	// ImageSizeAuto lets the provider pick the model's default size.
	ImageSizeAuto ImageSize = ""

	// Named tiers (Gemini-style).
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"

	// Pixel dimensions (OpenAI-style).
	ImageSize256x256   ImageSize = "256x256"
	ImageSize512x512   ImageSize = "512x512"
	ImageSize1024x1024 ImageSize = "1024x1024"
	ImageSize1536x1024 ImageSize = "1536x1024"
	ImageSize1024x1536 ImageSize = "1024x1536"
	ImageSize1792x1024 ImageSize = "1792x1024"
	ImageSize1024x1792 ImageSize = "1024x1792"
)

// AspectRatio represents the aspect ratio for generated images.
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio4x3  AspectRatio = "4:3"
	AspectRatio3x4  AspectRatio = "3:4"
	AspectRatio2x3  AspectRatio = "2:3"  // Photo portrait
	AspectRatio3x2  AspectRatio = "3:2"  // Photo landscape (35mm film ratio)
	AspectRatio4x5  AspectRatio = "4:5"  // Instagram portrait
	AspectRatio5x4  AspectRatio = "5:4"  // Large format photo
	AspectRatio21x9 AspectRatio = "21:9" // Ultrawide/cinematic
	AspectRatioAuto AspectRatio = ""
)

// ResponseFormat selects how a provider returns generated images.
type ResponseFormat string

const (
	// ResponseFormatURL asks for hosted URLs (typically short-lived).
	ResponseFormatURL ResponseFormat = "url"

	// ResponseFormatB64JSON asks for inline base64 payloads.
	ResponseFormatB64JSON ResponseFormat = "b64_json"
)

// Quality represents the rendering quality requested from a model.
// Accepted values are model-specific ("standard"/"hd" for DALL-E 3,
// "low"/"medium"/"high" for gpt-image-1).
type Quality string

const (
	QualityStandard Quality = "standard"
	QualityHD       Quality = "hd"
	QualityLow      Quality = "low"
	QualityMedium   Quality = "medium"
	QualityHigh     Quality = "high"
)

// Style represents the visual style requested from a model.
type Style string

const (
	StyleVivid   Style = "vivid"
	StyleNatural Style = "natural"
)

// GenerateConfig holds configuration options for image generation.
type GenerateConfig struct {
	// Model to use for generation (if empty, uses manager's default)
	Model Model

	// Size of the output image. Empty means the model's default;
	// sizes unsupported by the model fall back to its default.
	Size ImageSize

	// AspectRatio of the output image
	AspectRatio AspectRatio

	// NumberOfImages to generate. Clamped to the model's max batch count.
	NumberOfImages int

	// Quality of the output image (model-specific values)
	Quality Quality

	// Style of the output image (model-specific values)
	Style Style

	// ResponseFormat requests hosted URLs or inline base64 payloads.
	// Providers that only support one shape ignore this.
	ResponseFormat ResponseFormat

	// User is an end-user identifier forwarded to the provider for
	// abuse monitoring.
	User string

	// EnableGrounding enables Google Search grounding for factual accuracy
	EnableGrounding bool

	// EnableThinking enables the model's thinking mode for complex prompts
	EnableThinking bool

	// Temperature controls randomness (0.0-2.0)
	Temperature *float32

	// Seed for reproducible generation, on models that support it
	Seed *int32

	// SafetySettings for content filtering
	SafetySettings []SafetySetting

	// Metadata to attach to requests (for logging/tracking)
	Metadata map[string]string

	// Rate Limiting & Fallback
	// WaitOnRateLimit, if true, causes the Manager to wait and retry when rate limited.
	// If false, a RateLimitError is returned immediately.
	WaitOnRateLimit bool

	// MaxWaitDuration is the maximum time to wait when WaitOnRateLimit is true.
	// Zero means no limit.
	MaxWaitDuration time.Duration
}

// WithModel returns a copy of the config with the specified model.
func (c *GenerateConfig) WithModel(model Model) *GenerateConfig {
	if c == nil {
		return &GenerateConfig{Model: model}
	}
	cX := *c
	cX.Model = model
	return &cX
}

// DefaultConfig returns a GenerateConfig with sensible defaults.
// Model is left empty so the manager's (or provider's) default applies;
// Size is left at auto so each model's own default applies.
func DefaultConfig() *GenerateConfig {
	return &GenerateConfig{
		Size:           ImageSizeAuto,
		AspectRatio:    AspectRatioAuto,
		NumberOfImages: 1,
	}
}

// DefaultConfigWithModel returns a default config with the specified model.
func DefaultConfigWithModel(model Model) *GenerateConfig {
	config := DefaultConfig()
	config.Model = model
	return config
}

// InputImage represents an image input for editing operations.
type InputImage struct {
	// Data is the raw image bytes
	Data []byte

	// MIMEType of the image (e.g., "image/jpeg", "image/png")
	MIMEType string

	// URI is an optional URI reference (for cloud-stored images)
	URI string
}

// String returns the string representation for API calls.
func (s ImageSize) String() string {
	return string(s)
}

// String returns the string representation for API calls.
func (a AspectRatio) String() string {
	return string(a)
}

// String returns the model identifier.
func (m Model) String() string {
	return string(m)
}
