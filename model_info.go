package imageflow

// ModelCapabilities describes what features a model supports.
type ModelCapabilities struct {
	// Generation modes
	SupportsTextToImage  bool
	SupportsImageEditing bool
	SupportsMultiImage   bool // Multiple input images for editing
	SupportsConversation bool
	SupportsStreaming    bool

	// Features
	SupportsGrounding bool // Google Search grounding
	SupportsThinking  bool // Reasoning/thinking mode

	// Limits
	MaxInputImages  int // Max reference images per edit request
	MaxOutputImages int // Max images generated per request (batch count)
}

// RateLimits defines rate limiting parameters for a model.
type RateLimits struct {
	TokensPerMinute   int
	RequestsPerMinute int
	TokensPerDay      int // 0 = unlimited
}

// Pricing defines cost information for a model.
type Pricing struct {
	InputTokensPerMillion  float64
	OutputTokensPerMillion float64
	ImageGenerationCost    float64 // Per image (if applicable)
}

// ImageConstraints defines supported image configurations for a model.
type ImageConstraints struct {
	SupportedAspectRatios []AspectRatio

	// SupportedSizes lists the output sizes the model accepts.
	// Empty means any size string is passed through.
	SupportedSizes []ImageSize

	// DefaultSize is used when a request leaves Size at auto or asks
	// for a size the model does not support. Empty means the size
	// field is omitted and the API default applies.
	DefaultSize ImageSize

	// SupportedInputMIMETypes lists the file types accepted as
	// reference images for editing. Empty falls back to the package
	// wide ValidMIMETypes allowlist.
	SupportedInputMIMETypes []string
}

// ModelInfo contains complete metadata for a model.
type ModelInfo struct {
	// Identity
	Name         string   // Public model name (e.g., "gpt-image-1")
	Provider     Provider // Which provider serves this model
	APIModelName string   // Actual API name sent on the wire

	// Capabilities
	Capabilities ModelCapabilities

	// Constraints
	ContextLength    int
	ImageConstraints ImageConstraints

	// Rate Limits
	RateLimits RateLimits

	// Pricing
	Pricing Pricing
}

// SupportsSize reports whether the model accepts the given output size.
// Auto is always acceptable; an empty size table accepts anything.
func (m *ModelInfo) SupportsSize(size ImageSize) bool {
	if size == ImageSizeAuto || len(m.ImageConstraints.SupportedSizes) == 0 {
		return true
	}
	for _, s := range m.ImageConstraints.SupportedSizes {
		if s == size {
			return true
		}
	}
	return false
}

// ResolveSize maps a requested size to the size actually sent to the API:
// unsupported or auto sizes become the model's default.
func (m *ModelInfo) ResolveSize(size ImageSize) ImageSize {
	if size == ImageSizeAuto || !m.SupportsSize(size) {
		return m.ImageConstraints.DefaultSize
	}
	return size
}

// AcceptsInputMIME reports whether the model accepts a reference image of
// the given MIME type.
func (m *ModelInfo) AcceptsInputMIME(mime string) bool {
	if len(m.ImageConstraints.SupportedInputMIMETypes) == 0 {
		return ValidMIMETypes[mime]
	}
	for _, t := range m.ImageConstraints.SupportedInputMIMETypes {
		if t == mime {
			return true
		}
	}
	return false
}

// ClampImageCount bounds a requested batch count to the model's limits.
// Non-positive counts become 1.
func (m *ModelInfo) ClampImageCount(n int) int {
	if n <= 0 {
		return 1
	}
	if max := m.Capabilities.MaxOutputImages; max > 0 && n > max {
		return max
	}
	return n
}
