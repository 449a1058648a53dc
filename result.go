package imageflow

import "encoding/base64"

// SafetyCategory represents a content safety category.
type SafetyCategory string

const (
	SafetyCategoryHarassment       SafetyCategory = "HARM_CATEGORY_HARASSMENT"
	SafetyCategoryHateSpeech       SafetyCategory = "HARM_CATEGORY_HATE_SPEECH"
	SafetyCategorySexuallyExplicit SafetyCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	SafetyCategoryDangerousContent SafetyCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
)

// SafetyThreshold represents the blocking threshold for safety filters.
type SafetyThreshold string

const (
	SafetyThresholdBlockNone      SafetyThreshold = "BLOCK_NONE"
	SafetyThresholdBlockLowAndUp  SafetyThreshold = "BLOCK_LOW_AND_ABOVE"
	SafetyThresholdBlockMedAndUp  SafetyThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	SafetyThresholdBlockHighAndUp SafetyThreshold = "BLOCK_ONLY_HIGH"
)

// SafetySetting configures content filtering for a specific category.
type SafetySetting struct {
	Category  SafetyCategory
	Threshold SafetyThreshold
}

// GeneratedImage represents a single generated image result.
// Providers return either a hosted URL or raw bytes; exactly one of
// URL and Data is set.
type GeneratedImage struct {
	// URL is the hosted location of the image, when the provider
	// returned one. Provider URLs are typically short-lived.
	URL string

	// Data contains the raw image bytes, when the provider returned
	// an inline payload.
	Data []byte

	// MIMEType of the generated image. For inline payloads this is
	// sniffed from the bytes when the provider does not report one.
	MIMEType string

	// Index is the position in a multi-image result (0-indexed)
	Index int

	// RevisedPrompt is the prompt after any model modifications
	RevisedPrompt string
}

// DataURL renders an inline payload as a data URL. Returns "" when the
// image has no inline data.
func (g *GeneratedImage) DataURL() string {
	if len(g.Data) == 0 {
		return ""
	}
	mime := g.MIMEType
	if mime == "" {
		mime = SniffMIMEType(g.Data)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(g.Data)
}

// Ref returns the uniform reference for the image: its hosted URL when
// the provider returned one, otherwise a data URL.
func (g *GeneratedImage) Ref() string {
	if g.URL != "" {
		return g.URL
	}
	return g.DataURL()
}

// GenerateResult holds the complete result of an image generation request.
type GenerateResult struct {
	// Images contains all generated images
	Images []GeneratedImage

	// Text contains any text response from the model
	Text string

	// ThinkingContent contains the model's reasoning
	ThinkingContent string

	// UsageMetadata contains token/billing information
	UsageMetadata *UsageMetadata
}

// ImageRefs returns one reference per image, each either a hosted URL
// or a data URL.
func (r *GenerateResult) ImageRefs() []string {
	refs := make([]string, 0, len(r.Images))
	for i := range r.Images {
		refs = append(refs, r.Images[i].Ref())
	}
	return refs
}

// UsageMetadata contains usage information for billing and monitoring.
type UsageMetadata struct {
	PromptTokens     int
	CandidatesTokens int
	TotalTokens      int
	ImageCount       int
}

// ConversationTurn represents a single turn in a conversation.
type ConversationTurn struct {
	Role   string // "user" or "model"
	Text   string
	Images []GeneratedImage
}
