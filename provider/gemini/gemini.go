// Package gemini provides an ImageGenerator implementation using Google's
// Gemini API via the official Go SDK: https://github.com/googleapis/go-genai
//
// Unlike the OpenAI backend, Gemini returns generated images inline in the
// response; there is no hosted-URL shape to normalize.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/lumora-ai/imageflow"
)

// Model name constants - the actual API model names.
const (
	// APIModelGemini3ProImage is Gemini 3 Pro Image (nano-banana-2).
	APIModelGemini3ProImage = "gemini-3-pro-image-preview"

	// APIModelGemini25FlashImage is Gemini 2.5 Flash Image (nano-banana-1).
	APIModelGemini25FlashImage = "gemini-2.5-flash-image"
)

// Generator implements imageflow.ImageGenerator using Google's Gemini API.
type Generator struct {
	client         *genai.Client
	safetySettings []*genai.SafetySetting
	mu             sync.RWMutex
}

// Ensure Generator implements the interfaces.
var (
	_ imageflow.ImageGenerator               = (*Generator)(nil)
	_ imageflow.ConversationalImageGenerator = (*Generator)(nil)
)

// New creates a new Generator from a ProviderConfig.
func New(ctx context.Context, config *imageflow.ProviderConfig) (*Generator, error) {
	if config == nil {
		config = &imageflow.ProviderConfig{}
	}

	clientCfg := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	}

	if config.APIKey != "" {
		clientCfg.APIKey = config.APIKey
	}
	// If APIKey is empty, the SDK will try GOOGLE_API_KEY or GEMINI_API_KEY env vars

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Generator{
		client: client,
	}, nil
}

// NewWithAPIKey creates a generator with an API key for the Gemini API.
func NewWithAPIKey(ctx context.Context, apiKey string) (*Generator, error) {
	return New(ctx, &imageflow.ProviderConfig{
		Provider: imageflow.ProviderGeminiAPI,
		APIKey:   apiKey,
	})
}

// SetSafetySettings configures default safety settings for all requests.
// These can be overridden per-request via GenerateConfig.SafetySettings.
func (g *Generator) SetSafetySettings(settings []imageflow.SafetySetting) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.safetySettings = convertSafetySettings(settings)
	return g
}

// Generate creates images from a text prompt.
func (g *Generator) Generate(ctx context.Context, prompt string, config *imageflow.GenerateConfig) (*imageflow.GenerateResult, error) {
	if err := imageflow.ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	if config == nil {
		config = imageflow.DefaultConfig()
	}

	info := g.lookupModel(config.Model)

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	var tools []*genai.Tool
	if config.EnableGrounding {
		tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, info.APIModelName, contents, g.buildGenerateContentConfig(info, config, tools))
	if err != nil {
		if rlErr := checkRateLimitError(err, info.APIModelName); rlErr != nil {
			return nil, rlErr
		}
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	return parseResult(result)
}

// Edit modifies an existing image based on a text instruction.
func (g *Generator) Edit(ctx context.Context, image imageflow.InputImage, instruction string, config *imageflow.GenerateConfig) (*imageflow.GenerateResult, error) {
	return g.EditMultiple(ctx, []imageflow.InputImage{image}, instruction, config)
}

// EditMultiple performs editing with one or more reference images.
func (g *Generator) EditMultiple(ctx context.Context, images []imageflow.InputImage, instruction string, config *imageflow.GenerateConfig) (*imageflow.GenerateResult, error) {
	if err := imageflow.ValidatePrompt(instruction); err != nil {
		return nil, err
	}

	if config == nil {
		config = imageflow.DefaultConfig()
	}

	info := g.lookupModel(config.Model)

	if err := imageflow.ValidateInputImagesForModel(images, info); err != nil {
		return nil, err
	}

	// All reference images first, then the instruction.
	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, imagePart(img))
	}
	parts = append(parts, &genai.Part{Text: instruction})

	contents := []*genai.Content{
		{Parts: parts},
	}

	result, err := g.client.Models.GenerateContent(ctx, info.APIModelName, contents, g.buildGenerateContentConfig(info, config, nil))
	if err != nil {
		if rlErr := checkRateLimitError(err, info.APIModelName); rlErr != nil {
			return nil, rlErr
		}
		return nil, fmt.Errorf("edit failed: %w", err)
	}

	return parseResult(result)
}

// Models returns the model definitions supported by this provider.
// The first model (Gemini 3 Pro Image) is the default.
func (g *Generator) Models() []imageflow.ModelInfo {
	return []imageflow.ModelInfo{
		Gemini3ProImageInfo,
		Gemini25FlashImageInfo,
	}
}

// Close releases any resources held by the generator.
func (g *Generator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// StartConversation begins a new image generation conversation.
func (g *Generator) StartConversation() imageflow.Conversation {
	return &Conversation{
		generator: g,
		history:   make([]imageflow.ConversationTurn, 0),
	}
}

// lookupModel finds the capability table for a model by public or API
// name, falling back to the provider default.
func (g *Generator) lookupModel(model imageflow.Model) *imageflow.ModelInfo {
	name := string(model)
	models := g.Models()
	if name == "" {
		return &models[0]
	}
	for i := range models {
		if models[i].Name == name || models[i].APIModelName == name {
			return &models[i]
		}
	}
	return &imageflow.ModelInfo{
		Name:         name,
		Provider:     imageflow.ProviderGeminiAPI,
		APIModelName: name,
		Capabilities: imageflow.ModelCapabilities{
			SupportsTextToImage:  true,
			SupportsImageEditing: true,
			SupportsMultiImage:   true,
			MaxInputImages:       imageflow.MaxInputImages,
		},
	}
}

// buildGenerateContentConfig converts our config to Gemini's GenerateContentConfig format.
func (g *Generator) buildGenerateContentConfig(info *imageflow.ModelInfo, config *imageflow.GenerateConfig, tools []*genai.Tool) *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{
		// Enable image output
		ResponseModalities: []string{"TEXT", "IMAGE"},
		Tools:              tools,
	}

	// Image configuration: unsupported sizes fall back to the model default
	imageConfig := &genai.ImageConfig{}

	if size := info.ResolveSize(config.Size); size != imageflow.ImageSizeAuto {
		imageConfig.ImageSize = size.String()
	}

	if config.AspectRatio != "" {
		imageConfig.AspectRatio = config.AspectRatio.String()
	}

	genConfig.ImageConfig = imageConfig

	if config.Temperature != nil {
		genConfig.Temperature = genai.Ptr(float32(*config.Temperature))
	}

	if config.Seed != nil {
		genConfig.Seed = genai.Ptr(*config.Seed)
	}

	if config.EnableThinking {
		genConfig.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: true,
		}
	}

	// Safety settings: per-request overrides provider defaults
	if len(config.SafetySettings) > 0 {
		genConfig.SafetySettings = convertSafetySettings(config.SafetySettings)
	} else if len(g.safetySettings) > 0 {
		genConfig.SafetySettings = g.safetySettings
	}

	return genConfig
}

// convertSafetySettings converts our SafetySettings to Gemini's format.
func convertSafetySettings(settings []imageflow.SafetySetting) []*genai.SafetySetting {
	result := make([]*genai.SafetySetting, 0, len(settings))
	for _, s := range settings {
		result = append(result, &genai.SafetySetting{
			Category:  genai.HarmCategory(s.Category),
			Threshold: genai.HarmBlockThreshold(s.Threshold),
		})
	}
	return result
}

// imagePart converts an input image to an inline-data part.
func imagePart(img imageflow.InputImage) *genai.Part {
	return &genai.Part{
		InlineData: &genai.Blob{
			Data:     img.Data,
			MIMEType: img.MIMEType,
		},
	}
}

// parseResult converts a Gemini response to our result type. Gemini
// returns images inline; the reported MIME type is kept and sniffed from
// the bytes only when missing.
func parseResult(result *genai.GenerateContentResponse) (*imageflow.GenerateResult, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, errors.New("empty response from model")
	}

	genResult := &imageflow.GenerateResult{
		Images: make([]imageflow.GeneratedImage, 0),
	}

	var thinkingParts []string

	imageIndex := 0
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if part.Thought && part.Text != "" {
				thinkingParts = append(thinkingParts, part.Text)
				continue
			}

			if part.Text != "" {
				genResult.Text += part.Text
			}

			if part.InlineData != nil && part.InlineData.Data != nil {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = imageflow.SniffMIMEType(part.InlineData.Data)
				}
				genResult.Images = append(genResult.Images, imageflow.GeneratedImage{
					Data:     part.InlineData.Data,
					MIMEType: mime,
					Index:    imageIndex,
				})
				imageIndex++
			}
		}
	}

	if len(thinkingParts) > 0 {
		genResult.ThinkingContent = strings.Join(thinkingParts, "\n")
	}

	if result.UsageMetadata != nil {
		genResult.UsageMetadata = &imageflow.UsageMetadata{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CandidatesTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
			ImageCount:       len(genResult.Images),
		}
	}

	return genResult, nil
}

// ImageFromBytes loads an input image from raw bytes.
func ImageFromBytes(data []byte, mimeType string) imageflow.InputImage {
	return imageflow.InputImage{
		Data:     data,
		MIMEType: mimeType,
	}
}

// ImageFromBase64 creates an input image from a base64 payload.
func ImageFromBase64(b64 string, mimeType string) (imageflow.InputImage, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return imageflow.InputImage{}, fmt.Errorf("invalid base64: %w", err)
	}
	return imageflow.InputImage{
		Data:     data,
		MIMEType: mimeType,
	}, nil
}

// checkRateLimitError checks if an error from the Gemini API is a rate limit error.
// If so, it wraps it in a RateLimitError for standardized handling; otherwise returns nil.
func checkRateLimitError(err error, model string) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}

	if apiErr.Code != 429 && apiErr.Status != "RESOURCE_EXHAUSTED" {
		return nil
	}

	return &imageflow.RateLimitError{
		RetryAfter: 60 * time.Second, // The API doesn't reliably provide Retry-After
		LimitType:  "requests",
		Model:      model,
		Err:        err,
	}
}
