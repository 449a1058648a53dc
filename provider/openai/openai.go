// Package openai provides an ImageGenerator implementation for the OpenAI
// Images API and API-compatible gateways.
//
// Text-to-image requests go to /images/generations as JSON; requests with
// reference images go to /images/edits as multipart/form-data. Both
// response shapes (hosted URLs and inline base64) are normalized into
// imageflow.GeneratedImage values.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lumora-ai/imageflow"
)

// DefaultBaseURL is the OpenAI API endpoint. Override via
// ProviderConfig.BaseURL for API-compatible gateways.
const DefaultBaseURL = "https://api.openai.com/v1"

const defaultTimeout = 2 * time.Minute

// Model name constants - the actual API model names.
const (
	APIModelGPTImage1 = "gpt-image-1"
	APIModelDallE3    = "dall-e-3"
	APIModelDallE2    = "dall-e-2"
)

// Generator implements imageflow.ImageGenerator against the OpenAI
// Images API.
type Generator struct {
	client *resty.Client
}

// Ensure Generator implements the interface.
var _ imageflow.ImageGenerator = (*Generator)(nil)

// New creates a new Generator from a ProviderConfig. An empty APIKey
// falls back to the OPENAI_API_KEY environment variable.
func New(config *imageflow.ProviderConfig) (*Generator, error) {
	if config == nil {
		config = &imageflow.ProviderConfig{}
	}

	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("openai: API key is required (set OPENAI_API_KEY or ProviderConfig.APIKey)")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(timeout)

	if config.Organization != "" {
		client.SetHeader("OpenAI-Organization", config.Organization)
	}

	return &Generator{client: client}, nil
}

// NewWithAPIKey creates a generator with an API key for the OpenAI API.
func NewWithAPIKey(apiKey string) (*Generator, error) {
	return New(&imageflow.ProviderConfig{
		Provider: imageflow.ProviderOpenAI,
		APIKey:   apiKey,
	})
}

// Wire types for the Images API.

type imageData struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

type imagesResponse struct {
	Created int64        `json:"created"`
	Data    []imageData  `json:"data"`
	Usage   *imagesUsage `json:"usage,omitempty"`
}

type imagesUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Generate creates images from a text prompt via /images/generations.
func (g *Generator) Generate(ctx context.Context, prompt string, config *imageflow.GenerateConfig) (*imageflow.GenerateResult, error) {
	if err := imageflow.ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	if config == nil {
		config = imageflow.DefaultConfig()
	}

	info := g.lookupModel(config.Model)

	var out imagesResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(g.buildGenerationBody(prompt, info, config)).
		SetResult(&out).
		Post("/images/generations")
	if err != nil {
		return nil, fmt.Errorf("image generation request: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFromResponse(resp, info.Name)
	}

	return normalizeResponse(&out)
}

// Edit modifies an existing image based on a text instruction.
func (g *Generator) Edit(ctx context.Context, image imageflow.InputImage, instruction string, config *imageflow.GenerateConfig) (*imageflow.GenerateResult, error) {
	return g.EditMultiple(ctx, []imageflow.InputImage{image}, instruction, config)
}

// EditMultiple performs editing with reference images via /images/edits.
// The request is sent as multipart/form-data with one file part per image.
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

	var out imagesResponse
	req := g.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetFormData(g.buildEditFields(instruction, info, config))

	// gpt-image-1 accepts multiple reference images under image[];
	// dall-e-2 takes a single image part.
	fieldName := "image"
	if info.Capabilities.MaxInputImages > 1 {
		fieldName = "image[]"
	}
	for i, img := range images {
		req.SetMultipartField(fieldName, partFileName(img, i), img.MIMEType, bytes.NewReader(img.Data))
	}

	resp, err := req.Post("/images/edits")
	if err != nil {
		return nil, fmt.Errorf("image edit request: %w", err)
	}
	if resp.IsError() {
		return nil, apiErrorFromResponse(resp, info.Name)
	}

	return normalizeResponse(&out)
}

// Models returns the model definitions supported by this provider.
// The first model (gpt-image-1) is the default.
func (g *Generator) Models() []imageflow.ModelInfo {
	return []imageflow.ModelInfo{
		GPTImage1Info,
		DallE3Info,
		DallE2Info,
	}
}

// Close releases any resources held by the generator.
func (g *Generator) Close() error {
	return nil
}

// lookupModel finds the capability table for a model by public or API
// name. Unknown models (custom deployments behind compatible gateways)
// get a permissive pass-through entry.
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
		Provider:     imageflow.ProviderOpenAI,
		APIModelName: name,
		Capabilities: imageflow.ModelCapabilities{
			SupportsTextToImage:  true,
			SupportsImageEditing: true,
			SupportsMultiImage:   true,
			MaxInputImages:       imageflow.MaxInputImages,
		},
	}
}

// buildGenerationBody assembles the JSON payload for /images/generations,
// applying the model's defaults and limits.
func (g *Generator) buildGenerationBody(prompt string, info *imageflow.ModelInfo, config *imageflow.GenerateConfig) map[string]any {
	body := map[string]any{
		"model":  info.APIModelName,
		"prompt": prompt,
		"n":      info.ClampImageCount(config.NumberOfImages),
	}

	if size := info.ResolveSize(config.Size); size != imageflow.ImageSizeAuto {
		body["size"] = size.String()
	}

	if config.Quality != "" {
		body["quality"] = string(config.Quality)
	}

	// Style is a DALL-E 3 knob; other models reject it.
	if config.Style != "" && info.APIModelName == APIModelDallE3 {
		body["style"] = string(config.Style)
	}

	// gpt-image-1 always returns base64 and rejects response_format.
	if config.ResponseFormat != "" && info.APIModelName != APIModelGPTImage1 {
		body["response_format"] = string(config.ResponseFormat)
	}

	if config.User != "" {
		body["user"] = config.User
	}

	return body
}

// buildEditFields assembles the form fields for /images/edits.
func (g *Generator) buildEditFields(instruction string, info *imageflow.ModelInfo, config *imageflow.GenerateConfig) map[string]string {
	fields := map[string]string{
		"model":  info.APIModelName,
		"prompt": instruction,
		"n":      strconv.Itoa(info.ClampImageCount(config.NumberOfImages)),
	}

	if size := info.ResolveSize(config.Size); size != imageflow.ImageSizeAuto {
		fields["size"] = size.String()
	}

	if config.Quality != "" {
		fields["quality"] = string(config.Quality)
	}

	if config.ResponseFormat != "" && info.APIModelName != APIModelGPTImage1 {
		fields["response_format"] = string(config.ResponseFormat)
	}

	if config.User != "" {
		fields["user"] = config.User
	}

	return fields
}

// partFileName names a multipart file part after its MIME type; the API
// uses the extension to validate file types.
func partFileName(img imageflow.InputImage, index int) string {
	ext := "png"
	switch img.MIMEType {
	case "image/jpeg":
		ext = "jpg"
	case "image/webp":
		ext = "webp"
	case "image/gif":
		ext = "gif"
	}
	return fmt.Sprintf("image_%d.%s", index, ext)
}

// normalizeResponse converts the API response into a GenerateResult.
// Hosted URLs pass through; base64 payloads are decoded and their MIME
// type sniffed, since the API reports none.
func normalizeResponse(out *imagesResponse) (*imageflow.GenerateResult, error) {
	if out == nil || len(out.Data) == 0 {
		return nil, errors.New("empty response from model")
	}

	result := &imageflow.GenerateResult{
		Images: make([]imageflow.GeneratedImage, 0, len(out.Data)),
	}

	for i, d := range out.Data {
		img := imageflow.GeneratedImage{
			Index:         i,
			RevisedPrompt: d.RevisedPrompt,
		}

		switch {
		case d.URL != "":
			img.URL = d.URL
		case d.B64JSON != "":
			raw, err := base64.StdEncoding.DecodeString(d.B64JSON)
			if err != nil {
				return nil, fmt.Errorf("image %d: invalid base64 payload: %w", i, err)
			}
			img.Data = raw
			img.MIMEType = imageflow.SniffMIMEType(raw)
		default:
			continue
		}

		result.Images = append(result.Images, img)
	}

	if out.Usage != nil {
		result.UsageMetadata = &imageflow.UsageMetadata{
			PromptTokens:     out.Usage.InputTokens,
			CandidatesTokens: out.Usage.OutputTokens,
			TotalTokens:      out.Usage.TotalTokens,
			ImageCount:       len(result.Images),
		}
	}

	return result, nil
}

// apiErrorFromResponse maps a non-2xx response to a typed error. 429s
// become RateLimitError with the Retry-After header honored.
func apiErrorFromResponse(resp *resty.Response, model string) error {
	apiErr := &imageflow.APIError{
		StatusCode: resp.StatusCode(),
		Model:      model,
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
		apiErr.Code = envelope.Error.Code
		if apiErr.Code == "" {
			apiErr.Code = envelope.Error.Type
		}
	} else {
		apiErr.Message = string(resp.Body())
	}

	if resp.StatusCode() == 429 {
		retryAfter := 60 * time.Second
		if header := resp.Header().Get("Retry-After"); header != "" {
			if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return &imageflow.RateLimitError{
			RetryAfter: retryAfter,
			LimitType:  "requests",
			Model:      model,
			Err:        apiErr,
		}
	}

	return apiErr
}
