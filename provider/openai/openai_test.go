package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora-ai/imageflow"
)

// pngBytes is a minimal payload carrying the PNG magic number, enough
// for MIME sniffing.
var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gen, err := New(&imageflow.ProviderConfig{
		Provider: imageflow.ProviderOpenAI,
		APIKey:   "test-key",
		BaseURL:  srv.URL,
	})
	require.NoError(t, err)
	return gen
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestGenerate_JSONRequestAndURLResponse(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"created": 1710000000,
			"data": []map[string]any{
				{"url": "https://img.example/a.png", "revised_prompt": "a lighthouse at dusk"},
				{"url": "https://img.example/b.png"},
			},
		})
	})

	result, err := gen.Generate(context.Background(), "a lighthouse", &imageflow.GenerateConfig{
		Model:          "dall-e-2",
		NumberOfImages: 2,
		Size:           imageflow.ImageSize512x512,
		ResponseFormat: imageflow.ResponseFormatURL,
	})
	require.NoError(t, err)

	assert.Equal(t, "/images/generations", gotPath)
	assert.Equal(t, "dall-e-2", gotBody["model"])
	assert.Equal(t, "a lighthouse", gotBody["prompt"])
	assert.Equal(t, float64(2), gotBody["n"])
	assert.Equal(t, "512x512", gotBody["size"])
	assert.Equal(t, "url", gotBody["response_format"])

	require.Len(t, result.Images, 2)
	assert.Equal(t, "https://img.example/a.png", result.Images[0].URL)
	assert.Equal(t, "a lighthouse at dusk", result.Images[0].RevisedPrompt)
	assert.Equal(t, []string{"https://img.example/a.png", "https://img.example/b.png"}, result.ImageRefs())
}

func TestGenerate_ModelDefaults(t *testing.T) {
	var gotBody map[string]any

	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"data": []map[string]any{{"url": "https://img.example/a.png"}},
		})
	})

	// Empty model falls back to the provider default; unset size is
	// omitted for gpt-image-1.
	_, err := gen.Generate(context.Background(), "a fox", nil)
	require.NoError(t, err)

	assert.Equal(t, "gpt-image-1", gotBody["model"])
	assert.Equal(t, float64(1), gotBody["n"])
	assert.NotContains(t, gotBody, "size")
	assert.NotContains(t, gotBody, "response_format")
}

func TestGenerate_ClampsBatchAndDefaultsSize(t *testing.T) {
	var gotBody map[string]any

	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"data": []map[string]any{{"url": "https://img.example/a.png"}},
		})
	})

	// dall-e-3 allows a single image; an unsupported size falls back to
	// the model default.
	_, err := gen.Generate(context.Background(), "a fox", &imageflow.GenerateConfig{
		Model:          "dall-e-3",
		NumberOfImages: 5,
		Size:           imageflow.ImageSize256x256,
		Style:          imageflow.StyleNatural,
	})
	require.NoError(t, err)

	assert.Equal(t, "dall-e-3", gotBody["model"])
	assert.Equal(t, float64(1), gotBody["n"])
	assert.Equal(t, "1024x1024", gotBody["size"])
	assert.Equal(t, "natural", gotBody["style"])
}

func TestGenerate_Base64ResponseIsDecodedAndSniffed(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"b64_json": base64.StdEncoding.EncodeToString(pngBytes)},
			},
			"usage": map[string]any{
				"input_tokens":  12,
				"output_tokens": 1056,
				"total_tokens":  1068,
			},
		})
	})

	result, err := gen.Generate(context.Background(), "a fox", &imageflow.GenerateConfig{Model: "gpt-image-1"})
	require.NoError(t, err)

	require.Len(t, result.Images, 1)
	assert.Equal(t, pngBytes, result.Images[0].Data)
	assert.Equal(t, "image/png", result.Images[0].MIMEType)
	assert.True(t, strings.HasPrefix(result.Images[0].Ref(), "data:image/png;base64,"))

	require.NotNil(t, result.UsageMetadata)
	assert.Equal(t, 12, result.UsageMetadata.PromptTokens)
	assert.Equal(t, 1068, result.UsageMetadata.TotalTokens)
}

func TestGenerate_EmptyPrompt(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})

	_, err := gen.Generate(context.Background(), "", nil)
	assert.ErrorIs(t, err, imageflow.ErrEmptyPrompt)
}

func TestEditMultiple_MultipartRequest(t *testing.T) {
	var gotPath, gotPrompt, gotModel, gotN string
	var fileNames []string

	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotPrompt = r.FormValue("prompt")
		gotModel = r.FormValue("model")
		gotN = r.FormValue("n")
		for _, headers := range r.MultipartForm.File["image[]"] {
			fileNames = append(fileNames, headers.Filename)
		}

		writeJSON(t, w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"b64_json": base64.StdEncoding.EncodeToString(pngBytes)},
			},
		})
	})

	images := []imageflow.InputImage{
		{Data: pngBytes, MIMEType: "image/png"},
		{Data: pngBytes, MIMEType: "image/webp"},
	}
	result, err := gen.EditMultiple(context.Background(), images, "merge these", &imageflow.GenerateConfig{
		Model: "gpt-image-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "/images/edits", gotPath)
	assert.Equal(t, "merge these", gotPrompt)
	assert.Equal(t, "gpt-image-1", gotModel)
	assert.Equal(t, "1", gotN)
	assert.Equal(t, []string{"image_0.png", "image_1.webp"}, fileNames)
	require.Len(t, result.Images, 1)
	assert.Equal(t, "image/png", result.Images[0].MIMEType)
}

func TestEdit_SingleImageFieldForDallE2(t *testing.T) {
	var singleParts, arrayParts int

	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		singleParts = len(r.MultipartForm.File["image"])
		arrayParts = len(r.MultipartForm.File["image[]"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"data": []map[string]any{{"url": "https://img.example/a.png"}},
		})
	})

	_, err := gen.Edit(context.Background(), imageflow.InputImage{Data: pngBytes, MIMEType: "image/png"},
		"remove the background", &imageflow.GenerateConfig{Model: "dall-e-2"})
	require.NoError(t, err)

	assert.Equal(t, 1, singleParts)
	assert.Equal(t, 0, arrayParts)
}

func TestEdit_RejectsUnsupportedModelAndInput(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})

	// dall-e-3 has no edits endpoint
	_, err := gen.Edit(context.Background(), imageflow.InputImage{Data: pngBytes, MIMEType: "image/png"},
		"edit", &imageflow.GenerateConfig{Model: "dall-e-3"})
	assert.ErrorIs(t, err, imageflow.ErrEditingUnsupported)

	// dall-e-2 only accepts PNG reference images
	_, err = gen.Edit(context.Background(), imageflow.InputImage{Data: pngBytes, MIMEType: "image/jpeg"},
		"edit", &imageflow.GenerateConfig{Model: "dall-e-2"})
	assert.ErrorIs(t, err, imageflow.ErrInvalidMIMEType)

	// gpt-image-1 caps reference images at 16
	tooMany := make([]imageflow.InputImage, 17)
	for i := range tooMany {
		tooMany[i] = imageflow.InputImage{Data: pngBytes, MIMEType: "image/png"}
	}
	_, err = gen.EditMultiple(context.Background(), tooMany, "edit", &imageflow.GenerateConfig{Model: "gpt-image-1"})
	assert.ErrorIs(t, err, imageflow.ErrTooManyImages)
}

func TestGenerate_APIErrorMapping(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{
				"message": "Your prompt was rejected",
				"type":    "invalid_request_error",
				"code":    "content_policy_violation",
			},
		})
	})

	_, err := gen.Generate(context.Background(), "something", nil)
	require.Error(t, err)

	apiErr, ok := imageflow.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "content_policy_violation", apiErr.Code)
	assert.Equal(t, "Your prompt was rejected", apiErr.Message)
}

func TestGenerate_RateLimitMapping(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "20")
		writeJSON(t, w, http.StatusTooManyRequests, map[string]any{
			"error": map[string]any{
				"message": "Rate limit reached",
				"type":    "rate_limit_error",
			},
		})
	})

	_, err := gen.Generate(context.Background(), "something", nil)
	require.Error(t, err)
	require.True(t, imageflow.IsRateLimitError(err))

	var rlErr *imageflow.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 20, int(rlErr.RetryAfter.Seconds()))

	// The underlying APIError is preserved in the chain.
	apiErr, ok := imageflow.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestLookupModel_UnknownModelPassesThrough(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {})

	info := gen.lookupModel("my-gateway-model")
	assert.Equal(t, "my-gateway-model", info.APIModelName)
	assert.True(t, info.Capabilities.SupportsImageEditing)
	assert.True(t, info.SupportsSize(imageflow.ImageSize1024x1024))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := New(&imageflow.ProviderConfig{})
	assert.Error(t, err)
}
