package imageflow

import (
	"context"
	"errors"
	"testing"

	"github.com/lumora-ai/imageflow/ratelimiter"
)

func TestManager_Generate_RateLimit(t *testing.T) {
	// Setup
	mockGen := &MockImageGenerator{
		ModelsFunc: func() []ModelInfo {
			return []ModelInfo{
				{
					Name:         "test-model",
					Provider:     "test-provider",
					APIModelName: "test-model-api",
					RateLimits: RateLimits{
						TokensPerMinute:   100, // Small limit for testing
						RequestsPerMinute: 10,
					},
				},
			}
		},
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			return &GenerateResult{
				Images: []GeneratedImage{{Data: []byte("fake-image")}},
			}, nil
		},
	}

	manager := NewManager(mockGen)
	defer manager.Close()

	ctx := context.Background()
	prompt := "test prompt" // 11 chars -> ~3 tokens + 100 overhead = 103 tokens

	// 103 > the 100-token limit, so this fails immediately
	_, err := manager.Generate(ctx, prompt, &GenerateConfig{
		Model: "test-model",
	})

	if err == nil {
		t.Error("expected rate limit error, got nil")
	} else if !IsRateLimitError(err) {
		t.Errorf("expected RateLimitError, got %T: %v", err, err)
	}

	// Now increase limit to allow it
	manager.SetRateLimiter("test-model", ratelimiter.New(200, 10))

	result, err := manager.Generate(ctx, prompt, &GenerateConfig{
		Model: "test-model",
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(result.Images) == 0 {
		t.Error("expected images, got none")
	}
}

func TestManager_Generate_TokenEstimation(t *testing.T) {
	// This test verifies that the token estimator is actually being used
	// We do this by setting a limit that would pass with a small prompt but fail with a large one

	mockGen := &MockImageGenerator{
		ModelsFunc: func() []ModelInfo {
			return []ModelInfo{
				{
					Name:     "test-model",
					Provider: "test-provider",
				},
			}
		},
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			return &GenerateResult{}, nil
		},
	}

	manager := NewManager(mockGen)

	// Capacity 200, request overhead 100, so ~100 tokens (~400 chars)
	// of prompt text fit.
	limiter := ratelimiter.New(200, 100)
	manager.SetRateLimiter("test-model", limiter)

	ctx := context.Background()

	// Small prompt: "hello" -> ~2 tokens + 100 = 102. Should pass (102 <= 200).
	_, err := manager.Generate(ctx, "hello", &GenerateConfig{Model: "test-model"})
	if err != nil {
		t.Errorf("small prompt failed: %v", err)
	}

	// Fresh limiter so the previous consumption doesn't skew the check
	limiter = ratelimiter.New(200, 100)
	manager.SetRateLimiter("test-model", limiter)

	// Large prompt: 500 chars -> ~125 tokens + 100 = 225. Should fail (225 > 200).
	largePrompt := makeString(500)
	_, err = manager.Generate(ctx, largePrompt, &GenerateConfig{Model: "test-model"})
	if err == nil {
		t.Error("large prompt should have failed rate limit")
	} else if !IsRateLimitError(err) {
		t.Errorf("expected RateLimitError, got %v", err)
	}
}

func TestManager_Generate_ExplicitModelIsHonored(t *testing.T) {
	var seenModels []Model

	mockGen := &MockImageGenerator{
		ModelsFunc: func() []ModelInfo {
			return []ModelInfo{
				{
					Name:         "gpt-image-1",
					Provider:     "test-provider",
					APIModelName: "gpt-image-1",
				},
				{
					Name:         "dall-e-3",
					Provider:     "test-provider",
					APIModelName: "dall-e-3",
				},
			}
		},
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			seenModels = append(seenModels, config.Model)
			return &GenerateResult{}, nil
		},
	}

	manager := NewManager(mockGen)
	defer manager.Close()
	manager.SetDefaultModel(ModelDallE3)

	ctx := context.Background()

	// An explicitly requested model must not be rerouted to the
	// manager default, even when it collides with ModelDefault.
	_, err := manager.Generate(ctx, "a fox", &GenerateConfig{Model: ModelGPTImage1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Empty model falls back to the manager default.
	_, err = manager.Generate(ctx, "a fox", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Model{ModelGPTImage1, ModelDallE3}
	if len(seenModels) != len(want) {
		t.Fatalf("provider saw %d requests, want %d", len(seenModels), len(want))
	}
	for i, model := range want {
		if seenModels[i] != model {
			t.Errorf("request %d routed to %q, want %q", i, seenModels[i], model)
		}
	}
}

func TestManager_Edit_ValidatesAgainstModelInfo(t *testing.T) {
	mockGen := &MockImageGenerator{
		ModelsFunc: func() []ModelInfo {
			return []ModelInfo{
				{
					Name:     "edit-model",
					Provider: "test-provider",
					Capabilities: ModelCapabilities{
						SupportsTextToImage:  true,
						SupportsImageEditing: true,
						MaxInputImages:       2,
					},
					ImageConstraints: ImageConstraints{
						SupportedInputMIMETypes: []string{"image/png"},
					},
				},
				{
					Name:     "gen-only-model",
					Provider: "test-provider",
					Capabilities: ModelCapabilities{
						SupportsTextToImage: true,
					},
				},
			}
		},
		EditMultipleFunc: func(ctx context.Context, images []InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
			return &GenerateResult{Images: []GeneratedImage{{Data: []byte("edited")}}}, nil
		},
	}

	manager := NewManager(mockGen)
	defer manager.Close()

	ctx := context.Background()
	png := InputImage{Data: []byte{0x89, 0x50, 0x4E, 0x47}, MIMEType: "image/png"}
	jpeg := InputImage{Data: []byte{0xFF, 0xD8, 0xFF}, MIMEType: "image/jpeg"}

	// Happy path
	_, err := manager.Edit(ctx, png, "make it blue", &GenerateConfig{Model: "edit-model"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// Model without editing support
	_, err = manager.Edit(ctx, png, "make it blue", &GenerateConfig{Model: "gen-only-model"})
	if !errors.Is(err, ErrEditingUnsupported) {
		t.Errorf("expected ErrEditingUnsupported, got %v", err)
	}

	// MIME type outside the model's table
	_, err = manager.Edit(ctx, jpeg, "make it blue", &GenerateConfig{Model: "edit-model"})
	if !errors.Is(err, ErrInvalidMIMEType) {
		t.Errorf("expected ErrInvalidMIMEType, got %v", err)
	}

	// Over the per-model input image cap
	imgs := []InputImage{png, png, png}
	_, err = manager.EditMultiple(ctx, imgs, "combine", &GenerateConfig{Model: "edit-model"})
	if !errors.Is(err, ErrTooManyImages) {
		t.Errorf("expected ErrTooManyImages, got %v", err)
	}
}

func makeString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
