package gemini

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/lumora-ai/imageflow"
)

// Conversation implements multi-turn image generation.
type Conversation struct {
	generator *Generator
	history   []imageflow.ConversationTurn
	contents  []*genai.Content

	mu sync.Mutex
}

// Send sends a message and receives a response.
func (c *Conversation) Send(ctx context.Context, prompt string, images []imageflow.InputImage, config *imageflow.GenerateConfig) (*imageflow.GenerateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if config == nil {
		config = imageflow.DefaultConfig()
	}

	info := c.generator.lookupModel(config.Model)

	// Build the user's message parts
	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, imagePart(img))
	}
	if prompt != "" {
		parts = append(parts, &genai.Part{Text: prompt})
	}

	// Add user message to history
	userContent := &genai.Content{
		Role:  "user",
		Parts: parts,
	}
	c.contents = append(c.contents, userContent)

	// Record in our history format
	userTurn := imageflow.ConversationTurn{
		Role: "user",
		Text: prompt,
	}
	for _, img := range images {
		userTurn.Images = append(userTurn.Images, imageflow.GeneratedImage{
			Data:     img.Data,
			MIMEType: img.MIMEType,
		})
	}
	c.history = append(c.history, userTurn)

	genConfig := c.generator.buildGenerateContentConfig(info, config, nil)
	result, err := c.generator.client.Models.GenerateContent(
		ctx,
		info.APIModelName,
		c.contents,
		genConfig,
	)
	if err != nil {
		if rlErr := checkRateLimitError(err, info.APIModelName); rlErr != nil {
			return nil, rlErr
		}
		return nil, fmt.Errorf("conversation send failed: %w", err)
	}

	genResult, err := parseResult(result)
	if err != nil {
		return nil, err
	}

	// Add model response to history
	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		c.contents = append(c.contents, result.Candidates[0].Content)
	}

	modelTurn := imageflow.ConversationTurn{
		Role:   "model",
		Text:   genResult.Text,
		Images: genResult.Images,
	}
	c.history = append(c.history, modelTurn)

	return genResult, nil
}

// History returns a copy of the conversation history.
func (c *Conversation) History() []imageflow.ConversationTurn {
	c.mu.Lock()
	defer c.mu.Unlock()

	historyCopy := make([]imageflow.ConversationTurn, len(c.history))
	copy(historyCopy, c.history)
	return historyCopy
}

// Clear resets the conversation history.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = make([]imageflow.ConversationTurn, 0)
	c.contents = make([]*genai.Content, 0)
}
