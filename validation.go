package imageflow

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrEmptyPrompt        = errors.New("prompt cannot be empty")
	ErrEmptyImageData     = errors.New("image data cannot be empty")
	ErrInvalidMIMEType    = errors.New("invalid or unsupported MIME type")
	ErrImageTooLarge      = errors.New("image data exceeds maximum size")
	ErrTooManyImages      = errors.New("too many input images")
	ErrEditingUnsupported = errors.New("model does not support image editing")
)

// Image size limits
const (
	// MaxImageSize is the maximum allowed image size in bytes (20MB)
	MaxImageSize = 20 * 1024 * 1024

	// MaxInputImages is the package-wide ceiling on reference images for
	// multi-image editing. Individual models may allow fewer.
	MaxInputImages = 16
)

// ValidMIMETypes contains the supported image MIME types
var ValidMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidatePrompt validates a text prompt.
func ValidatePrompt(prompt string) error {
	if prompt == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// ValidateInputImage validates an input image.
func ValidateInputImage(img InputImage) error {
	if len(img.Data) == 0 && img.URI == "" {
		return ErrEmptyImageData
	}

	if len(img.Data) > 0 {
		if len(img.Data) > MaxImageSize {
			return fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(img.Data), MaxImageSize)
		}

		if img.MIMEType == "" {
			return fmt.Errorf("%w: MIME type is required", ErrInvalidMIMEType)
		}

		if !ValidMIMETypes[img.MIMEType] {
			return fmt.Errorf("%w: %s", ErrInvalidMIMEType, img.MIMEType)
		}
	}

	return nil
}

// ValidateInputImages validates a slice of input images.
func ValidateInputImages(images []InputImage) error {
	if len(images) == 0 {
		return ErrEmptyImageData
	}

	if len(images) > MaxInputImages {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyImages, len(images), MaxInputImages)
	}

	for i, img := range images {
		if err := ValidateInputImage(img); err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}
	}

	return nil
}

// ValidateInputImagesForModel validates reference images against a model's
// capability table: editing support, per-model input count, and the file
// types the model accepts. A nil info falls back to the package-wide rules.
func ValidateInputImagesForModel(images []InputImage, info *ModelInfo) error {
	if err := ValidateInputImages(images); err != nil {
		return err
	}
	if info == nil {
		return nil
	}

	if !info.Capabilities.SupportsImageEditing {
		return fmt.Errorf("%w: %s", ErrEditingUnsupported, info.Name)
	}

	if max := info.Capabilities.MaxInputImages; max > 0 && len(images) > max {
		return fmt.Errorf("%w: %d (max %d for %s)", ErrTooManyImages, len(images), max, info.Name)
	}

	for i, img := range images {
		if len(img.Data) > 0 && !info.AcceptsInputMIME(img.MIMEType) {
			return fmt.Errorf("image %d: %w: %s not accepted by %s", i, ErrInvalidMIMEType, img.MIMEType, info.Name)
		}
	}

	return nil
}
