package imageflow

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultImageMIMEType is assumed when sniffing cannot identify an
// image format. PNG is what every supported backend emits by default.
const DefaultImageMIMEType = "image/png"

// SniffMIMEType detects the MIME type of raw image bytes. Providers that
// return bare base64 payloads do not always report a content type, so
// decoded bytes are sniffed before building data URLs or storage keys.
// Non-image content falls back to DefaultImageMIMEType.
func SniffMIMEType(data []byte) string {
	if len(data) == 0 {
		return DefaultImageMIMEType
	}
	detected := mimetype.Detect(data).String()
	if !strings.HasPrefix(detected, "image/") {
		return DefaultImageMIMEType
	}
	return detected
}
