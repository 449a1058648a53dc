package imageflow

import (
	"encoding/base64"
	"testing"
)

func TestGeneratedImageDataURL(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

	tests := []struct {
		name string
		img  GeneratedImage
		want string
	}{
		{
			name: "reported MIME type is used",
			img:  GeneratedImage{Data: []byte("abc"), MIMEType: "image/webp"},
			want: "data:image/webp;base64," + base64.StdEncoding.EncodeToString([]byte("abc")),
		},
		{
			name: "missing MIME type is sniffed",
			img:  GeneratedImage{Data: png},
			want: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		},
		{
			name: "no inline data",
			img:  GeneratedImage{URL: "https://example.com/a.png"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.img.DataURL(); got != tt.want {
				t.Errorf("DataURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeneratedImageRef(t *testing.T) {
	hosted := GeneratedImage{URL: "https://example.com/a.png"}
	if got := hosted.Ref(); got != "https://example.com/a.png" {
		t.Errorf("Ref() = %q, want hosted URL", got)
	}

	inline := GeneratedImage{Data: []byte("abc"), MIMEType: "image/png"}
	if got := inline.Ref(); got != inline.DataURL() {
		t.Errorf("Ref() = %q, want data URL", got)
	}
}

func TestImageRefs(t *testing.T) {
	result := GenerateResult{
		Images: []GeneratedImage{
			{URL: "https://example.com/a.png", Index: 0},
			{Data: []byte("abc"), MIMEType: "image/png", Index: 1},
		},
	}

	refs := result.ImageRefs()
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0] != "https://example.com/a.png" {
		t.Errorf("refs[0] = %q", refs[0])
	}
	if refs[1] != result.Images[1].DataURL() {
		t.Errorf("refs[1] = %q, want data URL", refs[1])
	}
}
