package imageflow

import "testing"

func TestSniffMIMEType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "png magic bytes",
			data: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00},
			want: "image/png",
		},
		{
			name: "jpeg magic bytes",
			data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46},
			want: "image/jpeg",
		},
		{
			name: "gif magic bytes",
			data: []byte("GIF89a\x01\x00\x01\x00"),
			want: "image/gif",
		},
		{
			name: "webp riff header",
			data: []byte("RIFF\x24\x00\x00\x00WEBPVP8 "),
			want: "image/webp",
		},
		{
			name: "unrecognized bytes fall back to png",
			data: []byte("definitely not an image"),
			want: DefaultImageMIMEType,
		},
		{
			name: "empty payload falls back to png",
			data: nil,
			want: DefaultImageMIMEType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SniffMIMEType(tt.data); got != tt.want {
				t.Errorf("SniffMIMEType() = %q, want %q", got, tt.want)
			}
		})
	}
}
