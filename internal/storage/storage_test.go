package storage

import (
	"testing"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filePath string
		wantType string
	}{
		{"video.mp4", "video/mp4"},
		{"video.mov", "video/quicktime"},
		{"video.mkv", "video/x-matroska"},
		{"video.webm", "video/webm"},
		{"music.mp3", "audio/mpeg"},
		{"narration.m4a", "audio/mp4"},
		{"narration.wav", "audio/wav"},
		{"captions.srt", "application/x-subrip"},
		{"captions.vtt", "text/vtt"},
		{"still.jpeg", "image/jpeg"},
		{"still.png", "image/png"},
		{"unknown.xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filePath, func(t *testing.T) {
			contentType := getContentType(tt.filePath)
			if contentType != tt.wantType {
				t.Errorf("getContentType(%q) = %q, want %q", tt.filePath, contentType, tt.wantType)
			}
		})
	}
}

func TestRenderObjectName(t *testing.T) {
	if got := RenderObjectName("abc-123"); got != "renders/abc-123.mp4" {
		t.Errorf("RenderObjectName = %q", got)
	}
}
