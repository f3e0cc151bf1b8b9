package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoopCopies(t *testing.T) {
	tests := []struct {
		name     string
		inputDur float64
		target   float64
		want     int
	}{
		{"exact multiple", 300, 36000, 122},
		{"rounds up", 7, 100, 17},
		{"input longer than target", 600, 300, 3},
		{"zero input duration", 0, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loopCopies(tt.inputDur, tt.target))
		})
	}
}

func TestRepeatPath(t *testing.T) {
	paths := repeatPath("/tmp/base.mp4", 3)
	assert.Equal(t, []string{"/tmp/base.mp4", "/tmp/base.mp4", "/tmp/base.mp4"}, paths)
}

func TestLoopedOutputPath(t *testing.T) {
	assert.Equal(t, "/out/final_looped.mp4", LoopedOutputPath("/out/final.mp4"))
	assert.Equal(t, "video_looped.mkv", LoopedOutputPath("video.mkv"))
}
