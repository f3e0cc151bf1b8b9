package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videoforge/videoforge/internal/recipe"
)

func TestWriteASS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captions.ass")
	style := recipe.SubtitleStyle{
		Font:         "Montserrat-Bold",
		FontSize:     64,
		Color:        "#FFFF00",
		OutlineColor: "#000000",
		Bold:         true,
	}
	overlays := []TextOverlay{
		{Text: "first line\nsecond line", Start: 0, End: 1.5, X: 960, Y: 540},
		{Text: "faded", Start: 1.5, End: 3.2, FadeIn: 0.3, FadeOut: 0.3, X: 960, Y: 980},
	}

	require.NoError(t, WriteASS(path, overlays, style, 1920, 1080))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "PlayResX: 1920")
	assert.Contains(t, content, "PlayResY: 1080")
	assert.Contains(t, content, "Style: Default,Montserrat,64,&H0000FFFF,&H00000000,")
	assert.Contains(t, content, `Dialogue: 0,0:00:00.00,0:00:01.50,Default,,0,0,0,,{\an5\pos(960,540)}first line\Nsecond line`)
	assert.Contains(t, content, `{\an5\pos(960,980)\fad(300,300)}faded`)
}

func TestASSColor(t *testing.T) {
	tests := []struct {
		hex  string
		want string
	}{
		{"#FFFFFF", "&H00FFFFFF"},
		{"#FFFF00", "&H0000FFFF"},
		{"#FF0000", "&H000000FF"},
		{"00ff00", "&H0000FF00"},
		{"bogus", "&H00FFFFFF"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, assColor(tt.hex), tt.hex)
	}
}

func TestASSTimestamp(t *testing.T) {
	assert.Equal(t, "0:00:00.00", assTimestamp(0))
	assert.Equal(t, "0:00:01.50", assTimestamp(1.5))
	assert.Equal(t, "0:01:30.25", assTimestamp(90.25))
	assert.Equal(t, "1:00:00.00", assTimestamp(3600))
	assert.Equal(t, "10:00:00.00", assTimestamp(36000))
	assert.Equal(t, "0:00:00.00", assTimestamp(-5))
}

func TestEscapeFilterPath(t *testing.T) {
	assert.Equal(t, `/tmp/work/captions.ass`, escapeFilterPath("/tmp/work/captions.ass"))
	assert.Equal(t, `C\:\\work\\captions.ass`, escapeFilterPath(`C:\work\captions.ass`))
}
