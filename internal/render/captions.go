package render

import (
	"strings"

	"github.com/videoforge/videoforge/internal/recipe"
	"github.com/videoforge/videoforge/pkg/models"
)

// fadeInOutWindow is the fixed fade applied by the fade-in animation at
// each overlay boundary.
const fadeInOutWindow = 0.3

// TextOverlay is one timed caption drawn over the video. Overlays are
// composited in generation order, after the base video.
type TextOverlay struct {
	Text    string // wrapped; lines joined with \n
	Start   float64
	End     float64
	FadeIn  float64
	FadeOut float64
	X       int // anchor: horizontal center of the text block
	Y       int // anchor: vertical center of the text block
}

// Duration returns the overlay's visible length in seconds.
func (o TextOverlay) Duration() float64 {
	return o.End - o.Start
}

// CaptionEngine turns transcript segments into timed text overlays
// according to a subtitle style.
type CaptionEngine struct{}

// NewCaptionEngine creates a caption engine.
func NewCaptionEngine() *CaptionEngine {
	return &CaptionEngine{}
}

// Render produces the overlay sequence for a transcript. Overlays are
// clamped into [0, videoDuration]; windows that collapse after clamping
// are dropped, which also absorbs minor timestamp jitter from upstream.
func (e *CaptionEngine) Render(
	segments []models.CaptionSegment,
	style recipe.SubtitleStyle,
	videoDuration float64,
	width, height int,
) []TextOverlay {
	var overlays []TextOverlay

	switch style.Animation {
	case "word-by-word":
		for _, seg := range segments {
			if len(seg.Words) == 0 {
				// No word timestamps; degrade to one block overlay.
				overlays = appendOverlay(overlays, seg.Text, seg.Start, seg.End, 0, 0, style, videoDuration, width, height)
				continue
			}
			for _, word := range seg.Words {
				overlays = appendOverlay(overlays, word.Text, word.Start, word.End, 0, 0, style, videoDuration, width, height)
			}
		}
	case "fade-in":
		for _, seg := range segments {
			overlays = appendOverlay(overlays, seg.Text, seg.Start, seg.End, fadeInOutWindow, fadeInOutWindow, style, videoDuration, width, height)
		}
	default: // block
		for _, seg := range segments {
			overlays = appendOverlay(overlays, seg.Text, seg.Start, seg.End, 0, 0, style, videoDuration, width, height)
		}
	}

	return overlays
}

func appendOverlay(
	overlays []TextOverlay,
	text string,
	start, end float64,
	fadeIn, fadeOut float64,
	style recipe.SubtitleStyle,
	videoDuration float64,
	width, height int,
) []TextOverlay {
	text = strings.TrimSpace(text)
	if text == "" {
		return overlays
	}

	if start < 0 {
		start = 0
	}
	if end > videoDuration {
		end = videoDuration
	}
	if end <= start {
		return overlays
	}

	x, y := overlayAnchor(style, width, height)
	return append(overlays, TextOverlay{
		Text:    wrapText(text, style.FontSize, width-100),
		Start:   start,
		End:     end,
		FadeIn:  fadeIn,
		FadeOut: fadeOut,
		X:       x,
		Y:       y,
	})
}

// overlayAnchor computes the text anchor for a screen position.
func overlayAnchor(style recipe.SubtitleStyle, width, height int) (x, y int) {
	x = width / 2
	switch style.Position {
	case "top":
		y = 50 + style.FontSize/2
	case "center":
		y = height / 2
	default: // bottom
		y = height - style.FontSize - 50
	}
	return x, y
}

// wrapText breaks text into lines that fit maxWidth pixels, estimating
// glyph width from the font size. Words longer than a line stand alone.
func wrapText(text string, fontSize, maxWidth int) string {
	if fontSize <= 0 {
		return text
	}

	// Average glyph width for proportional fonts is roughly 0.6em.
	maxChars := maxWidth * 10 / (fontSize * 6)
	if maxChars < 1 {
		maxChars = 1
	}

	words := strings.Fields(text)
	var lines []string
	var line strings.Builder

	for _, word := range words {
		if line.Len() == 0 {
			line.WriteString(word)
			continue
		}
		if line.Len()+1+len(word) > maxChars {
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			continue
		}
		line.WriteString(" ")
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}
