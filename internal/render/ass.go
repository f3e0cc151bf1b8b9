package render

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/videoforge/videoforge/internal/recipe"
)

// WriteASS renders text overlays into an ASS subtitle file sized to the
// video, for burning with ffmpeg's subtitles filter. Dialogue events are
// written in overlay order, so later overlays draw over earlier ones
// wherever their time ranges intersect.
func WriteASS(path string, overlays []TextOverlay, style recipe.SubtitleStyle, width, height int) error {
	var b strings.Builder

	bold := 0
	if style.Bold {
		bold = -1
	}

	fontName := strings.TrimSuffix(style.Font, "-Bold")

	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", width)
	fmt.Fprintf(&b, "PlayResY: %d\n", height)
	b.WriteString("WrapStyle: 2\n\n")

	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, OutlineColour, BackColour, Bold, Outline, Shadow, Alignment, MarginL, MarginR, MarginV\n")
	fmt.Fprintf(&b, "Style: Default,%s,%d,%s,%s,%s,%d,2,0,5,0,0,0\n\n",
		fontName, style.FontSize,
		assColor(style.Color), assColor(style.OutlineColor), assColor("#000000"),
		bold)

	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, o := range overlays {
		tags := fmt.Sprintf(`{\an5\pos(%d,%d)`, o.X, o.Y)
		if o.FadeIn > 0 || o.FadeOut > 0 {
			tags += fmt.Sprintf(`\fad(%d,%d)`, int(math.Round(o.FadeIn*1000)), int(math.Round(o.FadeOut*1000)))
		}
		tags += "}"

		text := strings.ReplaceAll(o.Text, "\n", `\N`)
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s%s\n",
			assTimestamp(o.Start), assTimestamp(o.End), tags, text)
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

// assColor converts "#RRGGBB" to ASS's &HAABBGGRR form.
func assColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return "&H00FFFFFF"
	}
	r, g, b := hex[0:2], hex[2:4], hex[4:6]
	return fmt.Sprintf("&H00%s%s%s", strings.ToUpper(b), strings.ToUpper(g), strings.ToUpper(r))
}

// assTimestamp formats seconds as H:MM:SS.cc.
func assTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := int(seconds) % 60
	cs := int((seconds - float64(int(seconds))) * 100)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// escapeFilterPath escapes a path for use inside an ffmpeg filter
// argument.
func escapeFilterPath(path string) string {
	escaped := strings.ReplaceAll(path, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, ":", `\:`)
	return escaped
}
