package recipe

// LayoutConfig controls how clips are framed and joined.
type LayoutConfig struct {
	Style              string  // "fullscreen", "ken-burns", "split-screen", "overlay"
	TransitionType     string  // "cut", "fade", "crossfade", "wipe"
	TransitionDuration float64 // seconds
}

// PacingConfig controls clip lengths and cut rhythm.
type PacingConfig struct {
	MinClipDuration float64 // seconds
	MaxClipDuration float64 // seconds
	CutSpeed        string  // "fast", "medium", "slow"
	FadeDuration    float64 // seconds
}

// AudioProfile controls the narration/music mix for a style.
type AudioProfile struct {
	VoiceStyle      string // "energetic", "calm", "news", "friendly"
	BackgroundMusic bool
	MusicVolume     float64 // 0.0 to 1.0
	SoundEffects    bool
	DuckNarration   bool // attenuate music while narration plays
	NarrationVolume float64 // 0.0 to 1.0
}

// SubtitleStyle controls caption rendering.
type SubtitleStyle struct {
	Font         string
	FontSize     int
	Color        string // hex color
	OutlineColor string // hex color
	Position     string // "bottom", "center", "top"
	Animation    string // "word-by-word", "block", "fade-in"
	Bold         bool
}

// Recipe is an immutable bundle of style parameters for one video. It is
// plain data: every style's effective configuration is inspectable without
// going through any dispatch.
type Recipe struct {
	Name        string
	Duration    float64 // seconds
	Resolution  string  // preset name, see ResolutionSize
	FPS         int
	AspectRatio string
	Layout      LayoutConfig
	Pacing      PacingConfig
	Audio       AudioProfile
	Subtitles   SubtitleStyle
}

// ResolutionSize resolves a resolution preset to pixel dimensions.
// Unknown presets fall back to 1080p.
func ResolutionSize(preset string) (width, height int) {
	presets := map[string][2]int{
		"1080p":    {1920, 1080},
		"720p":     {1280, 720},
		"vertical": {1080, 1920},
	}

	if size, ok := presets[preset]; ok {
		return size[0], size[1]
	}
	return 1920, 1080
}

// ResolutionSizeOf returns the recipe's pixel dimensions.
func (r Recipe) ResolutionSizeOf() (width, height int) {
	return ResolutionSize(r.Resolution)
}

func brainrotRecipe() Recipe {
	return Recipe{
		Name:        "brainrot",
		Duration:    60.0,
		Resolution:  "1080p",
		FPS:         60, // high fps keeps fast cuts smooth
		AspectRatio: "16:9",
		Layout: LayoutConfig{
			Style:              "fullscreen",
			TransitionType:     "cut",
			TransitionDuration: 0.1,
		},
		Pacing: PacingConfig{
			MinClipDuration: 1.0,
			MaxClipDuration: 3.0,
			CutSpeed:        "fast",
			FadeDuration:    0.1,
		},
		Audio: AudioProfile{
			VoiceStyle:      "energetic",
			BackgroundMusic: true,
			MusicVolume:     0.6,
			SoundEffects:    true,
			NarrationVolume: 0.8,
		},
		Subtitles: SubtitleStyle{
			Font:         "Arial-Bold",
			FontSize:     48,
			Color:        "#FFFFFF",
			OutlineColor: "#000000",
			Position:     "center",
			Animation:    "word-by-word",
			Bold:         true,
		},
	}
}

func newsRecipe() Recipe {
	return Recipe{
		Name:        "news",
		Duration:    120.0,
		Resolution:  "1080p",
		FPS:         30,
		AspectRatio: "16:9",
		Layout: LayoutConfig{
			Style:              "overlay",
			TransitionType:     "fade",
			TransitionDuration: 0.5,
		},
		Pacing: PacingConfig{
			MinClipDuration: 5.0,
			MaxClipDuration: 8.0,
			CutSpeed:        "medium",
			FadeDuration:    0.5,
		},
		Audio: AudioProfile{
			VoiceStyle:      "news",
			BackgroundMusic: false,
			MusicVolume:     0.0,
			SoundEffects:    false,
			NarrationVolume: 0.9,
		},
		Subtitles: SubtitleStyle{
			Font:         "Arial",
			FontSize:     36,
			Color:        "#FFFFFF",
			OutlineColor: "#000000",
			Position:     "bottom",
			Animation:    "block",
			Bold:         false,
		},
	}
}

func storiesRecipe() Recipe {
	return Recipe{
		Name:        "stories",
		Duration:    30.0,
		Resolution:  "vertical",
		FPS:         30,
		AspectRatio: "9:16",
		Layout: LayoutConfig{
			Style:              "fullscreen",
			TransitionType:     "fade",
			TransitionDuration: 0.3,
		},
		Pacing: PacingConfig{
			MinClipDuration: 3.0,
			MaxClipDuration: 5.0,
			CutSpeed:        "medium",
			FadeDuration:    0.3,
		},
		Audio: AudioProfile{
			VoiceStyle:      "friendly",
			BackgroundMusic: true,
			MusicVolume:     0.4,
			SoundEffects:    false,
			NarrationVolume: 0.85,
		},
		Subtitles: SubtitleStyle{
			Font:         "Arial",
			FontSize:     42,
			Color:        "#FFFFFF",
			OutlineColor: "#000000",
			Position:     "center",
			Animation:    "fade-in",
			Bold:         false,
		},
	}
}

func ambientRecipe() Recipe {
	return Recipe{
		Name:        "ambient",
		Duration:    300.0,
		Resolution:  "1080p",
		FPS:         24, // cinematic feel
		AspectRatio: "16:9",
		Layout: LayoutConfig{
			Style:              "ken-burns",
			TransitionType:     "crossfade",
			TransitionDuration: 2.0,
		},
		Pacing: PacingConfig{
			MinClipDuration: 30.0,
			MaxClipDuration: 60.0,
			CutSpeed:        "slow",
			FadeDuration:    2.0,
		},
		Audio: AudioProfile{
			VoiceStyle:      "calm",
			BackgroundMusic: true,
			MusicVolume:     0.7,
			SoundEffects:    false,
			NarrationVolume: 0.3,
		},
		Subtitles: SubtitleStyle{
			Font:         "Arial",
			FontSize:     32,
			Color:        "#CCCCCC",
			OutlineColor: "#000000",
			Position:     "bottom",
			Animation:    "fade-in",
			Bold:         false,
		},
	}
}

// loop10hRecipe is the ambient style stretched to a 10-hour seamless loop.
// Longer clips and slower crossfades hide the repeat point.
func loop10hRecipe() Recipe {
	r := ambientRecipe()
	r.Name = "loop10h"
	r.Duration = 36000.0
	r.Layout.TransitionDuration = 3.0
	r.Pacing.MinClipDuration = 60.0
	r.Pacing.MaxClipDuration = 120.0
	r.Pacing.FadeDuration = 3.0
	return r
}
