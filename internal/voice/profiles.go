package voice

// Profile describes how a narration style maps onto an edge-tts voice.
type Profile struct {
	Voice string // edge-tts voice short name
	Rate  string // e.g. "+10%", "-5%"
	Pitch string // e.g. "+2Hz"
}

// profiles maps narration styles to voices. Styles line up with the
// recipe audio profiles.
var profiles = map[string]Profile{
	"energetic": {Voice: "en-US-GuyNeural", Rate: "+15%", Pitch: "+2Hz"},
	"calm":      {Voice: "en-US-JennyNeural", Rate: "-10%", Pitch: "-2Hz"},
	"news":      {Voice: "en-US-ChristopherNeural", Rate: "+0%", Pitch: "+0Hz"},
	"friendly":  {Voice: "en-US-AriaNeural", Rate: "+5%", Pitch: "+0Hz"},
}

// defaultProfile is used for unknown styles.
var defaultProfile = Profile{Voice: "en-US-AriaNeural", Rate: "+0%", Pitch: "+0Hz"}

// ProfileFor resolves a narration style to a voice profile.
func ProfileFor(style string) Profile {
	if p, ok := profiles[style]; ok {
		return p
	}
	return defaultProfile
}

// Styles lists the known narration styles.
func Styles() []string {
	return []string{"calm", "energetic", "friendly", "news"}
}
