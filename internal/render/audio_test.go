package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videoforge/videoforge/internal/recipe"
)

func TestParseMaxVolume(t *testing.T) {
	stderr := `
[Parsed_volumedetect_0 @ 0x5591] n_samples: 8820000
[Parsed_volumedetect_0 @ 0x5591] mean_volume: -18.1 dB
[Parsed_volumedetect_0 @ 0x5591] max_volume: -6.5 dB
`
	v, ok := parseMaxVolume(stderr)
	require.True(t, ok)
	assert.Equal(t, -6.5, v)
}

func TestParseMaxVolumePositive(t *testing.T) {
	v, ok := parseMaxVolume("max_volume: 0.0 dB")
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestParseMaxVolumeMissing(t *testing.T) {
	_, ok := parseMaxVolume("mean_volume: -18.1 dB")
	assert.False(t, ok)
}

func TestNormalizeGainDB(t *testing.T) {
	// Peak at -6.5 dB moves up to the -0.92 dB target.
	gain := normalizeGainDB(-6.5)
	assert.InDelta(t, 5.58, gain, 0.01)

	// Peak already at 0 dB gets pulled down below the target.
	gain = normalizeGainDB(0)
	assert.InDelta(t, -0.92, gain, 0.01)
}

func TestBuildMixFilterDucksWhileNarrationPlays(t *testing.T) {
	opts := MixOptions{
		NarrationVolume: 1.0,
		MusicVolume:     0.2,
		TargetDuration:  60,
		FadeIn:          0.5,
		FadeOut:         0.5,
		Duck:            true,
	}

	filter := buildMixFilter(opts, 42.5)

	assert.Contains(t, filter, "[0:a]volume=1.00[narr]")
	assert.Contains(t, filter, "volume=0.30:enable='between(t,0,42.500)'")
	assert.Contains(t, filter, "amix=inputs=2:duration=longest:normalize=0")
	assert.Contains(t, filter, "apad,atrim=0:60.000")
	assert.True(t, strings.HasSuffix(filter, "[aout]"))
}

func TestBuildMixFilterNoDuckByDefault(t *testing.T) {
	opts := MixOptions{NarrationVolume: 1.0, MusicVolume: 0.2, TargetDuration: 60}

	filter := buildMixFilter(opts, 42.5)

	assert.NotContains(t, filter, "enable='between")
}

func TestBuildMixFilterNoDuckWithoutNarrationDuration(t *testing.T) {
	opts := MixOptions{NarrationVolume: 1.0, MusicVolume: 0.2, TargetDuration: 60, Duck: true}

	filter := buildMixFilter(opts, 0)

	assert.NotContains(t, filter, "enable='between")
}

func TestMusicChainFilter(t *testing.T) {
	opts := MixOptions{MusicVolume: 0.15, TargetDuration: 120, FadeIn: 0.5, FadeOut: 0.5}

	filter := musicChainFilter(opts)

	assert.Contains(t, filter, "atrim=0:120.000")
	assert.Contains(t, filter, "volume=0.15")
	assert.Contains(t, filter, "afade=t=in:st=0:d=0.500")
	assert.Contains(t, filter, "afade=t=out:st=119.500:d=0.500")
}

func TestMusicChainFilterUsesRecipeFades(t *testing.T) {
	reg := recipe.NewRegistry()
	for _, tc := range []struct {
		name   string
		fadeIn string
	}{
		{"brainrot", "afade=t=in:st=0:d=0.100"},
		{"ambient", "afade=t=in:st=0:d=2.000"},
	} {
		rec, err := reg.Get(tc.name, recipe.Overrides{})
		require.NoError(t, err)

		filter := musicChainFilter(MixOptions{
			MusicVolume:    rec.Audio.MusicVolume,
			TargetDuration: 60,
			FadeIn:         rec.Pacing.FadeDuration,
			FadeOut:        rec.Pacing.FadeDuration,
		})

		assert.Contains(t, filter, tc.fadeIn, tc.name)
	}
}

func TestMusicChainFilterZeroFadesOmitted(t *testing.T) {
	filter := musicChainFilter(MixOptions{MusicVolume: 0.5, TargetDuration: 60})

	assert.NotContains(t, filter, "afade")
}

func TestMusicChainFilterShortTarget(t *testing.T) {
	opts := MixOptions{MusicVolume: 0.5, TargetDuration: 1, FadeIn: 2, FadeOut: 2}

	filter := musicChainFilter(opts)

	// Fade-out start never goes negative.
	assert.Contains(t, filter, "afade=t=out:st=0.000")
}

func TestPadTrimFilter(t *testing.T) {
	assert.Equal(t, "apad,atrim=0:30.000", padTrimFilter(30))
}

func TestBuildAcrossfadeFilter(t *testing.T) {
	filter := buildAcrossfadeFilter(3)

	parts := strings.Split(filter, ";")
	require.Len(t, parts, 2)
	assert.Equal(t, "[0:a][1:a]acrossfade=d=0.5[a1]", parts[0])
	assert.Equal(t, "[a1][2:a]acrossfade=d=0.5[aout]", parts[1])
}

func TestBuildAcrossfadeFilterTwoInputs(t *testing.T) {
	assert.Equal(t, "[0:a][1:a]acrossfade=d=0.5[aout]", buildAcrossfadeFilter(2))
}
