package render

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videoforge/videoforge/internal/recipe"
)

func TestPlanClipsCoversTarget(t *testing.T) {
	pool := []Source{
		{Path: "a.mp4", Kind: ClipVideo, Duration: 30},
		{Path: "b.mp4", Kind: ClipVideo, Duration: 45},
	}
	layout := recipe.LayoutConfig{Style: "fullscreen", TransitionType: "cut"}
	pacing := recipe.PacingConfig{MinClipDuration: 1, MaxClipDuration: 3}

	plans := PlanClips(pool, layout, pacing, 60)

	require.NotEmpty(t, plans)
	assert.GreaterOrEqual(t, PlannedDuration(plans), 60.0)

	for _, p := range plans {
		assert.GreaterOrEqual(t, p.TargetDuration, 1.0)
		assert.LessOrEqual(t, p.TargetDuration, 3.0)
		assert.GreaterOrEqual(t, p.StartOffset, 0.0)
		assert.LessOrEqual(t, p.StartOffset+p.TargetDuration, p.SourceDuration+0.001)
	}
}

func TestPlanClipsRoundRobinsSources(t *testing.T) {
	pool := []Source{
		{Path: "a.mp4", Kind: ClipVideo, Duration: 100},
		{Path: "b.mp4", Kind: ClipVideo, Duration: 100},
	}
	layout := recipe.LayoutConfig{Style: "fullscreen", TransitionType: "cut"}
	pacing := recipe.PacingConfig{MinClipDuration: 2, MaxClipDuration: 2}

	plans := PlanClips(pool, layout, pacing, 20)

	seen := map[string]bool{}
	for _, p := range plans {
		seen[p.Source] = true
	}
	assert.True(t, seen["a.mp4"])
	assert.True(t, seen["b.mp4"])
}

func TestPlanClipsEmptyPoolYieldsPlaceholder(t *testing.T) {
	layout := recipe.LayoutConfig{Style: "fullscreen", TransitionType: "cut"}
	pacing := recipe.PacingConfig{MinClipDuration: 1, MaxClipDuration: 3}

	plans := PlanClips(nil, layout, pacing, 60)

	require.Len(t, plans, 1)
	assert.Equal(t, ClipColor, plans[0].Kind)
	assert.Equal(t, placeholderMaxDuration, plans[0].TargetDuration)
}

func TestPlanClipsPlaceholderShorterThanCap(t *testing.T) {
	layout := recipe.LayoutConfig{}
	pacing := recipe.PacingConfig{MinClipDuration: 1, MaxClipDuration: 3}

	plans := PlanClips(nil, layout, pacing, 4)

	require.Len(t, plans, 1)
	assert.Equal(t, 4.0, plans[0].TargetDuration)
}

func TestPlanClipsCrossfadeAccountsForOverlap(t *testing.T) {
	pool := []Source{{Path: "a.mp4", Kind: ClipVideo, Duration: 120}}
	layout := recipe.LayoutConfig{Style: "fullscreen", TransitionType: "crossfade", TransitionDuration: 2}
	pacing := recipe.PacingConfig{MinClipDuration: 30, MaxClipDuration: 60}

	plans := PlanClips(pool, layout, pacing, 300)

	assert.GreaterOrEqual(t, PlannedDuration(plans), 300.0)

	// Every clip after the first carries a crossfade transition.
	for i, p := range plans {
		if i == 0 {
			assert.Equal(t, EffectNone, p.Effect.Kind)
			continue
		}
		require.Equal(t, EffectTransition, p.Effect.Kind)
		assert.Equal(t, "crossfade", p.Effect.Transition.Type)
		assert.Equal(t, 2.0, p.Effect.Transition.Duration)
	}
}

func TestPlanClipsFadeOnEveryClip(t *testing.T) {
	pool := []Source{{Path: "a.mp4", Kind: ClipVideo, Duration: 60}}
	layout := recipe.LayoutConfig{Style: "fullscreen", TransitionType: "fade", TransitionDuration: 0.5}
	pacing := recipe.PacingConfig{MinClipDuration: 5, MaxClipDuration: 8}

	plans := PlanClips(pool, layout, pacing, 30)

	for _, p := range plans {
		require.Equal(t, EffectTransition, p.Effect.Kind)
		assert.Equal(t, "fade", p.Effect.Transition.Type)
	}
}

func TestPlanClipsImagesGetPanZoom(t *testing.T) {
	pool := []Source{{Path: "a.jpg", Kind: ClipImage}}
	layout := recipe.LayoutConfig{Style: "ken-burns", TransitionType: "crossfade", TransitionDuration: 2}
	pacing := recipe.PacingConfig{MinClipDuration: 30, MaxClipDuration: 60}

	plans := PlanClips(pool, layout, pacing, 60)

	require.NotEmpty(t, plans)
	for _, p := range plans {
		require.Equal(t, EffectPanZoom, p.Effect.Kind)
		require.NotNil(t, p.Effect.PanZoom)
		assert.Equal(t, 1.0, p.Effect.PanZoom.StartScale)
		assert.Equal(t, 1.2, p.Effect.PanZoom.EndScale)
	}
}

func TestPlanClipsShortSourceLoops(t *testing.T) {
	// Source shorter than the minimum clip length still gets planned;
	// the offset stays zero and looping happens at render time.
	pool := []Source{{Path: "tiny.mp4", Kind: ClipVideo, Duration: 1.5}}
	layout := recipe.LayoutConfig{TransitionType: "cut"}
	pacing := recipe.PacingConfig{MinClipDuration: 3, MaxClipDuration: 5}

	plans := PlanClips(pool, layout, pacing, 10)

	require.NotEmpty(t, plans)
	for _, p := range plans {
		assert.Equal(t, 0.0, p.StartOffset)
		assert.Greater(t, p.TargetDuration, p.SourceDuration)
	}
}

func TestPlannedDuration(t *testing.T) {
	plans := []ClipPlan{
		{TargetDuration: 10},
		{TargetDuration: 10, Effect: VisualEffect{
			Kind:       EffectTransition,
			Transition: &TransitionParams{Type: "crossfade", Duration: 2},
		}},
		{TargetDuration: 10, Effect: VisualEffect{
			Kind:       EffectTransition,
			Transition: &TransitionParams{Type: "fade", Duration: 2},
		}},
	}
	// 10 + (10-2) + 10; baked fades do not overlap.
	assert.InDelta(t, 28.0, PlannedDuration(plans), 0.001)
}

func TestBuildXfadeFilter(t *testing.T) {
	filter := buildXfadeFilter([]float64{10, 8, 6}, 2)

	parts := strings.Split(filter, ";")
	require.Len(t, parts, 2)

	assert.Equal(t, "[0:v][1:v]xfade=transition=fade:duration=2.000:offset=8.000[v01]", parts[0])
	// Second offset accumulates: 8 + (8-2) = 14.
	assert.Equal(t, "[v01][2:v]xfade=transition=fade:duration=2.000:offset=14.000[outv]", parts[1])
}

func TestBuildXfadeFilterTwoInputs(t *testing.T) {
	filter := buildXfadeFilter([]float64{5, 5}, 1)
	assert.Equal(t, "[0:v][1:v]xfade=transition=fade:duration=1.000:offset=4.000[outv]", filter)
}

func TestPanZoomFilter(t *testing.T) {
	filter := panZoomFilter(DefaultPanZoom(), 4, 1920, 1080, 30)

	assert.Contains(t, filter, "zoompan=")
	assert.Contains(t, filter, "d=120")
	assert.Contains(t, filter, "s=1920x1080")
	assert.Contains(t, filter, "fps=30")
	// Upscaled before zoompan for smooth subpixel motion.
	assert.True(t, strings.HasPrefix(filter, "scale=3840:2160,"))
	assert.Contains(t, filter, "1.000+(1.200-1.000)")
}

func TestWriteConcatList(t *testing.T) {
	listPath, err := writeConcatList([]string{"/tmp/a.mp4", "/tmp/b.mp4"})
	require.NoError(t, err)
	defer os.Remove(listPath)

	data, err := os.ReadFile(listPath)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "file '/tmp/a.mp4'\n")
	assert.Contains(t, content, "file '/tmp/b.mp4'\n")
}
