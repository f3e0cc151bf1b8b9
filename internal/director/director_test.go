package director

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videoforge/videoforge/internal/recipe"
)

func TestSelectRecipeByKeyword(t *testing.T) {
	d := New(nil, nil)

	tests := []struct {
		topic string
		want  string
	}{
		{"breaking news about the election", "news"},
		{"peaceful rain sounds in the forest", "ambient"},
		{"10 hour lofi loop", "loop10h"},
		{"a short story about a dragon", "stories"},
		{"viral meme compilation", "brainrot"},
		{"quantum computing explained", "ambient"}, // no match, default
	}

	for _, tt := range tests {
		sel := d.SelectRecipe(tt.topic, "")
		assert.Equal(t, tt.want, sel.Recipe, "topic %q", tt.topic)
		assert.NotEmpty(t, sel.Reasoning)
	}
}

func TestSelectRecipeMostMatchesWins(t *testing.T) {
	d := New(nil, nil)

	// "calm" + "nature" + "ocean" outscore the single "loop" match
	sel := d.SelectRecipe("calm nature ocean loop", "")
	assert.Equal(t, "ambient", sel.Recipe)
}

func TestSelectRecipePreference(t *testing.T) {
	d := New(nil, nil)

	sel := d.SelectRecipe("some topic", "news")
	assert.Equal(t, "news", sel.Recipe)

	// "auto" defers to scoring
	sel = d.SelectRecipe("viral meme", "auto")
	assert.Equal(t, "brainrot", sel.Recipe)

	// unknown preferences fall through to scoring
	sel = d.SelectRecipe("breaking news", "nonexistent")
	assert.Equal(t, "news", sel.Recipe)
}

func TestScriptPerRecipe(t *testing.T) {
	d := New(nil, nil)
	reg := recipe.NewRegistry()

	for _, name := range reg.List() {
		rec, err := reg.Get(name, recipe.Overrides{})
		require.NoError(t, err)

		script, err := d.Script(context.Background(), "mountain lakes", rec)
		require.NoError(t, err)
		assert.NotEmpty(t, script)
		assert.Contains(t, script, "mountain lakes")
	}
}

func TestScriptAmbientIsMinimal(t *testing.T) {
	d := New(nil, nil)
	reg := recipe.NewRegistry()
	rec, err := reg.Get("ambient", recipe.Overrides{})
	require.NoError(t, err)

	script, err := d.Script(context.Background(), "rainy window", rec)
	require.NoError(t, err)
	assert.Equal(t, "rainy window.", script)
}

func TestScriptCancelledContext(t *testing.T) {
	d := New(nil, nil)
	reg := recipe.NewRegistry()
	rec, _ := reg.Get("news", recipe.Overrides{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Script(ctx, "topic", rec)
	assert.Error(t, err)
}

func TestScriptNewsHasStructure(t *testing.T) {
	d := New(nil, nil)
	reg := recipe.NewRegistry()
	rec, _ := reg.Get("news", recipe.Overrides{})

	script, err := d.Script(context.Background(), "local elections", rec)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(script, "Good day"))
	assert.Contains(t, script, "Thank you for watching")
}
