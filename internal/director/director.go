// Package director selects the recipe for a topic and generates the
// narration script that drives the rest of the pipeline.
package director

import (
	"context"
	"sort"
	"strings"

	"github.com/videoforge/videoforge/internal/logging"
	"github.com/videoforge/videoforge/internal/recipe"
)

// Selection names the chosen recipe and explains why it was picked.
type Selection struct {
	Recipe    string
	Reasoning string
}

// recipePatterns maps recipe names to lowercase topic keywords. A topic
// is scored against each list and the best match wins.
var recipePatterns = map[string][]string{
	"ambient":  {"ambient", "calm", "peaceful", "serene", "relaxing", "lo-fi", "lofi", "meditation", "zen", "nature", "forest", "ocean", "rain"},
	"loop10h":  {"10 hour", "10h", "loop", "looping", "long", "extended", "ambient loop"},
	"news":     {"news", "breaking", "report", "update", "announcement", "headline", "journalism"},
	"stories":  {"story", "tale", "narrative", "short story", "storytime", "instagram story"},
	"brainrot": {"brainrot", "chaos", "intense", "fast", "energetic", "viral", "meme", "trending"},
}

// Director implements recipe selection and script generation. Selection
// is rule based; scripts are built from each recipe's prompt template.
type Director struct {
	registry *recipe.Registry
	log      *logging.Logger
}

func New(registry *recipe.Registry, log *logging.Logger) *Director {
	if registry == nil {
		registry = recipe.NewRegistry()
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Director{registry: registry, log: log}
}

// SelectRecipe picks a recipe for the topic. An explicit preference wins
// when it names a known recipe; otherwise topics are scored against the
// keyword patterns, defaulting to ambient.
func (d *Director) SelectRecipe(topic, preference string) Selection {
	if preference != "" && preference != "auto" {
		if d.registry.Exists(preference) {
			return Selection{Recipe: preference, Reasoning: "requested recipe: " + preference}
		}
		d.log.Warnf("unknown recipe preference %q, selecting by topic", preference)
	}

	topicLower := strings.ToLower(topic)

	best := ""
	bestScore := 0
	for _, name := range sortedPatternNames() {
		score := 0
		for _, kw := range recipePatterns[name] {
			if strings.Contains(topicLower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = name
			bestScore = score
		}
	}

	if best != "" {
		d.log.Infof("selected recipe %s for topic (%d keyword matches)", best, bestScore)
		return Selection{Recipe: best, Reasoning: "matched topic keywords for " + best}
	}

	return Selection{Recipe: "ambient", Reasoning: "no topic keywords matched, defaulting to ambient"}
}

// sortedPatternNames keeps scoring order stable across runs.
func sortedPatternNames() []string {
	names := make([]string, 0, len(recipePatterns))
	for name := range recipePatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Script generates a narration script for the topic in the recipe's
// style. Generation is template based and never fails; the error return
// satisfies the pipeline's script capability.
func (d *Director) Script(ctx context.Context, topic string, rec recipe.Recipe) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return generateScript(topic, rec), nil
}

func generateScript(topic string, rec recipe.Recipe) string {
	topic = strings.TrimSpace(topic)
	switch rec.Name {
	case "news":
		return "Good day, and welcome to this report. Today we're covering " + topic + ". " +
			"Here are the key developments you need to know. " +
			sentenceAbout(topic) + " " +
			"We'll continue to follow this as it develops. Thank you for watching."
	case "stories":
		return "Let me tell you about " + topic + ". " +
			sentenceAbout(topic) + " " +
			"And that's the story. Follow for more."
	case "brainrot":
		return "Okay so you will NOT believe this. " + topic + ". " +
			sentenceAbout(topic) + " " +
			"Absolutely wild. Anyway."
	case "ambient", "loop10h":
		return topic + "."
	default:
		return sentenceAbout(topic)
	}
}

func sentenceAbout(topic string) string {
	if topic == "" {
		return "There's more to this than meets the eye."
	}
	return "When it comes to " + topic + ", there's more to it than meets the eye."
}
