package recipe

import (
	"fmt"
	"sort"
	"strings"
)

// stockTermMappings translates well-known entities into terms that stock
// footage libraries actually index. Searching Pexels for "messi" returns
// nothing useful; "soccer" does.
var stockTermMappings = map[string][]string{
	"messi":      {"soccer", "football", "athlete", "sports"},
	"ronaldo":    {"soccer", "football", "athlete", "sports"},
	"football":   {"soccer", "sports", "stadium", "athlete"},
	"soccer":     {"football", "sports", "stadium", "goal"},
	"basketball": {"sports", "athlete", "basketball court", "slam dunk"},
	"gaming":     {"gaming", "esports", "computer", "neon lights"},
	"backflip":   {"gymnastics", "acrobatics", "parkour", "extreme sports"},
	"backflips":  {"gymnastics", "acrobatics", "parkour", "extreme sports"},
	"car":        {"car", "racing", "sports car", "speed"},
	"money":      {"money", "cash", "success", "business"},
	"gym":        {"gym", "fitness", "workout", "muscles"},
	"workout":    {"fitness", "gym", "exercise", "training"},
}

var ambientKeywords = []string{"calm", "peaceful", "serene", "ambient", "relaxing", "nature"}

// topicTokens splits a topic into lowercase words longer than 2 characters.
func topicTokens(topic string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(topic)) {
		word = strings.TrimSpace(word)
		if len(word) > 2 {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// Keywords derives asset search terms from a topic, specialized per recipe.
func (r Recipe) Keywords(topic string) []string {
	switch r.Name {
	case "brainrot":
		return brainrotKeywords(topic)
	case "ambient", "loop10h":
		return append(topicTokens(topic), ambientKeywords...)
	default:
		return topicTokens(topic)
	}
}

func brainrotKeywords(topic string) []string {
	topicLower := strings.ToLower(topic)

	keys := make([]string, 0, len(stockTermMappings))
	for key := range stockTermMappings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var keywords []string
	for _, key := range keys {
		if strings.Contains(topicLower, key) {
			keywords = append(keywords, stockTermMappings[key]...)
		}
	}

	if len(keywords) == 0 {
		keywords = topicTokens(topic)
	}

	keywords = append(keywords, "action", "dynamic", "energy")

	seen := make(map[string]bool)
	result := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if !seen[kw] {
			seen[kw] = true
			result = append(result, kw)
		}
	}

	if len(result) > 8 {
		result = result[:8]
	}
	return result
}

// ScriptPrompt builds the prompt used to drive script generation for this
// recipe's style.
func (r Recipe) ScriptPrompt(topic string) string {
	switch r.Name {
	case "news":
		return fmt.Sprintf("Write a professional news report script about: %s. Include an introduction, main points, and conclusion.", topic)
	case "stories":
		return fmt.Sprintf("Write a short, engaging story script about: %s. Keep it conversational and friendly, suitable for a 30-second video.", topic)
	case "ambient":
		return fmt.Sprintf("Create a brief, minimal description for an ambient video about: %s. Keep it very short, focusing on atmosphere.", topic)
	case "loop10h":
		return fmt.Sprintf("Create a very brief, atmospheric description for a 10-hour looping ambient video about: %s. Focus on visual elements that can loop seamlessly.", topic)
	default:
		return fmt.Sprintf("Create a %s style video script about: %s", r.Name, topic)
	}
}
