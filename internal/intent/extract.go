// README: Pure extraction stages: destination, duration, theme and preference counts.
package intent

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// EntityType tags an annotated span produced by an entity extractor.
type EntityType string

const (
	EntityAddress EntityType = "address"
	EntityOther   EntityType = "other"
)

// IsAddress reports whether the entity names a place a trip can go to.
func (t EntityType) IsAddress() bool {
	return t == EntityAddress
}

// Annotation is one span found by an entity extractor.
type Annotation struct {
	Text  string       `json:"text"`
	Types []EntityType `json:"types"`
}

const DefaultDurationDays = 3

const (
	minDurationDays = 1
	maxDurationDays = 30
)

var (
	destinationPattern = regexp.MustCompile(`\b(?i:in|to|at)\s+([A-Z][a-z]+)\b`)
	digitRunPattern    = regexp.MustCompile(`\d+`)
	nonWordPattern     = regexp.MustCompile(`\W+`)
)

// ResolveDestination returns the text of the first address annotation, falling back to
// a single capitalised word after "in", "to" or "at". ok is false when neither matches.
func ResolveDestination(annotations []Annotation, rawText string) (string, bool) {
	for _, a := range annotations {
		for _, t := range a.Types {
			if t.IsAddress() {
				return a.Text, true
			}
		}
	}

	m := destinationPattern.FindStringSubmatch(rawText)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractDuration returns the first number in the text within [1, 30], or DefaultDurationDays.
func ExtractDuration(rawText string) int {
	for _, run := range digitRunPattern.FindAllString(rawText, -1) {
		n, err := strconv.Atoi(run)
		if err != nil {
			continue // longer than int
		}
		if n >= minDurationDays && n <= maxDurationDays {
			return n
		}
	}
	return DefaultDurationDays
}

func tokenize(rawText string) []string {
	parts := nonWordPattern.Split(strings.ToLower(rawText), -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// ClassifyTheme scores every theme by the summed weights of the text's tokens and
// returns the best one. Ties go to the lexicographically smallest theme name. The
// winner is discarded unless at least one token appears in its word table.
func ClassifyTheme(rawText string, model *LearnedThemeData) (string, bool) {
	if model == nil || len(model.ThemeWordFrequency) == 0 {
		return "", false
	}
	tokens := tokenize(rawText)

	themes := make([]string, 0, len(model.ThemeWordFrequency))
	for theme := range model.ThemeWordFrequency {
		themes = append(themes, theme)
	}
	sort.Strings(themes)

	best, bestScore := "", -1
	for _, theme := range themes {
		words := model.ThemeWordFrequency[theme]
		score := 0
		for _, tok := range tokens {
			score += words[tok]
		}
		if score > bestScore {
			best, bestScore = theme, score
		}
	}

	words := model.ThemeWordFrequency[best]
	for _, tok := range tokens {
		if _, ok := words[tok]; ok {
			return best, true
		}
	}
	return "", false
}

// HasNightlifeSignal reports whether the user asked for nightlife explicitly.
func HasNightlifeSignal(theme, rawText string) bool {
	if theme == ThemeNightlife {
		return true
	}
	lower := strings.ToLower(rawText)
	return strings.Contains(lower, "night") || strings.Contains(lower, "bar")
}

// SynthesizePreferences turns a theme and trip length into per-category counts.
func SynthesizePreferences(theme string, durationDays int, nightlife bool, model *LearnedThemeData) VacationPreferences {
	p := model.Pattern(theme)
	days := float64(durationDays)

	prefs := VacationPreferences{
		HotelCount:      1,
		RestaurantCount: atLeastOne(p.AvgRestaurantsPerDay * days),
		AttractionCount: atLeastOne(p.AvgAttractionsPerDay * days),
	}
	if nightlife {
		base := p.AvgNightlifePerDay
		if base <= 0 {
			base = 1
		}
		prefs.NightlifeCount = atLeastOne(base * days)
	}
	return prefs
}

func atLeastOne(v float64) int {
	n := int(math.Floor(v))
	if n < 1 {
		return 1
	}
	return n
}
