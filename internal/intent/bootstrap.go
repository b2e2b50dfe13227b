package intent

const (
	ThemeHistorical = "historical"
	ThemeBeach      = "beach"
	ThemeNightlife  = "nightlife"
)

// BootstrapThemeData returns the seed written on first run when no model is stored.
func BootstrapThemeData() *LearnedThemeData {
	museum := "museum"
	beach := "beach"
	nightClub := "night_club"

	return &LearnedThemeData{
		ThemeWordFrequency: map[string]map[string]int{
			ThemeHistorical: {
				"history":    3,
				"historical": 3,
				"historic":   3,
				"museum":     2,
				"museums":    2,
				"ancient":    2,
				"monument":   2,
				"monuments":  2,
				"heritage":   2,
				"ruins":      2,
				"culture":    1,
				"tour":       1,
			},
			ThemeBeach: {
				"beach":    3,
				"beaches":  3,
				"sea":      2,
				"ocean":    2,
				"coast":    2,
				"island":   2,
				"surf":     2,
				"sun":      1,
				"swim":     1,
				"relax":    1,
				"relaxing": 1,
			},
			ThemeNightlife: {
				"nightlife": 3,
				"club":      2,
				"clubs":     2,
				"party":     2,
				"clubbing":  2,
				"bar":       1,
				"bars":      1,
				"night":     1,
				"dance":     1,
				"drinks":    1,
			},
		},
		ThemePreferencePatterns: map[string]PreferencePattern{
			ThemeHistorical: {
				AvgRestaurantsPerDay: 2.0,
				AvgAttractionsPerDay: 3.0,
				AvgNightlifePerDay:   0.0,
				CategoryFilter:       &museum,
			},
			ThemeBeach: {
				AvgRestaurantsPerDay: 2.0,
				AvgAttractionsPerDay: 1.0,
				AvgNightlifePerDay:   0.5,
				CategoryFilter:       &beach,
			},
			ThemeNightlife: {
				AvgRestaurantsPerDay: 2.0,
				AvgAttractionsPerDay: 1.0,
				AvgNightlifePerDay:   2.0,
				CategoryFilter:       &nightClub,
			},
		},
	}
}
