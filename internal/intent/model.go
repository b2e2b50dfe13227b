// README: Vacation intent value types and the learned theme model.
package intent

import "encoding/json"

// VacationPreferences holds how many places of each category a trip should include.
type VacationPreferences struct {
	HotelCount      int `json:"hotelCount"`
	RestaurantCount int `json:"restaurantCount"`
	AttractionCount int `json:"attractionCount"`
	NightlifeCount  int `json:"nightlifeCount"`
}

// VacationIntent is the structured reading of a free-text vacation request.
// An empty Theme means no theme matched.
type VacationIntent struct {
	Destination  string
	DurationDays int
	Theme        string
	Preferences  VacationPreferences
}

type vacationIntentJSON struct {
	Destination  string              `json:"destination"`
	DurationDays int                 `json:"durationDays"`
	Theme        *string             `json:"theme"`
	Preferences  VacationPreferences `json:"preferences"`
}

// MarshalJSON encodes a missing theme as null.
func (v VacationIntent) MarshalJSON() ([]byte, error) {
	out := vacationIntentJSON{
		Destination:  v.Destination,
		DurationDays: v.DurationDays,
		Preferences:  v.Preferences,
	}
	if v.Theme != "" {
		theme := v.Theme
		out.Theme = &theme
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *VacationIntent) UnmarshalJSON(data []byte) error {
	var in vacationIntentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	v.Destination = in.Destination
	v.DurationDays = in.DurationDays
	v.Preferences = in.Preferences
	v.Theme = ""
	if in.Theme != nil {
		v.Theme = *in.Theme
	}
	return nil
}

// PreferencePattern controls how many places per day a theme plans for.
type PreferencePattern struct {
	AvgRestaurantsPerDay float64 `json:"avgRestaurantsPerDay"`
	AvgAttractionsPerDay float64 `json:"avgAttractionsPerDay"`
	AvgNightlifePerDay   float64 `json:"avgNightlifePerDay"`
	CategoryFilter       *string `json:"categoryFilter"`
}

// DefaultPreferencePattern is used for a missing theme or a theme without a pattern.
func DefaultPreferencePattern() PreferencePattern {
	return PreferencePattern{
		AvgRestaurantsPerDay: 2.0,
		AvgAttractionsPerDay: 2.0,
		AvgNightlifePerDay:   0.0,
	}
}

// UnmarshalJSON fills fields missing from a stored pattern with the defaults.
func (p *PreferencePattern) UnmarshalJSON(data []byte) error {
	type alias PreferencePattern
	out := alias(DefaultPreferencePattern())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = PreferencePattern(out)
	return nil
}

// LearnedThemeData is the persisted theme model. The JSON form is the stored blob.
type LearnedThemeData struct {
	ThemeWordFrequency      map[string]map[string]int    `json:"themeWordFrequency"`
	ThemePreferencePatterns map[string]PreferencePattern `json:"themePreferencePatterns"`
}

// NewLearnedThemeData returns an empty model with initialised maps.
func NewLearnedThemeData() *LearnedThemeData {
	return &LearnedThemeData{
		ThemeWordFrequency:      make(map[string]map[string]int),
		ThemePreferencePatterns: make(map[string]PreferencePattern),
	}
}

// IsEmpty reports whether the model has no themes at all.
func (m *LearnedThemeData) IsEmpty() bool {
	return m == nil || (len(m.ThemeWordFrequency) == 0 && len(m.ThemePreferencePatterns) == 0)
}

// Pattern returns the pattern for theme, or the defaults when theme is empty or unknown.
func (m *LearnedThemeData) Pattern(theme string) PreferencePattern {
	if m == nil || theme == "" {
		return DefaultPreferencePattern()
	}
	if p, ok := m.ThemePreferencePatterns[theme]; ok {
		return p
	}
	return DefaultPreferencePattern()
}

// Clone returns a deep copy so a parser can own its snapshot.
func (m *LearnedThemeData) Clone() *LearnedThemeData {
	out := NewLearnedThemeData()
	if m == nil {
		return out
	}
	for theme, words := range m.ThemeWordFrequency {
		cp := make(map[string]int, len(words))
		for w, n := range words {
			cp[w] = n
		}
		out.ThemeWordFrequency[theme] = cp
	}
	for theme, p := range m.ThemePreferencePatterns {
		if p.CategoryFilter != nil {
			f := *p.CategoryFilter
			p.CategoryFilter = &f
		}
		out.ThemePreferencePatterns[theme] = p
	}
	return out
}

// normalize replaces nil maps left by a partial JSON document.
func (m *LearnedThemeData) normalize() {
	if m.ThemeWordFrequency == nil {
		m.ThemeWordFrequency = make(map[string]map[string]int)
	}
	if m.ThemePreferencePatterns == nil {
		m.ThemePreferencePatterns = make(map[string]PreferencePattern)
	}
}

// DecodeLearnedThemeData parses a stored blob. Unknown fields are ignored.
func DecodeLearnedThemeData(data []byte) (*LearnedThemeData, error) {
	var m LearnedThemeData
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	m.normalize()
	return &m, nil
}

// Encode serialises the model into its stored blob form.
func (m *LearnedThemeData) Encode() ([]byte, error) {
	return json.Marshal(m)
}
