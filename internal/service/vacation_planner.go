package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/gkatsarova/planzy-sub001/internal/intent"
	"github.com/gkatsarova/planzy-sub001/internal/maps"
)

const defaultAttractionQuery = "tourist attraction"

// IntentParser is the slice of intent.Parser the planner needs.
type IntentParser interface {
	ParseIntent(ctx context.Context, text string) intent.Result
	Pattern(theme string) intent.PreferencePattern
	UnknownDestination() string
}

// PlaceSearcher is implemented by maps.PlacesService.
type PlaceSearcher interface {
	SearchCategory(ctx context.Context, destination, query, placeType string, limit int) ([]maps.Place, error)
}

// VacationPlan pairs a parsed intent with concrete place suggestions.
type VacationPlan struct {
	Intent      intent.VacationIntent `json:"intent"`
	Lodging     []maps.Place          `json:"lodging"`
	Restaurants []maps.Place          `json:"restaurants"`
	Attractions []maps.Place          `json:"attractions"`
	Nightlife   []maps.Place          `json:"nightlife"`
}

// VacationPlanner orchestrates intent parsing and Google Places lookups.
type VacationPlanner struct {
	parser IntentParser
	places PlaceSearcher
	logger *zap.Logger
}

func NewVacationPlanner(parser IntentParser, places PlaceSearcher, logger *zap.Logger) *VacationPlanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VacationPlanner{parser: parser, places: places, logger: logger}
}

type categorySearch struct {
	name      string
	query     string
	placeType string
	limit     int
	dst       *[]maps.Place
}

// Plan parses text and searches each category concurrently.
// Extraction errors are returned unchanged so callers can match intent.ErrExtraction.
func (p *VacationPlanner) Plan(ctx context.Context, text string) (*VacationPlan, error) {
	vi, err := p.parser.ParseIntent(ctx, text).Get()
	if err != nil {
		return nil, err
	}

	plan := &VacationPlan{Intent: vi}
	if vi.Destination == "" || vi.Destination == p.parser.UnknownDestination() {
		p.logger.Info("No destination resolved, returning intent only")
		return plan, nil
	}

	searches := p.searchesFor(plan)

	wp := pool.New().WithErrors().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(len(searches))
	for _, s := range searches {
		wp.Go(func(ctx context.Context) error {
			places, err := p.places.SearchCategory(ctx, vi.Destination, s.query, s.placeType, s.limit)
			if err != nil {
				return fmt.Errorf("search %s in %s: %w", s.name, vi.Destination, err)
			}
			*s.dst = places
			return nil
		})
	}
	if err := wp.Wait(); err != nil {
		p.logger.Warn("Vacation plan search failed", zap.String("destination", vi.Destination), zap.Error(err))
		return nil, err
	}

	p.logger.Debug("Vacation plan built",
		zap.String("destination", vi.Destination),
		zap.Int("lodging", len(plan.Lodging)),
		zap.Int("restaurants", len(plan.Restaurants)),
		zap.Int("attractions", len(plan.Attractions)),
		zap.Int("nightlife", len(plan.Nightlife)),
	)
	return plan, nil
}

func (p *VacationPlanner) searchesFor(plan *VacationPlan) []categorySearch {
	prefs := plan.Intent.Preferences

	attractionQuery, attractionType := defaultAttractionQuery, "tourist_attraction"
	if plan.Intent.Theme != "" {
		if filter := p.parser.Pattern(plan.Intent.Theme).CategoryFilter; filter != nil && *filter != "" {
			attractionQuery, attractionType = strings.ReplaceAll(*filter, "_", " "), ""
		}
	}

	searches := []categorySearch{
		{name: "lodging", query: "hotel", placeType: "lodging", limit: prefs.HotelCount, dst: &plan.Lodging},
		{name: "restaurants", query: "restaurant", placeType: "restaurant", limit: prefs.RestaurantCount, dst: &plan.Restaurants},
		{name: "attractions", query: attractionQuery, placeType: attractionType, limit: prefs.AttractionCount, dst: &plan.Attractions},
	}
	if prefs.NightlifeCount > 0 {
		searches = append(searches, categorySearch{
			name: "nightlife", query: "nightlife", placeType: "night_club", limit: prefs.NightlifeCount, dst: &plan.Nightlife,
		})
	}
	return searches
}
