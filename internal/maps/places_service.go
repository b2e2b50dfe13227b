package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// MinRating drops low-quality results.
const MinRating = 3.5

// Place represents a simplified location result.
type Place struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Rating           float32 `json:"rating"`
	PlaceID          string  `json:"placeId"`
	UserRatingsTotal int     `json:"userRatingsTotal"`
}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// SearchCategory runs a text search for "<query> in <destination>" and returns
// at most limit results rated MinRating or better. placeType may be empty.
func (s *PlacesService) SearchCategory(ctx context.Context, destination, query, placeType string, limit int) ([]Place, error) {
	if limit <= 0 {
		return nil, nil
	}

	r := &maps.TextSearchRequest{
		Query:    categoryQuery(destination, query),
		Language: "en",
	}
	if placeType != "" {
		r.Type = maps.PlaceType(placeType)
	}

	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	return topRated(resp.Results, limit), nil
}

func categoryQuery(destination, query string) string {
	query = strings.TrimSpace(query)
	if destination == "" {
		return query
	}
	return fmt.Sprintf("%s in %s", query, destination)
}

// topRated keeps API order, skipping duplicates and results below MinRating.
func topRated(results []maps.PlacesSearchResult, limit int) []Place {
	var places []Place
	seen := make(map[string]bool)

	for _, result := range results {
		if result.Rating < MinRating {
			continue
		}
		if result.PlaceID != "" && seen[result.PlaceID] {
			continue
		}
		seen[result.PlaceID] = true

		places = append(places, Place{
			Name:             result.Name,
			Address:          result.FormattedAddress,
			Rating:           result.Rating,
			PlaceID:          result.PlaceID,
			UserRatingsTotal: result.UserRatingsTotal,
		})

		if len(places) >= limit {
			break
		}
	}
	return places
}
