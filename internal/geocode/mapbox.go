package geocode

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fastjson"

	"github.com/bbernstein/stopfinder/internal/models"
	"github.com/bbernstein/stopfinder/pkg/http/client"
)

const (
	serviceName = "Mapbox"
	forwardPath = "/search/searchbox/v1/forward"
)

var ErrEmptyPlace = errors.New("place name is empty")

type MapboxGeocoder struct {
	httpClient client.Interface
	token      string
}

func NewMapboxGeocoder(httpClient client.Interface, token string) *MapboxGeocoder {
	return &MapboxGeocoder{
		httpClient: httpClient,
		token:      token,
	}
}

// Geocode returns the coordinates of the first Mapbox match for place.
func (g *MapboxGeocoder) Geocode(ctx context.Context, place string) (models.Coordinates, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return models.Coordinates{}, ErrEmptyPlace
	}

	params := url.Values{}
	params.Set("q", place)
	params.Set("limit", "1")
	params.Set("access_token", g.token)

	log.Debug().Str("place", place).Msg("Geocoding place with mapbox")

	resp, err := g.httpClient.Get(ctx, forwardPath, params)
	if err != nil {
		return models.Coordinates{}, models.NewAPIError(serviceName, "forward search", client.StatusCode(err), err)
	}

	coords, err := parseFirstFeature(resp.Body)
	if err != nil {
		return models.Coordinates{}, err
	}

	log.Debug().Str("place", place).Stringer("coordinates", coords).Msg("Geocoded place")
	return coords, nil
}

// parseFirstFeature reads the first feature of a GeoJSON FeatureCollection.
// Mapbox has shipped the point in several places over its API versions, so
// each known shape is tried in turn.
func parseFirstFeature(body []byte) (models.Coordinates, error) {
	v, err := fastjson.ParseBytes(body)
	if err != nil {
		return models.Coordinates{}, models.InvalidResponse(serviceName, "parsing body", err)
	}
	if v.Type() != fastjson.TypeObject {
		return models.Coordinates{}, models.InvalidResponse(serviceName, "body is not an object", nil)
	}

	featuresValue := v.Get("features")
	if featuresValue == nil {
		return models.Coordinates{}, models.InvalidResponse(serviceName, "missing features", nil)
	}
	features, err := featuresValue.Array()
	if err != nil {
		return models.Coordinates{}, models.InvalidResponse(serviceName, "features is not a list", err)
	}
	if len(features) == 0 {
		return models.Coordinates{}, models.ErrNotFound
	}

	coords, ok := featureCoordinates(features[0])
	if !ok {
		return models.Coordinates{}, models.InvalidResponse(serviceName, "feature has no coordinates", nil)
	}
	if err := coords.Validate(); err != nil {
		return models.Coordinates{}, models.InvalidResponse(serviceName, "coordinates out of range", err)
	}

	return coords, nil
}

func featureCoordinates(feature *fastjson.Value) (models.Coordinates, bool) {
	// GeoJSON order is [longitude, latitude]
	if coords, ok := lonLatPair(feature.GetArray("geometry", "coordinates")); ok {
		return coords, true
	}
	if coords, ok := lonLatPair(feature.GetArray("center")); ok {
		return coords, true
	}

	point := feature.Get("properties", "coordinates")
	if point == nil || !point.Exists("latitude") || !point.Exists("longitude") {
		return models.Coordinates{}, false
	}
	lat, latErr := point.Get("latitude").Float64()
	lon, lonErr := point.Get("longitude").Float64()
	if latErr != nil || lonErr != nil {
		return models.Coordinates{}, false
	}
	return models.Coordinates{Latitude: lat, Longitude: lon}, true
}

func lonLatPair(pair []*fastjson.Value) (models.Coordinates, bool) {
	if len(pair) < 2 {
		return models.Coordinates{}, false
	}
	lon, err := pair[0].Float64()
	if err != nil {
		return models.Coordinates{}, false
	}
	lat, err := pair[1].Float64()
	if err != nil {
		return models.Coordinates{}, false
	}
	return models.Coordinates{Latitude: lat, Longitude: lon}, true
}
