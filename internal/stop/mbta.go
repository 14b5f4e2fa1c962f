package stop

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stopfinder/internal/models"
	"github.com/bbernstein/stopfinder/pkg/http/client"
)

const (
	serviceName = "MBTA"
	stopsPath   = "/stops"
)

type MBTAStopFinder struct {
	httpClient client.Interface
	apiKey     string
}

func NewMBTAStopFinder(httpClient client.Interface, apiKey string) *MBTAStopFinder {
	return &MBTAStopFinder{
		httpClient: httpClient,
		apiKey:     apiKey,
	}
}

type mbtaStopsResponse struct {
	Data *[]struct {
		ID         string `json:"id"`
		Attributes struct {
			Name               string          `json:"name"`
			Latitude           *float64        `json:"latitude"`
			Longitude          *float64        `json:"longitude"`
			WheelchairBoarding json.RawMessage `json:"wheelchair_boarding"`
		} `json:"attributes"`
	} `json:"data"`
}

// FindNearestStop asks the MBTA for stops sorted by distance from coords and
// returns the first one. Ties are broken by upstream order.
func (f *MBTAStopFinder) FindNearestStop(ctx context.Context, coords models.Coordinates) (*models.Stop, error) {
	params := url.Values{}
	params.Set("filter[latitude]", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Set("filter[longitude]", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	params.Set("sort", "distance")
	params.Set("page[limit]", "1")
	params.Set("api_key", f.apiKey)

	log.Debug().Stringer("coordinates", coords).Msg("Fetching nearest stop from mbta")

	resp, err := f.httpClient.Get(ctx, stopsPath, params)
	if err != nil {
		return nil, models.NewAPIError(serviceName, "fetching stops", client.StatusCode(err), err)
	}

	var mbtaResp mbtaStopsResponse
	if err := json.Unmarshal(resp.Body, &mbtaResp); err != nil {
		return nil, models.InvalidResponse(serviceName, "decoding stops", err)
	}
	if mbtaResp.Data == nil {
		return nil, models.InvalidResponse(serviceName, "missing data", nil)
	}

	stops := *mbtaResp.Data
	log.Debug().Int("stop_count", len(stops)).Msg("Fetched stops from mbta")
	if len(stops) == 0 {
		return nil, models.ErrNotFound
	}

	s := stops[0]
	if s.ID == "" || s.Attributes.Name == "" {
		return nil, models.InvalidResponse(serviceName, "stop without id or name", nil)
	}

	nearest := &models.Stop{
		ID:            s.ID,
		Name:          s.Attributes.Name,
		Accessibility: models.AccessibilityFromWheelchairCode(wheelchairCode(s.Attributes.WheelchairBoarding)),
	}
	if s.Attributes.Latitude != nil && s.Attributes.Longitude != nil {
		nearest.Latitude = *s.Attributes.Latitude
		nearest.Longitude = *s.Attributes.Longitude
		nearest.Distance = calculateDistance(coords.Latitude, coords.Longitude, nearest.Latitude, nearest.Longitude)
	}

	log.Trace().Str("stop_id", nearest.ID).Str("accessibility", string(nearest.Accessibility)).Msg("FindNearestStop: Found stop")
	return nearest, nil
}

// wheelchairCode reads the wheelchair_boarding attribute. Anything that is not
// an integral number, strings included, yields nil.
func wheelchairCode(raw json.RawMessage) *int {
	var n *float64
	if err := json.Unmarshal(raw, &n); err != nil || n == nil {
		return nil
	}
	if *n != math.Trunc(*n) || math.Abs(*n) > math.MaxInt32 {
		return nil
	}
	code := int(*n)
	return &code
}

func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0 // km

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
