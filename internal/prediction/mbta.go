package prediction

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stopfinder/internal/models"
	"github.com/bbernstein/stopfinder/pkg/http/client"
)

const (
	serviceName       = "MBTA"
	predictionsPath   = "/predictions"
	displayTimeLayout = "3:04 PM"
)

type MBTAPredictor struct {
	httpClient client.Interface
	apiKey     string
	location   *time.Location
	now        func() time.Time
}

// NewMBTAPredictor creates a predictor that formats arrival times in location.
// A nil location means UTC.
func NewMBTAPredictor(httpClient client.Interface, apiKey string, location *time.Location) *MBTAPredictor {
	if location == nil {
		location = time.UTC
	}
	return &MBTAPredictor{
		httpClient: httpClient,
		apiKey:     apiKey,
		location:   location,
		now:        time.Now,
	}
}

// WithClock replaces the clock used to compute minutes until arrival.
func (p *MBTAPredictor) WithClock(now func() time.Time) *MBTAPredictor {
	p.now = now
	return p
}

type mbtaPredictionsResponse struct {
	Data *[]struct {
		ID         string `json:"id"`
		Attributes struct {
			ArrivalTime *string `json:"arrival_time"`
		} `json:"attributes"`
		Relationships struct {
			Route struct {
				Data *struct {
					ID string `json:"id"`
				} `json:"data"`
			} `json:"route"`
		} `json:"relationships"`
	} `json:"data"`
}

func (p *MBTAPredictor) NextArrival(ctx context.Context, stopID string) (models.Arrival, error) {
	params := url.Values{}
	params.Set("filter[stop]", stopID)
	params.Set("sort", "arrival_time")
	params.Set("page[limit]", "1")
	params.Set("api_key", p.apiKey)

	resp, err := p.httpClient.Get(ctx, predictionsPath, params)
	if err != nil {
		return models.NoArrival, models.NewAPIError(serviceName, "fetching predictions", client.StatusCode(err), err)
	}

	log.Debug().Str("stop_id", stopID).Msg("Fetched predictions from mbta")

	var mbtaResp mbtaPredictionsResponse
	if err := json.Unmarshal(resp.Body, &mbtaResp); err != nil {
		return models.NoArrival, models.InvalidResponse(serviceName, "decoding predictions", err)
	}
	if mbtaResp.Data == nil {
		return models.NoArrival, models.InvalidResponse(serviceName, "missing data", nil)
	}

	predictions := *mbtaResp.Data
	if len(predictions) == 0 {
		log.Debug().Str("stop_id", stopID).Msg("No predictions for stop")
		return models.NoArrival, nil
	}

	first := predictions[0]
	if first.Attributes.ArrivalTime == nil || *first.Attributes.ArrivalTime == "" {
		log.Debug().Str("stop_id", stopID).Str("prediction_id", first.ID).Msg("Prediction has no arrival time")
		return models.NoArrival, nil
	}

	arrivalTime, err := time.Parse(time.RFC3339, *first.Attributes.ArrivalTime)
	if err != nil {
		return models.NoArrival, models.InvalidResponse(serviceName, "parsing arrival time", err)
	}

	arrival := models.Arrival{
		Available:    true,
		ArrivalTime:  arrivalTime.UTC(),
		DisplayTime:  arrivalTime.In(p.location).Format(displayTimeLayout),
		MinutesUntil: minutesUntil(arrivalTime, p.now()),
	}
	if first.Relationships.Route.Data != nil {
		arrival.RouteID = first.Relationships.Route.Data.ID
	}

	return arrival, nil
}

// minutesUntil rounds the gap between now and arrival to whole minutes. It is
// negative when the prediction is already in the past.
func minutesUntil(arrival, now time.Time) int {
	return int(math.Round(arrival.UTC().Sub(now.UTC()).Minutes()))
}
