package lookup

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stopfinder/internal/geocode"
	"github.com/bbernstein/stopfinder/internal/models"
	"github.com/bbernstein/stopfinder/internal/prediction"
	"github.com/bbernstein/stopfinder/internal/stop"
)

// StopLocator is the caller-facing entry point of the pipeline.
type StopLocator interface {
	FindStopNear(ctx context.Context, place string) Result
}

type Service struct {
	geocoder  geocode.Geocoder
	finder    stop.Finder
	predictor prediction.Predictor
}

// NewService wires the pipeline stages. predictor may be nil, in which case
// results never carry an arrival.
func NewService(geocoder geocode.Geocoder, finder stop.Finder, predictor prediction.Predictor) *Service {
	return &Service{
		geocoder:  geocoder,
		finder:    finder,
		predictor: predictor,
	}
}

// FindStopNear runs geocode, nearest stop and the optional arrival lookup in
// order, stopping at the first stage that yields nothing or fails.
func (s *Service) FindStopNear(ctx context.Context, place string) Result {
	place = strings.TrimSpace(place)
	if place == "" {
		return Result{Outcome: OutcomeEmptyInput}
	}

	logger := loggerFrom(ctx).With().Str("place", place).Logger()

	coords, err := s.geocoder.Geocode(ctx, place)
	if err != nil {
		return failure(logger, place, "geocode", err)
	}

	nearest, err := s.finder.FindNearestStop(ctx, coords)
	if err != nil {
		return failure(logger, place, "nearest stop", err)
	}

	result := Result{
		Outcome:     OutcomeFound,
		Place:       place,
		Coordinates: coords,
		Stop:        nearest,
		Arrival:     models.NoArrival,
	}

	if s.predictor != nil {
		arrival, err := s.predictor.NextArrival(ctx, nearest.ID)
		if err != nil {
			return failure(logger, place, "arrival prediction", err)
		}
		result.Arrival = arrival
	}

	logger.Info().
		Str("stop_id", nearest.ID).
		Str("stop_name", nearest.Name).
		Str("accessibility", string(nearest.Accessibility)).
		Bool("arrival", result.Arrival.Available).
		Msg("Found nearest stop")

	return result
}

func failure(logger zerolog.Logger, place, stage string, err error) Result {
	if errors.Is(err, models.ErrNotFound) {
		logger.Info().Str("stage", stage).Msg("No result")
		return Result{Outcome: OutcomeNoResult, Place: place}
	}

	logger.Error().Err(err).Str("stage", stage).Msg("Lookup failed")
	return Result{Outcome: OutcomeFailed, Place: place, Err: err}
}

// loggerFrom prefers a request-scoped logger and falls back to the global one.
func loggerFrom(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return log.Logger
}
