package lookup

import (
	"github.com/bbernstein/stopfinder/internal/config"
	"github.com/bbernstein/stopfinder/internal/geocode"
	"github.com/bbernstein/stopfinder/internal/prediction"
	"github.com/bbernstein/stopfinder/internal/stop"
	"github.com/bbernstein/stopfinder/pkg/http/client"
)

type ServiceFactory interface {
	NewService(cfg *config.Config) (*Service, error)
}

type DefaultServiceFactory struct{}

// NewService validates cfg and wires the Mapbox and MBTA clients into a
// pipeline. The arrival stage is left out when predictions are disabled.
func (f *DefaultServiceFactory) NewService(cfg *config.Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mapboxClient := client.New(client.Options{
		BaseURL: cfg.MapboxBaseURL,
		Timeout: cfg.HTTPTimeout,
	})
	mbtaClient := client.New(client.Options{
		BaseURL: cfg.MBTABaseURL,
		Timeout: cfg.HTTPTimeout,
	})

	var predictor prediction.Predictor
	if cfg.EnablePredictions {
		predictor = prediction.NewMBTAPredictor(mbtaClient, cfg.MBTAAPIKey, cfg.Location())
	}

	return NewService(
		geocode.NewMapboxGeocoder(mapboxClient, cfg.MapboxToken),
		stop.NewMBTAStopFinder(mbtaClient, cfg.MBTAAPIKey),
		predictor,
	), nil
}
