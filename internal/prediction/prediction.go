package prediction

import (
	"context"

	"github.com/bbernstein/stopfinder/internal/models"
)

// Predictor returns the soonest predicted arrival at a stop. A stop without
// live predictions yields models.NoArrival and a nil error.
type Predictor interface {
	NextArrival(ctx context.Context, stopID string) (models.Arrival, error)
}
