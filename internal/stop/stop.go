package stop

import (
	"context"

	"github.com/bbernstein/stopfinder/internal/models"
)

// Finder defines the interface for locating the stop nearest to a point
type Finder interface {
	FindNearestStop(ctx context.Context, coords models.Coordinates) (*models.Stop, error)
}
