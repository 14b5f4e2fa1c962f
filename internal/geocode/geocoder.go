package geocode

import (
	"context"

	"github.com/bbernstein/stopfinder/internal/models"
)

// Geocoder turns a free-text place name into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (models.Coordinates, error)
}
