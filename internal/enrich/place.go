package enrich

import (
	"context"
)

type PlaceResolver struct {
	api API
}

func NewPlaceResolver(api API) *PlaceResolver {
	return &PlaceResolver{api: api}
}

// Resolve returns the first Flickr place id for the coordinates. ok is false
// when Flickr knows no place there; that is not an error.
func (r *PlaceResolver) Resolve(ctx context.Context, lat, lng float64) (placeID string, ok bool, err error) {
	places, err := r.api.FindPlaces(ctx, lat, lng)
	if err != nil {
		return "", false, err
	}
	if len(places) == 0 {
		return "", false, nil
	}
	return places[0].PlaceID, true, nil
}
