// Package enrich attaches Flickr photos to stored monuments.
package enrich

import (
	"context"
	"time"

	"whlp/internal/entity"
	"whlp/internal/platform/flickr"
	"whlp/internal/store"
)

// API is the part of the Flickr client the enrichment stage calls.
type API interface {
	GetLicenses(ctx context.Context) ([]flickr.ExternalLicense, error)
	FindPlaces(ctx context.Context, lat, lng float64) ([]flickr.Place, error)
	SearchPhotos(ctx context.Context, p flickr.SearchParams) ([]flickr.Photo, error)
	GetPhotoInfo(ctx context.Context, photoID string) (*flickr.PhotoInfo, error)
}

// PictureChecker answers whether a photo has already been stored.
type PictureChecker interface {
	PictureExists(ctx context.Context, flickrID string) bool
}

type Repository interface {
	PictureChecker
	InsertLicense(ctx context.Context, l *entity.License) (store.Outcome, error)
	InsertPicture(ctx context.Context, p *entity.Picture) (store.Outcome, error)
	ListLicenses(ctx context.Context) ([]entity.License, error)
	ListMonuments(ctx context.Context) ([]entity.Monument, error)
	LastUpdateForMonument(ctx context.Context, monumentID string) (time.Time, error)
	UpdateLastUpdate(ctx context.Context, monumentID string, at time.Time) error
}
