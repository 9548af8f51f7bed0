package enrich

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"whlp/internal/entity"
)

type LicenseCatalog struct {
	api API
}

func NewLicenseCatalog(api API) *LicenseCatalog {
	return &LicenseCatalog{api: api}
}

// Fetch downloads the Flickr license vocabulary and converts every entry to
// an internal License with a fresh id.
func (c *LicenseCatalog) Fetch(ctx context.Context) ([]entity.License, error) {
	ext, err := c.api.GetLicenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLicenseFetch, err)
	}

	now := entity.Now()
	out := make([]entity.License, 0, len(ext))
	for _, l := range ext {
		out = append(out, entity.License{
			ID:        uuid.NewString(),
			FlickrID:  l.ID,
			Name:      l.Name,
			URL:       l.URL,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out, nil
}

// LicenseIndex maps a Flickr license id to the stored License id.
type LicenseIndex map[int]string

// NewLicenseIndex must be built from the stored rows, not from Fetch: on a
// re-run the freshly generated ids were skipped as duplicates.
func NewLicenseIndex(stored []entity.License) LicenseIndex {
	idx := make(LicenseIndex, len(stored))
	for _, l := range stored {
		idx[l.FlickrID] = l.ID
	}
	return idx
}

func (idx LicenseIndex) Lookup(flickrID int) (string, error) {
	id, ok := idx[flickrID]
	if !ok {
		return "", fmt.Errorf("%w: flickr license %d", ErrUnknownLicense, flickrID)
	}
	return id, nil
}
