package enrich

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"whlp/internal/entity"
	"whlp/internal/platform/flickr"
)

type PhotoEnricher struct {
	api               API
	pictures          PictureChecker
	logger            *zap.Logger
	skipFailedDetails bool
}

func NewPhotoEnricher(api API, pictures PictureChecker, logger *zap.Logger, skipFailedDetails bool) *PhotoEnricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhotoEnricher{
		api:               api,
		pictures:          pictures,
		logger:            logger,
		skipFailedDetails: skipFailedDetails,
	}
}

// EnrichResult holds the pictures built for one monument.
type EnrichResult struct {
	Pictures []entity.Picture
	Known    int // already stored, not fetched again
	Failed   int // detail fetch failed and was skipped
}

// Enrich builds a Picture for every photo not yet stored. A failed detail
// fetch returns ErrPhotoDetail and stops, unless the enricher was built to
// skip such photos.
func (e *PhotoEnricher) Enrich(ctx context.Context, m entity.Monument, photos []flickr.Photo, licenses LicenseIndex) (EnrichResult, error) {
	var res EnrichResult
	for _, p := range photos {
		if e.pictures.PictureExists(ctx, p.ID) {
			res.Known++
			continue
		}

		info, err := e.api.GetPhotoInfo(ctx, p.ID)
		if err != nil {
			if e.skipFailedDetails {
				e.logger.Warn("skipping photo, detail fetch failed",
					zap.String("photo_id", p.ID),
					zap.String("monument_id", m.ID),
					zap.Error(err))
				res.Failed++
				continue
			}
			return res, fmt.Errorf("%w: photo %s: %w", ErrPhotoDetail, p.ID, err)
		}

		licenseID, err := licenses.Lookup(int(info.License))
		if err != nil {
			return res, fmt.Errorf("photo %s: %w", p.ID, err)
		}

		now := entity.Now()
		res.Pictures = append(res.Pictures, entity.Picture{
			ID:         uuid.NewString(),
			FlickrID:   p.ID,
			MonumentID: m.ID,
			LicenseID:  licenseID,
			Author:     info.Owner.Username,
			URL:        flickr.OriginalURL(p.Farm, p.Server, p.ID, info.OriginalSecret),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return res, nil
}
