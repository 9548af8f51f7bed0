package enrich

import (
	"context"

	"whlp/internal/platform/flickr"
)

// DefaultLicenses is every Flickr license except "All Rights Reserved" (0).
var DefaultLicenses = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

const DefaultPerPage = 10

type PhotoSearcher struct {
	api      API
	licenses []int
	perPage  int
}

func NewPhotoSearcher(api API, licenses []int, perPage int) *PhotoSearcher {
	if len(licenses) == 0 {
		licenses = DefaultLicenses
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &PhotoSearcher{api: api, licenses: licenses, perPage: perPage}
}

// SearchResult is the outcome of one underlying photos.search call.
type SearchResult struct {
	Photos []flickr.Photo
	Err    error
}

// Search runs a place-constrained and an unconstrained search for text and
// merges them with MergeResults. Without a place the constrained search is
// not issued and counts as an empty success.
func (s *PhotoSearcher) Search(ctx context.Context, text, placeID string, hasPlace bool) ([]flickr.Photo, error) {
	var inPlace SearchResult
	if hasPlace {
		inPlace.Photos, inPlace.Err = s.api.SearchPhotos(ctx, s.params(text, placeID))
	}

	var anywhere SearchResult
	anywhere.Photos, anywhere.Err = s.api.SearchPhotos(ctx, s.params(text, ""))

	return MergeResults(inPlace, anywhere)
}

func (s *PhotoSearcher) params(text, placeID string) flickr.SearchParams {
	return flickr.SearchParams{
		Text:     text,
		PlaceID:  placeID,
		Licenses: s.licenses,
		PerPage:  s.perPage,
	}
}

// MergeResults picks one of the two searches:
//
//   - if exactly one failed, the other one;
//   - if both failed, the unconstrained failure;
//   - if the place search is empty, the unconstrained one;
//   - if the unconstrained search is empty, the place one;
//   - otherwise the strictly shorter list, the place one on a tie.
func MergeResults(inPlace, anywhere SearchResult) ([]flickr.Photo, error) {
	switch {
	case inPlace.Err != nil && anywhere.Err != nil:
		return nil, anywhere.Err
	case inPlace.Err != nil:
		return anywhere.Photos, nil
	case anywhere.Err != nil:
		return inPlace.Photos, nil
	}

	switch {
	case len(inPlace.Photos) == 0:
		return anywhere.Photos, nil
	case len(anywhere.Photos) == 0:
		return inPlace.Photos, nil
	case len(anywhere.Photos) < len(inPlace.Photos):
		return anywhere.Photos, nil
	default:
		return inPlace.Photos, nil
	}
}
