package enrich

import "errors"

var (
	// ErrPhotoDetail wraps a failed flickr.photos.getInfo call. It aborts the
	// run unless Config.SkipFailedDetails is set.
	ErrPhotoDetail = errors.New("photo detail fetch failed")

	// ErrUnknownLicense is returned when a photo reports a license id that
	// has no stored License row.
	ErrUnknownLicense = errors.New("license not in catalog")

	// ErrLicenseFetch wraps a failed license catalog download.
	ErrLicenseFetch = errors.New("license catalog fetch failed")
)
