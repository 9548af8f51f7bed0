package enrich

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"whlp/internal/entity"
	"whlp/internal/platform/flickr"
	"whlp/internal/store"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) GetLicenses(ctx context.Context) ([]flickr.ExternalLicense, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]flickr.ExternalLicense), args.Error(1)
}

func (m *mockAPI) FindPlaces(ctx context.Context, lat, lng float64) ([]flickr.Place, error) {
	args := m.Called(ctx, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]flickr.Place), args.Error(1)
}

func (m *mockAPI) SearchPhotos(ctx context.Context, p flickr.SearchParams) ([]flickr.Photo, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]flickr.Photo), args.Error(1)
}

func (m *mockAPI) GetPhotoInfo(ctx context.Context, photoID string) (*flickr.PhotoInfo, error) {
	args := m.Called(ctx, photoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flickr.PhotoInfo), args.Error(1)
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) PictureExists(ctx context.Context, flickrID string) bool {
	args := m.Called(ctx, flickrID)
	return args.Bool(0)
}

func (m *mockRepo) InsertLicense(ctx context.Context, l *entity.License) (store.Outcome, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(store.Outcome), args.Error(1)
}

func (m *mockRepo) InsertPicture(ctx context.Context, p *entity.Picture) (store.Outcome, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(store.Outcome), args.Error(1)
}

func (m *mockRepo) ListLicenses(ctx context.Context) ([]entity.License, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.License), args.Error(1)
}

func (m *mockRepo) ListMonuments(ctx context.Context) ([]entity.Monument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Monument), args.Error(1)
}

func (m *mockRepo) LastUpdateForMonument(ctx context.Context, monumentID string) (time.Time, error) {
	args := m.Called(ctx, monumentID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *mockRepo) UpdateLastUpdate(ctx context.Context, monumentID string, at time.Time) error {
	args := m.Called(ctx, monumentID, at)
	return args.Error(0)
}

func photos(ids ...string) []flickr.Photo {
	out := make([]flickr.Photo, len(ids))
	for i, id := range ids {
		out[i] = flickr.Photo{ID: id, Secret: "s" + id, Server: "65535", Farm: 66}
	}
	return out
}

func strp(s string) *string { return &s }

func f64p(f float64) *float64 { return &f }
