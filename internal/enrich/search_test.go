package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whlp/internal/platform/flickr"
)

func TestMergeResults(t *testing.T) {
	errPlace := errors.New("place search failed")
	errOpen := errors.New("open search failed")

	tests := []struct {
		name     string
		inPlace  SearchResult
		anywhere SearchResult
		want     []flickr.Photo
		wantErr  error
	}{
		{
			name:     "smaller place list wins",
			inPlace:  SearchResult{Photos: photos("1", "2")},
			anywhere: SearchResult{Photos: photos("3", "4", "5", "6", "7")},
			want:     photos("1", "2"),
		},
		{
			name:     "empty place list falls back",
			inPlace:  SearchResult{Photos: photos()},
			anywhere: SearchResult{Photos: photos("3", "4", "5", "6", "7")},
			want:     photos("3", "4", "5", "6", "7"),
		},
		{
			name:     "empty unconstrained list keeps place",
			inPlace:  SearchResult{Photos: photos("1", "2", "3")},
			anywhere: SearchResult{},
			want:     photos("1", "2", "3"),
		},
		{
			name:     "both empty",
			inPlace:  SearchResult{},
			anywhere: SearchResult{},
			want:     nil,
		},
		{
			name:     "shorter unconstrained list wins",
			inPlace:  SearchResult{Photos: photos("1", "2", "3")},
			anywhere: SearchResult{Photos: photos("4")},
			want:     photos("4"),
		},
		{
			name:     "tie prefers place",
			inPlace:  SearchResult{Photos: photos("1", "2")},
			anywhere: SearchResult{Photos: photos("3", "4")},
			want:     photos("1", "2"),
		},
		{
			name:     "failed place search",
			inPlace:  SearchResult{Err: errPlace},
			anywhere: SearchResult{Photos: photos("3", "4", "5")},
			want:     photos("3", "4", "5"),
		},
		{
			name:     "failed unconstrained search",
			inPlace:  SearchResult{Photos: photos("1")},
			anywhere: SearchResult{Err: errOpen},
			want:     photos("1"),
		},
		{
			name:     "both failed reports unconstrained error",
			inPlace:  SearchResult{Err: errPlace},
			anywhere: SearchResult{Err: errOpen},
			wantErr:  errOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MergeResults(tt.inPlace, tt.anywhere)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhotoSearcher_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("issues both searches with the allow-list", func(t *testing.T) {
		api := new(mockAPI)
		s := NewPhotoSearcher(api, []int{4, 5}, 10)

		api.On("SearchPhotos", ctx, flickr.SearchParams{Text: "Petra", PlaceID: "pl", Licenses: []int{4, 5}, PerPage: 10}).Return(photos("1", "2"), nil)
		api.On("SearchPhotos", ctx, flickr.SearchParams{Text: "Petra", Licenses: []int{4, 5}, PerPage: 10}).Return(photos("3", "4", "5", "6", "7"), nil)

		got, err := s.Search(ctx, "Petra", "pl", true)
		require.NoError(t, err)
		assert.Equal(t, photos("1", "2"), got)
		api.AssertExpectations(t)
	})

	t.Run("skips place search without a place", func(t *testing.T) {
		api := new(mockAPI)
		s := NewPhotoSearcher(api, nil, 0)

		api.On("SearchPhotos", ctx, flickr.SearchParams{Text: "Petra", Licenses: DefaultLicenses, PerPage: DefaultPerPage}).Return(photos("3"), nil)

		got, err := s.Search(ctx, "Petra", "", false)
		require.NoError(t, err)
		assert.Equal(t, photos("3"), got)
		api.AssertNumberOfCalls(t, "SearchPhotos", 1)
	})

	t.Run("place search failure falls back", func(t *testing.T) {
		api := new(mockAPI)
		s := NewPhotoSearcher(api, nil, 0)

		api.On("SearchPhotos", ctx, mock.MatchedBy(func(p flickr.SearchParams) bool { return p.PlaceID != "" })).Return(nil, flickr.ErrTransport)
		api.On("SearchPhotos", ctx, mock.MatchedBy(func(p flickr.SearchParams) bool { return p.PlaceID == "" })).Return(photos("3", "4", "5"), nil)

		got, err := s.Search(ctx, "Petra", "pl", true)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestPlaceResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("first place wins", func(t *testing.T) {
		api := new(mockAPI)
		api.On("FindPlaces", ctx, 41.89, 12.49).Return([]flickr.Place{{PlaceID: "rome"}, {PlaceID: "lazio"}}, nil)

		id, ok, err := NewPlaceResolver(api).Resolve(ctx, 41.89, 12.49)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "rome", id)
	})

	t.Run("no match is not an error", func(t *testing.T) {
		api := new(mockAPI)
		api.On("FindPlaces", ctx, 0.0, 0.0).Return([]flickr.Place{}, nil)

		id, ok, err := NewPlaceResolver(api).Resolve(ctx, 0, 0)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, id)
	})

	t.Run("transport failure surfaces", func(t *testing.T) {
		api := new(mockAPI)
		api.On("FindPlaces", ctx, 1.0, 2.0).Return(nil, flickr.ErrTransport)

		_, ok, err := NewPlaceResolver(api).Resolve(ctx, 1, 2)
		assert.ErrorIs(t, err, flickr.ErrTransport)
		assert.False(t, ok)
	})
}
