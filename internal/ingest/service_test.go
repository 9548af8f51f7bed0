package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whlp/internal/catalog"
	"whlp/internal/enrich"
	"whlp/internal/entity"
	"whlp/internal/metrics"
	"whlp/internal/store"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	args := m.Called(ctx, location)
	switch v := args.Get(0).(type) {
	case nil:
		return nil, args.Error(1)
	case io.Reader:
		return io.NopCloser(v), args.Error(1)
	default:
		return io.NopCloser(strings.NewReader(args.String(0))), args.Error(1)
	}
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateRun(ctx context.Context, run *entity.IngestRun) (string, error) {
	args := m.Called(ctx, run)
	return args.String(0), args.Error(1)
}

func (m *mockRepo) UpdateRun(ctx context.Context, run *entity.IngestRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRepo) InsertMonument(ctx context.Context, mon *entity.Monument) (store.Outcome, error) {
	args := m.Called(ctx, mon)
	return args.Get(0).(store.Outcome), args.Error(1)
}

func (m *mockRepo) UpdateMonument(ctx context.Context, id string, site, longDescription *string) error {
	args := m.Called(ctx, id, site, longDescription)
	return args.Error(0)
}

func (m *mockRepo) ListMonuments(ctx context.Context) ([]entity.Monument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Monument), args.Error(1)
}

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) Run(ctx context.Context) (enrich.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(enrich.Stats), args.Error(1)
}

const twoRows = `<query>
	<row><site>Petra</site><unique_number>326</unique_number><long_description>Rose city</long_description></row>
	<row><site>Rome</site><unique_number>91</unique_number></row>
</query>`

func strp(s string) *string { return &s }
func i32p(n int32) *int32 { return &n }

func TestService_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts monuments and completes without enrichment", func(t *testing.T) {
		src := new(mockSource)
		repo := new(mockRepo)
		s := NewService(src, repo, nil, nil, Config{Location: "whc.xml"}, nil)

		src.On("Open", ctx, "whc.xml").Return(twoRows, nil)
		repo.On("CreateRun", ctx, mock.MatchedBy(func(r *entity.IngestRun) bool {
			return r.Status == entity.RunRunning && r.Source == "whc.xml" && !r.Enrich
		})).Return("run-1", nil)
		repo.On("InsertMonument", ctx, mock.Anything).Return(store.Inserted, nil).Twice()
		repo.On("UpdateRun", mock.Anything, mock.MatchedBy(func(r *entity.IngestRun) bool {
			return r.ID == "run-1" && r.Status == entity.RunCompleted && r.FinishedAt != nil
		})).Return(nil)

		run, err := s.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, run.RowsRead)
		assert.Equal(t, 2, run.MonumentsInserted)
		assert.Equal(t, 0, run.MonumentsExisting)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "ListMonuments", mock.Anything)
	})

	t.Run("existing monuments are counted not failed", func(t *testing.T) {
		src := new(mockSource)
		repo := new(mockRepo)
		s := NewService(src, repo, nil, nil, Config{}, nil)

		src.On("Open", ctx, "").Return(twoRows, nil)
		repo.On("CreateRun", ctx, mock.Anything).Return("run-2", nil)
		repo.On("InsertMonument", ctx, mock.Anything).Return(store.AlreadyExists, nil)
		repo.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

		run, err := s.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, "default", run.Source)
		assert.Equal(t, 2, run.MonumentsExisting)
		assert.Equal(t, entity.RunCompleted, run.Status)
	})

	t.Run("truncated feed keeps earlier rows", func(t *testing.T) {
		src := new(mockSource)
		repo := new(mockRepo)
		s := NewService(src, repo, nil, nil, Config{}, nil)

		src.On("Open", ctx, "").Return(`<query><row><site>Petra</site></row><row><site>Ro`, nil)
		repo.On("CreateRun", ctx, mock.Anything).Return("run-3", nil)
		repo.On("InsertMonument", ctx, mock.MatchedBy(func(m *entity.Monument) bool {
			return m.Name() == "Petra"
		})).Return(store.Inserted, nil).Once()
		repo.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

		run, err := s.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, run.RowsRead)
		assert.Equal(t, entity.RunCompleted, run.Status)
		assert.Contains(t, run.Truncation, "truncated after 1 rows")
		assert.Empty(t, run.Error)
		repo.AssertExpectations(t)
	})

	t.Run("read failure mid-stream fails the run", func(t *testing.T) {
		src := new(mockSource)
		repo := new(mockRepo)
		enr := new(mockEnricher)
		s := NewService(src, repo, enr, nil, Config{}, nil)

		reset := errors.New("connection reset by peer")
		feed := io.MultiReader(
			strings.NewReader(`<query><row><site>Petra</site></row><row><site>Ro`),
			iotest.ErrReader(reset),
		)
		src.On("Open", ctx, "").Return(feed, nil)
		repo.On("CreateRun", ctx, mock.Anything).Return("run-3b", nil)
		repo.On("InsertMonument", ctx, mock.Anything).Return(store.Inserted, nil).Once()
		repo.On("UpdateRun", mock.Anything, mock.MatchedBy(func(r *entity.IngestRun) bool {
			return r.Status == entity.RunFailed && strings.Contains(r.Error, "connection reset")
		})).Return(nil)

		run, err := s.Run(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrRead)
		assert.ErrorIs(t, err, reset)
		assert.Equal(t, entity.RunFailed, run.Status)
		assert.Empty(t, run.Truncation)
		enr.AssertNotCalled(t, "Run", mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("fatal storage error fails the run", func(t *testing.T) {
		src := new(mockSource)
		repo := new(mockRepo)
		enr := new(mockEnricher)
		s := NewService(src, repo, enr, nil, Config{}, nil)

		src.On("Open", ctx, "").Return(twoRows, nil)
		repo.On("CreateRun", ctx, mock.Anything).Return("run-4", nil)
		repo.On("InsertMonument", ctx, mock.Anything).Return(store.Inserted, store.ErrFatal).Once()
		repo.On("UpdateRun", mock.Anything, mock.MatchedBy(func(r *entity.IngestRun) bool {
			return r.Status == entity.RunFailed && strings.Contains(r.Error, "Petra")
		})).Return(nil)

		run, err := s.Run(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrFatal)
		assert.Equal(t, entity.RunFailed, run.Status)
		enr.AssertNotCalled(t, "Run", mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("source failure fails the run", func(t *testing.T) {
		src := new(mockSource)
		repo := new(mockRepo)
		s := NewService(src, repo, nil, nil, Config{Location: "missing.xml"}, nil)

		src.On("Open", ctx, "missing.xml").Return(nil, errors.New("no such file"))
		repo.On("CreateRun", ctx, mock.Anything).Return("run-5", nil)
		repo.On("UpdateRun", mock.Anything, mock.MatchedBy(func(r *entity.IngestRun) bool {
			return r.Status == entity.RunFailed
		})).Return(nil)

		_, err := s.Run(ctx)
		require.Error(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("enrichment runs after monuments", func(t *testing.T) {
		src := new(mockSource)
		repo := new(mockRepo)
		enr := new(mockEnricher)
		rec := metrics.New()
		s := NewService(src, repo, enr, rec, Config{}, nil)

		src.On("Open", ctx, "").Return(twoRows, nil)
		repo.On("CreateRun", ctx, mock.MatchedBy(func(r *entity.IngestRun) bool { return r.Enrich })).Return("run-6", nil)
		repo.On("InsertMonument", ctx, mock.Anything).Return(store.Inserted, nil)
		enr.On("Run", ctx).Return(enrich.Stats{LicensesInserted: 3, PicturesInserted: 5, PicturesExisting: 1}, nil)
		repo.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

		run, err := s.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, run.LicensesInserted)
		assert.Equal(t, 5, run.PicturesInserted)
		assert.Equal(t, 1, run.PicturesExisting)
		enr.AssertExpectations(t)
	})

	t.Run("enrichment failure fails the run", func(t *testing.T) {
		src := new(mockSource)
		repo := new(mockRepo)
		enr := new(mockEnricher)
		s := NewService(src, repo, enr, nil, Config{}, nil)

		src.On("Open", ctx, "").Return(twoRows, nil)
		repo.On("CreateRun", ctx, mock.Anything).Return("run-7", nil)
		repo.On("InsertMonument", ctx, mock.Anything).Return(store.Inserted, nil)
		enr.On("Run", ctx).Return(enrich.Stats{PicturesInserted: 2}, enrich.ErrPhotoDetail)
		repo.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

		run, err := s.Run(ctx)
		assert.ErrorIs(t, err, enrich.ErrPhotoDetail)
		assert.Equal(t, 2, run.PicturesInserted)
		assert.Equal(t, entity.RunFailed, run.Status)
	})

	t.Run("refresh text updates changed monuments only", func(t *testing.T) {
		src := new(mockSource)
		repo := new(mockRepo)
		s := NewService(src, repo, nil, nil, Config{RefreshText: true}, nil)

		src.On("Open", ctx, "").Return(twoRows, nil)
		repo.On("CreateRun", ctx, mock.Anything).Return("run-8", nil)
		repo.On("InsertMonument", ctx, mock.Anything).Return(store.AlreadyExists, nil)
		repo.On("ListMonuments", ctx).Return([]entity.Monument{
			{ID: "m-petra", UniqueNumber: i32p(326), Site: strp("Petra"), LongDescription: strp("old text")},
			{ID: "m-rome", UniqueNumber: i32p(91), Site: strp("Rome")},
			{ID: "m-gone", UniqueNumber: i32p(1), Site: strp("Gone")},
		}, nil)
		repo.On("UpdateMonument", ctx, "m-petra", strp("Petra"), strp("Rose city")).Return(nil).Once()
		repo.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

		run, err := s.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, run.MonumentsUpdated)
		repo.AssertExpectations(t)
	})
}

func TestSameText(t *testing.T) {
	assert.True(t, sameText(nil, nil))
	assert.True(t, sameText(strp("a"), strp("a")))
	assert.False(t, sameText(strp("a"), nil))
	assert.False(t, sameText(nil, strp("")))
	assert.False(t, sameText(strp("a"), strp("b")))
}
