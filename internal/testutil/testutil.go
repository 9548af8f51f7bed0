// Package testutil holds fixtures shared by the pipeline tests: a small
// heritage list feed, a fake Flickr REST endpoint and a migrated SQLite
// store.
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"whlp/internal/store"
)

// Feed has three sites: one with coordinates, one without, and one with
// no site name at all.
const Feed = `<?xml version="1.0" encoding="UTF-8"?>
<query>
	<row>
		<site>Petra</site>
		<unique_number>326</unique_number>
		<latitude>30.32</latitude>
		<longitude>35.44</longitude>
		<iso_code>jo</iso_code>
		<long_description>Rose-red city carved into rock.</long_description>
	</row>
	<row>
		<site>Historic Centre of Rome</site>
		<unique_number>91</unique_number>
	</row>
	<row>
		<unique_number>5</unique_number>
	</row>
</query>`

// WriteFeed writes contents to a temporary file and returns its path.
func WriteFeed(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "whc.xml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

// OpenStore returns a migrated in-memory SQLite store closed at test end.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := store.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, store.Migrate(ctx, s, "", nil))
	return s
}

// FlickrServer answers the four REST methods the enrichment stage uses.
// Petra resolves to a place and has one photo there and two anywhere;
// every other text search returns one photo. All photos carry license 5.
type FlickrServer struct {
	*httptest.Server

	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func NewFlickrServer(t *testing.T) *FlickrServer {
	t.Helper()
	f := &FlickrServer{calls: map[string]int{}, fail: map[string]bool{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

// Fail makes method answer with a "stat":"fail" envelope.
func (f *FlickrServer) Fail(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = true
}

func (f *FlickrServer) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FlickrServer) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	method := q.Get("method")

	f.mu.Lock()
	f.calls[method]++
	failing := f.fail[method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		_, _ = w.Write([]byte(`{"stat":"fail","code":105,"message":"Service currently unavailable"}`))
		return
	}

	switch method {
	case "flickr.photos.licenses.getInfo":
		_, _ = w.Write([]byte(`{"licenses":{"license":[
			{"id":4,"name":"Attribution License","url":"https://creativecommons.org/licenses/by/2.0/"},
			{"id":5,"name":"Attribution-ShareAlike License","url":"https://creativecommons.org/licenses/by-sa/2.0/"}
		]},"stat":"ok"}`))
	case "flickr.places.findByLatLon":
		_, _ = w.Write([]byte(`{"places":{"place":[{"place_id":"pl-petra","woeid":"1","name":"Wadi Musa"}]},"stat":"ok"}`))
	case "flickr.photos.search":
		switch {
		case q.Get("place_id") != "":
			_, _ = w.Write([]byte(`{"photos":{"photo":[{"id":"101","secret":"a","server":"1","farm":1}]},"stat":"ok"}`))
		case q.Get("text") == "Petra":
			_, _ = w.Write([]byte(`{"photos":{"photo":[{"id":"101","secret":"a","server":"1","farm":1},{"id":"102","secret":"b","server":"1","farm":1}]},"stat":"ok"}`))
		default:
			_, _ = w.Write([]byte(`{"photos":{"photo":[{"id":"201","secret":"c","server":"2","farm":2}]},"stat":"ok"}`))
		}
	case "flickr.photos.getInfo":
		_, _ = w.Write([]byte(`{"photo":{"id":"` + q.Get("photo_id") + `","originalsecret":"orig","license":"5","owner":{"username":"traveller","realname":"A Traveller"}},"stat":"ok"}`))
	default:
		_, _ = w.Write([]byte(`{"stat":"fail","code":112,"message":"Method not found"}`))
	}
}
