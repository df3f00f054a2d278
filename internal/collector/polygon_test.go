package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LevelSentinel/internal/model"
)

// redirectTransport sends every request to a local test server.
type redirectTransport struct {
	target *url.URL
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestPolygonFetcher(t *testing.T, handler http.HandlerFunc) *PolygonFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return &PolygonFetcher{Client: polygon.NewWithClient("KEY", &http.Client{Transport: redirectTransport{target: target}})}
}

func TestPolygonFetcher_FetchBars(t *testing.T) {
	var gotPath string
	f := newTestPolygonFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		// 1719792000000 is the exclusive end, which Polygon still returns.
		w.Write([]byte(`{"status":"OK","ticker":"NVDA","resultsCount":3,"adjusted":true,"results":[
			{"o":120.1,"h":120.5,"l":119.9,"c":120.3,"v":1000,"t":1719187200000},
			{"o":120.3,"h":121.0,"l":120.0,"c":120.8,"v":1200,"t":1719190800000},
			{"o":121.0,"h":121.2,"l":120.6,"c":121.1,"v":900,"t":1719792000000}
		]}`))
	})

	bars, err := f.FetchBars(context.Background(), "NVDA", model.Interval1h, start, start.AddDate(0, 0, 7))
	require.NoError(t, err)

	assert.Equal(t, "/v2/aggs/ticker/NVDA/range/1/hour/1719187200000/1719792000000", gotPath)
	require.Len(t, bars, 2, "bar at the end timestamp must be clipped")
	assert.True(t, bars[0].Time.Equal(start))
	assert.Equal(t, 121.0, bars[1].High)
	assert.Equal(t, 1200.0, bars[1].Volume)
}

func TestPolygonFetcher_IntervalMapping(t *testing.T) {
	tests := []struct {
		interval model.Interval
		path     string
	}{
		{model.Interval1m, "/range/1/minute/"},
		{model.Interval5m, "/range/5/minute/"},
		{model.Interval15m, "/range/15/minute/"},
		{model.Interval30m, "/range/30/minute/"},
		{model.Interval1h, "/range/1/hour/"},
		{model.Interval1d, "/range/1/day/"},
		{model.Interval1wk, "/range/1/week/"},
	}
	for _, tt := range tests {
		t.Run(string(tt.interval), func(t *testing.T) {
			var gotPath string
			f := newTestPolygonFetcher(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status":"OK","results":[]}`))
			})

			bars, err := f.FetchBars(context.Background(), "SPY", tt.interval, start, end)
			require.NoError(t, err)
			assert.Empty(t, bars)
			assert.Contains(t, gotPath, tt.path)
		})
	}

	_, err := (&PolygonFetcher{}).FetchBars(context.Background(), "SPY", "7m", start, end)
	assert.ErrorContains(t, err, "unsupported interval")
}
