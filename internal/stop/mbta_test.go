package stop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/stopfinder/internal/models"
	"github.com/bbernstein/stopfinder/pkg/http/client"
)

var bostonCommon = models.Coordinates{Latitude: 42.3550, Longitude: -71.0656}

func newTestFinder(t *testing.T, status int, body string) (*MBTAStopFinder, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		q := r.URL.Query()
		assert.Equal(t, stopsPath, r.URL.Path)
		assert.Equal(t, "42.355", q.Get("filter[latitude]"))
		assert.Equal(t, "-71.0656", q.Get("filter[longitude]"))
		assert.Equal(t, "distance", q.Get("sort"))
		assert.Equal(t, "1", q.Get("page[limit]"))
		assert.Equal(t, "mbta-test", q.Get("api_key"))

		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	httpClient := client.New(client.Options{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
	return NewMBTAStopFinder(httpClient, "mbta-test"), &calls
}

func TestMBTAStopFinder_FindNearestStop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    *models.Stop
		wantErr error
	}{
		{
			name: "accessible stop",
			body: `{"data":[{"type":"stop","id":"place-pktrm","attributes":{"name":"Park Street",
				"latitude":42.35639457,"longitude":-71.0624242,"wheelchair_boarding":1}}],"jsonapi":{"version":"1.0"}}`,
			want: &models.Stop{
				ID:            "place-pktrm",
				Name:          "Park Street",
				Latitude:      42.35639457,
				Longitude:     -71.0624242,
				Accessibility: models.AccessibilityAccessible,
			},
		},
		{
			name: "inaccessible stop",
			body: `{"data":[{"id":"place-boyls","attributes":{"name":"Boylston","wheelchair_boarding":2}}]}`,
			want: &models.Stop{
				ID:            "place-boyls",
				Name:          "Boylston",
				Accessibility: models.AccessibilityNotAccessible,
			},
		},
		{
			name: "unknown code",
			body: `{"data":[{"id":"1234","attributes":{"name":"Tremont St @ Boylston St","wheelchair_boarding":0}}]}`,
			want: &models.Stop{
				ID:            "1234",
				Name:          "Tremont St @ Boylston St",
				Accessibility: models.AccessibilityUnknown,
			},
		},
		{
			name: "missing code",
			body: `{"data":[{"id":"5678","attributes":{"name":"Charles St","wheelchair_boarding":null}}]}`,
			want: &models.Stop{
				ID:            "5678",
				Name:          "Charles St",
				Accessibility: models.AccessibilityUnknown,
			},
		},
		{
			name: "absent code",
			body: `{"data":[{"id":"5679","attributes":{"name":"Arlington"}}]}`,
			want: &models.Stop{
				ID:            "5679",
				Name:          "Arlington",
				Accessibility: models.AccessibilityUnknown,
			},
		},
		{
			name: "integral float code",
			body: `{"data":[{"id":"place-pktrm","attributes":{"name":"Park Street","wheelchair_boarding":1.0}}]}`,
			want: &models.Stop{
				ID:            "place-pktrm",
				Name:          "Park Street",
				Accessibility: models.AccessibilityAccessible,
			},
		},
		{
			name: "fractional code",
			body: `{"data":[{"id":"place-pktrm","attributes":{"name":"Park Street","wheelchair_boarding":1.5}}]}`,
			want: &models.Stop{
				ID:            "place-pktrm",
				Name:          "Park Street",
				Accessibility: models.AccessibilityUnknown,
			},
		},
		{
			name: "string code",
			body: `{"data":[{"id":"place-pktrm","attributes":{"name":"Park Street","wheelchair_boarding":"1"}}]}`,
			want: &models.Stop{
				ID:            "place-pktrm",
				Name:          "Park Street",
				Accessibility: models.AccessibilityUnknown,
			},
		},
		{
			name: "garbage code",
			body: `{"data":[{"id":"place-pktrm","attributes":{"name":"Park Street","wheelchair_boarding":"unknown"}}]}`,
			want: &models.Stop{
				ID:            "place-pktrm",
				Name:          "Park Street",
				Accessibility: models.AccessibilityUnknown,
			},
		},
		{
			name: "object code",
			body: `{"data":[{"id":"place-pktrm","attributes":{"name":"Park Street","wheelchair_boarding":{"value":2}}}]}`,
			want: &models.Stop{
				ID:            "place-pktrm",
				Name:          "Park Street",
				Accessibility: models.AccessibilityUnknown,
			},
		},
		{
			name:    "no stops",
			body:    `{"data":[]}`,
			wantErr: models.ErrNotFound,
		},
		{
			name:    "malformed body",
			body:    `{"data":"not a list"}`,
			wantErr: models.ErrInvalidResponse,
		},
		{
			name:    "missing data",
			body:    `{"errors":[]}`,
			wantErr: models.ErrInvalidResponse,
		},
		{
			name:    "not json",
			body:    `Service Unavailable`,
			wantErr: models.ErrInvalidResponse,
		},
		{
			name:    "stop without name",
			body:    `{"data":[{"id":"place-x","attributes":{}}]}`,
			wantErr: models.ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			finder, calls := newTestFinder(t, http.StatusOK, tt.body)
			got, err := finder.FindNearestStop(context.Background(), bostonCommon)
			assert.Equal(t, int32(1), atomic.LoadInt32(calls))

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, tt.want.Accessibility, got.Accessibility)
			assert.Equal(t, tt.want.Latitude, got.Latitude)
			assert.Equal(t, tt.want.Longitude, got.Longitude)
		})
	}
}

func TestMBTAStopFinder_Distance(t *testing.T) {
	t.Parallel()

	finder, _ := newTestFinder(t, http.StatusOK,
		`{"data":[{"id":"place-pktrm","attributes":{"name":"Park Street","latitude":42.35639457,"longitude":-71.0624242,"wheelchair_boarding":1}}]}`)

	got, err := finder.FindNearestStop(context.Background(), bostonCommon)
	require.NoError(t, err)
	assert.InDelta(t, 0.30, got.Distance, 0.02)
}

func TestMBTAStopFinder_HTTPFailure(t *testing.T) {
	t.Parallel()

	finder, calls := newTestFinder(t, http.StatusForbidden, `{"errors":[{"status":"403"}]}`)

	got, err := finder.FindNearestStop(context.Background(), bostonCommon)
	require.Error(t, err)
	assert.Nil(t, got)

	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "MBTA", apiErr.Service)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestCalculateDistance(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		want      float64
		tolerance float64
	}{
		{
			name:      "Park Street to South Station",
			lat1:      42.35639457,
			lon1:      -71.0624242,
			lat2:      42.352271,
			lon2:      -71.055242,
			want:      0.75, // km
			tolerance: 0.05,
		},
		{
			name:      "Same point",
			lat1:      42.3550,
			lon1:      -71.0656,
			lat2:      42.3550,
			lon2:      -71.0656,
			want:      0,
			tolerance: 0.0001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}
