package maps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridecost/internal/types"
)

const okResponse = `{
  "routes": [{
    "distanceMeters": 52340,
    "duration": "3120s",
    "polyline": {"encodedPolyline": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"},
    "travelAdvisory": {"tollInfo": {"estimatedPrice": [{"currencyCode": "EUR", "units": "35", "nanos": 500000000}]}}
  }]
}`

func TestComputeRoute_Success(t *testing.T) {
	var got computeRoutesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, computeRoutes, r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, fieldMask, r.Header.Get("X-Goog-FieldMask"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	c := NewRoutesClient(srv.URL, 5*time.Second)
	route, err := c.ComputeRoute(context.Background(), "key-123", RouteRequest{
		Origin:       types.Point{Lat: 48.85, Lng: 2.35},
		Destination:  types.Point{Lat: 49.0, Lng: 2.55},
		Preference:   PreferenceTrafficAwareOptimal,
		TrafficModel: TrafficModelPessimistic,
	})
	require.NoError(t, err)

	assert.Equal(t, 52340, route.DistanceMeters)
	assert.Equal(t, 3120, route.DurationSeconds)
	assert.InDelta(t, 52.34, route.DistanceKm(), 1e-9)
	assert.InDelta(t, 52.0, route.DurationMinutes(), 1e-9)
	require.NotNil(t, route.TollInfo)
	assert.Equal(t, "35", route.TollInfo.EstimatedPrice[0].Units)

	assert.Equal(t, "DRIVE", got.TravelMode)
	assert.Equal(t, PreferenceTrafficAwareOptimal, got.RoutingPreference)
	assert.Equal(t, TrafficModelPessimistic, got.TrafficModel)
	assert.Equal(t, []string{"TOLLS"}, got.ExtraComputations)
	assert.Equal(t, 48.85, got.Origin.Location.LatLng.Latitude)
}

func TestComputeRoute_TrafficModelDroppedWhenUnaware(t *testing.T) {
	var got computeRoutesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	c := NewRoutesClient(srv.URL, time.Second)
	_, err := c.ComputeRoute(context.Background(), "k", RouteRequest{
		Preference:   PreferenceTrafficUnaware,
		TrafficModel: TrafficModelPessimistic,
	})
	require.NoError(t, err)
	assert.Empty(t, got.TrafficModel)
}

func TestComputeRoute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "non-2xx",
			status: http.StatusForbidden,
			body:   `{"error":{"message":"API key not valid"}}`,
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusForbidden, se.Code)
				assert.Contains(t, se.Body, "API key not valid")
			},
		},
		{
			name:   "error payload",
			status: http.StatusOK,
			body:   `{"error":{"code":400,"message":"bad origin","status":"INVALID_ARGUMENT"}}`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "bad origin")
			},
		},
		{
			name:   "no routes",
			status: http.StatusOK,
			body:   `{"routes":[]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoRoute)
			},
		},
		{
			name:   "malformed json",
			status: http.StatusOK,
			body:   `{"routes":`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "decode")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewRoutesClient(srv.URL, time.Second).ComputeRoute(context.Background(), "k", RouteRequest{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestComputeRoute_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	_, err := NewRoutesClient(srv.URL, 20*time.Millisecond).ComputeRoute(context.Background(), "k", RouteRequest{})
	assert.Error(t, err)
}

func TestParseDurationSeconds(t *testing.T) {
	assert.Equal(t, 3120, ParseDurationSeconds("3120s"))
	assert.Equal(t, 12, ParseDurationSeconds("12.9s"))
	assert.Equal(t, 0, ParseDurationSeconds("3120"))
	assert.Equal(t, 0, ParseDurationSeconds("abcs"))
	assert.Equal(t, 0, ParseDurationSeconds(""))
	assert.Equal(t, 0, ParseDurationSeconds("-5s"))
}

func TestPolylineRoundTrip(t *testing.T) {
	// canonical example from the polyline algorithm documentation
	points, err := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 38.5, points[0].Lat, 1e-5)
	assert.InDelta(t, -120.2, points[0].Lng, 1e-5)
	assert.InDelta(t, 43.252, points[2].Lat, 1e-5)

	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", EncodePolyline(points))

	empty, err := DecodePolyline("")
	assert.NoError(t, err)
	assert.Nil(t, empty)
}
