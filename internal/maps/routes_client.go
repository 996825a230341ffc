// Package maps wraps the external routing API (compute routes) and polyline
// decoding used by the pricing modules.
package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ridecost/internal/types"
)

const (
	DefaultBaseURL = "https://routes.googleapis.com"
	computeRoutes  = "/directions/v2:computeRoutes"
	fieldMask      = "routes.duration,routes.distanceMeters,routes.polyline.encodedPolyline,routes.travelAdvisory.tollInfo"
	maxErrorBody   = 1024
)

type RoutingPreference string

const (
	PreferenceTrafficAware        RoutingPreference = "TRAFFIC_AWARE"
	PreferenceTrafficAwareOptimal RoutingPreference = "TRAFFIC_AWARE_OPTIMAL"
	PreferenceTrafficUnaware      RoutingPreference = "TRAFFIC_UNAWARE"
)

type TrafficModel string

const TrafficModelPessimistic TrafficModel = "PESSIMISTIC"

var ErrNoRoute = errors.New("routes api returned no route")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("routes api status %d: %s", e.Code, e.Body)
}

// RouteRequest describes one compute-routes call.
type RouteRequest struct {
	Origin       types.Point
	Destination  types.Point
	Preference   RoutingPreference
	TrafficModel TrafficModel
}

// Money mirrors google.type.Money: units is an int64 serialised as a string.
type Money struct {
	CurrencyCode string `json:"currencyCode"`
	Units        string `json:"units"`
	Nanos        int64  `json:"nanos"`
}

type TollInfo struct {
	EstimatedPrice []Money `json:"estimatedPrice"`
}

// Route is the subset of a computed route the engine consumes.
type Route struct {
	DistanceMeters  int
	DurationSeconds int
	EncodedPolyline string
	TollInfo        *TollInfo
}

func (r *Route) DistanceKm() float64 {
	return float64(r.DistanceMeters) / 1000
}

func (r *Route) DurationMinutes() float64 {
	return float64(r.DurationSeconds) / 60
}

// RoutesClient calls the compute-routes endpoint. It never retries.
type RoutesClient struct {
	http    *http.Client
	baseURL string
}

// NewRoutesClient builds a client whose HTTP timeout bounds every call.
// A zero timeout leaves calls bounded only by the caller's context.
func NewRoutesClient(baseURL string, timeout time.Duration) *RoutesClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &RoutesClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type waypoint struct {
	Location struct {
		LatLng latLng `json:"latLng"`
	} `json:"location"`
}

type computeRoutesRequest struct {
	Origin            waypoint          `json:"origin"`
	Destination       waypoint          `json:"destination"`
	TravelMode        string            `json:"travelMode"`
	RoutingPreference RoutingPreference `json:"routingPreference,omitempty"`
	TrafficModel      TrafficModel      `json:"trafficModel,omitempty"`
	ExtraComputations []string          `json:"extraComputations"`
}

type computeRoutesResponse struct {
	Routes []struct {
		DistanceMeters int    `json:"distanceMeters"`
		Duration       string `json:"duration"`
		Polyline       struct {
			EncodedPolyline string `json:"encodedPolyline"`
		} `json:"polyline"`
		TravelAdvisory struct {
			TollInfo *TollInfo `json:"tollInfo"`
		} `json:"travelAdvisory"`
	} `json:"routes"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func toWaypoint(p types.Point) waypoint {
	var w waypoint
	w.Location.LatLng = latLng{Latitude: p.Lat, Longitude: p.Lng}
	return w
}

// ComputeRoute requests a single driving route with toll extraction.
func (c *RoutesClient) ComputeRoute(ctx context.Context, apiKey string, req RouteRequest) (*Route, error) {
	body := computeRoutesRequest{
		Origin:            toWaypoint(req.Origin),
		Destination:       toWaypoint(req.Destination),
		TravelMode:        "DRIVE",
		RoutingPreference: req.Preference,
		ExtraComputations: []string{"TOLLS"},
	}
	// trafficModel is only accepted alongside TRAFFIC_AWARE_OPTIMAL.
	if req.Preference == PreferenceTrafficAwareOptimal {
		body.TrafficModel = req.TrafficModel
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode compute routes request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+computeRoutes, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("routes api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var decoded computeRoutesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode compute routes response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("routes api error %s: %s", decoded.Error.Status, decoded.Error.Message)
	}
	if len(decoded.Routes) == 0 {
		return nil, ErrNoRoute
	}

	r := decoded.Routes[0]
	return &Route{
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: ParseDurationSeconds(r.Duration),
		EncodedPolyline: r.Polyline.EncodedPolyline,
		TollInfo:        r.TravelAdvisory.TollInfo,
	}, nil
}

// ParseDurationSeconds parses the protobuf JSON duration form "<N>s".
// Fractional seconds are truncated; anything malformed yields 0.
func ParseDurationSeconds(s string) int {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "s") {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}
