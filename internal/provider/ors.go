package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"routeplan/internal/geo"
)

// ORS queries the OpenRouteService matrix endpoint for road distance and
// duration between coordinate pairs. Calls are rate limited and retried with
// exponential backoff on transient failures.
type ORS struct {
	baseURL string
	profile string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewORSFromEnv builds an ORS provider from ORS_API_KEY, ORS_BASE_URL,
// ORS_PROFILE, ORS_RATE_RPS and ORS_RATE_BURST. Returns nil when no API key
// is configured; the matrix builder then runs pure-geodesic.
func NewORSFromEnv() *ORS {
	key := strings.TrimSpace(os.Getenv("ORS_API_KEY"))
	if key == "" {
		return nil
	}
	base := os.Getenv("ORS_BASE_URL")
	if base == "" {
		base = "https://api.openrouteservice.org"
	}
	profile := os.Getenv("ORS_PROFILE")
	if profile == "" {
		profile = "driving-car"
	}
	rps := 4.0
	if v := os.Getenv("ORS_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			rps = f
		}
	}
	burst := 8
	if v := os.Getenv("ORS_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			burst = n
		}
	}
	return &ORS{
		baseURL: strings.TrimRight(base, "/"),
		profile: profile,
		apiKey:  key,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("ors: status %d: %s", e.Code, e.Body)
}

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// Lookup fetches the cost of the single ordered pair origin→dest.
func (o *ORS) Lookup(ctx context.Context, origin, dest geo.Point) (Cost, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return Cost{}, err
	}

	body := matrixRequest{
		Locations:    [][]float64{{origin.Lng, origin.Lat}, {dest.Lng, dest.Lat}},
		Sources:      []int{0},
		Destinations: []int{1},
		Metrics:      []string{"distance", "duration"},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Cost{}, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", o.apiKey)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return Cost{}, err
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return Cost{}, fmt.Errorf("decode matrix response: %w", err)
	}
	if len(mr.Distances) != 1 || len(mr.Distances[0]) != 1 || len(mr.Durations) != 1 || len(mr.Durations[0]) != 1 {
		return Cost{}, fmt.Errorf("unexpected matrix shape: distances=%d durations=%d", len(mr.Distances), len(mr.Durations))
	}
	dist := mr.Distances[0][0]
	dur := mr.Durations[0][0]
	if dist == nil || dur == nil {
		// ORS reports unroutable pairs as null cells.
		return Cost{}, ErrNoRoute
	}
	return Cost{DistanceKm: *dist / 1000.0, DurationMin: *dur / 60.0}, nil
}

func (o *ORS) do(req *http.Request) (*http.Response, error) {
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429, 5xx) with
// exponential backoff while respecting context cancellation.
func (o *ORS) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}
		resp, err := o.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}
		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}
		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return nil, lastErr
}
