package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/pawsitivelybooked/server/internal/config"
)

// Coordinates is a geocoded latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Geocoder resolves a free-text address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

// HTTPGeocoder calls a Google-Maps-compatible geocoding API, caching
// results in Redis keyed by the normalized address.
type HTTPGeocoder struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewHTTPGeocoder creates an HTTPGeocoder. The cache client may be nil, in
// which case every lookup hits the upstream API.
func NewHTTPGeocoder(cfg config.GeocoderConfig, cache *redis.Client, logger *zap.Logger) *HTTPGeocoder {
	return &HTTPGeocoder{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		cache:    cache,
		cacheTTL: 24 * time.Hour,
		logger:   logger,
	}
}

type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location Coordinates `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

// Geocode resolves the address, consulting the cache first.
func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	key := cacheKey(address)

	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, key).Result(); err == nil {
			var coords Coordinates
			if err := json.Unmarshal([]byte(cached), &coords); err == nil {
				return &coords, nil
			}
		}
	}

	reqURL := fmt.Sprintf("%s?address=%s&key=%s", g.baseURL, url.QueryEscape(address), g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode API returned status %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return nil, fmt.Errorf("no coordinates found for address %q", address)
	}

	coords := decoded.Results[0].Geometry.Location

	if g.cache != nil {
		if data, err := json.Marshal(coords); err == nil {
			if err := g.cache.Set(ctx, key, data, g.cacheTTL).Err(); err != nil {
				g.logger.Warn("failed to cache geocode result",
					zap.String("address", address),
					zap.Error(err),
				)
			}
		}
	}

	return &coords, nil
}

func cacheKey(address string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	return "geocode:" + normalized
}
