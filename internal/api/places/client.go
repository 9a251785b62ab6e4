package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tripweave/tripweave/app/observability/metrics"
	"github.com/tripweave/tripweave/internal/types"
)

const fieldMask = "places.displayName,places.formattedAddress,places.rating,places.userRatingCount,places.priceLevel,places.types,places.location"

// Client is the place-search contract. Implementations return an empty slice
// rather than an error only for empty result sets; transport failures are
// surfaced so callers can decide how to degrade.
type Client interface {
	SearchPlaces(ctx context.Context, query string, location *types.GeoPoint) ([]types.Place, error)
}

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the Places Text Search API, caching responses per
// query+bias so repeated comparisons do not burn quota.
type HTTPClient struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	biasRadiusM int
	cache       *gocache.Cache
	logger      *slog.Logger
}

func NewHTTPClient(endpoint string, biasRadiusM int, cacheTTL time.Duration, logger *slog.Logger) *HTTPClient {
	apiKey := os.Getenv("GOOGLE_PLACES_API_KEY")
	if apiKey == "" {
		// The original deployment shares one key across both Google APIs.
		apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY")
	}
	return &HTTPClient{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		endpoint:    endpoint,
		apiKey:      apiKey,
		biasRadiusM: biasRadiusM,
		cache:       gocache.New(cacheTTL, 2*cacheTTL),
		logger:      logger,
	}
}

type searchTextRequest struct {
	TextQuery    string        `json:"textQuery"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center types.LatLng `json:"center"`
	Radius float64      `json:"radius"`
}

type searchTextResponse struct {
	Places []types.Place `json:"places"`
}

func (c *HTTPClient) SearchPlaces(ctx context.Context, query string, location *types.GeoPoint) ([]types.Place, error) {
	cacheKey := query
	if location != nil {
		cacheKey = fmt.Sprintf("%s@%.4f,%.4f", query, location.Lat, location.Lng)
	}
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]types.Place), nil
	}

	reqBody := searchTextRequest{TextQuery: query}
	if location != nil {
		reqBody.LocationBias = &locationBias{
			Circle: circle{
				Center: types.LatLng{Latitude: location.Lat, Longitude: location.Lng},
				Radius: float64(c.biasRadiusM),
			},
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	if m := metrics.Get(); m != nil {
		m.PlaceSearchesTotal.Add(ctx, 1)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("place search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read place search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "Place search returned non-OK status",
			slog.Int("status", resp.StatusCode),
			slog.String("query", query),
		)
		return nil, fmt.Errorf("place search returned status %d", resp.StatusCode)
	}

	var parsed searchTextResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode place search response: %w", err)
	}

	c.cache.Set(cacheKey, parsed.Places, gocache.DefaultExpiration)
	return parsed.Places, nil
}
