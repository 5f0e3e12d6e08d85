// Package imagesearch finds stock photos of dishes and exposes the search
// as a tool the language model can call while drafting recipes.
package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// PexelsBaseURL is the Pexels REST API root.
const PexelsBaseURL = "https://api.pexels.com/v1"

// ErrNoResults is returned when a search matched nothing.
var ErrNoResults = errors.New("no photos found")

// Photo is one search hit with a query-free image URL.
type Photo struct {
	URL          string `json:"imageUrl"`
	Photographer string `json:"photographer,omitempty"`
	Alt          string `json:"alt,omitempty"`
}

// Client searches Pexels. Outbound requests share one rate limiter.
type Client struct {
	client  *resty.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewClient creates a Pexels client allowing rps requests per second.
func NewClient(baseURL, apiKey string, rps float64, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = PexelsBaseURL
	}
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Authorization", apiKey),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		log:     log.With(zap.String("component", "image-search")),
	}
}

type searchResponse struct {
	Photos []struct {
		ID           int64  `json:"id"`
		Photographer string `json:"photographer"`
		Alt          string `json:"alt"`
		Src          struct {
			Original string `json:"original"`
			Large    string `json:"large"`
			Medium   string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

// Search returns the best landscape photo for query.
func (c *Client) Search(ctx context.Context, query string) (*Photo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("image search throttled: %w", err)
	}

	var out searchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":       query,
			"per_page":    "1",
			"orientation": "landscape",
		}).
		SetResult(&out).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("failed to reach image search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("image search returned %d", resp.StatusCode())
	}

	for _, p := range out.Photos {
		src := p.Src.Large
		if src == "" {
			src = p.Src.Original
		}
		if src == "" {
			continue
		}
		c.log.Debug("Found dish image", zap.String("query", query), zap.Int64("photo_id", p.ID))
		return &Photo{URL: StripQuery(src), Photographer: p.Photographer, Alt: p.Alt}, nil
	}
	return nil, ErrNoResults
}

// StripQuery drops the query string and fragment from raw. Pexels serves
// resized variants through query parameters, which would hide the file
// extension from URL validation.
func StripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexAny(raw, "?#"); i >= 0 {
			return raw[:i]
		}
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
