// Package images finds illustration URLs for recipes and ingredients via
// the Brave image search API. Lookups are best effort: a recipe without an
// image is acceptable, a failed generation over a missing image is not, so
// every error path degrades to an empty URL.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Brave image search endpoint.
const DefaultBaseURL = "https://api.search.brave.com/res/v1/images/search"

// DefaultDelay is the spacing between calls on the free API plan, one
// request per second plus a safety margin.
const DefaultDelay = 1100 * time.Millisecond

// Result is one image hit.
type Result struct {
	URL    string
	Title  string
	Source string
}

// BraveSearch queries the Brave image API. The limiter spaces calls out to
// the plan's request rate; with burst 1 a batch of lookups executes
// strictly sequentially regardless of caller concurrency.
type BraveSearch struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewBraveSearch builds the service. A non-positive delay falls back to
// DefaultDelay.
func NewBraveSearch(apiKey string, delay time.Duration) *BraveSearch {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &BraveSearch{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (s *BraveSearch) WithBaseURL(u string) *BraveSearch {
	s.baseURL = u
	return s
}

// RecipeImage returns an image URL for a finished dish, or "" when none
// was found.
func (s *BraveSearch) RecipeImage(ctx context.Context, recipeName string) string {
	return s.firstURL(ctx, recipeName+" recipe food dish")
}

// IngredientImage returns an image URL for a raw ingredient, or "" when
// none was found.
func (s *BraveSearch) IngredientImage(ctx context.Context, ingredientName string) string {
	return s.firstURL(ctx, ingredientName+" plain ingredient")
}

func (s *BraveSearch) firstURL(ctx context.Context, query string) string {
	results, err := s.Search(ctx, query, 1)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("image search failed")
		return ""
	}
	if len(results) == 0 {
		return ""
	}
	return results[0].URL
}

// Search runs one image query. It blocks on the rate limiter first, so
// back-to-back calls respect the API plan's spacing.
func (s *BraveSearch) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"q":           {query},
		"count":       {strconv.Itoa(count)},
		"search_lang": {"en"},
		"country":     {"US"},
		"safesearch":  {"strict"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("images: build request: %w", err)
	}
	req.Header.Set("X-Subscription-Token", s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("images: search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("images: search: status %d: %s", resp.StatusCode, raw)
	}

	var body struct {
		Results []struct {
			Title      string `json:"title"`
			URL        string `json:"url"`
			Properties struct {
				URL string `json:"url"`
			} `json:"properties"`
			Thumbnail struct {
				Src string `json:"src"`
			} `json:"thumbnail"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("images: decode response: %w", err)
	}

	out := make([]Result, 0, len(body.Results))
	for _, r := range body.Results {
		u := r.Properties.URL
		if u == "" {
			u = r.Thumbnail.Src
		}
		if u == "" {
			continue
		}
		out = append(out, Result{URL: u, Title: r.Title, Source: r.URL})
	}
	return out, nil
}
