// Package provider implements the client for the remote product-search API.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sortify/sortify/internal/models"
)

// Page is one page of search results as reported by the provider.
type Page struct {
	Products    []models.Product
	CurrentPage int
	TotalPages  int
}

// HasMore reports whether pages beyond CurrentPage exist.
func (p Page) HasMore() bool {
	return p.CurrentPage < p.TotalPages
}

// Searcher fetches one page of results for the given criteria.
type Searcher interface {
	SearchPage(ctx context.Context, criteria models.SearchCriteria, page int) (*Page, error)
}

// Client queries the product-search API over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for the given base search URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// providerProduct mirrors the provider's wire format. Numeric-ish fields
// arrive either as JSON numbers or as formatted strings ("₹399", "1,234"),
// so they all decode through models.Price.
type providerProduct struct {
	ID            string       `json:"_id"`
	Name          string       `json:"name"`
	DiscountPrice models.Price `json:"discount_price"`
	Ratings       models.Price `json:"ratings"`
	NumRatings    models.Price `json:"no_of_ratings"`
	Image         string       `json:"image"`
	Link          string       `json:"link"`
}

type searchResponse struct {
	Products    []providerProduct `json:"products"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// SearchPage issues a GET for one result page. Query parameters follow the
// provider contract: search, page (1-based), and optional minPrice/maxPrice.
// Non-2xx responses carry a JSON body whose message field is surfaced
// verbatim.
func (c *Client) SearchPage(ctx context.Context, criteria models.SearchCriteria, page int) (*Page, error) {
	params := url.Values{
		"search": {strings.TrimSpace(criteria.Query)},
		"page":   {strconv.Itoa(page)},
	}
	if strings.TrimSpace(criteria.MinPrice) != "" {
		params.Set("minPrice", strings.TrimSpace(criteria.MinPrice))
	}
	if strings.TrimSpace(criteria.MaxPrice) != "" {
		params.Set("maxPrice", strings.TrimSpace(criteria.MaxPrice))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&er); decodeErr == nil && er.Message != "" {
			return nil, fmt.Errorf("%s", er.Message)
		}
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	result := &Page{
		Products:    make([]models.Product, 0, len(sr.Products)),
		CurrentPage: sr.CurrentPage,
		TotalPages:  sr.TotalPages,
	}
	for _, p := range sr.Products {
		result.Products = append(result.Products, models.Product{
			ID:          p.ID,
			Title:       p.Name,
			Price:       p.DiscountPrice,
			Rating:      p.Ratings.Amount(),
			RatingCount: int(p.NumRatings.Amount()),
			ImageURL:    p.Image,
			DetailURL:   p.Link,
		})
	}
	return result, nil
}
