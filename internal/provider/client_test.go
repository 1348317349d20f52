package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sortify/sortify/internal/models"
)

func TestSearchPage(t *testing.T) {
	var gotQuery map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"search":   r.URL.Query().Get("search"),
			"page":     r.URL.Query().Get("page"),
			"minPrice": r.URL.Query().Get("minPrice"),
			"maxPrice": r.URL.Query().Get("maxPrice"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"products": [
				{"_id": "p1", "name": "Laptop", "discount_price": "₹45,999", "ratings": "4.3", "no_of_ratings": "1,204", "image": "img1", "link": "link1"},
				{"_id": "p2", "name": "Mouse", "discount_price": 499, "ratings": 4.0, "no_of_ratings": 88, "image": "img2", "link": "link2"}
			],
			"currentPage": 2,
			"totalPages": 5
		}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second)
	criteria := models.SearchCriteria{Query: "laptop", MinPrice: "100", MaxPrice: "50000"}
	page, err := client.SearchPage(context.Background(), criteria, 2)
	if err != nil {
		t.Fatalf("SearchPage: %v", err)
	}

	if gotQuery["search"] != "laptop" || gotQuery["page"] != "2" {
		t.Errorf("wrong query params: %v", gotQuery)
	}
	if gotQuery["minPrice"] != "100" || gotQuery["maxPrice"] != "50000" {
		t.Errorf("price bounds not forwarded: %v", gotQuery)
	}

	if page.CurrentPage != 2 || page.TotalPages != 5 {
		t.Errorf("page counters: got %d/%d", page.CurrentPage, page.TotalPages)
	}
	if !page.HasMore() {
		t.Error("expected has-more for page 2 of 5")
	}
	if len(page.Products) != 2 {
		t.Fatalf("got %d products", len(page.Products))
	}

	p := page.Products[0]
	if p.ID != "p1" || p.Title != "Laptop" {
		t.Errorf("product identity: %+v", p)
	}
	if p.Price.Amount() != 45999 {
		t.Errorf("formatted price: got %v", p.Price.Amount())
	}
	if p.Rating != 4.3 || p.RatingCount != 1204 {
		t.Errorf("ratings: got %v / %d", p.Rating, p.RatingCount)
	}
	if page.Products[1].Price.Amount() != 499 || page.Products[1].RatingCount != 88 {
		t.Errorf("numeric fields: %+v", page.Products[1])
	}
}

func TestSearchPageOmitsBlankBounds(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("minPrice") || r.URL.Query().Has("maxPrice") {
			t.Error("blank price bounds should be omitted")
		}
		w.Write([]byte(`{"products": [], "currentPage": 1, "totalPages": 1}`))
	}))
	defer ts.Close()

	page, err := client(ts).SearchPage(context.Background(), models.SearchCriteria{Query: "x"}, 1)
	if err != nil {
		t.Fatalf("SearchPage: %v", err)
	}
	if page.HasMore() {
		t.Error("single page should not report has-more")
	}
}

func TestSearchPageErrorMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message": "upstream scrape failed"}`))
	}))
	defer ts.Close()

	_, err := client(ts).SearchPage(context.Background(), models.SearchCriteria{Query: "x"}, 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "upstream scrape failed" {
		t.Errorf("message not surfaced verbatim: %q", err.Error())
	}
}

func TestSearchPageErrorWithoutMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := client(ts).SearchPage(context.Background(), models.SearchCriteria{Query: "x"}, 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "search API returned HTTP 500" {
		t.Errorf("fallback error: %q", err.Error())
	}
}

func client(ts *httptest.Server) *Client {
	return NewClient(ts.URL, 5*time.Second)
}
