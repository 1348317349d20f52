// Package cart holds the in-memory shopping cart for an active session.
package cart

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sortify/sortify/internal/models"
)

// ExportFilename is the fixed name of the downloadable cart artifact.
const ExportFilename = "sortify-cart.txt"

const exportDelimiter = "----------------------------------"

// Store is a set of selected products keyed by product ID. Insertion order is
// preserved for display. All methods are safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items []models.Product
	index map[string]struct{}
}

// NewStore creates an empty cart.
func NewStore() *Store {
	return &Store{index: make(map[string]struct{})}
}

// Add appends the product unless an entry with the same ID is already present.
// Returns true when the product was added.
func (s *Store) Add(p models.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[p.ID]; ok {
		return false
	}
	s.index[p.ID] = struct{}{}
	s.items = append(s.items, p)
	return true
}

// Remove drops the entry with the given ID. Removing an absent ID is a no-op,
// not an error.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, p := range s.items {
		if p.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether an entry with the given ID is in the cart.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[id]
	return ok
}

// Items returns a copy of the cart contents in insertion order.
func (s *Store) Items() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.items...)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total sums the entry prices. Currency-formatted prices are stripped to their
// numeric content before summation; unparsable prices count as 0.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, p := range s.items {
		sum += p.Price.Amount()
	}
	return sum
}

// Export renders the cart as plain text, one block per entry with name, price,
// and detail link, separated by a delimiter line. The result backs the
// downloadable ExportFilename artifact.
func (s *Store) Export() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for _, p := range s.items {
		fmt.Fprintf(&b, "Name: %s\n", p.Title)
		fmt.Fprintf(&b, "Price: %s\n", p.Price)
		fmt.Fprintf(&b, "Link: %s\n", p.DetailURL)
		b.WriteString(exportDelimiter + "\n")
	}
	return b.String()
}

// SerializeNames returns the entry names joined by newlines, for the
// copy-to-clipboard convenience action.
func (s *Store) SerializeNames() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.items))
	for i, p := range s.items {
		names[i] = p.Title
	}
	return strings.Join(names, "\n")
}

// Clear empties the cart. Idempotent; called on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.index = make(map[string]struct{})
}
