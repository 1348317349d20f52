// Package pagination maintains the accumulating result list across sequential
// page fetches from the remote search provider.
package pagination

import (
	"context"
	"strings"
	"sync"

	"github.com/sortify/sortify/internal/models"
	"github.com/sortify/sortify/internal/provider"
	"go.uber.org/zap"
)

// State is the controller's position in the fetch lifecycle.
type State int

const (
	// StateIdle means no search has been started (or the controller was reset).
	StateIdle State = iota
	// StateFetching means a page request is in flight.
	StateFetching
	// StateIdleWithMore means the last fetch succeeded and more pages exist.
	StateIdleWithMore
	// StateExhausted means the last fetch succeeded and no pages remain.
	StateExhausted
	// StateErrored means the last fetch failed; the accumulated list is unchanged.
	StateErrored
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateIdleWithMore:
		return "idle_with_more"
	case StateExhausted:
		return "exhausted"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent view of the controller for rendering.
type Snapshot struct {
	State   State            `json:"state"`
	Page    int              `json:"page"`
	Results []models.Product `json:"results"`
	HasMore bool             `json:"has_more"`
	Error   string           `json:"error,omitempty"`
}

// Controller drives incremental page fetches for one search session. Page
// responses are applied in page order; responses from a superseded search
// (stale generation) or for an unexpected page number are dropped. At most
// one fetch is in flight at a time.
type Controller struct {
	searcher provider.Searcher
	logger   *zap.Logger
	onUpdate func(Snapshot)
	observer *Observer

	mu         sync.Mutex
	state      State
	criteria   models.SearchCriteria
	generation uint64
	page       int // last applied page, 0 before the first response
	expected   int // page number of the in-flight fetch
	results    []models.Product
	seen       map[string]struct{}
	hasMore    bool
	errMsg     string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithOnUpdate sets a callback invoked with a fresh snapshot after every
// state change. The callback runs outside the controller lock.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onUpdate = fn }
}

// NewController creates a Controller that fetches pages through searcher.
func NewController(searcher provider.Searcher, opts ...Option) *Controller {
	c := &Controller{
		searcher: searcher,
		logger:   zap.NewNop(),
		observer: NewObserver(),
		seen:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observer returns the viewport observer driving infinite scroll.
func (c *Controller) Observer() *Observer {
	return c.observer
}

// StartSearch begins a new search session. It is valid from any state but is
// a no-op when the query is blank. The accumulated list is emptied, the page
// counter returns to 1, and any in-flight fetch from the previous session is
// invalidated via the generation counter.
func (c *Controller) StartSearch(ctx context.Context, criteria models.SearchCriteria) bool {
	if strings.TrimSpace(criteria.Query) == "" {
		return false
	}
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.criteria = criteria
	c.state = StateFetching
	c.page = 0
	c.expected = 1
	c.results = nil
	c.seen = make(map[string]struct{})
	c.hasMore = false
	c.errMsg = ""
	c.observer.Disarm()
	c.mu.Unlock()

	c.logger.Debug("search started", zap.String("query", criteria.Query), zap.Uint64("generation", gen))
	go c.fetch(ctx, gen, 1, criteria)
	return true
}

// RequestNextPage triggers a fetch for the next page. It is a no-op unless
// the controller is idle with more pages available, which also guards against
// overlapping fetches.
func (c *Controller) RequestNextPage(ctx context.Context) bool {
	c.mu.Lock()
	if c.state != StateIdleWithMore {
		c.mu.Unlock()
		return false
	}
	gen := c.generation
	next := c.page + 1
	criteria := c.criteria
	c.state = StateFetching
	c.expected = next
	c.mu.Unlock()

	c.logger.Debug("next page requested", zap.Int("page", next))
	go c.fetch(ctx, gen, next, criteria)
	return true
}

// NotifyLastItemVisible reports that the result item with targetID became
// visible at the end of the viewport. The fetch fires only when the observer
// is armed for that exact target; repeated signals while a fetch is in flight
// are coalesced away.
func (c *Controller) NotifyLastItemVisible(ctx context.Context, targetID string) bool {
	if !c.observer.Notify(targetID) {
		return false
	}
	return c.RequestNextPage(ctx)
}

// Reset returns the controller to the initial landing state, clearing
// accumulated results, page, has-more, and error unconditionally.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.generation++
	c.state = StateIdle
	c.criteria = models.SearchCriteria{}
	c.page = 0
	c.expected = 0
	c.results = nil
	c.seen = make(map[string]struct{})
	c.hasMore = false
	c.errMsg = ""
	c.observer.Disarm()
	c.mu.Unlock()
	c.notify()
}

// Snapshot returns a consistent copy of the controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:   c.state,
		Page:    c.page,
		Results: append([]models.Product(nil), c.results...),
		HasMore: c.hasMore,
		Error:   c.errMsg,
	}
}

func (c *Controller) fetch(ctx context.Context, gen uint64, page int, criteria models.SearchCriteria) {
	resp, err := c.searcher.SearchPage(ctx, criteria, page)
	c.apply(gen, page, resp, err)
}

// apply merges one page response. Responses are dropped when they belong to a
// superseded generation or do not match the expected next page, so a late
// completion can never append out of order or garble the list.
func (c *Controller) apply(gen uint64, page int, resp *provider.Page, err error) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("stale page response dropped", zap.Int("page", page), zap.Uint64("generation", gen))
		return
	}
	if c.state != StateFetching || page != c.expected {
		c.mu.Unlock()
		c.logger.Debug("unexpected page response dropped", zap.Int("page", page), zap.Int("expected", c.expected))
		return
	}

	if err != nil {
		c.state = StateErrored
		c.errMsg = err.Error()
		c.expected = 0
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Debug("page fetch failed", zap.Int("page", page), zap.String("error", snap.Error))
		c.deliver(snap)
		return
	}

	if page == 1 {
		c.results = nil
		c.seen = make(map[string]struct{})
	}
	for _, p := range resp.Products {
		if _, ok := c.seen[p.ID]; ok {
			continue
		}
		c.seen[p.ID] = struct{}{}
		c.results = append(c.results, p)
	}

	c.page = page
	c.expected = 0
	c.hasMore = resp.HasMore()
	c.errMsg = ""
	if c.hasMore {
		c.state = StateIdleWithMore
		if n := len(c.results); n > 0 {
			c.observer.Arm(c.results[n-1].ID)
		}
	} else {
		c.state = StateExhausted
		c.observer.Disarm()
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("page applied",
		zap.Int("page", page),
		zap.Int("results", len(snap.Results)),
		zap.Bool("has_more", snap.HasMore),
	)
	c.deliver(snap)
}

func (c *Controller) notify() {
	c.deliver(c.Snapshot())
}

func (c *Controller) deliver(snap Snapshot) {
	if c.onUpdate != nil {
		c.onUpdate(snap)
	}
}
