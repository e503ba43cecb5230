package applications

import (
	"time"

	"github.com/dmitrijs2005/campushire/internal/client/models"
	"github.com/dmitrijs2005/campushire/internal/schedule"
)

// View is an application ready for display.
type View struct {
	Application models.Application
	Event       models.Event
	HasEvent    bool
}

// Index is the full set of a user's applications.
type Index struct {
	apps     []models.Application
	selector schedule.Selector
	now      func() time.Time
}

// Option configures an Index.
type Option func(*Index)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(i *Index) { i.now = now }
}

// WithLocation sets the zone stored dates are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(i *Index) { i.selector.Loc = loc }
}

// NewIndex copies apps into a new Index.
func NewIndex(apps []models.Application, opts ...Option) *Index {
	idx := &Index{
		apps: append([]models.Application(nil), apps...),
		now:  time.Now,
	}
	for _, o := range opts {
		o(idx)
	}
	return idx
}

// Len returns the number of applications.
func (i *Index) Len() int { return len(i.apps) }

// CompanyNames returns the set of companies applied to.
func (i *Index) CompanyNames() map[string]struct{} {
	out := make(map[string]struct{}, len(i.apps))
	for _, a := range i.apps {
		out[a.CompanyName] = struct{}{}
	}
	return out
}

// View filters by query, orders by mode and derives the next event of every
// application, all against a single reading of the clock.
func (i *Index) View(query string, mode SortMode) []View {
	now := i.now()
	apps := SortWith(i.selector, Filter(i.apps, query), mode, now)

	out := make([]View, 0, len(apps))
	for _, a := range apps {
		ev, ok := i.selector.NextEvent(a, now)
		out = append(out, View{Application: a, Event: ev, HasEvent: ok})
	}
	return out
}
