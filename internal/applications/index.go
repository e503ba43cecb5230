// Package applications holds a user's applications and answers the two
// questions the tracker asks of them: which match a search, and in which
// order they should be shown.
package applications

import (
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/campushire/internal/client/models"
	"github.com/dmitrijs2005/campushire/internal/schedule"
	"golang.org/x/text/cases"
)

// SortMode selects the ordering applied by Sort.
type SortMode string

const (
	// ByUpcoming orders by the nearest future test/interview; applications
	// without one go last.
	ByUpcoming SortMode = "upcoming"
	// ByCompany orders by company name, byte-wise.
	ByCompany SortMode = "company"
)

// ParseSortMode maps user input to a SortMode, defaulting to ByUpcoming.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case ByCompany:
		return ByCompany
	default:
		return ByUpcoming
	}
}

// ContainsFold reports whether substr occurs in s ignoring case.
func ContainsFold(s, substr string) bool {
	c := cases.Fold()
	return strings.Contains(c.String(s), c.String(substr))
}

// Filter keeps the applications whose company name contains query, ignoring
// case. An empty query keeps everything. The input is not modified.
func Filter(apps []models.Application, query string) []models.Application {
	out := make([]models.Application, 0, len(apps))
	if query == "" {
		return append(out, apps...)
	}
	c := cases.Fold()
	q := c.String(query)
	for _, a := range apps {
		if strings.Contains(c.String(a.CompanyName), q) {
			out = append(out, a)
		}
	}
	return out
}

// Sort returns a new slice ordered by mode. Equal keys keep their input order.
func Sort(apps []models.Application, mode SortMode, now time.Time) []models.Application {
	return SortWith(schedule.Selector{}, apps, mode, now)
}

// SortWith is Sort with upcoming instants derived by sel.
func SortWith(sel schedule.Selector, apps []models.Application, mode SortMode, now time.Time) []models.Application {
	out := slices.Clone(apps)
	if out == nil {
		out = []models.Application{}
	}

	switch mode {
	case ByCompany:
		slices.SortStableFunc(out, func(a, b models.Application) int {
			return strings.Compare(a.CompanyName, b.CompanyName)
		})
	default:
		type keyed struct {
			app  models.Application
			when time.Time
			ok   bool
		}
		ks := make([]keyed, len(out))
		for i, a := range out {
			w, ok := sel.NextUpcoming(a, now)
			ks[i] = keyed{app: a, when: w, ok: ok}
		}
		slices.SortStableFunc(ks, func(a, b keyed) int {
			switch {
			case a.ok && b.ok:
				return a.when.Compare(b.when)
			case a.ok:
				return -1
			case b.ok:
				return 1
			default:
				return 0
			}
		})
		for i := range ks {
			out[i] = ks[i].app
		}
	}
	return out
}
