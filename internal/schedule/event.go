package schedule

import (
	"math"
	"time"

	"github.com/dmitrijs2005/campushire/internal/client/models"
)

type candidate struct {
	label models.EventLabel
	when  time.Time
}

// upcoming returns the future test/interview dates in declaration order.
func upcoming(app models.Application, now time.Time, loc *time.Location) []candidate {
	out := make([]candidate, 0, 2)
	if t, ok := ParseDateIn(app.OnlineTestDate, loc); ok && IsFuture(t, now) {
		out = append(out, candidate{label: models.EventOnlineTest, when: t})
	}
	if t, ok := ParseDateIn(app.InterviewDate, loc); ok && IsFuture(t, now) {
		out = append(out, candidate{label: models.EventInterview, when: t})
	}
	return out
}

// earliest picks the minimum instant; on ties the first candidate wins.
func earliest(cs []candidate) (candidate, bool) {
	if len(cs) == 0 {
		return candidate{}, false
	}
	best := cs[0]
	for _, c := range cs[1:] {
		if c.when.Before(best.when) {
			best = c
		}
	}
	return best, true
}

// Selector derives events in a fixed location. The zero value uses
// time.Local.
type Selector struct {
	Loc *time.Location
}

func (s Selector) loc() *time.Location {
	if s.Loc == nil {
		return time.Local
	}
	return s.Loc
}

// NextEvent selects the nearest future online test or interview of app and
// the progress from the applied date towards it. It reports false when the
// applied date does not parse or when no event lies in the future.
func (s Selector) NextEvent(app models.Application, now time.Time) (models.Event, bool) {
	applied, ok := ParseDateIn(app.AppliedDate, s.loc())
	if !ok {
		return models.Event{}, false
	}
	next, ok := earliest(upcoming(app, now, s.loc()))
	if !ok {
		return models.Event{}, false
	}
	return models.Event{
		Label:      next.label,
		When:       next.when,
		DateString: FormatDate(next.when),
		Progress:   Progress(applied, next.when, now),
		Icon:       next.label.Icon(),
	}, true
}

// NextUpcoming returns the earliest future test/interview instant. Unlike
// NextEvent it does not look at the applied date.
func (s Selector) NextUpcoming(app models.Application, now time.Time) (time.Time, bool) {
	next, ok := earliest(upcoming(app, now, s.loc()))
	if !ok {
		return time.Time{}, false
	}
	return next.when, true
}

// NextEvent is Selector{}.NextEvent.
func NextEvent(app models.Application, now time.Time) (models.Event, bool) {
	return Selector{}.NextEvent(app, now)
}

// NextUpcoming is Selector{}.NextUpcoming.
func NextUpcoming(app models.Application, now time.Time) (time.Time, bool) {
	return Selector{}.NextUpcoming(app, now)
}

// Progress returns (now-from)/(to-from) clamped to [0,1]. When to is not
// after from the ratio is 0 if now is not after from, otherwise 1.
func Progress(from, to, now time.Time) float64 {
	total := to.Sub(from)
	elapsed := now.Sub(from)
	if total <= 0 {
		if elapsed <= 0 {
			return 0
		}
		return 1
	}
	p := float64(elapsed) / float64(total)
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(math.Max(p, 0), 1)
}
