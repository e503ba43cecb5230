package models

import "time"

// EventLabel names the kind of upcoming event of an application.
type EventLabel string

const (
	EventOnlineTest EventLabel = "Online Test"
	EventInterview  EventLabel = "Interview"
)

// Icon returns the display token for the label.
func (l EventLabel) Icon() string {
	switch l {
	case EventOnlineTest:
		return "pencil"
	case EventInterview:
		return "person.2.fill"
	default:
		return ""
	}
}

// Event is derived from an Application on read and never stored.
type Event struct {
	Label      EventLabel
	When       time.Time
	DateString string
	// Progress is the elapsed share of the time between applying and the
	// event, always within [0,1].
	Progress float64
	Icon     string
}
