package models

import "time"

// Document is one record of the document store. Collection is the path of
// the parent collection ("jobs", "users/u1/applications"); Path is
// Collection + "/" + ID.
type Document struct {
	Collection string
	ID         string
	Data       map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (d Document) Path() string {
	return d.Collection + "/" + d.ID
}
