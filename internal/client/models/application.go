// Package models defines client-side records of the CampusHire tracker as
// they are stored in the document store.
package models

// Application is a user's application to a job, kept under
// users/{uid}/applications. It is written once on apply and never mutated by
// the client afterwards.
//
// All dates are human-readable strings in the "Jan 2, 2006" layout; an empty
// or malformed date is treated as absent.
type Application struct {
	// ID is the store-assigned document id, empty until persisted.
	ID                  string `json:"-"`
	CompanyName         string `json:"companyName"`
	AppliedDate         string `json:"appliedDate"`
	OnlineTestDate      string `json:"onlineTestDate"`
	InterviewDate       string `json:"interviewDate"`
	ApplicationDeadline string `json:"applicationDeadline"`
}
