package models

import "time"

// JobPosting is an entry of the shared jobs catalog. Clients only read it.
type JobPosting struct {
	ID                  string     `json:"-"`
	Company             *string    `json:"company,omitempty"`
	Title               string     `json:"title"`
	Location            *string    `json:"location,omitempty"`
	Salary              *string    `json:"salary,omitempty"`
	OnlineTestDate      *string    `json:"onlineTestDate,omitempty"`
	InterviewDate       *string    `json:"interviewDate,omitempty"`
	ApplicationDeadline *string    `json:"applicationDeadline,omitempty"`
	Description         *string    `json:"description,omitempty"`
	IsUrgent            *bool      `json:"isUrgent,omitempty"`
	PostedDate          *time.Time `json:"postedDate,omitempty"`
}

// SavedJobReference marks a job as saved by a user. It lives under
// users/{uid}/savedJobs/{jobID}, so at most one exists per (user, job).
type SavedJobReference struct {
	JobID       string    `json:"-"`
	CompanyName string    `json:"companyName"`
	SavedDate   time.Time `json:"savedDate"`
}

// StringOr returns *s, or def when s is nil.
func StringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
