// Package common contains shared constants and sentinel errors used across
// CampusHire components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Collection names of the document store.
const (
	CollectionJobs         = "jobs"
	CollectionUsers        = "users"
	CollectionApplications = "applications"
	CollectionSavedJobs    = "savedJobs"
)
