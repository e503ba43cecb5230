package models

// Profile is the user's own document, users/{uid}. Saves are merged into the
// existing document so unrelated fields survive.
type Profile struct {
	FullName           string   `json:"fullName"`
	Branch             string   `json:"branch"`
	CGPA               float64  `json:"cgpa"`
	PreferredRole      string   `json:"preferredRole"`
	LocationPreference string   `json:"locationPreference"`
	Skills             []string `json:"skills"`
	ResumeURL          string   `json:"resumeURL,omitempty"`
}
