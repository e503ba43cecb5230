// Package services contains the application services of the CampusHire
// CLI: authentication, the jobs catalog, applications and the profile. They
// sit between the REPL and the backend client and own the mapping between
// store documents and client models.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/campushire/internal/client/session"
	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/goccy/go-json"
)

var ErrNotSignedIn = errors.New("not signed in")

func currentUser(sessions *session.Manager) (string, error) {
	s := sessions.Current()
	if s == nil || s.UserID == "" {
		return "", ErrNotSignedIn
	}
	return s.UserID, nil
}

func userDoc(uid string) string {
	return common.CollectionUsers + "/" + uid
}

func userCollection(uid, collection string) string {
	return userDoc(uid) + "/" + collection
}

func docPath(collection, id string) string {
	return collection + "/" + id
}

func resumePath(uid string) string {
	return "resumes/" + uid + ".pdf"
}

// decodeData fills v from a document's fields.
func decodeData(data map[string]any, v any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// encodeData turns v into document fields.
func encodeData(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
