package services

import (
	"strings"

	"github.com/dmitrijs2005/campushire/internal/common"
)

// docPath is a parsed slash-separated store path. Collection paths have an
// odd number of segments, document paths an even number.
type docPath []string

func parsePath(p string) (docPath, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil, common.ErrInvalidPath
	}
	segs := strings.Split(p, "/")
	for _, s := range segs {
		if s == "" || s == "." || s == ".." {
			return nil, common.ErrInvalidPath
		}
	}
	return docPath(segs), nil
}

func parseCollection(p string) (docPath, error) {
	dp, err := parsePath(p)
	if err != nil {
		return nil, err
	}
	if len(dp)%2 != 1 {
		return nil, common.ErrInvalidPath
	}
	return dp, nil
}

func parseDocument(p string) (docPath, error) {
	dp, err := parsePath(p)
	if err != nil {
		return nil, err
	}
	if len(dp)%2 != 0 {
		return nil, common.ErrInvalidPath
	}
	return dp, nil
}

func (p docPath) String() string { return strings.Join(p, "/") }

// split returns the parent collection and the id of a document path.
func (p docPath) split() (string, string) {
	return strings.Join(p[:len(p)-1], "/"), p[len(p)-1]
}

func (p docPath) ownedBy(userID string) bool {
	return len(p) >= 2 && p[0] == common.CollectionUsers && p[1] == userID
}

// canRead: the shared job board and the caller's own subtree.
func (p docPath) canRead(userID string) bool {
	return p[0] == common.CollectionJobs || p.ownedBy(userID)
}

// canWrite: only the caller's own subtree.
func (p docPath) canWrite(userID string) bool {
	return userID != "" && p.ownedBy(userID)
}
