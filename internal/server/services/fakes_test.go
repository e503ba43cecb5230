package services

import (
	"context"
	"database/sql"
	"maps"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/dmitrijs2005/campushire/internal/dbx"
	"github.com/dmitrijs2005/campushire/internal/server/models"
	"github.com/dmitrijs2005/campushire/internal/server/repositories/documents"
	"github.com/dmitrijs2005/campushire/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/campushire/internal/server/repositories/resets"
	"github.com/dmitrijs2005/campushire/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTxDB returns a real *sql.DB so dbx transactions can begin and commit;
// the fake repositories ignore the handle they are bound to.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	refresh  map[string]*models.RefreshToken
	resets   map[string]*models.PasswordReset
	docs     map[string]map[string]*models.Document
	failWith error
	// afterFind runs once a refresh token lookup returns.
	afterFind func(token string)
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*models.User{},
		refresh: map[string]*models.RefreshToken{},
		resets:  map[string]*models.PasswordReset{},
		docs:    map[string]map[string]*models.Document{},
	}
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Users(dbx.DBTX) users.Repository             { return memUsers{m} }
func (m *memStore) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return memRefresh{m}
}
func (m *memStore) Resets(dbx.DBTX) resets.Repository       { return memResets{m} }
func (m *memStore) Documents(dbx.DBTX) documents.Repository { return memDocs{m} }

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	cp := *u
	r.m.users[u.ID] = &cp
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	for _, u := range r.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) UpdatePassword(_ context.Context, id string, hash []byte) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memRefresh struct{ m *memStore }

func (r memRefresh) Create(_ context.Context, userID, token string, validity time.Duration) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.refresh[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r memRefresh) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.m.mu.Lock()
	t, ok := r.m.refresh[token]
	if !ok {
		r.m.mu.Unlock()
		return nil, common.ErrorNotFound
	}
	cp := *t
	hook := r.m.afterFind
	r.m.mu.Unlock()
	if hook != nil {
		hook(token)
	}
	return &cp, nil
}

func (r memRefresh) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.refresh[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.m.refresh, token)
	return t, nil
}

func (r memRefresh) Delete(_ context.Context, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.refresh, token)
	return nil
}

func (r memRefresh) DeleteByUser(_ context.Context, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for k, t := range r.m.refresh {
		if t.UserID == userID {
			delete(r.m.refresh, k)
		}
	}
	return nil
}

type memResets struct{ m *memStore }

func (r memResets) Create(_ context.Context, userID, tokenHash string, validity time.Duration) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.resets[tokenHash] = &models.PasswordReset{TokenHash: tokenHash, UserID: userID, Expires: time.Now().Add(validity)}
	return nil
}

func (r memResets) Consume(_ context.Context, tokenHash string) (*models.PasswordReset, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.resets[tokenHash]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.m.resets, tokenHash)
	return p, nil
}

func (r memResets) DeleteByUser(_ context.Context, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for k, p := range r.m.resets {
		if p.UserID == userID {
			delete(r.m.resets, k)
		}
	}
	return nil
}

type memDocs struct{ m *memStore }

func (r memDocs) Get(_ context.Context, collection, id string) (*models.Document, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.docs[collection][id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *d
	cp.Data = maps.Clone(d.Data)
	return &cp, nil
}

func (r memDocs) list(collection string, keep func(models.Document) bool) []models.Document {
	out := make([]models.Document, 0)
	for _, d := range r.m.docs[collection] {
		if keep(*d) {
			cp := *d
			cp.Data = maps.Clone(d.Data)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memDocs) List(_ context.Context, collection string) ([]models.Document, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.list(collection, func(models.Document) bool { return true }), nil
}

func (r memDocs) Query(_ context.Context, collection, field string, value any) ([]models.Document, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.list(collection, func(d models.Document) bool { return d.Data[field] == value }), nil
}

func (r memDocs) Insert(_ context.Context, collection, id string, data map[string]any) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.docs[collection][id]; ok {
		return common.ErrorAlreadyExists
	}
	r.put(collection, id, maps.Clone(data))
	return nil
}

func (r memDocs) put(collection, id string, data map[string]any) {
	if r.m.docs[collection] == nil {
		r.m.docs[collection] = map[string]*models.Document{}
	}
	if data == nil {
		data = map[string]any{}
	}
	r.m.docs[collection][id] = &models.Document{Collection: collection, ID: id, Data: data}
}

func (r memDocs) Upsert(_ context.Context, collection, id string, data map[string]any, merge bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if existing, ok := r.m.docs[collection][id]; ok && merge {
		maps.Copy(existing.Data, data)
		return nil
	}
	r.put(collection, id, maps.Clone(data))
	return nil
}

func (r memDocs) DeleteFields(_ context.Context, collection, id string, fields []string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.docs[collection][id]
	if !ok {
		return common.ErrorNotFound
	}
	for _, f := range fields {
		delete(d.Data, f)
	}
	return nil
}

func (r memDocs) Delete(_ context.Context, collection, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.docs[collection], id)
	return nil
}

type sentMail struct{ to, subject, body string }

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}
