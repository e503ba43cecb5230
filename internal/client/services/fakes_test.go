package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/campushire/internal/client/client"
	"github.com/dmitrijs2005/campushire/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/campushire/internal/client/session"
	"github.com/dmitrijs2005/campushire/internal/common"
)

// memStore is an in-memory document and blob store keeping insertion order.
type memStore struct {
	mu     sync.Mutex
	order  []string
	docs   map[string]map[string]any
	blobs  map[string]bool
	nextID int

	// failPaths makes GetDocument fail for the listed paths
	failPaths map[string]error
	listErr   error
	setErr    error
	gets      int
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]map[string]any{}, blobs: map[string]bool{}, failPaths: map[string]error{}}
}

func (m *memStore) put(path string, data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[path]; !ok {
		m.order = append(m.order, path)
	}
	m.docs[path] = data
}

func (m *memStore) get(path string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[path]
	return d, ok
}

func lastSegment(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

func (m *memStore) GetDocument(ctx context.Context, path string) (client.Document, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if err := m.failPaths[path]; err != nil {
		return client.Document{}, false, err
	}
	d, ok := m.docs[path]
	if !ok {
		return client.Document{}, false, nil
	}
	return client.Document{Path: path, ID: lastSegment(path), Data: d}, true, nil
}

func (m *memStore) ListDocuments(ctx context.Context, collection string) ([]client.Document, error) {
	return m.QueryDocuments(ctx, collection, "", nil)
}

func (m *memStore) QueryDocuments(ctx context.Context, collection, field string, value any) ([]client.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []client.Document{}
	for _, p := range m.order {
		d, ok := m.docs[p]
		if !ok || !strings.HasPrefix(p, collection+"/") || strings.Contains(p[len(collection)+1:], "/") {
			continue
		}
		if field != "" && d[field] != value {
			continue
		}
		out = append(out, client.Document{Path: p, ID: lastSegment(p), Data: d})
	}
	return out, nil
}

func (m *memStore) AddDocument(ctx context.Context, collection string, data map[string]any) (string, error) {
	m.mu.Lock()
	m.nextID++
	id := fmt.Sprintf("doc%d", m.nextID)
	m.mu.Unlock()
	m.put(collection+"/"+id, data)
	return id, nil
}

func (m *memStore) SetDocument(ctx context.Context, path string, data map[string]any, merge bool) error {
	if m.setErr != nil {
		return m.setErr
	}
	if cur, ok := m.get(path); ok && merge {
		next := map[string]any{}
		for k, v := range cur {
			next[k] = v
		}
		for k, v := range data {
			next[k] = v
		}
		data = next
	}
	m.put(path, data)
	return nil
}

func (m *memStore) DeleteFields(ctx context.Context, path string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[path]
	if !ok {
		return common.ErrorNotFound
	}
	for _, f := range fields {
		delete(d, f)
	}
	return nil
}

func (m *memStore) DeleteDocument(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, path)
	return nil
}

func (m *memStore) PresignUpload(ctx context.Context, path string) (string, error) {
	return "https://put/" + path, nil
}

func (m *memStore) PresignDownload(ctx context.Context, path string) (string, error) {
	return "https://get/" + path, nil
}

func (m *memStore) DeleteBlob(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, path)
	return nil
}

// fakeUploader reads the whole body and reports two progress steps.
// With flood set it instead emits that many progress events at once and
// closes sent when they are all queued.
type fakeUploader struct {
	store *memStore
	body  []byte
	err   error
	flood int
	sent  chan struct{}
}

func (u *fakeUploader) Upload(ctx context.Context, path, contentType string, r io.Reader, size int64) <-chan client.UploadEvent {
	if u.flood > 0 {
		ch := make(chan client.UploadEvent, u.flood+1)
		for i := 1; i <= u.flood; i++ {
			ch <- client.UploadEvent{Progress: float64(i) / float64(u.flood)}
		}
		ch <- client.UploadEvent{Progress: 1, URL: "https://get/" + path, Done: true}
		close(ch)
		close(u.sent)
		return ch
	}

	ch := make(chan client.UploadEvent, 4)
	go func() {
		defer close(ch)
		u.body, _ = io.ReadAll(r)
		ch <- client.UploadEvent{Progress: 0.5}
		if u.err != nil {
			ch <- client.UploadEvent{Err: u.err, Done: true}
			return
		}
		u.store.mu.Lock()
		u.store.blobs[path] = true
		u.store.mu.Unlock()
		ch <- client.UploadEvent{Progress: 1, URL: "https://get/" + path, Done: true}
	}()
	return ch
}

// fakeClient is the auth side of client.Client.
type fakeClient struct {
	*memStore

	signInSession *client.Session
	signInErr     error
	signUpErr     error
	restoreErr    error
	signOutErr    error
	resetErr      error

	lastEmail    string
	lastPassword string
	lastRestore  string
	lastCode     string
	signOuts     int
	closed       bool
	onTokens     func(string, string)
}

func (f *fakeClient) session(email string) *client.Session {
	if f.signInSession != nil {
		return f.signInSession
	}
	return &client.Session{UserID: "u1", Email: email, RefreshToken: "r1"}
}

func (f *fakeClient) SignUp(ctx context.Context, email, password string) (*client.Session, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.session(email), nil
}

func (f *fakeClient) SignIn(ctx context.Context, email, password string) (*client.Session, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session(email), nil
}

func (f *fakeClient) Restore(ctx context.Context, refreshToken string) (*client.Session, error) {
	f.lastRestore = refreshToken
	if f.restoreErr != nil {
		return nil, f.restoreErr
	}
	return &client.Session{UserID: "u1", Email: "ann@uni.edu", RefreshToken: "r2"}, nil
}

func (f *fakeClient) SignOut(ctx context.Context) error {
	f.signOuts++
	return f.signOutErr
}

func (f *fakeClient) SendPasswordReset(ctx context.Context, email string) error {
	f.lastEmail = email
	return f.resetErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	f.lastCode, f.lastPassword = token, newPassword
	return f.resetErr
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) OnTokens(fn func(string, string)) { f.onTokens = fn }

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

// memMeta is an in-memory metadata.Repository.
type memMeta struct {
	kv      map[string]string
	saveErr error
}

func newMemMeta() *memMeta { return &memMeta{kv: map[string]string{}} }

func (m *memMeta) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.kv[key]
	return v, ok, nil
}

func (m *memMeta) Set(ctx context.Context, key, value string) error {
	m.kv[key] = value
	return nil
}

func (m *memMeta) Delete(ctx context.Context, key string) error {
	delete(m.kv, key)
	return nil
}

func (m *memMeta) List(ctx context.Context) (map[string]string, error) { return m.kv, nil }

func (m *memMeta) Clear(ctx context.Context) error {
	m.kv = map[string]string{}
	return nil
}

func (m *memMeta) SaveSession(ctx context.Context, s metadata.StoredSession) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.kv[metadata.KeyUserID] = s.UserID
	m.kv[metadata.KeyEmail] = s.Email
	m.kv[metadata.KeyRefreshToken] = s.RefreshToken
	return nil
}

func (m *memMeta) LoadSession(ctx context.Context) (metadata.StoredSession, bool, error) {
	s := metadata.StoredSession{
		UserID:       m.kv[metadata.KeyUserID],
		Email:        m.kv[metadata.KeyEmail],
		RefreshToken: m.kv[metadata.KeyRefreshToken],
	}
	if s.UserID == "" || s.Email == "" || s.RefreshToken == "" {
		return metadata.StoredSession{}, false, nil
	}
	return s, true, nil
}

func (m *memMeta) ClearSession(ctx context.Context) error {
	delete(m.kv, metadata.KeyUserID)
	delete(m.kv, metadata.KeyEmail)
	delete(m.kv, metadata.KeyRefreshToken)
	return nil
}

func signedIn(uid string) *session.Manager {
	m := session.NewManager()
	m.Set(&session.Session{UserID: uid, Email: uid + "@uni.edu"})
	return m
}
