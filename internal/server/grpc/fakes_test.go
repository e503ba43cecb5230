package grpc

import (
	"context"

	"github.com/dmitrijs2005/campushire/internal/server/models"
	"github.com/dmitrijs2005/campushire/internal/server/services"
)

type fakeUsers struct {
	session *services.Session
	err     error

	gotEmail, gotPassword, gotToken string
}

func (f *fakeUsers) SignUp(_ context.Context, email, password string) (*services.Session, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.session, f.err
}

func (f *fakeUsers) SignIn(_ context.Context, email, password string) (*services.Session, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.session, f.err
}

func (f *fakeUsers) RefreshToken(_ context.Context, token string) (*services.Session, error) {
	f.gotToken = token
	return f.session, f.err
}

func (f *fakeUsers) SignOut(_ context.Context, token string) error {
	f.gotToken = token
	return f.err
}

func (f *fakeUsers) SendPasswordReset(_ context.Context, email string) error {
	f.gotEmail = email
	return f.err
}

func (f *fakeUsers) ResetPassword(_ context.Context, token, pw string) error {
	f.gotToken, f.gotPassword = token, pw
	return f.err
}

type fakeDocs struct {
	doc  *models.Document
	docs []models.Document
	id   string
	err  error

	gotUser, gotPath, gotField string
	gotValue                   any
	gotData                    map[string]any
	gotMerge                   bool
	gotFields                  []string
}

func (f *fakeDocs) Get(_ context.Context, userID, path string) (*models.Document, error) {
	f.gotUser, f.gotPath = userID, path
	return f.doc, f.err
}

func (f *fakeDocs) List(_ context.Context, userID, collection string) ([]models.Document, error) {
	f.gotUser, f.gotPath = userID, collection
	return f.docs, f.err
}

func (f *fakeDocs) Query(_ context.Context, userID, collection, field string, value any) ([]models.Document, error) {
	f.gotUser, f.gotPath, f.gotField, f.gotValue = userID, collection, field, value
	return f.docs, f.err
}

func (f *fakeDocs) Add(_ context.Context, userID, collection string, data map[string]any) (string, error) {
	f.gotUser, f.gotPath, f.gotData = userID, collection, data
	return f.id, f.err
}

func (f *fakeDocs) Set(_ context.Context, userID, path string, data map[string]any, merge bool) error {
	f.gotUser, f.gotPath, f.gotData, f.gotMerge = userID, path, data, merge
	return f.err
}

func (f *fakeDocs) DeleteFields(_ context.Context, userID, path string, fields []string) error {
	f.gotUser, f.gotPath, f.gotFields = userID, path, fields
	return f.err
}

func (f *fakeDocs) Delete(_ context.Context, userID, path string) error {
	f.gotUser, f.gotPath = userID, path
	return f.err
}

type fakeBlobs struct {
	url string
	err error

	gotUser, gotKey string
}

func (f *fakeBlobs) PresignUpload(_ context.Context, userID, key string) (string, error) {
	f.gotUser, f.gotKey = userID, key
	return f.url, f.err
}

func (f *fakeBlobs) PresignDownload(_ context.Context, userID, key string) (string, error) {
	f.gotUser, f.gotKey = userID, key
	return f.url, f.err
}

func (f *fakeBlobs) Delete(_ context.Context, userID, key string) error {
	f.gotUser, f.gotKey = userID, key
	return f.err
}
