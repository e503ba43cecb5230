package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/dmitrijs2005/campushire/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var errNoRefreshToken = errors.New("no refresh token")

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	cc          grpc.ClientConnInterface

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onTokens     func(accessToken, refreshToken string)

	// serialises refreshes so concurrent calls rotate the token once
	refreshMu sync.Mutex
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string, notify bool) {
	s.mu.Lock()
	s.accessToken, s.refreshToken = access, refresh
	fn := s.onTokens
	s.mu.Unlock()

	if notify && fn != nil {
		fn(access, refresh)
	}
}

func (s *GRPCClient) OnTokens(fn func(accessToken, refreshToken string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTokens = fn
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if _, ok := wire.Public[method]; ok {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, _ := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	fresh, rerr := s.refreshAfter(ctx, access)
	if errors.Is(rerr, errNoRefreshToken) {
		return err
	}
	if rerr != nil {
		return rerr
	}

	return invoker(withAccessToken(ctx, fresh), method, req, reply, cc, opts...)
}

// refreshAfter rotates the tokens unless another call already replaced the
// stale access token, in which case the newer one is returned.
func (s *GRPCClient) refreshAfter(ctx context.Context, stale string) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	access, refresh := s.tokens()
	if access != stale {
		return access, nil
	}
	if refresh == "" {
		return "", errNoRefreshToken
	}

	var resp wire.Session
	if err := s.invoke(ctx, wire.MethodRefreshToken, wire.RefreshTokenRequest{RefreshToken: refresh}, &resp); err != nil {
		return "", err
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken, true)
	return resp.AccessToken, nil
}

func NewCampusHireClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.cc = conn
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// invoke encodes req, calls method and decodes the reply into resp when
// resp is not nil.
func (s *GRPCClient) invoke(ctx context.Context, method string, req, resp any) error {
	in, err := wire.Encode(req)
	if err != nil {
		return err
	}

	out := &structpb.Struct{}
	if err := s.cc.Invoke(ctx, wire.Method(method), in, out); err != nil {
		return s.mapError(err)
	}

	if resp == nil {
		return nil
	}
	return wire.Decode(out, resp)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	var resp wire.PingResponse
	if err := s.invoke(ctx, wire.MethodPing, wire.Empty{}, &resp); err != nil {
		return err
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) startSession(resp *wire.Session) *Session {
	s.setTokens(resp.AccessToken, resp.RefreshToken, false)
	return &Session{UserID: resp.UserID, Email: resp.Email, RefreshToken: resp.RefreshToken}
}

func (s *GRPCClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var resp wire.Session
	if err := s.invoke(ctx, wire.MethodSignUp, wire.Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return s.startSession(&resp), nil
}

func (s *GRPCClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp wire.Session
	if err := s.invoke(ctx, wire.MethodSignIn, wire.Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return s.startSession(&resp), nil
}

func (s *GRPCClient) Restore(ctx context.Context, refreshToken string) (*Session, error) {
	var resp wire.Session
	if err := s.invoke(ctx, wire.MethodRefreshToken, wire.RefreshTokenRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return nil, err
	}
	return s.startSession(&resp), nil
}

// SignOut revokes the refresh token on the server. Local tokens are dropped
// even when the server could not be reached.
func (s *GRPCClient) SignOut(ctx context.Context) error {
	_, refresh := s.tokens()
	s.setTokens("", "", false)
	if refresh == "" {
		return nil
	}
	return s.invoke(ctx, wire.MethodSignOut, wire.RefreshTokenRequest{RefreshToken: refresh}, nil)
}

func (s *GRPCClient) SendPasswordReset(ctx context.Context, email string) error {
	return s.invoke(ctx, wire.MethodSendPasswordReset, wire.PasswordResetRequest{Email: email}, nil)
}

func (s *GRPCClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.invoke(ctx, wire.MethodResetPassword, wire.ResetPasswordRequest{Token: token, NewPassword: newPassword}, nil)
}

func (s *GRPCClient) GetDocument(ctx context.Context, path string) (Document, bool, error) {
	var resp wire.DocumentResponse
	if err := s.invoke(ctx, wire.MethodGetDocument, wire.DocumentRequest{Path: path}, &resp); err != nil {
		return Document{}, false, err
	}
	if !resp.Found {
		return Document{}, false, nil
	}
	return resp.Document, true, nil
}

func (s *GRPCClient) ListDocuments(ctx context.Context, collection string) ([]Document, error) {
	var resp wire.DocumentsResponse
	if err := s.invoke(ctx, wire.MethodListDocuments, wire.CollectionRequest{Collection: collection}, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

func (s *GRPCClient) QueryDocuments(ctx context.Context, collection, field string, value any) ([]Document, error) {
	var resp wire.DocumentsResponse
	req := wire.QueryRequest{Collection: collection, Field: field, Value: value}
	if err := s.invoke(ctx, wire.MethodQueryDocuments, req, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

func (s *GRPCClient) AddDocument(ctx context.Context, collection string, data map[string]any) (string, error) {
	var resp wire.AddDocumentResponse
	if err := s.invoke(ctx, wire.MethodAddDocument, wire.AddDocumentRequest{Collection: collection, Data: data}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (s *GRPCClient) SetDocument(ctx context.Context, path string, data map[string]any, merge bool) error {
	return s.invoke(ctx, wire.MethodSetDocument, wire.SetDocumentRequest{Path: path, Data: data, Merge: merge}, nil)
}

func (s *GRPCClient) DeleteFields(ctx context.Context, path string, fields ...string) error {
	return s.invoke(ctx, wire.MethodDeleteFields, wire.DeleteFieldsRequest{Path: path, Fields: fields}, nil)
}

func (s *GRPCClient) DeleteDocument(ctx context.Context, path string) error {
	return s.invoke(ctx, wire.MethodDeleteDocument, wire.DocumentRequest{Path: path}, nil)
}

func (s *GRPCClient) PresignUpload(ctx context.Context, path string) (string, error) {
	var resp wire.BlobURLResponse
	if err := s.invoke(ctx, wire.MethodPresignUpload, wire.BlobRequest{Path: path}, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (s *GRPCClient) PresignDownload(ctx context.Context, path string) (string, error) {
	var resp wire.BlobURLResponse
	if err := s.invoke(ctx, wire.MethodPresignDownload, wire.BlobRequest{Path: path}, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (s *GRPCClient) DeleteBlob(ctx context.Context, path string) error {
	return s.invoke(ctx, wire.MethodDeleteBlob, wire.BlobRequest{Path: path}, nil)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if sentinel, ok := common.FromMessage(st.Message()); ok {
		return sentinel
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
