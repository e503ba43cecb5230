package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/dmitrijs2005/campushire/internal/server/models"
	"github.com/dmitrijs2005/campushire/internal/server/services"
	"github.com/dmitrijs2005/campushire/internal/wire"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = map[error]codes.Code{
	common.ErrorNotFound:          codes.NotFound,
	common.ErrUserNotFound:        codes.NotFound,
	common.ErrInvalidPath:         codes.InvalidArgument,
	common.ErrInvalidEmail:        codes.InvalidArgument,
	common.ErrWeakPassword:        codes.InvalidArgument,
	common.ErrPermissionDenied:    codes.PermissionDenied,
	common.ErrEmailAlreadyInUse:   codes.AlreadyExists,
	common.ErrWrongPassword:       codes.Unauthenticated,
	common.ErrInvalidToken:        codes.Unauthenticated,
	common.ErrTokenExpired:        codes.Unauthenticated,
	common.ErrRefreshTokenExpired: codes.Unauthenticated,
	common.ErrResetTokenInvalid:   codes.Unauthenticated,
}

// toStatus maps service errors to gRPC statuses. Known errors keep their
// message so the client can recover the sentinel; anything else is logged
// and reported as an internal error.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	for _, known := range common.Wire {
		if errors.Is(err, known) {
			return status.Error(errorCodes[known], known.Error())
		}
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

func toWire(d models.Document) wire.Document {
	return wire.Document{Path: d.Path(), ID: d.ID, Data: d.Data}
}

func toWireList(docs []models.Document) *wire.DocumentsResponse {
	out := &wire.DocumentsResponse{Documents: make([]wire.Document, 0, len(docs))}
	for _, d := range docs {
		out.Documents = append(out.Documents, toWire(d))
	}
	return out
}

func toWireSession(sess *services.Session) *wire.Session {
	return &wire.Session{
		UserID:       sess.UserID,
		Email:        sess.Email,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	}
}

var empty = &wire.Empty{}

func (s *GRPCServer) ping(ctx context.Context, _ *wire.Empty) (*wire.PingResponse, error) {
	return &wire.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) signUp(ctx context.Context, req *wire.Credentials) (*wire.Session, error) {
	sess, err := s.users.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Registered", "user_id", sess.UserID)
	return toWireSession(sess), nil
}

func (s *GRPCServer) signIn(ctx context.Context, req *wire.Credentials) (*wire.Session, error) {
	sess, err := s.users.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return toWireSession(sess), nil
}

func (s *GRPCServer) refreshToken(ctx context.Context, req *wire.RefreshTokenRequest) (*wire.Session, error) {
	sess, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return toWireSession(sess), nil
}

func (s *GRPCServer) signOut(ctx context.Context, req *wire.RefreshTokenRequest) (*wire.Empty, error) {
	return empty, s.users.SignOut(ctx, req.RefreshToken)
}

func (s *GRPCServer) sendPasswordReset(ctx context.Context, req *wire.PasswordResetRequest) (*wire.Empty, error) {
	return empty, s.users.SendPasswordReset(ctx, req.Email)
}

func (s *GRPCServer) resetPassword(ctx context.Context, req *wire.ResetPasswordRequest) (*wire.Empty, error) {
	return empty, s.users.ResetPassword(ctx, req.Token, req.NewPassword)
}

func (s *GRPCServer) getDocument(ctx context.Context, req *wire.DocumentRequest) (*wire.DocumentResponse, error) {
	doc, err := s.documents.Get(ctx, UserIDFromContext(ctx), req.Path)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &wire.DocumentResponse{Found: false}, nil
		}
		return nil, err
	}
	return &wire.DocumentResponse{Found: true, Document: toWire(*doc)}, nil
}

func (s *GRPCServer) listDocuments(ctx context.Context, req *wire.CollectionRequest) (*wire.DocumentsResponse, error) {
	docs, err := s.documents.List(ctx, UserIDFromContext(ctx), req.Collection)
	if err != nil {
		return nil, err
	}
	return toWireList(docs), nil
}

func (s *GRPCServer) queryDocuments(ctx context.Context, req *wire.QueryRequest) (*wire.DocumentsResponse, error) {
	docs, err := s.documents.Query(ctx, UserIDFromContext(ctx), req.Collection, req.Field, req.Value)
	if err != nil {
		return nil, err
	}
	return toWireList(docs), nil
}

func (s *GRPCServer) addDocument(ctx context.Context, req *wire.AddDocumentRequest) (*wire.AddDocumentResponse, error) {
	id, err := s.documents.Add(ctx, UserIDFromContext(ctx), req.Collection, req.Data)
	if err != nil {
		return nil, err
	}
	return &wire.AddDocumentResponse{ID: id}, nil
}

func (s *GRPCServer) setDocument(ctx context.Context, req *wire.SetDocumentRequest) (*wire.Empty, error) {
	return empty, s.documents.Set(ctx, UserIDFromContext(ctx), req.Path, req.Data, req.Merge)
}

func (s *GRPCServer) deleteFields(ctx context.Context, req *wire.DeleteFieldsRequest) (*wire.Empty, error) {
	return empty, s.documents.DeleteFields(ctx, UserIDFromContext(ctx), req.Path, req.Fields)
}

func (s *GRPCServer) deleteDocument(ctx context.Context, req *wire.DocumentRequest) (*wire.Empty, error) {
	return empty, s.documents.Delete(ctx, UserIDFromContext(ctx), req.Path)
}

func (s *GRPCServer) presignUpload(ctx context.Context, req *wire.BlobRequest) (*wire.BlobURLResponse, error) {
	url, err := s.blobs.PresignUpload(ctx, UserIDFromContext(ctx), req.Path)
	if err != nil {
		return nil, err
	}
	return &wire.BlobURLResponse{URL: url}, nil
}

func (s *GRPCServer) presignDownload(ctx context.Context, req *wire.BlobRequest) (*wire.BlobURLResponse, error) {
	url, err := s.blobs.PresignDownload(ctx, UserIDFromContext(ctx), req.Path)
	if err != nil {
		return nil, err
	}
	return &wire.BlobURLResponse{URL: url}, nil
}

func (s *GRPCServer) deleteBlob(ctx context.Context, req *wire.BlobRequest) (*wire.Empty, error) {
	return empty, s.blobs.Delete(ctx, UserIDFromContext(ctx), req.Path)
}
