package grpc

import (
	"context"

	"github.com/dmitrijs2005/campushire/internal/server/models"
	"github.com/dmitrijs2005/campushire/internal/server/services"
	"github.com/dmitrijs2005/campushire/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type UserService interface {
	SignUp(ctx context.Context, email, password string) (*services.Session, error)
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type DocumentService interface {
	Get(ctx context.Context, userID, path string) (*models.Document, error)
	List(ctx context.Context, userID, collection string) ([]models.Document, error)
	Query(ctx context.Context, userID, collection, field string, value any) ([]models.Document, error)
	Add(ctx context.Context, userID, collection string, data map[string]any) (string, error)
	Set(ctx context.Context, userID, path string, data map[string]any, merge bool) error
	DeleteFields(ctx context.Context, userID, path string, fields []string) error
	Delete(ctx context.Context, userID, path string) error
}

type BlobService interface {
	PresignUpload(ctx context.Context, userID, key string) (string, error)
	PresignDownload(ctx context.Context, userID, key string) (string, error)
	Delete(ctx context.Context, userID, key string) error
}

type unaryMethod func(s *GRPCServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

// handle adapts a typed handler to the Struct-in, Struct-out wire shape.
func handle[Req, Resp any](fn func(s *GRPCServer, ctx context.Context, req *Req) (*Resp, error)) unaryMethod {
	return func(s *GRPCServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
		var req Req
		if err := wire.Decode(in, &req); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		resp, err := fn(s, ctx, &req)
		if err != nil {
			return nil, s.toStatus(ctx, err)
		}
		out, err := wire.Encode(resp)
		if err != nil {
			s.logger.Error(ctx, "encode response", "error", err)
			return nil, status.Error(codes.Internal, "internal error")
		}
		return out, nil
	}
}

func methodDesc(name string, m unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(*GRPCServer)
			if interceptor == nil {
				return m(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: wire.Method(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return m(s, ctx, req.(*structpb.Struct))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: wire.ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(wire.MethodPing, handle((*GRPCServer).ping)),
		methodDesc(wire.MethodSignUp, handle((*GRPCServer).signUp)),
		methodDesc(wire.MethodSignIn, handle((*GRPCServer).signIn)),
		methodDesc(wire.MethodRefreshToken, handle((*GRPCServer).refreshToken)),
		methodDesc(wire.MethodSignOut, handle((*GRPCServer).signOut)),
		methodDesc(wire.MethodSendPasswordReset, handle((*GRPCServer).sendPasswordReset)),
		methodDesc(wire.MethodResetPassword, handle((*GRPCServer).resetPassword)),
		methodDesc(wire.MethodGetDocument, handle((*GRPCServer).getDocument)),
		methodDesc(wire.MethodListDocuments, handle((*GRPCServer).listDocuments)),
		methodDesc(wire.MethodQueryDocuments, handle((*GRPCServer).queryDocuments)),
		methodDesc(wire.MethodAddDocument, handle((*GRPCServer).addDocument)),
		methodDesc(wire.MethodSetDocument, handle((*GRPCServer).setDocument)),
		methodDesc(wire.MethodDeleteFields, handle((*GRPCServer).deleteFields)),
		methodDesc(wire.MethodDeleteDocument, handle((*GRPCServer).deleteDocument)),
		methodDesc(wire.MethodPresignUpload, handle((*GRPCServer).presignUpload)),
		methodDesc(wire.MethodPresignDownload, handle((*GRPCServer).presignDownload)),
		methodDesc(wire.MethodDeleteBlob, handle((*GRPCServer).deleteBlob)),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "campushire/v1/campushire.proto",
}
