// Package grpc exposes the server services over the CampusHire gRPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/campushire/internal/logging"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address   string
	users     UserService
	documents DocumentService
	blobs     BlobService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us UserService, ds DocumentService, bs BlobService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		documents: ds,
		blobs:     bs,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer builds a *grpc.Server with the interceptors installed and the
// service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&serviceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	return srv.Serve(listen)
}
