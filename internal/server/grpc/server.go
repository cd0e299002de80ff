// Package grpc exposes the auth service over gRPC: the four public
// operations plus error-status mapping and request logging.
package grpc

import (
	"context"
	"net"

	"github.com/bluballz/chat-auth/internal/logging"
	pb "github.com/bluballz/chat-auth/internal/proto"
	"github.com/bluballz/chat-auth/internal/server/users"
	"google.golang.org/grpc"
)

// authService is the orchestrator surface the transport layer depends on.
type authService interface {
	Register(ctx context.Context, email, password, displayName string) (*users.AuthResult, error)
	Login(ctx context.Context, email, password string) (*users.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*users.TokenPair, error)
	ValidateToken(accessToken string) (*users.TokenIdentity, bool)
}

type GRPCServer struct {
	pb.UnimplementedAuthServiceServer
	address string
	auth    authService
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, svc authService) (*GRPCServer, error) {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    svc,
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	// registers service
	pb.RegisterAuthServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
