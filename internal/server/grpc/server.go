// Package grpc exposes the authentication service over gRPC as
// zkp_auth.Auth.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/zkpauth/internal/logging"
	pb "github.com/dmitrijs2005/zkpauth/internal/proto"
	"github.com/dmitrijs2005/zkpauth/internal/server/services"
	"google.golang.org/grpc"
)

// AuthService is the protocol surface the handlers call into.
type AuthService interface {
	Register(ctx context.Context, username string, y1, y2 []byte) error
	CreateChallenge(ctx context.Context, username string, r1, r2 []byte) (*services.Challenge, error)
	VerifyAuthentication(ctx context.Context, authID string, s []byte) (*services.Session, error)
	Whoami(ctx context.Context, accessToken string) (*services.Identity, error)
}

type GRPCServer struct {
	pb.UnimplementedAuthServer
	address string
	auth    AuthService
	logger  logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, svc AuthService) *GRPCServer {
	return &GRPCServer{
		address: address,
		auth:    svc,
		logger:  l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		pb.ServerCodecOption(),
		grpc.ChainUnaryInterceptor(s.requestIDInterceptor, s.loggingInterceptor, s.accessTokenInterceptor),
	)
	pb.RegisterAuthServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	err := srv.Serve(lis)
	if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		srv.Stop()
		return err
	}
	<-stopped
	return nil
}
