// Package grpc exposes the account and notebook services over gRPC.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/gmkitchen/internal/logging"
	"github.com/dmitrijs2005/gmkitchen/internal/rpc"
	"github.com/dmitrijs2005/gmkitchen/internal/server/models"
	"github.com/dmitrijs2005/gmkitchen/internal/server/services"
)

type userSvc interface {
	Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifierCandidate []byte) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type notebookSvc interface {
	Fetch(ctx context.Context, userID string) (*models.Notebook, error)
	Upsert(ctx context.Context, userID, payload string, version int64, updatedAt string) error
}

type GRPCServer struct {
	address      string
	users        userSvc
	notebooks    notebookSvc
	logger       logging.Logger
	jwtSecret    []byte
	interceptors []grpc.UnaryServerInterceptor
}

var _ rpc.NotebookServiceServer = (*GRPCServer)(nil)

// NewGRPCServer builds the server. interceptors run before the access token
// check, in the given order.
func NewGRPCServer(addr string, l logging.Logger, us userSvc, ns notebookSvc, secretKey string, interceptors ...grpc.UnaryServerInterceptor) *GRPCServer {
	return &GRPCServer{
		address:      addr,
		logger:       l.With("module", "grpc_server"),
		users:        us,
		notebooks:    ns,
		jwtSecret:    []byte(secretKey),
		interceptors: interceptors,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	chain := append(append([]grpc.UnaryServerInterceptor{}, s.interceptors...), s.accessTokenInterceptor)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	rpc.RegisterNotebookServiceServer(srv, s)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
