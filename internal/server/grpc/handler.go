package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/gmkitchen/internal/common"
	"github.com/dmitrijs2005/gmkitchen/internal/notebook"
	"github.com/dmitrijs2005/gmkitchen/internal/rpc"
	"github.com/dmitrijs2005/gmkitchen/internal/server/services"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String("OK"), nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := rpc.RegistrationFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	user, err := s.users.Register(ctx, in.Username, in.Salt, in.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, "register", err)
	}

	s.logger.Info(ctx, "Registered", "username", user.UserName, "user_id", user.ID)
	return reply(rpc.UserRef{UserID: user.ID})
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	salt, err := s.users.GetSalt(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, "get salt", err)
	}
	return wrapperspb.Bytes(salt), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := rpc.CredentialsFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	pair, err := s.users.Login(ctx, in.Username, in.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}
	return reply(tokenPair(pair))
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	pair, err := s.users.RefreshToken(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, "refresh token", err)
	}
	return reply(tokenPair(pair))
}

// FetchNotebook answers found=false rather than NotFound when the user has
// no notebook yet.
func (s *GRPCServer) FetchNotebook(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	nb, err := s.notebooks.Fetch(ctx, userIDFromContext(ctx))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return reply(rpc.NotebookRow{})
		}
		return nil, s.toStatus(ctx, "fetch notebook", err)
	}

	return reply(rpc.NotebookRow{
		Found:     true,
		Payload:   nb.Payload,
		Version:   nb.Version,
		UpdatedAt: notebook.FormatTime(nb.UpdatedAt),
	})
}

func (s *GRPCServer) UpsertNotebook(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	row, err := rpc.NotebookRowFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	userID := userIDFromContext(ctx)
	if err := s.notebooks.Upsert(ctx, userID, row.Payload, row.Version, row.UpdatedAt); err != nil {
		return nil, s.toStatus(ctx, "upsert notebook", err)
	}

	s.logger.Debug(ctx, "Notebook stored", "user_id", userID, "version", row.Version)
	return &emptypb.Empty{}, nil
}

func tokenPair(p *services.TokenPair) rpc.TokenPair {
	return rpc.TokenPair{UserID: p.UserID, AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

func reply(m interface{ Struct() (*structpb.Struct, error) }) (*structpb.Struct, error) {
	st, err := m.Struct()
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return st, nil
}

// toStatus maps service errors to gRPC status codes. Unexpected errors are
// logged and hidden behind a generic Internal status.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	}
	s.logger.Error(ctx, "request failed", "op", op, "error", err)
	return status.Error(codes.Internal, "internal error")
}
