package grpc

import (
	"context"
	"errors"

	"github.com/bluballz/chat-auth/internal/common"
	pb "github.com/bluballz/chat-auth/internal/proto"
	"github.com/bluballz/chat-auth/internal/server/users"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// statusFromError translates service-layer sentinel errors into the public
// status taxonomy. Anything unrecognized surfaces as Internal with the
// underlying message.
func statusFromError(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "email in use")
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, "no such user")
	case errors.Is(err, common.ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func tokensToProto(t *users.TokenPair) *pb.AuthTokens {
	return &pb.AuthTokens{
		AccessToken:      t.AccessToken,
		RefreshToken:     t.RefreshToken,
		AccessExpiresAt:  t.AccessExpiresAt,
		RefreshExpiresAt: t.RefreshExpiresAt,
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.AuthResponse, error) {

	s.logger.Info(ctx, "Registration request")

	result, err := s.auth.Register(ctx, req.GetEmail(), req.GetPassword(), req.GetDisplayName())
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, statusFromError(err)
	}

	s.logger.Info(ctx, "Registered", "user_id", result.UserID)
	return &pb.AuthResponse{
		UserId:      result.UserID,
		Email:       result.Email,
		DisplayName: result.DisplayName,
		Tokens:      tokensToProto(result.Tokens),
	}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.AuthResponse, error) {

	result, err := s.auth.Login(ctx, req.GetEmail(), req.GetPassword())
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, statusFromError(err)
	}

	return &pb.AuthResponse{
		UserId:      result.UserID,
		Email:       result.Email,
		DisplayName: result.DisplayName,
		Tokens:      tokensToProto(result.Tokens),
	}, nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *pb.RefreshRequest) (*pb.AuthTokens, error) {

	tokens, err := s.auth.Refresh(ctx, req.GetRefreshToken())
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, statusFromError(err)
	}

	return tokensToProto(tokens), nil
}

// ValidateToken never returns an error: any parse, signature, or expiry
// failure collapses to a normal response with valid=false. It performs no
// store lookups.
func (s *GRPCServer) ValidateToken(ctx context.Context, req *pb.ValidateTokenRequest) (*pb.ValidateTokenResponse, error) {

	identity, ok := s.auth.ValidateToken(req.GetAccessToken())
	if !ok {
		return &pb.ValidateTokenResponse{Valid: false}, nil
	}

	return &pb.ValidateTokenResponse{
		Valid:  true,
		UserId: identity.UserID,
		Email:  identity.Email,
	}, nil
}
