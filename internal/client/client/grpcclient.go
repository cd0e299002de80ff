// Package client wraps the gRPC auth API for the CLI. It keeps the
// current session's token pair in memory; tokens are never written to disk.
package client

import (
	"context"
	"fmt"
	"time"

	pb "github.com/bluballz/chat-auth/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const requestTimeout = 12 * time.Second

// Session is the authenticated identity returned by Register and Login.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
}

type GRPCClient struct {
	endpointURL  string
	conn         *grpc.ClientConn
	client       pb.AuthServiceClient
	accessToken  string
	refreshToken string
}

func NewAuthClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.initGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewAuthServiceClient(conn)
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, email, password, displayName string) (*Session, error) {

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := &pb.RegisterRequest{Email: email, Password: password, DisplayName: displayName}

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	s.storeTokens(resp.GetTokens())

	return &Session{
		UserID:      resp.GetUserId(),
		Email:       resp.GetEmail(),
		DisplayName: resp.GetDisplayName(),
	}, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*Session, error) {

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := &pb.LoginRequest{Email: email, Password: password}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	s.storeTokens(resp.GetTokens())

	return &Session{
		UserID:      resp.GetUserId(),
		Email:       resp.GetEmail(),
		DisplayName: resp.GetDisplayName(),
	}, nil
}

// Refresh exchanges the stored refresh token for a new pair. The previous
// refresh token is invalid on the server once this succeeds.
func (s *GRPCClient) Refresh(ctx context.Context) error {

	if s.refreshToken == "" {
		return ErrUnauthorized
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.Refresh(ctx, &pb.RefreshRequest{RefreshToken: s.refreshToken})
	if err != nil {
		return s.mapError(err)
	}

	s.accessToken = resp.GetAccessToken()
	s.refreshToken = resp.GetRefreshToken()

	return nil
}

// Validate asks the server to check the stored access token. A false result
// is a normal answer, not an error.
func (s *GRPCClient) Validate(ctx context.Context) (*Session, bool, error) {

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.ValidateToken(ctx, &pb.ValidateTokenRequest{AccessToken: s.accessToken})
	if err != nil {
		return nil, false, s.mapError(err)
	}

	if !resp.GetValid() {
		return nil, false, nil
	}

	return &Session{UserID: resp.GetUserId(), Email: resp.GetEmail()}, true, nil
}

func (s *GRPCClient) HasSession() bool {
	return s.accessToken != ""
}

func (s *GRPCClient) storeTokens(t *pb.AuthTokens) {
	if t == nil {
		return
	}
	s.accessToken = t.GetAccessToken()
	s.refreshToken = t.GetRefreshToken()
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.AlreadyExists:
		return ErrEmailTaken
	case codes.NotFound:
		return ErrNotFound
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
