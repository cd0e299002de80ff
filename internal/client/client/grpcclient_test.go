package client

import (
	"context"
	"errors"
	"testing"

	pb "github.com/bluballz/chat-auth/internal/proto"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

/*************
 * Fake pb client
 *************/

type fakePB struct {
	// inputs captured
	lastRegisterReq *pb.RegisterRequest
	lastLoginReq    *pb.LoginRequest
	lastRefreshReq  *pb.RefreshRequest
	lastValidateReq *pb.ValidateTokenRequest

	// outputs preset
	registerResp *pb.AuthResponse
	registerErr  error

	loginResp *pb.AuthResponse
	loginErr  error

	refreshResp *pb.AuthTokens
	refreshErr  error

	validateResp *pb.ValidateTokenResponse
	validateErr  error
}

func (f *fakePB) Register(ctx context.Context, in *pb.RegisterRequest, opts ...grpc.CallOption) (*pb.AuthResponse, error) {
	f.lastRegisterReq = in
	return f.registerResp, f.registerErr
}

func (f *fakePB) Login(ctx context.Context, in *pb.LoginRequest, opts ...grpc.CallOption) (*pb.AuthResponse, error) {
	f.lastLoginReq = in
	return f.loginResp, f.loginErr
}

func (f *fakePB) Refresh(ctx context.Context, in *pb.RefreshRequest, opts ...grpc.CallOption) (*pb.AuthTokens, error) {
	f.lastRefreshReq = in
	return f.refreshResp, f.refreshErr
}

func (f *fakePB) ValidateToken(ctx context.Context, in *pb.ValidateTokenRequest, opts ...grpc.CallOption) (*pb.ValidateTokenResponse, error) {
	f.lastValidateReq = in
	return f.validateResp, f.validateErr
}

func newTestClient(f *fakePB) *GRPCClient {
	return &GRPCClient{endpointURL: "127.0.0.1:50051", client: f}
}

func TestClientRegister_StoresTokens(t *testing.T) {
	f := &fakePB{registerResp: &pb.AuthResponse{
		UserId: "42", Email: "u@example.com", DisplayName: "U",
		Tokens: &pb.AuthTokens{AccessToken: "a1", RefreshToken: "r1"},
	}}
	c := newTestClient(f)

	session, err := c.Register(context.Background(), "u@example.com", "password1", "U")
	require.NoError(t, err)
	require.Equal(t, "42", session.UserID)
	require.Equal(t, "u@example.com", f.lastRegisterReq.GetEmail())
	require.Equal(t, "a1", c.accessToken)
	require.Equal(t, "r1", c.refreshToken)
	require.True(t, c.HasSession())
}

func TestClientRegister_EmailTaken(t *testing.T) {
	f := &fakePB{registerErr: status.Error(codes.AlreadyExists, "email in use")}
	c := newTestClient(f)

	_, err := c.Register(context.Background(), "u@example.com", "password1", "")
	require.ErrorIs(t, err, ErrEmailTaken)
	require.False(t, c.HasSession())
}

func TestClientLogin_StoresTokens(t *testing.T) {
	f := &fakePB{loginResp: &pb.AuthResponse{
		UserId: "42", Email: "u@example.com",
		Tokens: &pb.AuthTokens{AccessToken: "a1", RefreshToken: "r1"},
	}}
	c := newTestClient(f)

	session, err := c.Login(context.Background(), "u@example.com", "password1")
	require.NoError(t, err)
	require.Equal(t, "u@example.com", session.Email)
	require.Equal(t, "r1", c.refreshToken)
}

func TestClientRefresh_RotatesTokens(t *testing.T) {
	f := &fakePB{refreshResp: &pb.AuthTokens{AccessToken: "a2", RefreshToken: "r2"}}
	c := newTestClient(f)
	c.accessToken = "a1"
	c.refreshToken = "r1"

	err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "r1", f.lastRefreshReq.GetRefreshToken())
	require.Equal(t, "a2", c.accessToken)
	require.Equal(t, "r2", c.refreshToken)
}

func TestClientRefresh_NoSession(t *testing.T) {
	c := newTestClient(&fakePB{})

	err := c.Refresh(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestClientValidate(t *testing.T) {
	f := &fakePB{validateResp: &pb.ValidateTokenResponse{Valid: true, UserId: "42", Email: "u@example.com"}}
	c := newTestClient(f)
	c.accessToken = "a1"

	session, ok, err := c.Validate(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "42", session.UserID)
	require.Equal(t, "a1", f.lastValidateReq.GetAccessToken())
}

func TestClientValidate_InvalidToken(t *testing.T) {
	f := &fakePB{validateResp: &pb.ValidateTokenResponse{Valid: false}}
	c := newTestClient(f)

	session, ok, err := c.Validate(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, session)
}

func TestMapError(t *testing.T) {
	c := newTestClient(&fakePB{})

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"permission denied", status.Error(codes.PermissionDenied, "x"), ErrUnauthorized},
		{"unauthenticated", status.Error(codes.Unauthenticated, "x"), ErrUnauthorized},
		{"already exists", status.Error(codes.AlreadyExists, "x"), ErrEmailTaken},
		{"not found", status.Error(codes.NotFound, "x"), ErrNotFound},
		{"unavailable", status.Error(codes.Unavailable, "x"), ErrUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "x"), ErrUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.mapError(tc.in)
			if tc.want == nil {
				require.NoError(t, got)
			} else {
				require.ErrorIs(t, got, tc.want)
			}
		})
	}

	t.Run("unknown is wrapped", func(t *testing.T) {
		got := c.mapError(errors.New("boom"))
		require.Error(t, got)
		require.NotErrorIs(t, got, ErrUnauthorized)
	})
}
