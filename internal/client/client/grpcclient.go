package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	pb "github.com/dmitrijs2005/zkpauth/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      pb.AuthClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

// callInterceptor bounds every call by the request timeout and attaches
// the access token once a session exists.
func (s *GRPCClient) callInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient creates a client for endpointURL. The connection is
// established lazily on the first call. Extra dial options are appended
// after the defaults.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.initGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(opts ...grpc.DialOption) error {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.callInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return fmt.Errorf("grpc client init error: %w", err)
	}
	s.conn = conn
	s.client = pb.NewAuthClient(conn)
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, username string, y1, y2 []byte) error {
	req := &pb.RegisterRequest{User: username, Y1: y1, Y2: y2}

	if _, err := s.client.Register(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) CreateAuthenticationChallenge(ctx context.Context, username string, r1, r2 []byte) (string, []byte, error) {
	req := &pb.AuthenticationChallengeRequest{User: username, R1: r1, R2: r2}

	resp, err := s.client.CreateAuthenticationChallenge(ctx, req)
	if err != nil {
		return "", nil, s.mapError(err)
	}
	return resp.AuthId, resp.C, nil
}

// VerifyAuthentication answers a challenge. On success the returned access
// token is kept and sent with later calls.
func (s *GRPCClient) VerifyAuthentication(ctx context.Context, authID string, answer []byte) (string, string, error) {
	req := &pb.AuthenticationAnswerRequest{AuthId: authID, S: answer}

	resp, err := s.client.VerifyAuthentication(ctx, req)
	if err != nil {
		return "", "", s.mapError(err)
	}

	s.setToken(resp.AccessToken)
	return resp.SessionId, resp.AccessToken, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return common.ErrorUnavailable
	}
	return nil
}

func (s *GRPCClient) Whoami(ctx context.Context) (string, string, error) {
	resp, err := s.client.Whoami(ctx, &pb.WhoamiRequest{})
	if err != nil {
		return "", "", s.mapError(err)
	}
	return resp.User, resp.SessionId, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// mapError turns a gRPC status into the matching common sentinel, keeping
// the server's message for display.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", common.ErrorPermissionDenied, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorInvalidArgument, st.Message())
	case codes.Unauthenticated:
		return common.ErrorUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %s", common.ErrorUnavailable, st.Message())
	default:
		return fmt.Errorf("%w: rpc error: %s", common.ErrorInternal, st.Message())
	}
}
