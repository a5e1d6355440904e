package services

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/zkpauth/internal/client/client"
	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/logging"
	"github.com/dmitrijs2005/zkpauth/internal/server/auth"
	"github.com/dmitrijs2005/zkpauth/internal/server/challenges"
	"github.com/dmitrijs2005/zkpauth/internal/server/kv"
	"github.com/dmitrijs2005/zkpauth/internal/server/users"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	gs "github.com/dmitrijs2005/zkpauth/internal/server/grpc"
	srv "github.com/dmitrijs2005/zkpauth/internal/server/services"
)

func startServer(t *testing.T) *client.GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	svc := srv.NewAuthService(
		users.NewKVRepository(kv.NewMemoryStore()),
		challenges.NewRegistry(time.Minute),
		zkp.NewEngine(zkp.Default()),
		auth.NewTokenIssuer("e2e-secret", time.Hour),
		logging.Discard(),
	)
	s := gs.NewGRPCServer("bufnet", logging.Discard(), svc)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	c, err := client.NewGRPCClient("passthrough:///bufnet", 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-done
	})
	return c
}

func TestEndToEnd_RegisterLoginWhoami(t *testing.T) {
	ctx := context.Background()
	a := NewAuthService(startServer(t))

	require.NoError(t, a.Ping(ctx))

	_, err := a.Whoami(ctx)
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	require.NoError(t, a.Register(ctx, "alice", []byte("correct horse")))
	assert.Equal(t, StateRegistered, a.State())

	sess, err := a.Login(ctx, "alice", []byte("correct horse"))
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, a.State())
	assert.Len(t, sess.SessionID, common.IdentifierLength)
	assert.NotEmpty(t, sess.AccessToken)

	id, err := a.Whoami(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Identity{Username: "alice", SessionID: sess.SessionID}, id)

	again, err := a.Login(ctx, "alice", []byte("correct horse"))
	require.NoError(t, err)
	assert.NotEqual(t, sess.SessionID, again.SessionID)
}

func TestEndToEnd_WrongPasswordRejected(t *testing.T) {
	ctx := context.Background()
	a := NewAuthService(startServer(t))

	require.NoError(t, a.Register(ctx, "bob", []byte("right")))

	_, err := a.Login(ctx, "bob", []byte("wrong"))

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, common.KindPermissionDenied, authErr.Kind)
	assert.Equal(t, StateConnected, a.State())
}

func TestEndToEnd_UnknownUser(t *testing.T) {
	a := NewAuthService(startServer(t))

	_, err := a.Login(context.Background(), "nobody", []byte("pw"))

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, common.KindNotFound, authErr.Kind)
}

func TestEndToEnd_ReRegisterReplacesVerifier(t *testing.T) {
	ctx := context.Background()
	a := NewAuthService(startServer(t))

	require.NoError(t, a.Register(ctx, "carol", []byte("old")))
	require.NoError(t, a.Register(ctx, "carol", []byte("new")))

	_, err := a.Login(ctx, "carol", []byte("old"))
	require.Error(t, err)

	_, err = a.Login(ctx, "carol", []byte("new"))
	require.NoError(t, err)
}
