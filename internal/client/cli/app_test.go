package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/zkpauth/internal/client/config"
	"github.com/dmitrijs2005/zkpauth/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	app, err := NewApp(&config.Config{ServerEndpointAddr: "127.0.0.1:1", RequestTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, services.StateConnected, app.authService.State())
	require.NoError(t, app.authService.Close())
}

func TestRun_ClosesDriverOnExit(t *testing.T) {
	fa := &fakeAuth{state: services.StateConnected}
	var out bytes.Buffer
	a := &App{
		config:      &config.Config{ServerEndpointAddr: "srv:1"},
		authService: fa,
		reader:      bufio.NewReader(strings.NewReader("ping\nexit\n")),
		out:         &out,
	}

	require.NoError(t, a.Run(context.Background()))
	assert.True(t, fa.closed)
	assert.Contains(t, out.String(), "server srv:1")
	assert.Contains(t, out.String(), "zkp (connected)> ")
	assert.Contains(t, out.String(), "OK")
}

func TestGetStatus_NotLoggedIn(t *testing.T) {
	a := &App{authService: &fakeAuth{state: services.StateRegistered}, userName: "alice"}
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "(registered)", a.getStatus())
}
