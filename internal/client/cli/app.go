package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/zkpauth/internal/client/client"
	"github.com/dmitrijs2005/zkpauth/internal/client/config"
	"github.com/dmitrijs2005/zkpauth/internal/client/services"
)

// authDriver is the part of services.AuthService the commands use.
type authDriver interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (*services.Session, error)
	Whoami(ctx context.Context) (*services.Identity, error)
	Ping(ctx context.Context) error
	Close() error
	State() services.State
}

type App struct {
	config      *config.Config
	authService authDriver
	userName    string
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(apiClient)

	return &App{config: c, authService: as, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.authService.Close()

	fmt.Fprintf(a.out, "zkpauth client, server %s (type 'help' for commands)\n", a.config.ServerEndpointAddr)
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.authService.State() == services.StateAuthenticated
}

func (a *App) getStatus() string {
	state := a.authService.State().String()
	if a.isLoggedIn() && a.userName != "" {
		return fmt.Sprintf("(%s %s)", a.userName, state)
	}
	return fmt.Sprintf("(%s)", state)
}
