package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/bluballz/chat-auth/internal/client/client"
	"github.com/bluballz/chat-auth/internal/client/config"
)

// authAPI is the backend surface the CLI commands depend on.
// The real client.GRPCClient satisfies it; tests can provide a stub.
type authAPI interface {
	Register(ctx context.Context, email, password, displayName string) (*client.Session, error)
	Login(ctx context.Context, email, password string) (*client.Session, error)
	Refresh(ctx context.Context) error
	Validate(ctx context.Context) (*client.Session, bool, error)
	HasSession() bool
	Close() error
}

type App struct {
	config  *config.Config
	api     authAPI
	session *client.Session
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewAuthClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{config: c, api: apiClient, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.HasSession()
}

func (a *App) status() string {
	if a.session != nil {
		return a.session.Email
	}
	return "not logged in"
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.api.Close(); err != nil {
			fmt.Println(err.Error())
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
