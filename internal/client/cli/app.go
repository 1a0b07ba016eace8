// Package cli implements the interactive task tracker client: a small REPL
// over the auth and task services.
package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
	"github.com/dmitrijs2005/gophtasks/internal/client/config"
	"github.com/dmitrijs2005/gophtasks/internal/client/services"
	"github.com/dmitrijs2005/gophtasks/internal/client/session"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	taskService services.TaskService
	userEmail   string
	reader      *bufio.Reader
}

func NewApp(c *config.Config) *App {

	apiClient := api.New(c.ServerEndpointAddr, c.RequestTimeout)
	store := session.NewStore(c.TokenFile)

	as := services.NewAuthService(apiClient, store)
	ts := services.NewTaskService(apiClient)

	return &App{
		config:      c,
		authService: as,
		taskService: ts,
		reader:      bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.userEmail != ""
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.userEmail
	}
	return "not logged in"
}

func (a *App) Run(ctx context.Context) {

	// resume a cached session if the server still accepts its token
	if user, err := a.authService.Restore(ctx); err == nil && user != nil {
		a.userEmail = user.Email
		log.Printf("Resumed session for %s", user.Email)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
