// Package auth signs the dashboard in against the authentication endpoints
// and keeps the issued bearer token in local storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/planner-dashboard/backend/internal/endpoint"
	"github.com/planner-dashboard/backend/internal/logger"
	"github.com/planner-dashboard/backend/internal/storage"
	"github.com/planner-dashboard/backend/internal/storage/models"
)

// TokenKey is the settings key the token is stored under.
const TokenKey = "auth.token"

// ErrCredentialsRequired is returned before any request when email or
// password is empty.
var ErrCredentialsRequired = errors.New("email and password are required")

// TokenStore persists the token between runs.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Client performs login, registration and logout. It implements
// endpoint.TokenSource, so the endpoint client it owns sends the current
// token with every request.
type Client struct {
	endpoint *endpoint.Client
	store    TokenStore
	log      *logger.Logger

	mu    sync.RWMutex
	token string
	user  *models.User
}

// New creates a client and loads any previously stored token.
func New(ctx context.Context, config endpoint.Config, store TokenStore, log *logger.Logger) (*Client, error) {
	if store == nil {
		return nil, errors.New("auth: token store is required")
	}
	if log == nil {
		log = logger.Nop()
	}

	c := &Client{store: store, log: log}
	c.endpoint = endpoint.NewClient(config, c)

	token, err := store.Get(ctx, TokenKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("loading token: %w", err)
	default:
		c.token = token
	}

	return c, nil
}

// Endpoint returns the authenticated endpoint client.
func (c *Client) Endpoint() *endpoint.Client {
	return c.endpoint
}

// Token implements endpoint.TokenSource.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// LoggedIn reports whether a token is held.
func (c *Client) LoggedIn() bool {
	return c.Token() != ""
}

// User returns the account from the last login or registration in this
// process, if any.
func (c *Client) User() (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return models.User{}, false
	}
	return *c.user, true
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.User{}, ErrCredentialsRequired
	}

	var resp models.AuthResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.endpoint.Post(ctx, endpoint.ResourceAuthentication, "login", req, &resp); err != nil {
		return models.User{}, err
	}

	return c.accept(ctx, resp)
}

// Register creates an account, which also signs it in.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.User{}, ErrCredentialsRequired
	}

	var resp models.AuthResponse
	req := models.RegisterRequest{Name: name, Email: email, Password: password}
	if err := c.endpoint.Post(ctx, endpoint.ResourceAuthentication, "register", req, &resp); err != nil {
		return models.User{}, err
	}

	return c.accept(ctx, resp)
}

// Logout revokes the token on the server and forgets it locally. The local
// token is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	if !c.LoggedIn() {
		return nil
	}

	remoteErr := c.endpoint.Post(ctx, endpoint.ResourceAuthentication, "logout", nil, nil)
	if remoteErr != nil {
		c.log.Warn("Server logout failed", "error", remoteErr)
	}

	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()

	if err := c.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	return remoteErr
}

func (c *Client) accept(ctx context.Context, resp models.AuthResponse) (models.User, error) {
	if resp.Token == "" {
		return models.User{}, errors.New("auth: server returned no token")
	}

	if err := c.store.Set(ctx, TokenKey, resp.Token); err != nil {
		return models.User{}, fmt.Errorf("saving token: %w", err)
	}

	c.mu.Lock()
	c.token = resp.Token
	user := resp.User
	c.user = &user
	c.mu.Unlock()

	c.log.Info("Signed in", "user_id", resp.User.ID)
	return resp.User, nil
}
