package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/junaidrashid-git/modelstore-api/checkout"
	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/junaidrashid-git/modelstore-api/storage"
)

const (
	TokenKey = "auth-token"
	UserKey  = "auth-user"
)

// Session is the signed-in user of a storefront. The token and user are
// persisted so a later process picks them up with Load.
type Session struct {
	mu     sync.RWMutex
	client *Client
	store  storage.Store
	token  string
	user   *models.User
}

func NewSession(c *Client, store storage.Store) *Session {
	return &Session{client: c, store: store}
}

// Load restores a persisted session. A missing session is not an error.
func (s *Session) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var token string
	var user models.User
	foundToken, err := s.store.Get(TokenKey, &token)
	if err != nil {
		return fmt.Errorf("session: load: %w", err)
	}
	foundUser, err := s.store.Get(UserKey, &user)
	if err != nil {
		return fmt.Errorf("session: load: %w", err)
	}
	if foundToken && foundUser && token != "" {
		s.token, s.user = token, &user
	}
	return nil
}

func (s *Session) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return models.User{}, err
	}
	return resp.User, s.set(resp)
}

func (s *Session) Login(ctx context.Context, email, password string) (models.User, error) {
	resp, err := s.client.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return models.User{}, err
	}
	return resp.User, s.set(resp)
}

// Logout forgets the token and user.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.user = "", nil
	return errors.Join(s.store.Delete(TokenKey), s.store.Delete(UserKey))
}

func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// Orders lists the signed-in user's orders from the API.
func (s *Session) Orders(ctx context.Context) ([]models.Order, error) {
	token, userID, ok := s.credentials()
	if !ok {
		return nil, checkout.ErrNotAuthenticated
	}
	return s.client.ListOrders(ctx, token, userID)
}

// CreateOrder implements checkout.OrderAPI for the signed-in user.
func (s *Session) CreateOrder(ctx context.Context, req models.OrderRequest) (models.Order, error) {
	token, userID, ok := s.credentials()
	if !ok {
		return models.Order{}, checkout.ErrNotAuthenticated
	}
	return s.client.CreateOrder(ctx, token, userID, req)
}

func (s *Session) credentials() (token, userID string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.token == "" {
		return "", "", false
	}
	return s.token, s.user.ID, true
}

func (s *Session) set(resp models.AuthResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := resp.User
	s.token, s.user = resp.Token, &user
	if err := errors.Join(s.store.Set(TokenKey, resp.Token), s.store.Set(UserKey, user)); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

var _ checkout.OrderAPI = (*Session)(nil)
