package resthub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"tood/internal/config"
	"tood/internal/service"
)

// AuthClient implements service.Authenticator against GoTrue-style
// endpoints. Sessions are persisted in the config directory between
// invocations; every state change fans out to registered listeners.
type AuthClient struct {
	cfg    *config.Config
	server config.Server
	http   *http.Client

	mu        sync.Mutex
	listeners map[int]func(*service.Session)
	nextID    int
}

// NewAuthClient creates an auth client from the configured backend.
func NewAuthClient(cfg *config.Config) (*AuthClient, error) {
	return NewAuthClientWithHTTPClient(cfg, &http.Client{Timeout: APITimeout})
}

// NewAuthClientWithHTTPClient creates an auth client with a custom
// HTTP client (for testing).
func NewAuthClientWithHTTPClient(cfg *config.Config, hc *http.Client) (*AuthClient, error) {
	server, err := cfg.LoadServer()
	if err != nil {
		return nil, err
	}
	return &AuthClient{
		cfg:       cfg,
		server:    server,
		http:      hc,
		listeners: make(map[int]func(*service.Session)),
	}, nil
}

// Server returns the configured backend endpoint.
func (a *AuthClient) Server() config.Server {
	return a.server
}

// tokenResponse is the session payload returned by the token and
// signup endpoints.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// GetSession resolves the persisted session, refreshing it through the
// auth collaborator when expired. Returns nil when no one is signed in.
func (a *AuthClient) GetSession(ctx context.Context) (*service.Session, error) {
	sess, err := a.loadSession()
	if err != nil || sess == nil {
		return nil, err
	}
	if !sess.Expired() {
		return sess, nil
	}
	refreshed, err := a.refresh(ctx, sess.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("session refresh failed: %w", err)
	}
	if err := a.saveSession(refreshed); err != nil {
		return nil, err
	}
	a.notify(refreshed)
	return refreshed, nil
}

// SignInWithPassword exchanges credentials for a session.
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*service.Session, error) {
	var tr tokenResponse
	url := a.server.URL + authPath + "/token?grant_type=password"
	body := map[string]string{"email": email, "password": password}
	if err := doJSON(ctx, a.http, http.MethodPost, url, a.server.Key, nil, body, &tr); err != nil {
		return nil, err
	}
	return a.adopt(tr)
}

// SignUp registers a new user. When the server auto-confirms, the
// returned session is adopted immediately; otherwise the caller is
// told to confirm first.
func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*service.Session, error) {
	var tr tokenResponse
	url := a.server.URL + authPath + "/signup"
	body := map[string]string{"email": email, "password": password}
	if err := doJSON(ctx, a.http, http.MethodPost, url, a.server.Key, nil, body, &tr); err != nil {
		return nil, err
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("account created; confirm your email, then sign in")
	}
	return a.adopt(tr)
}

// SignOut revokes the session server-side (best effort), forgets it
// locally and notifies listeners. Never fails on revocation errors.
func (a *AuthClient) SignOut(ctx context.Context) error {
	sess, _ := a.loadSession()
	if sess != nil {
		url := a.server.URL + authPath + "/logout"
		headers := map[string]string{"Authorization": "Bearer " + sess.AccessToken}
		// Revocation is advisory; a dead token is signed out either way.
		_ = doJSON(ctx, a.http, http.MethodPost, url, a.server.Key, headers, nil, nil)
	}
	if a.cfg.HasSession() {
		if err := a.cfg.RemoveSession(); err != nil {
			return err
		}
	}
	a.notify(nil)
	return nil
}

// OnSessionChange implements service.Authenticator.
func (a *AuthClient) OnSessionChange(fn func(*service.Session)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

// TokenSource returns an auto-refreshing oauth2 token source backed by
// the persisted session, suitable for building an authenticated HTTP
// client with oauth2.NewClient.
func (a *AuthClient) TokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &sessionSource{ctx: ctx, auth: a})
}

type sessionSource struct {
	ctx  context.Context
	auth *AuthClient
}

func (s *sessionSource) Token() (*oauth2.Token, error) {
	sess, err := s.auth.GetSession(s.ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, service.ErrUnauthenticated
	}
	return &oauth2.Token{
		AccessToken: sess.AccessToken,
		TokenType:   "Bearer",
		Expiry:      sess.ExpiresAt,
	}, nil
}

func (a *AuthClient) refresh(ctx context.Context, refreshToken string) (*service.Session, error) {
	var tr tokenResponse
	url := a.server.URL + authPath + "/token?grant_type=refresh_token"
	body := map[string]string{"refresh_token": refreshToken}
	if err := doJSON(ctx, a.http, http.MethodPost, url, a.server.Key, nil, body, &tr); err != nil {
		return nil, err
	}
	return sessionFromToken(tr)
}

// adopt persists a fresh session and fans out the change.
func (a *AuthClient) adopt(tr tokenResponse) (*service.Session, error) {
	sess, err := sessionFromToken(tr)
	if err != nil {
		return nil, err
	}
	if err := a.saveSession(sess); err != nil {
		return nil, err
	}
	a.notify(sess)
	return sess, nil
}

// sessionFromToken builds a session from a token payload. The user id
// comes from the embedded user object, falling back to the JWT sub
// claim (the server already verified the token's signature).
func sessionFromToken(tr tokenResponse) (*service.Session, error) {
	sess := &service.Session{
		UserID:       tr.User.ID,
		Email:        tr.User.Email,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}
	if sess.UserID == "" {
		claims := jwt.RegisteredClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(tr.AccessToken, &claims); err != nil {
			return nil, fmt.Errorf("invalid access token: %w", err)
		}
		sess.UserID = claims.Subject
	}
	if sess.UserID == "" {
		return nil, fmt.Errorf("token carries no user identity")
	}
	return sess, nil
}

func (a *AuthClient) loadSession() (*service.Session, error) {
	data, err := os.ReadFile(a.cfg.SessionPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess service.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.SessionFile, err)
	}
	return &sess, nil
}

func (a *AuthClient) saveSession(sess *service.Session) error {
	if err := a.cfg.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(a.cfg.SessionPath(), data, 0600)
}

func (a *AuthClient) notify(sess *service.Session) {
	a.mu.Lock()
	fns := make([]func(*service.Session), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
}
