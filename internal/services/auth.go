// GoTrue (Supabase auth) implementation of [SessionProvider]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jlwilt7/lockedin-music/internal/shared"
	"golang.org/x/oauth2"
)

// Session is the persisted authentication state for one signed-in user.
type Session struct {
	Token       oauth2.Token `json:"token"`
	UserID      string       `json:"user_id"`
	Email       string       `json:"email"`
	DisplayName string       `json:"display_name,omitempty"`
}

// AuthService is a GoTrue client implementing [SessionProvider].
//
// Sessions persist to a JSON file between CLI invocations; tokens are stored
// as [oauth2.Token] values so expiry is checked with Token.Valid.
type AuthService struct {
	baseURL     string
	anonKey     string
	httpClient  *http.Client
	logger      *log.Logger
	sessionPath string

	mu      sync.Mutex
	session *Session
}

// NewAuthService creates an AuthService for the given project. A nil client
// defaults to [http.DefaultClient]; sessionPath may be "" to disable
// persistence (sessions then live only for the process).
func NewAuthService(baseURL, anonKey, sessionPath string, client *http.Client, logger *log.Logger) *AuthService {
	if client == nil {
		client = http.DefaultClient
	}
	return &AuthService{
		baseURL:     strings.TrimRight(baseURL, "/"),
		anonKey:     anonKey,
		httpClient:  client,
		logger:      logger,
		sessionPath: sessionPath,
	}
}

// tokenResponse is the GoTrue token grant payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			DisplayName string `json:"display_name"`
		} `json:"user_metadata"`
	} `json:"user"`
}

type authError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e authError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorDescription
}

// SignUp registers a new user. GoTrue signs the user in on success, so the
// resulting session is saved immediately.
func (a *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*Session, error) {
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"display_name": displayName},
	}
	return a.grant(ctx, "/auth/v1/signup", payload)
}

// SignIn authenticates with the password grant and saves the session.
func (a *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}
	return a.grant(ctx, "/auth/v1/token?grant_type=password", payload)
}

// Refresh exchanges the saved refresh token for a fresh access token.
func (a *AuthService) Refresh(ctx context.Context) (*Session, error) {
	a.mu.Lock()
	session := a.session
	a.mu.Unlock()

	if session == nil || session.Token.RefreshToken == "" {
		return nil, shared.ErrNoSession
	}

	payload := map[string]string{"refresh_token": session.Token.RefreshToken}
	return a.grant(ctx, "/auth/v1/token?grant_type=refresh_token", payload)
}

// SignOut revokes the current session remotely (best effort) and discards the
// persisted session file.
func (a *AuthService) SignOut(ctx context.Context) error {
	a.mu.Lock()
	session := a.session
	a.session = nil
	a.mu.Unlock()

	if session != nil && session.Token.AccessToken != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/auth/v1/logout", nil)
		if err == nil {
			req.Header.Set("apikey", a.anonKey)
			req.Header.Set("Authorization", "Bearer "+session.Token.AccessToken)
			if resp, err := a.httpClient.Do(req); err == nil {
				resp.Body.Close()
			} else if a.logger != nil {
				a.logger.Warn("remote sign-out failed", "err", err)
			}
		}
	}

	if a.sessionPath == "" {
		return nil
	}
	if err := os.Remove(a.sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// LoadSession restores a previously saved session from disk.
// Returns [shared.ErrNoSession] when no session file exists.
func (a *AuthService) LoadSession() (*Session, error) {
	if a.sessionPath == "" {
		return nil, shared.ErrNoSession
	}

	data, err := os.ReadFile(a.sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, shared.ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	a.mu.Lock()
	a.session = &session
	a.mu.Unlock()
	return &session, nil
}

// OwnerID implements [SessionProvider]. Expired tokens yield "" so writes fail
// with [shared.ErrNotAuthenticated] instead of a remote 401.
func (a *AuthService) OwnerID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil || !a.session.Token.Valid() {
		return ""
	}
	return a.session.UserID
}

// AccessToken implements [SessionProvider].
func (a *AuthService) AccessToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil || !a.session.Token.Valid() {
		return ""
	}
	return a.session.Token.AccessToken
}

// Session returns the current in-memory session, or nil.
func (a *AuthService) Session() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// grant posts a token-granting request and installs the resulting session.
func (a *AuthService) grant(ctx context.Context, path string, payload any) (*Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", a.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr authError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.text() != "" {
			return nil, fmt.Errorf("%w: %s", shared.ErrAuthFailed, apiErr.text())
		}
		return nil, fmt.Errorf("%w: status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if tr.AccessToken == "" || tr.User.ID == "" {
		return nil, fmt.Errorf("%w: incomplete token response", shared.ErrAuthFailed)
	}

	session := &Session{
		Token: oauth2.Token{
			AccessToken:  tr.AccessToken,
			TokenType:    tr.TokenType,
			RefreshToken: tr.RefreshToken,
			Expiry:       time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
		},
		UserID:      tr.User.ID,
		Email:       tr.User.Email,
		DisplayName: tr.User.UserMetadata.DisplayName,
	}

	a.mu.Lock()
	a.session = session
	a.mu.Unlock()

	if err := a.saveSession(session); err != nil && a.logger != nil {
		a.logger.Warn("failed to persist session", "err", err)
	}
	return session, nil
}

// saveSession writes the session file, creating its parent directory.
func (a *AuthService) saveSession(session *Session) error {
	if a.sessionPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.sessionPath), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(a.sessionPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
