// Package auth acquires the authenticated HTTP client the sync engine
// uses to reach Google Tasks. It loads a cached token, refreshes it when
// expired, or walks the user through the browser consent flow. The sync
// engine never sees any of this; it only gets a client or an error.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/tasks/v1"
)

const (
	// ClientSecretFile is the default name of the downloaded OAuth client
	// credentials file. Supplied via flag, GOOGLE_CLIENT_SECRET, the
	// working directory, or the config directory.
	ClientSecretFile = "client_secret.json"

	// TokenFile is where the obtained token (access + refresh) is cached.
	TokenFile = "token.json"

	// LocalhostAuthPort is the fixed port the consent redirect lands on.
	LocalhostAuthPort = "6789"

	xdgAppName = "tasks"
)

// Scopes required for bidirectional task sync (read/write).
var scopes = []string{tasks.TasksScope}

// ConfigDir returns the application config directory (~/.config/tasks).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

// FindClientSecret resolves the client secret path. Priority: explicit
// hint, GOOGLE_CLIENT_SECRET, working directory, config directory.
// Returns "" when none exists.
func FindClientSecret(hint string) string {
	candidates := []string{}
	if hint != "" {
		candidates = append(candidates, hint)
	}
	if env := os.Getenv("GOOGLE_CLIENT_SECRET"); env != "" {
		candidates = append(candidates, env)
	}
	candidates = append(candidates, ClientSecretFile)
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ClientSecretFile))
	}

	for _, c := range candidates {
		p := resolvePath(c)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// TokenPath resolves the token cache path. An empty hint means the
// default location in the config directory.
func TokenPath(hint string) (string, error) {
	if hint != "" {
		return resolvePath(hint), nil
	}
	if env := os.Getenv("GOOGLE_TOKEN"); env != "" {
		return resolvePath(env), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TokenFile), nil
}

func resolvePath(p string) string {
	if len(p) >= 2 && p[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// GetClient returns an HTTP client carrying valid Tasks API credentials.
// clientSecretHint and tokenHint may be empty; the defaults above apply.
// If no cached token exists (or it cannot be refreshed) the browser
// consent flow runs and the new token is saved to the token path.
func GetClient(ctx context.Context, clientSecretHint, tokenHint string) (*http.Client, error) {
	secretPath := FindClientSecret(clientSecretHint)
	if secretPath == "" {
		return nil, fmt.Errorf("missing %s: put it in the config directory, set GOOGLE_CLIENT_SECRET, or pass --client-secret", ClientSecretFile)
	}

	b, err := os.ReadFile(secretPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", secretPath, err)
	}
	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}
	// The consent redirect must land on our fixed local port regardless of
	// what the credentials file declares.
	config.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)

	tokenPath, err := TokenPath(tokenHint)
	if err != nil {
		return nil, err
	}

	tok, err := tokenFromFile(tokenPath)
	if err != nil || !usable(ctx, config, tok) {
		tok, err = getTokenFromWeb(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to authorize with Google: %w", err)
		}
		if err := saveToken(tokenPath, tok); err != nil {
			return nil, err
		}
	}

	// Re-save after a silent refresh so the cached token stays current.
	src := config.TokenSource(ctx, tok)
	current, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	if current.AccessToken != tok.AccessToken || current.RefreshToken != tok.RefreshToken {
		if err := saveToken(tokenPath, current); err != nil {
			return nil, err
		}
	}

	return oauth2.NewClient(ctx, src), nil
}

// usable reports whether a cached token is valid now or can be refreshed.
func usable(ctx context.Context, config *oauth2.Config, tok *oauth2.Token) bool {
	if tok == nil {
		return false
	}
	if tok.Valid() {
		return true
	}
	if tok.RefreshToken == "" {
		return false
	}
	_, err := config.TokenSource(ctx, tok).Token()
	return err == nil
}

// getTokenFromWeb runs the authorization-code flow with a throwaway local
// HTTP server capturing the redirect.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", "localhost:"+LocalhostAuthPort)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in redirect")
				return
			}
			fmt.Fprint(w, "Authentication successful. You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("oauth redirect server: %w", err)
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL("state-token",
		oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open this URL in your browser to authorize task sync:\n%s\n", authURL)

	select {
	case code := <-codeCh:
		exCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(exCtx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to exchange authorization code: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(5 * time.Minute):
		return nil, fmt.Errorf("authorization timed out, please try again")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}
