// Package auth handles OAuth2 credential material for the Google Tasks API.
//
// Normal runs are strictly non-interactive: a usable token must already be
// cached (token.json under the config dir) or supplied inline via the
// GOOGLE_TOKEN_JSON environment variable. Only the explicit -auth flag
// launches the browser consent flow.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"
)

const (
	// ClientSecretsFile holds the OAuth client downloaded from the Google
	// Cloud console, placed under the config dir.
	ClientSecretsFile = "credentials.json"
	// TokenFile caches the access/refresh token pair after authorization.
	TokenFile = "token.json"

	// LocalhostAuthPort is where the consent flow's redirect lands.
	LocalhostAuthPort = "6789"

	xdgAppName = "manabasync"
)

var scopes = []string{tasks.TasksScope}

// GetXdgHome returns the application config directory.
func GetXdgHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

// GetConfig builds the oauth2.Config from the client secrets file, forcing
// the redirect to the local callback server.
func GetConfig() (*oauth2.Config, error) {
	configDir, err := GetXdgHome()
	if err != nil {
		return nil, err
	}

	secretsPath := filepath.Join(configDir, ClientSecretsFile)
	b, err := os.ReadFile(secretsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", secretsPath, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}
	config.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
	return config, nil
}

// GetTasksService returns an authenticated Tasks API service, or an error
// when no usable credential material exists. tokenJSON, when non-empty, is
// an inline token taking precedence over the cached file (CI secrets).
func GetTasksService(ctx context.Context, tokenJSON string) (*tasks.Service, error) {
	config, err := GetConfig()
	if err != nil {
		return nil, err
	}

	tok, tokenPath, err := loadToken(tokenJSON)
	if err != nil {
		return nil, err
	}

	// The token source refreshes expired access tokens using the refresh
	// token; persist the result so the next run skips the refresh.
	source := config.TokenSource(ctx, tok)
	current, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("token is expired and could not be refreshed (re-run with -auth): %w", err)
	}
	if tokenPath != "" && (current.AccessToken != tok.AccessToken || current.RefreshToken != tok.RefreshToken) {
		log.Println("Token was refreshed, saving new token.")
		saveToken(tokenPath, current)
	}

	srv, err := tasks.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Tasks service: %w", err)
	}
	return srv, nil
}

// loadToken returns the token plus the path to re-save it to after a
// refresh ("" when the token came from the environment).
func loadToken(tokenJSON string) (*oauth2.Token, string, error) {
	if tokenJSON != "" {
		tok := &oauth2.Token{}
		if err := json.Unmarshal([]byte(tokenJSON), tok); err != nil {
			return nil, "", fmt.Errorf("failed to parse GOOGLE_TOKEN_JSON: %w", err)
		}
		return tok, "", nil
	}

	configDir, err := GetXdgHome()
	if err != nil {
		return nil, "", err
	}
	tokenPath := filepath.Join(configDir, TokenFile)
	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		return nil, "", fmt.Errorf("no usable token at %s (run with -auth first): %w", tokenPath, err)
	}
	return tok, tokenPath, nil
}

// Authorize runs the interactive consent flow and caches the obtained token.
func Authorize(ctx context.Context) error {
	config, err := GetConfig()
	if err != nil {
		return err
	}

	tok, err := getTokenFromWeb(ctx, config)
	if err != nil {
		return err
	}

	configDir, err := GetXdgHome()
	if err != nil {
		return err
	}
	saveToken(filepath.Join(configDir, TokenFile), tok)
	return nil
}

// getTokenFromWeb runs the authorization code flow through a short-lived
// local HTTP server capturing the redirect.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string)
	errCh := make(chan error)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in redirect URL")
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// AccessTypeOffline so Google returns a refresh token.
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open the following URL in your browser to authorize manabasync:\n%s\n", authURL)
	log.Println("Waiting for authorization code...")

	select {
	case authCode := <-codeCh:
		exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(exchangeCtx, authCode)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		server.Shutdown(exchangeCtx)
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(5 * time.Minute):
		server.Shutdown(context.Background())
		return nil, fmt.Errorf("authorization timed out, please try again")
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
		return nil, fmt.Errorf("failed to decode token from %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		log.Printf("Warning: could not create token directory: %v", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		log.Printf("Warning: unable to cache OAuth token to %s: %v", path, err)
		return
	}
	defer f.Close()
	json.NewEncoder(f).Encode(token)
}
