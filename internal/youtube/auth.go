package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// NewService builds an authenticated Data API service. clientSecrets is the
// OAuth client file downloaded from the Google Cloud console; tokenFile caches
// the granted token between runs. When no cached token exists the user is
// walked through the console authorization flow once.
func NewService(ctx context.Context, clientSecrets, tokenFile string) (*youtube.Service, error) {
	data, err := os.ReadFile(clientSecrets)
	if err != nil {
		return nil, fmt.Errorf("read client secrets %s: %w (download it from the Google Cloud console)", clientSecrets, err)
	}

	cfg, err := google.ConfigFromJSON(data, youtube.YoutubeForceSslScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}

	token, err := tokenFromFile(tokenFile)
	if err != nil {
		token, err = tokenFromConsole(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, token); err != nil {
			return nil, err
		}
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return service, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("decode cached token %s: %w", path, err)
	}
	return token, nil
}

func tokenFromConsole(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Printf("Visit this URL to authorize the application:\n%s\n\nEnter the authorization code: ", url)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("save token %s: %w", path, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return nil
}
