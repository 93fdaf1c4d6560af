package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dghubble/oauth1"
	"github.com/snapgram/api-go/config"
)

// TokenExchange is the result of completing the OAuth handshake.
type TokenExchange struct {
	AccountID    string
	AccessToken  string
	AccessSecret string
	Handle       string
}

// CrossPostGateway talks to the external social network. Any non-success
// response surfaces as an error; callers never retry automatically.
type CrossPostGateway interface {
	RequestToken(ctx context.Context) (token, secret, authorizeURL string, err error)
	ExchangeToken(ctx context.Context, requestToken, requestSecret, verifier string) (*TokenExchange, error)
	PostMedia(ctx context.Context, accessToken, accessSecret, text, mediaURL string) (externalPostID string, err error)
}

// OAuth1Gateway signs requests with OAuth1.0a. The signing itself is
// delegated entirely to the oauth1 library.
type OAuth1Gateway struct {
	cfg    *config.CrossPostConfig
	oauth  *oauth1.Config
	client *http.Client
}

func NewOAuth1Gateway(cfg *config.CrossPostConfig) *OAuth1Gateway {
	return &OAuth1Gateway{
		cfg: cfg,
		oauth: &oauth1.Config{
			ConsumerKey:    cfg.ConsumerKey,
			ConsumerSecret: cfg.ConsumerSecret,
			CallbackURL:    cfg.CallbackURL,
			Endpoint: oauth1.Endpoint{
				RequestTokenURL: cfg.RequestTokenURL,
				AuthorizeURL:    cfg.AuthorizeURL,
				AccessTokenURL:  cfg.AccessTokenURL,
			},
		},
	}
}

func (g *OAuth1Gateway) RequestToken(ctx context.Context) (string, string, string, error) {
	token, secret, err := g.oauth.RequestToken()
	if err != nil {
		return "", "", "", fmt.Errorf("request token: %w", err)
	}

	authURL, err := g.oauth.AuthorizationURL(token)
	if err != nil {
		return "", "", "", fmt.Errorf("authorization url: %w", err)
	}

	return token, secret, authURL.String(), nil
}

type accountInfo struct {
	ID         string `json:"id_str"`
	ScreenName string `json:"screen_name"`
}

func (g *OAuth1Gateway) ExchangeToken(ctx context.Context, requestToken, requestSecret, verifier string) (*TokenExchange, error) {
	accessToken, accessSecret, err := g.oauth.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return nil, fmt.Errorf("access token exchange: %w", err)
	}

	// The token response alone does not identify the account; verify the
	// credentials to learn who we are now posting as.
	client := g.oauth.Client(ctx, oauth1.NewToken(accessToken, accessSecret))
	resp, err := client.Get(g.cfg.VerifyURL)
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify credentials: unexpected status %d", resp.StatusCode)
	}

	var info accountInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	return &TokenExchange{
		AccountID:    info.ID,
		AccessToken:  accessToken,
		AccessSecret: accessSecret,
		Handle:       info.ScreenName,
	}, nil
}

type postResponse struct {
	ID string `json:"id_str"`
}

func (g *OAuth1Gateway) PostMedia(ctx context.Context, accessToken, accessSecret, text, mediaURL string) (string, error) {
	status := text
	if mediaURL != "" {
		status = strings.TrimSpace(text + " " + mediaURL)
	}

	form := url.Values{}
	form.Set("status", status)

	client := g.oauth.Client(ctx, oauth1.NewToken(accessToken, accessSecret))
	resp, err := client.PostForm(g.cfg.UpdateURL, form)
	if err != nil {
		return "", fmt.Errorf("post media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("post media: unexpected status %d", resp.StatusCode)
	}

	var posted postResponse
	if err := json.NewDecoder(resp.Body).Decode(&posted); err != nil {
		return "", fmt.Errorf("post media: %w", err)
	}

	return posted.ID, nil
}
