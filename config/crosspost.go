package config

import "os"

// CrossPostConfig holds the OAuth1.0a consumer credentials and endpoints
// for the external social network posts can be cross-posted to.
type CrossPostConfig struct {
	ConsumerKey     string
	ConsumerSecret  string
	CallbackURL     string
	RequestTokenURL string
	AuthorizeURL    string
	AccessTokenURL  string
	UpdateURL       string
	VerifyURL       string
}

// NewCrossPostConfig returns nil when cross-posting is not configured;
// callers treat a nil config as the feature being disabled.
func NewCrossPostConfig() *CrossPostConfig {
	key := os.Getenv("CROSSPOST_CONSUMER_KEY")
	secret := os.Getenv("CROSSPOST_CONSUMER_SECRET")
	if key == "" || secret == "" {
		return nil
	}

	return &CrossPostConfig{
		ConsumerKey:     key,
		ConsumerSecret:  secret,
		CallbackURL:     os.Getenv("CROSSPOST_CALLBACK_URL"),
		RequestTokenURL: os.Getenv("CROSSPOST_REQUEST_TOKEN_URL"),
		AuthorizeURL:    os.Getenv("CROSSPOST_AUTHORIZE_URL"),
		AccessTokenURL:  os.Getenv("CROSSPOST_ACCESS_TOKEN_URL"),
		UpdateURL:       os.Getenv("CROSSPOST_UPDATE_URL"),
		VerifyURL:       os.Getenv("CROSSPOST_VERIFY_URL"),
	}
}
