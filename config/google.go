package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
)

var (
	ErrGoogleDisabled = errors.New("google sign-in is not configured")
	ErrGoogleAudience = errors.New("google token was issued to another client")
)

type GoogleConfig struct {
	Config       *oauth2.Config
	UserInfoURL  string
	TokenInfoURL string
}

type googleTokenInfo struct {
	Audience        string `json:"aud"`
	AuthorizedParty string `json:"azp"`
}

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

// NewGoogleConfig returns nil when no client credentials are configured.
func NewGoogleConfig(opts GoogleOAuth) *GoogleConfig {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil
	}
	return &GoogleConfig{
		UserInfoURL:  googleUserInfoURL,
		TokenInfoURL: googleTokenInfoURL,
		Config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (g *GoogleConfig) ExchangeCode(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	if g == nil {
		return nil, ErrGoogleDisabled
	}
	var opts []oauth2.AuthCodeOption
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}
	return g.Config.Exchange(ctx, code, opts...)
}

func (g *GoogleConfig) GetUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	if g == nil {
		return nil, ErrGoogleDisabled
	}
	client := resty.NewWithClient(g.Config.Client(ctx, token))

	userInfo := &GoogleUserInfo{}
	resp, err := client.R().SetContext(ctx).SetResult(userInfo).Get(g.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info: %s", resp.Status())
	}
	if userInfo.Email == "" {
		return nil, errors.New("google account has no email")
	}
	return userInfo, nil
}

// VerifyAccessToken rejects access tokens that were not minted for our OAuth client.
func (g *GoogleConfig) VerifyAccessToken(ctx context.Context, accessToken string) error {
	if g == nil {
		return ErrGoogleDisabled
	}
	info := &googleTokenInfo{}
	resp, err := resty.New().SetTimeout(10*time.Second).R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		SetResult(info).
		Get(g.TokenInfoURL)
	if err != nil {
		return fmt.Errorf("failed to get token info: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("failed to get token info: %s", resp.Status())
	}
	if info.Audience != g.Config.ClientID && info.AuthorizedParty != g.Config.ClientID {
		return ErrGoogleAudience
	}
	return nil
}
