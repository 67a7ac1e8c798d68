package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

var ErrNoSubject = errors.New("identity provider returned no subject")

// Profile is the subset of userinfo claims the app stores.
type Profile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Profile, error)
}

// Auth0 runs the authorization-code flow against an Auth0 tenant.
type Auth0 struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewAuth0(domain, clientID, clientSecret, callbackURL string) *Auth0 {
	base := strings.TrimRight(domain, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return &Auth0{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + "/authorize",
				TokenURL: base + "/oauth/token",
			},
		},
		userInfoURL: base + "/userinfo",
	}
}

func (a *Auth0) AuthCodeURL(state string) string {
	return a.cfg.AuthCodeURL(state)
}

func (a *Auth0) Exchange(ctx context.Context, code string) (Profile, error) {
	tok, err := a.cfg.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userInfoURL, nil)
	if err != nil {
		return Profile{}, err
	}
	resp, err := a.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Profile{}, fmt.Errorf("userinfo: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("userinfo: %w", err)
	}
	if p.Subject == "" {
		return Profile{}, ErrNoSubject
	}
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	return p, nil
}

// NewState returns a random value for the OAuth state cookie.
func NewState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
