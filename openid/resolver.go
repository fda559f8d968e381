package openid

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/lblod/acmidm-login-service/internal/config"
	errs "github.com/lblod/acmidm-login-service/internal/errors"
)

// Resolver exchanges an authorization code for a verified claim set. Any
// failure (invalid code, unreachable provider, timeout, unverifiable token)
// surfaces as a single opaque authentication failure; partial claims are
// never returned.
type Resolver interface {
	Exchange(ctx context.Context, authorizationCode string) (Claims, error)
}

// ACMResolver resolves claims against the ACM/IDM OpenID Provider configured
// through its discovery URL.
type ACMResolver struct {
	provider     *oidc.Provider
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
	httpClient   *http.Client
	timeout      time.Duration
	log          zerolog.Logger
}

var _ Resolver = (*ACMResolver)(nil)

// NewResolver discovers the provider's endpoints once at startup.
func NewResolver(ctx context.Context, cfg config.Config, log zerolog.Logger) (*ACMResolver, error) {
	if cfg.GetDiscoveryURL() == "" || cfg.GetClientID() == "" || cfg.GetClientSecret() == "" || cfg.GetRedirectURI() == "" {
		return nil, fmt.Errorf("openid: discovery URL, client credentials and redirect URI must be configured")
	}

	httpClient := &http.Client{Timeout: cfg.GetRequestTimeout()}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, httpClient), cfg.GetDiscoveryURL())
	if err != nil {
		return nil, errs.Wrapf(err, "openid: discovering provider at %s", cfg.GetDiscoveryURL())
	}

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.GetClientID(),
		ClientSecret: cfg.GetClientSecret(),
		RedirectURL:  cfg.GetRedirectURI(),
		Endpoint:     provider.Endpoint(),
		Scopes:       strings.Fields(cfg.GetAuthScope()),
	}

	return &ACMResolver{
		provider:     provider,
		oauth2Config: oauth2Config,
		verifier:     provider.Verifier(&oidc.Config{ClientID: cfg.GetClientID()}),
		httpClient:   httpClient,
		timeout:      cfg.GetRequestTimeout(),
		log:          log,
	}, nil
}

func (r *ACMResolver) Exchange(ctx context.Context, authorizationCode string) (Claims, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	ctx = oidc.ClientContext(ctx, r.httpClient)

	oauth2Token, err := r.oauth2Config.Exchange(ctx, authorizationCode)
	if err != nil {
		return nil, r.failure(err, "token exchange failed")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, r.failure(fmt.Errorf("no id_token in token response"), "token response incomplete")
	}

	idToken, err := r.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, r.failure(err, "ID token verification failed")
	}

	claims := Claims{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, r.failure(err, "decoding ID token claims")
	}

	// ACM/IDM puts the organization and role claims on the access token rather
	// than the ID token. The access token is accepted on the strength of the
	// verified ID token from the same response; its claims are overlaid.
	for name, value := range decodeAccessTokenClaims(oauth2Token.AccessToken) {
		claims[name] = value
	}

	return claims, nil
}

// failure logs the underlying cause and collapses it into the opaque
// authentication error the rest of the service works with.
func (r *ACMResolver) failure(err error, message string) error {
	r.log.Warn().Err(err).Msg("openid: " + message)
	return fmt.Errorf("%w: %s", errs.ErrAuthentication, message)
}

func decodeAccessTokenClaims(accessToken string) jwt.MapClaims {
	if accessToken == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		// Opaque (non-JWT) access tokens carry no claims; not an error.
		return nil
	}
	return claims
}
