package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/joestump/joe-tasks/internal/config"
)

// Identity is what a verified ID token says about the person logging in.
type Identity struct {
	Issuer  string `json:"-"`
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Provider runs the authorization code flow against one OIDC issuer.
type Provider struct {
	verifier *gooidc.IDTokenVerifier
	oauth2   oauth2.Config
}

// NewProvider discovers the issuer's endpoints and keys.
func NewProvider(ctx context.Context, cfg *config.Config) (*Provider, error) {
	discovered, err := gooidc.NewProvider(ctx, cfg.OIDC.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc issuer %s: %w", cfg.OIDC.Issuer, err)
	}

	return &Provider{
		verifier: discovered.Verifier(&gooidc.Config{ClientID: cfg.OIDC.ClientID}),
		oauth2: oauth2.Config{
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
			Endpoint:     discovered.Endpoint(),
			Scopes:       []string{gooidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

// AuthCodeURL returns the issuer's login URL for state and an S256 PKCE challenge.
func (p *Provider) AuthCodeURL(state, codeChallenge string) string {
	return p.oauth2.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Identify redeems an authorization code and returns the verified identity.
func (p *Provider) Identify(ctx context.Context, code, codeVerifier string) (*Identity, error) {
	token, err := p.oauth2.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	raw, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("token response has no id_token")
	}
	idToken, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}

	id := &Identity{Issuer: idToken.Issuer}
	if err := idToken.Claims(id); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	if id.Subject == "" {
		id.Subject = idToken.Subject
	}
	return id, nil
}

// GenerateState returns a random URL-safe state value.
func GenerateState() (string, error) {
	return randomString(32)
}

// GeneratePKCE returns a PKCE verifier and its S256 challenge.
func GeneratePKCE() (verifier, challenge string, err error) {
	verifier, err = randomString(64)
	if err != nil {
		return "", "", err
	}
	return verifier, pkceChallenge(verifier), nil
}

func pkceChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
