package web

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/tkerns/gatehouse/internal/config"
	"github.com/tkerns/gatehouse/internal/session"
)

const (
	stateCookieName = "gatehouse_oauth_state"
	stateTimeout    = 10 * time.Minute
)

// OAuth implements the Google sign-in path: an authorization-code
// redirect standing in for the original popup. It bypasses local form
// validation entirely; the provider vouches for the identity.
type OAuth struct {
	verifier *oidc.IDTokenVerifier
	config   *oauth2.Config
	secret   []byte
}

// NewOAuth discovers the issuer and prepares the redirect flow.
func NewOAuth(ctx context.Context, cfg config.Google, secret []byte) (*OAuth, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}
	return &OAuth{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			Endpoint:     provider.Endpoint(),
		},
		secret: secret,
	}, nil
}

type statePayload struct {
	State     string `json:"state"`
	Nonce     string `json:"nonce"`
	ExpiresAt int64  `json:"expires_at"`
}

// Start begins the authorization-code flow.
func (o *OAuth) Start(w http.ResponseWriter, r *http.Request) error {
	state, err := generateNonce()
	if err != nil {
		return err
	}
	nonce, err := generateNonce()
	if err != nil {
		return err
	}

	expires := time.Now().Add(stateTimeout)
	encoded, err := o.signJSON(statePayload{
		State:     state,
		Nonce:     nonce,
		ExpiresAt: expires.Unix(),
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
		Secure:   r.TLS != nil,
	})

	http.Redirect(w, r, o.config.AuthCodeURL(state, oidc.Nonce(nonce)), http.StatusFound)
	return nil
}

// Callback completes the flow and returns the provider-verified session.
func (o *OAuth) Callback(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		return nil, errors.New("missing code or state")
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil {
		return nil, errors.New("missing auth state")
	}
	var stateData statePayload
	if err := o.verifyJSON(cookie.Value, &stateData); err != nil {
		return nil, err
	}
	if stateData.ExpiresAt < time.Now().Unix() {
		return nil, errors.New("state expired")
	}
	if subtle.ConstantTimeCompare([]byte(state), []byte(stateData.State)) != 1 {
		return nil, errors.New("invalid state")
	}

	clearStateCookie(w)

	token, err := o.config.Exchange(r.Context(), code)
	if err != nil {
		return nil, err
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("missing id_token")
	}

	idToken, err := o.verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		return nil, err
	}
	if idToken.Nonce != stateData.Nonce {
		return nil, errors.New("invalid nonce")
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}

	return &session.Session{
		UID:           idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		LastSignInAt:  time.Now(),
	}, nil
}

func (o *OAuth) signJSON(payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, o.secret)
	mac.Write(data)
	return base64.RawURLEncoding.EncodeToString(data) + "." +
		base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

func (o *OAuth) verifyJSON(value string, out any) error {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return errors.New("invalid state format")
	}
	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return errors.New("invalid state payload")
	}
	signature, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return errors.New("invalid state signature")
	}
	expected := hmac.New(sha256.New, o.secret)
	expected.Write(data)
	if subtle.ConstantTimeCompare(signature, expected.Sum(nil)) != 1 {
		return errors.New("invalid state signature")
	}
	return json.Unmarshal(data, out)
}

func generateNonce() (string, error) {
	random := make([]byte, 32)
	if _, err := rand.Read(random); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(random), nil
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
