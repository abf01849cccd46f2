package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tkerns/gatehouse/internal/logger"
	"github.com/tkerns/gatehouse/internal/session"
)

const defaultTimeout = 15 * time.Second

// REST talks to an identity-toolkit style hosted auth API. Successful
// sign-in and sign-up make the returned session current in the store;
// sign-out clears it. The provider performs all credential verification
// and hashing; this client only moves JSON.
type REST struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	sessions *session.Store
}

// NewREST creates a provider client against baseURL, authenticating
// requests with apiKey. Sessions observed from the provider are written
// to sessions.
func NewREST(baseURL, apiKey string, sessions *session.Store) *REST {
	return &REST{
		baseURL:  baseURL,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: defaultTimeout},
		sessions: sessions,
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken string `json:"idToken"`
	Email   string `json:"email"`
	LocalID string `json:"localId"`
}

type oobRequest struct {
	RequestType string `json:"requestType"`
	Email       string `json:"email"`
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
		CreatedAt     string `json:"createdAt"`
		LastLoginAt   string `json:"lastLoginAt"`
	} `json:"users"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn validates credentials with the provider and, on success, makes
// the resulting session current.
func (c *REST) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	var resp signInResponse
	err := c.post(ctx, "accounts:signInWithPassword", signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	sess := c.buildSession(ctx, resp)
	c.sessions.Set(sess)
	return sess, nil
}

// SignUp creates the account and signs it in.
func (c *REST) SignUp(ctx context.Context, email, password string) (*session.Session, error) {
	var resp signInResponse
	err := c.post(ctx, "accounts:signUp", signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	sess := c.buildSession(ctx, resp)
	c.sessions.Set(sess)
	return sess, nil
}

// SendPasswordReset queues a reset email on the provider side.
func (c *REST) SendPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "accounts:sendOobCode", oobRequest{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}, nil)
}

// SignOut drops the current session. The provider holds no server-side
// session to revoke for this flow; forgetting the tokens is the whole
// operation.
func (c *REST) SignOut(_ context.Context) error {
	c.sessions.Clear()
	return nil
}

// buildSession assembles a session snapshot from the sign-in response,
// enriched with account metadata from a lookup call. Lookup failures are
// tolerated: the ID token's own claims cover identity, only the
// timestamps are lost.
func (c *REST) buildSession(ctx context.Context, resp signInResponse) *session.Session {
	sess := &session.Session{
		UID:          resp.LocalID,
		Email:        resp.Email,
		LastSignInAt: time.Now(),
	}
	applyTokenClaims(sess, resp.IDToken)

	var lookup lookupResponse
	if err := c.post(ctx, "accounts:lookup", lookupRequest{IDToken: resp.IDToken}, &lookup); err != nil {
		logger.Warn("account lookup failed, session metadata incomplete", "error", err)
		return sess
	}
	if len(lookup.Users) == 0 {
		return sess
	}
	u := lookup.Users[0]
	sess.EmailVerified = u.EmailVerified
	if t, ok := parseMillis(u.CreatedAt); ok {
		sess.CreatedAt = t
	}
	if t, ok := parseMillis(u.LastLoginAt); ok {
		sess.LastSignInAt = t
	}
	return sess
}

// applyTokenClaims fills identity fields from the ID token. The token
// arrived over TLS directly from the issuer, so claims are decoded
// without signature verification; nothing security-sensitive hangs off
// them (the provider re-checks the token on every API call).
func applyTokenClaims(sess *session.Session, rawToken string) {
	if rawToken == "" {
		return
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		logger.Debug("could not decode id token claims", "error", err)
		return
	}
	if sub, _ := claims["sub"].(string); sub != "" && sess.UID == "" {
		sess.UID = sub
	}
	if email, _ := claims["email"].(string); email != "" && sess.Email == "" {
		sess.Email = email
	}
	if verified, ok := claims["email_verified"].(bool); ok {
		sess.EmailVerified = verified
	}
}

func (c *REST) post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return NewError(CodeUnknown, err.Error())
	}

	url := fmt.Sprintf("%s/v1/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return NewError(CodeUnknown, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return NewError(CodeNetworkFailure, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewError(CodeNetworkFailure, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil || envelope.Error.Message == "" {
			return NewError(CodeUnknown, fmt.Sprintf("http %d", resp.StatusCode))
		}
		return NewError(codeFromWire(envelope.Error.Message), envelope.Error.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewError(CodeUnknown, err.Error())
	}
	return nil
}

// parseMillis parses the provider's millisecond-epoch string timestamps.
func parseMillis(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
