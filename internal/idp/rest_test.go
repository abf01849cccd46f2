package idp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkerns/gatehouse/internal/session"
)

// fakeIDToken builds an unsigned JWT carrying the given claims, enough
// for the client's unverified claim decode.
func fakeIDToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "."
}

func providerError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":{"code":%d,"message":%q}}`, status, message)
}

func TestSignInSuccess(t *testing.T) {
	token := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))

		switch r.URL.Path {
		case "/v1/accounts:signInWithPassword":
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "a@b.com", req["email"])
			assert.Equal(t, true, req["returnSecureToken"])

			json.NewEncoder(w).Encode(map[string]any{
				"idToken": token,
				"email":   "a@b.com",
				"localId": "uid-123",
			})
		case "/v1/accounts:lookup":
			json.NewEncoder(w).Encode(map[string]any{
				"users": []map[string]any{{
					"localId":       "uid-123",
					"email":         "a@b.com",
					"emailVerified": true,
					"createdAt":     "1700000000000",
					"lastLoginAt":   "1700000100000",
				}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	token = fakeIDToken(t, map[string]any{"sub": "uid-123", "email": "a@b.com", "email_verified": true})

	sessions := session.NewStore()
	client := NewREST(server.URL, "test-key", sessions)

	sess, err := client.SignIn(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "uid-123", sess.UID)
	assert.Equal(t, "a@b.com", sess.Email)
	assert.True(t, sess.EmailVerified)
	assert.Equal(t, time.UnixMilli(1700000000000), sess.CreatedAt)
	assert.Equal(t, time.UnixMilli(1700000100000), sess.LastSignInAt)

	// A successful sign-in becomes the current session.
	require.NotNil(t, sessions.Current())
	assert.Equal(t, "uid-123", sessions.Current().UID)
}

func TestSignInRejected(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    Code
	}{
		{"wrong password", http.StatusBadRequest, "INVALID_PASSWORD", CodeWrongPassword},
		{"unknown email", http.StatusBadRequest, "EMAIL_NOT_FOUND", CodeUserNotFound},
		{"rate limited", http.StatusBadRequest, "TOO_MANY_ATTEMPTS_TRY_LATER : Try again later.", CodeTooManyRequests},
		{"unmapped", http.StatusBadRequest, "OPERATION_NOT_ALLOWED", CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				providerError(w, tt.status, tt.message)
			}))
			defer server.Close()

			sessions := session.NewStore()
			client := NewREST(server.URL, "test-key", sessions)

			_, err := client.SignIn(context.Background(), "a@b.com", "wrong")
			require.Error(t, err)
			assert.Equal(t, tt.want, CodeOf(err))
			// Rejections never touch the current session.
			assert.Nil(t, sessions.Current())
		})
	}
}

func TestSignUpRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/accounts:signUp", r.URL.Path)
		providerError(w, http.StatusBadRequest, "EMAIL_EXISTS")
	}))
	defer server.Close()

	client := NewREST(server.URL, "test-key", session.NewStore())
	_, err := client.SignUp(context.Background(), "a@b.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, CodeEmailInUse, CodeOf(err))
}

func TestSendPasswordReset(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/accounts:sendOobCode", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"email":"a@b.com"}`)
	}))
	defer server.Close()

	client := NewREST(server.URL, "test-key", session.NewStore())
	require.NoError(t, client.SendPasswordReset(context.Background(), "a@b.com"))

	assert.Equal(t, "PASSWORD_RESET", got["requestType"])
	assert.Equal(t, "a@b.com", got["email"])
}

func TestNetworkFailureClassified(t *testing.T) {
	// A server that is not there at all: transport errors map to the
	// network-failure code, not to unknown.
	client := NewREST("http://127.0.0.1:0", "test-key", session.NewStore())
	_, err := client.SignIn(context.Background(), "a@b.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, CodeNetworkFailure, CodeOf(err))
}

func TestSignInToleratesLookupFailure(t *testing.T) {
	// Lookup breaking only costs the metadata; the sign-in still
	// succeeds with identity from the token claims.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/accounts:signInWithPassword":
			json.NewEncoder(w).Encode(map[string]any{
				"idToken": fakeIDToken(t, map[string]any{"sub": "uid-9", "email_verified": false}),
				"email":   "a@b.com",
				"localId": "uid-9",
			})
		default:
			providerError(w, http.StatusInternalServerError, "INTERNAL")
		}
	}))
	defer server.Close()

	client := NewREST(server.URL, "test-key", session.NewStore())
	sess, err := client.SignIn(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-9", sess.UID)
	assert.False(t, sess.EmailVerified)
	assert.True(t, sess.CreatedAt.IsZero())
}

func TestSignOutClearsSession(t *testing.T) {
	sessions := session.NewStore()
	sessions.Set(&session.Session{UID: "uid-1"})

	client := NewREST("http://unused", "test-key", sessions)
	require.NoError(t, client.SignOut(context.Background()))
	assert.Nil(t, sessions.Current())
}
