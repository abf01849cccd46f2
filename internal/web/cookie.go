package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	sessionCookieName = "gatehouse_session"
	sessionTTL        = 24 * time.Hour
)

// setSessionCookie issues the signed browser cookie tying this browser
// to the current provider session. The cookie carries no provider
// token, only the user id and an expiry, both HMAC-signed.
func setSessionCookie(w http.ResponseWriter, r *http.Request, secret []byte, uid string) {
	expires := time.Now().Add(sessionTTL)
	payload := fmt.Sprintf("%s|%d", uid, expires.Unix())
	value := payload + "|" + signPayload(secret, payload)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
		Secure:   r.TLS != nil,
	})
}

// readSessionCookie verifies the cookie and returns the user id.
func readSessionCookie(r *http.Request, secret []byte) (string, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", err
	}

	parts := strings.Split(cookie.Value, "|")
	if len(parts) != 3 {
		return "", errors.New("invalid session cookie format")
	}
	payload := parts[0] + "|" + parts[1]
	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", errors.New("invalid session cookie signature")
	}
	expected := hmac.New(sha256.New, secret)
	expected.Write([]byte(payload))
	if subtle.ConstantTimeCompare(signature, expected.Sum(nil)) != 1 {
		return "", errors.New("invalid session cookie signature")
	}

	expiryUnix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", errors.New("invalid session cookie expiry")
	}
	if time.Unix(expiryUnix, 0).Before(time.Now()) {
		return "", errors.New("session cookie expired")
	}
	return parts[0], nil
}

// clearSessionCookie removes the browser cookie on sign-out.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func signPayload(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
