package session

import "time"

// Session is a read-only snapshot of the identity the hosted provider
// currently considers signed in. The provider owns the underlying record;
// gatehouse only observes it.
type Session struct {
	UID           string
	Email         string
	EmailVerified bool
	CreatedAt     time.Time
	LastSignInAt  time.Time
}

// ShortUID returns the first 8 characters of the UID for display.
func (s *Session) ShortUID() string {
	if len(s.UID) <= 8 {
		return s.UID
	}
	return s.UID[:8] + "..."
}

// FormatTime renders a session timestamp for display. Zero values render
// as "N/A" (the provider omits timestamps for some federated accounts).
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("January 2, 2006 03:04 PM")
}
