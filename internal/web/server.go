// Package web serves the four authentication screens and routes their
// submissions through the flow state machines. It owns no identity
// state of its own: the provider client and session store are handed in.
package web

import (
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tkerns/gatehouse/internal/config"
	"github.com/tkerns/gatehouse/internal/flow"
	"github.com/tkerns/gatehouse/internal/idp"
	"github.com/tkerns/gatehouse/internal/notify"
	"github.com/tkerns/gatehouse/internal/session"
)

// Server renders the screens and drives the flows.
type Server struct {
	client   idp.Client
	sessions *session.Store
	toasts   *notify.Center
	oauth    *OAuth
	secret   []byte

	login     *flow.Login
	register  *flow.Register
	reset     *flow.Reset
	templates map[string]*template.Template
}

// New assembles the web server. oauth may be nil, which hides the
// Google sign-in button.
func New(cfg *config.Config, client idp.Client, sessions *session.Store, toasts *notify.Center, oauth *OAuth) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		client:    client,
		sessions:  sessions,
		toasts:    toasts,
		oauth:     oauth,
		secret:    []byte(cfg.CookieSecret),
		login:     flow.NewLogin(client),
		register:  flow.NewRegister(client),
		reset:     flow.NewReset(client, toasts),
		templates: templates,
	}, nil
}

// Routes builds the router for the four screens and their supporting
// endpoints.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleLoginPage).Methods("GET")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/register", s.handleRegisterPage).Methods("GET")
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/forgot-password", s.handleForgotPage).Methods("GET")
	r.HandleFunc("/forgot-password", s.handleForgot).Methods("POST")
	r.HandleFunc("/dashboard", s.requireSession(s.handleDashboard)).Methods("GET")
	r.HandleFunc("/logout", s.handleLogout).Methods("POST")
	r.HandleFunc("/events", s.handleEvents).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	if s.oauth != nil {
		r.HandleFunc("/auth/google", s.handleOAuthStart).Methods("GET")
		r.HandleFunc("/auth/callback", s.handleOAuthCallback).Methods("GET")
	}

	return r
}

// requireSession guards the dashboard: a valid browser cookie and a
// live provider session are both required, otherwise the browser is
// sent back to the sign-in screen.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := readSessionCookie(r, s.secret)
		if err != nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		current := s.sessions.Current()
		if current == nil || current.UID != uid {
			clearSessionCookie(w)
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next(w, r)
	}
}
