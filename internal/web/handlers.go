package web

import (
	"net/http"

	"github.com/tkerns/gatehouse/internal/flow"
	"github.com/tkerns/gatehouse/internal/idp"
	"github.com/tkerns/gatehouse/internal/logger"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.signedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	s.render(w, "login.html", pageData{Title: "Sign In"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	email := r.FormValue("email")
	password := r.FormValue("password")

	res := s.login.Submit(r.Context(), email, password)
	if res.Redirect != "" {
		if sess := s.sessions.Current(); sess != nil {
			setSessionCookie(w, r, s.secret, sess.UID)
		}
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
		return
	}
	// Failure keeps the screen: error shown inline, email retained.
	s.render(w, "login.html", pageData{Title: "Sign In", Error: res.Error, Email: email})
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Create Account"}
	if r.URL.Query().Get("error") == "popup" {
		data.Error = flow.Classify(flow.OpPopup, idp.CodePopupFailed)
	}
	s.render(w, "register.html", data)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	email := r.FormValue("email")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	res := s.register.Submit(r.Context(), email, password, confirm)
	if res.Redirect != "" {
		if sess := s.sessions.Current(); sess != nil {
			setSessionCookie(w, r, s.secret, sess.UID)
		}
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
		return
	}
	s.render(w, "register.html", pageData{Title: "Create Account", Error: res.Error, Email: email})
}

func (s *Server) handleForgotPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "forgot.html", pageData{Title: "Reset Password"})
}

func (s *Server) handleForgot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	email := r.FormValue("email")

	res := s.reset.Submit(r.Context(), email)
	data := pageData{Title: "Reset Password", Error: res.Error, Message: res.Message}
	if !res.ClearInput {
		data.Email = email
	}
	s.render(w, "forgot.html", data)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.render(w, "dashboard.html", pageData{
		Title: "Dashboard",
		User:  s.sessions.Current(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.client.SignOut(r.Context()); err != nil {
		// Sign-out failures are logged, never surfaced; the browser
		// cookie is cleared regardless.
		logger.Error("sign-out failed", "error", err)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleOAuthStart(w http.ResponseWriter, r *http.Request) {
	if err := s.oauth.Start(w, r); err != nil {
		logger.Error("oauth start failed", "error", err)
		http.Redirect(w, r, "/register?error=popup", http.StatusFound)
	}
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	sess, err := s.oauth.Callback(w, r)
	if err != nil {
		logger.Error("oauth callback failed", "error", err)
		http.Redirect(w, r, "/register?error=popup", http.StatusFound)
		return
	}
	s.sessions.Set(sess)
	setSessionCookie(w, r, s.secret, sess.UID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// signedIn reports whether the request carries a valid session.
func (s *Server) signedIn(r *http.Request) bool {
	uid, err := readSessionCookie(r, s.secret)
	if err != nil {
		return false
	}
	current := s.sessions.Current()
	return current != nil && current.UID == uid
}
