package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/tkerns/gatehouse/internal/logger"
	"github.com/tkerns/gatehouse/internal/notify"
	"github.com/tkerns/gatehouse/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageFiles = []string{"login.html", "register.html", "forgot.html", "dashboard.html"}

// pageData feeds the screen templates. Error and Message are mutually
// exclusive within one submission cycle.
type pageData struct {
	Title   string
	Error   string
	Message string

	// Retained form inputs.
	Email string

	GoogleEnabled bool
	Toasts        []notify.Notification
	User          *session.Session
}

// parseTemplates builds one template set per screen, each sharing the
// layout.
func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"formatTime": session.FormatTime,
	}
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, page := range pageFiles {
		tmpl, err := template.New(page).Funcs(funcs).
			ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		pages[page] = tmpl
	}
	return pages, nil
}

// render writes a screen. Template failures are a programming error;
// they are logged and surfaced as a bare 500.
func (s *Server) render(w http.ResponseWriter, page string, data pageData) {
	data.GoogleEnabled = s.oauth != nil
	data.Toasts = s.toasts.Active()

	tmpl, ok := s.templates[page]
	if !ok {
		logger.Error("unknown template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		logger.Error("render failed", "page", page, "error", err)
	}
}
