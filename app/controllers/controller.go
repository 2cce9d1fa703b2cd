package controllers

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"myblog/app/middleware"
	"myblog/app/models"
	"myblog/app/repositories"
	"myblog/app/services"
	"myblog/app/session"
	"myblog/app/views"
)

// base carries what every controller needs to answer a request
type base struct {
	templates map[string]*template.Template
	log       *zap.Logger
}

// render executes a page into a buffer so a template failure never leaves a
// half-written response. Pending notices are consumed and the session saved.
func (b *base) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}) {
	tmpl, ok := b.templates[name]
	if !ok {
		b.log.Error("missing template", zap.String("name", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s := session.FromContext(r.Context())
	page := views.Page{
		Title:   title,
		User:    s.User(),
		Notices: s.Notices(),
		Data:    data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		b.log.Error("template error", zap.String("name", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := s.Save(w); err != nil {
		b.log.Warn("failed to save session", zap.Error(err))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// redirect queues a notice and sends the client to target
func (b *base) redirect(w http.ResponseWriter, r *http.Request, kind, message, target string) {
	s := session.FromContext(r.Context())
	s.Flash(kind, message)
	if err := s.Save(w); err != nil {
		b.log.Warn("failed to save session", zap.Error(err))
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// back turns a user-correctable error into an error notice and a redirect to
// the referring page. Anything else goes to fail.
func (b *base) back(w http.ResponseWriter, r *http.Request, err error, notFound, fallback string) {
	var message string
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		message = verr.Message
	case errors.Is(err, services.ErrPermission):
		message = "No permission!"
	case errors.Is(err, repositories.ErrNotFound):
		message = notFound
	default:
		b.fail(w, r, err)
		return
	}
	b.redirect(w, r, session.Error, message, middleware.Back(r, fallback))
}

// fail is the error boundary for requests with nowhere sensible to go back to
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		b.render(w, r, http.StatusNotFound, "error", "Not Found", views.ErrorData{
			Status:  http.StatusNotFound,
			Message: "Nothing here.",
		})
		return
	}

	b.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	b.render(w, r, http.StatusInternalServerError, "error", "Error", views.ErrorData{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong.",
	})
}

// currentUser returns the signed-in user. Routes that call it sit behind RequireLogin.
func currentUser(r *http.Request) *models.Author {
	if u := session.FromContext(r.Context()).User(); u != nil {
		return u
	}
	return &models.Author{}
}
