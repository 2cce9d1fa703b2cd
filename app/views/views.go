// Package views holds the embedded page templates and static assets.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"myblog/app/models"
	"myblog/app/session"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages lists every renderable page by name
var Pages = []string{
	"posts/index",
	"posts/show",
	"posts/create",
	"posts/edit",
	"users/signup",
	"users/signin",
	"error",
}

// Page is the value every page template is executed with
type Page struct {
	Title   string
	User    *models.Author
	Notices session.Notices
	Data    interface{}
}

// ErrorData is the Data of the "error" page
type ErrorData struct {
	Status  int
	Message string
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"add": func(a, b int) int {
		return a + b
	},
}

// Load parses each page together with the shared layout and partials.
// Every page is executed through its "layout" template.
func Load() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(Pages))
	for _, name := range Pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/notices.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// Static returns the asset tree served under /static/
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
