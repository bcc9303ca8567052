package httpserver

import (
	"embed"
	"html/template"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"storefront-web/internal/dashboard"
	"storefront-web/internal/domain"
	"storefront-web/internal/storefront"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func loadTemplates(fileURLHost string) (*template.Template, error) {
	return template.New("").Funcs(templateFuncs(fileURLHost)).ParseFS(templateFS, "templates/*.html")
}

func templateFuncs(fileURLHost string) template.FuncMap {
	return template.FuncMap{
		"rupees": formatRupees,
		"date":   formatDate,
		"photoURL": func(ref string) template.URL {
			return template.URL(resolvePhoto(fileURLHost, ref))
		},
	}
}

// formatRupees prints an amount the way the API sent it, without padding.
func formatRupees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// resolvePhoto turns a photo ref into something an img tag can load.
// Server refs are paths under the file host; previews are data URLs.
func resolvePhoto(fileURLHost, ref string) string {
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "data:image/"),
		strings.HasPrefix(ref, "http://"),
		strings.HasPrefix(ref, "https://"):
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return fileURLHost + ref
}

type loginForm struct {
	Email  string
	Error  string
	Notice string
}

type pageData struct {
	Title     string
	RequestID string
	Identity  *domain.Identity
	Home      storefront.Home
	Login     loginForm
	View      dashboard.View
}
