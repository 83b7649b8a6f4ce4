package dashboard

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/golid-ai/dashkit/pkg/logger"
	"github.com/golid-ai/dashkit/pkg/requestid"
)

// ShellParams are passed to the page component rendered when the static
// directory holds no index.html.
type ShellParams struct {
	Title     string
	DemoMode  bool
	RequestID string
}

// DefaultShell is a bare mount point for the client bundle.
func DefaultShell(p ShellParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>` + templ.EscapeString(p.Title) + `</title></head>`)
		b.WriteString(`<body data-demo-mode="` + strconv.FormatBool(p.DemoMode) + `"`)
		b.WriteString(` data-request-id="` + templ.EscapeString(p.RequestID) + `">`)
		b.WriteString(`<div id="app"></div>`)
		b.WriteString(`</body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

type shell struct {
	root   fs.FS
	files  http.Handler
	page   func(ShellParams) templ.Component
	params ShellParams
	logger *slog.Logger
}

// newShell serves files from dir and answers every other path with
// index.html, so client-side routes load the app. Without a build in dir
// page is rendered instead.
func newShell(dir string, page func(ShellParams) templ.Component, params ShellParams, log *slog.Logger) http.Handler {
	if page == nil {
		page = DefaultShell
	}
	root := os.DirFS(dir)
	return &shell{root: root, files: http.FileServerFS(root), page: page, params: params, logger: log}
}

func (s *shell) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name != "" {
		if info, err := fs.Stat(s.root, name); err == nil && !info.IsDir() {
			s.files.ServeHTTP(w, r)
			return
		}
	}

	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if index, err := fs.ReadFile(s.root, "index.html"); err == nil {
		_, _ = w.Write(index)
		return
	}

	params := s.params
	params.RequestID = requestid.FromContext(r.Context())
	if err := s.page(params).Render(r.Context(), w); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to render shell", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
