package frontend

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed views/*.html
var templateFS embed.FS

const viewsPattern = "views/*.html"

// Raw HTML in stories is omitted since WithUnsafe is not set.
var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

type Template struct {
	templates *template.Template
}

func NewTemplate() *Template {
	return &Template{
		templates: template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, viewsPattern)),
	}
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

var templateFuncs = template.FuncMap{
	"markdown": renderMarkdown,
	"imageURL": safeImageURL,
}

func renderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		slog.Warn("failed to render story markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}

// safeImageURL lets uploaded data URLs through html/template's URL filter.
// Anything that is neither an image data URL nor http(s) is dropped.
func safeImageURL(raw string) template.URL {
	lower := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(lower, "data:image/"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"):
		return template.URL(strings.TrimSpace(raw))
	}
	return ""
}
