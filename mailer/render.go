package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
	_ "time/tzdata"

	"tutorcrm-backend/utils"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

// Renderer holds the parsed template sets. Each render clones them so the
// recipient's timezone can be bound into the template funcs.
type Renderer struct {
	text *texttemplate.Template
	html *htmltemplate.Template
	now  func() time.Time
}

func NewRenderer() (*Renderer, error) {
	text, err := texttemplate.New("text").Funcs(texttemplate.FuncMap(timeFuncs(time.UTC))).
		ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	html, err := htmltemplate.New("html").Funcs(htmltemplate.FuncMap(timeFuncs(time.UTC))).
		ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	return &Renderer{text: text, html: html, now: time.Now}, nil
}

// Render executes the "<name>.subject", "<name>.text" and "<name>.html" blocks.
// The html block is optional.
func (r *Renderer) Render(name string, ctx map[string]any, timezone string) (Rendered, error) {
	loc := utils.LoadLocation(timezone)
	funcs := timeFuncs(loc)

	data := make(map[string]any, len(ctx)+2)
	for k, v := range ctx {
		data[k] = v
	}
	data["now"] = r.now().In(loc)
	data["timezone"] = loc.String()

	text, err := r.text.Clone()
	if err != nil {
		return Rendered{}, err
	}
	text.Funcs(texttemplate.FuncMap(funcs))
	if text.Lookup(name+".subject") == nil {
		return Rendered{}, fmt.Errorf("mailer: unknown template %q", name)
	}

	var out Rendered
	var buf bytes.Buffer
	if err := text.ExecuteTemplate(&buf, name+".subject", data); err != nil {
		return Rendered{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	out.Subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := text.ExecuteTemplate(&buf, name+".text", data); err != nil {
		return Rendered{}, fmt.Errorf("render %s text: %w", name, err)
	}
	out.Text = strings.TrimSpace(buf.String())

	html, err := r.html.Clone()
	if err != nil {
		return Rendered{}, err
	}
	html.Funcs(htmltemplate.FuncMap(funcs))
	if html.Lookup(name+".html") != nil {
		buf.Reset()
		if err := html.ExecuteTemplate(&buf, name+".html", data); err != nil {
			return Rendered{}, fmt.Errorf("render %s html: %w", name, err)
		}
		out.HTML = buf.String()
	}
	return out, nil
}

func timeFuncs(loc *time.Location) map[string]any {
	return map[string]any{
		"localtime": func(t time.Time) time.Time { return t.In(loc) },
		"date":      func(t time.Time) string { return t.Format("January 2, 2006") },
		"clock":     func(t time.Time) string { return t.Format("15:04 MST") },
	}
}
