package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const flashCookieName = "flash"

// page общие поля всех страниц.
type page struct {
	Title    string
	LoggedIn bool
	UserID   int64
	Flash    string
}

type renderer struct {
	pages  map[string]*template.Template
	logger *zap.SugaredLogger
}

func newRenderer(logger *zap.SugaredLogger) *renderer {
	funcs := template.FuncMap{
		"datetime": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04") },
		"prev":     func(n int) int { return n - 1 },
		"next":     func(n int) int { return n + 1 },
	}
	pages := map[string]*template.Template{}
	for _, name := range []string{"register.html", "login.html", "dream.html", "profile.html"} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return &renderer{pages: pages, logger: logger}
}

// render выполняет шаблон в буфер, чтобы ошибка шаблона не оставила полуответ.
func (v *renderer) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := v.pages[name]
	if !ok {
		v.logger.Errorw("render: unknown template", "template", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		v.logger.Errorw("render: template failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// setFlash сохраняет одноразовое сообщение до следующей страницы.
func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash читает и сразу удаляет сообщение.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
