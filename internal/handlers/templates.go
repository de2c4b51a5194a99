package handlers

import (
	"bytes"
	"html/template"
	"io"
	"net/http"
	"time"

	"apotek/internal/auth"
	"apotek/internal/logger"
	"apotek/internal/middleware"
	"apotek/internal/models"
	"apotek/internal/services"
)

// TemplateExecutor is an interface for template execution
// This allows both *template.Template and custom template registries to be used
type TemplateExecutor interface {
	ExecuteTemplate(wr io.Writer, name string, data interface{}) error
}

// TemplateFuncs are the helpers available to every page.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"rupiah":      FormatRupiah,
		"date":        FormatDate,
		"dateTime":    FormatDateTime,
		"inputDate":   FormatInputDate,
		"expiryClass": expiryClass,
	}
}

// page carries what every HTML handler needs to render and to leave notices.
type page struct {
	templates TemplateExecutor
	sessions  *auth.SessionManager
	logger    logger.Logger
}

func (p *page) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["User"] = middleware.GetUser(r)
	data["Flashes"] = p.sessions.Flashes(w, r)

	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		p.serverError(w, "Template error", err, map[string]interface{}{"template": name})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (p *page) flashRedirect(w http.ResponseWriter, r *http.Request, category, message, target string) {
	if err := p.sessions.AddFlash(w, r, category, message); err != nil {
		p.logger.Warn("Failed to store flash", map[string]interface{}{"error": err})
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (p *page) serverError(w http.ResponseWriter, msg string, err error, fields map[string]interface{}) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["error"] = err
	p.logger.Error(msg, fields)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func expiryClass(m models.Medicine, today time.Time) string {
	alert := services.EvaluateExpiry(m, today)
	if alert == nil {
		return ""
	}
	if alert.Kind == models.AlertExpired {
		return "expired"
	}
	return "expiring"
}
