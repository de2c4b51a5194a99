package handlers

import (
	"net/http"

	"apotek/internal/auth"
	"apotek/internal/logger"
	"apotek/internal/services"
)

type HistoryHandler struct {
	page
	inventory *services.InventoryService
}

func NewHistoryHandler(templates TemplateExecutor, sessions *auth.SessionManager, inventory *services.InventoryService, log logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		page:      page{templates: templates, sessions: sessions, logger: log},
		inventory: inventory,
	}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	logs, err := h.inventory.History(r.Context())
	if err != nil {
		h.serverError(w, "Failed to get audit logs", err, nil)
		return
	}

	h.render(w, r, "riwayat.html", map[string]interface{}{
		"Title":      "Riwayat",
		"ActivePage": "riwayat",
		"Logs":       logs,
	})
}
