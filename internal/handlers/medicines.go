package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"apotek/internal/auth"
	"apotek/internal/logger"
	"apotek/internal/middleware"
	"apotek/internal/services"

	"github.com/go-chi/chi/v5"
)

type MedicinesHandler struct {
	page
	inventory *services.InventoryService
}

func NewMedicinesHandler(templates TemplateExecutor, sessions *auth.SessionManager, inventory *services.InventoryService, log logger.Logger) *MedicinesHandler {
	return &MedicinesHandler{
		page:      page{templates: templates, sessions: sessions, logger: log},
		inventory: inventory,
	}
}

func (h *MedicinesHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	view, err := h.inventory.ListView(r.Context(), query.Get("search"), query.Get("kategori"))
	if err != nil {
		h.serverError(w, "Failed to list medicines", err, nil)
		return
	}

	h.render(w, r, "index.html", map[string]interface{}{
		"Title":      "Daftar Obat",
		"ActivePage": "obat",
		"Medicines":  view.Medicines,
		"Alerts":     view.Alerts,
		"Categories": view.Categories,
		"Search":     view.Search,
		"Category":   view.Category,
		"Today":      view.Today,
	})
}

func (h *MedicinesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashRedirect(w, r, "danger", "Data formulir tidak valid.", "/obat")
		return
	}

	input, err := services.ParseMedicineForm(r.PostForm)
	if err != nil {
		h.flashRedirect(w, r, "danger", err.Error(), "/obat")
		return
	}

	res, err := h.inventory.Create(r.Context(), middleware.GetUser(r), input)
	if err != nil {
		h.writeFailed(w, r, err, "/obat")
		return
	}

	h.flashRedirect(w, r, "success", fmt.Sprintf("Obat '%s' berhasil ditambahkan.", res.MedicineName), "/obat")
}

func (h *MedicinesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := medicineID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	res, err := h.inventory.Delete(r.Context(), middleware.GetUser(r), id)
	if err != nil {
		h.writeFailed(w, r, err, "/obat")
		return
	}

	h.flashRedirect(w, r, "success", fmt.Sprintf("Obat '%s' berhasil dihapus.", res.MedicineName), "/obat")
}

func (h *MedicinesHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := medicineID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	medicine, err := h.inventory.Get(r.Context(), id)
	if err != nil {
		h.writeFailed(w, r, err, "/obat")
		return
	}

	h.render(w, r, "edit.html", map[string]interface{}{
		"Title":      "Edit Obat",
		"ActivePage": "obat",
		"Medicine":   medicine,
	})
}

func (h *MedicinesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := medicineID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	back := fmt.Sprintf("/edit/%d", id)

	if err := r.ParseForm(); err != nil {
		h.flashRedirect(w, r, "danger", "Data formulir tidak valid.", back)
		return
	}

	input, err := services.ParseMedicineForm(r.PostForm)
	if err != nil {
		h.flashRedirect(w, r, "danger", err.Error(), back)
		return
	}

	res, err := h.inventory.Update(r.Context(), middleware.GetUser(r), id, input)
	if err != nil {
		h.writeFailed(w, r, err, back)
		return
	}

	h.flashRedirect(w, r, "success", fmt.Sprintf("Obat '%s' berhasil diperbarui.", res.MedicineName), "/obat")
}

// writeFailed maps workflow errors to notices; anything else is a 500.
func (h *MedicinesHandler) writeFailed(w http.ResponseWriter, r *http.Request, err error, back string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		h.flashRedirect(w, r, "danger", verr.Error(), back)
	case errors.Is(err, services.ErrMedicineNotFound):
		h.flashRedirect(w, r, "warning", "Obat tidak ditemukan.", "/obat")
	case errors.Is(err, services.ErrUnauthenticated):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		h.serverError(w, "Medicine operation failed", err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
}

func medicineID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
